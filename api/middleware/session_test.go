package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionKeepsClientValue(t *testing.T) {
	var seen string
	handler := Session(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(SessionHeader, "  browser-123 ")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "browser-123", seen)
	assert.Equal(t, "browser-123", rec.Header().Get(SessionHeader))
}

func TestSessionGeneratesWhenMissingOrInvalid(t *testing.T) {
	cases := map[string]string{
		"missing":   "",
		"too long":  strings.Repeat("a", maxSessionIDLength+1),
		"key chars": "a:b",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			var seen string
			handler := Session(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = SessionIDFromContext(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
			if header != "" {
				req.Header.Set(SessionHeader, header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			_, err := uuid.Parse(seen)
			require.NoError(t, err)
			assert.Equal(t, seen, rec.Header().Get(SessionHeader))
		})
	}
}

type recordedObservation struct {
	method string
	route  string
	status int
}

type fakeObserver struct {
	seen []recordedObservation
}

func (f *fakeObserver) Observe(method, route string, status int, _ time.Duration) {
	f.seen = append(f.seen, recordedObservation{method: method, route: route, status: status})
}

func TestLoggingObservesRoutePattern(t *testing.T) {
	observer := &fakeObserver{}
	handler := Logging(nil, observer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
	}))

	req := requestWithPattern(http.MethodGet, "/api/v1/products/noir", "/api/v1/products/{slug}", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, observer.seen, 1)
	assert.Equal(t, recordedObservation{method: http.MethodGet, route: "/api/v1/products/{slug}", status: http.StatusTeapot}, observer.seen[0])
}

func TestLoggingDefaultsStatusAndUnmatchedRoute(t *testing.T) {
	observer := &fakeObserver{}
	handler := Logging(nil, observer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	require.Len(t, observer.seen, 1)
	assert.Equal(t, http.StatusOK, observer.seen[0].status)
	assert.Equal(t, "unmatched", observer.seen[0].route)
}
