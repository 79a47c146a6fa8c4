package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/rimae/rimae-backend/pkg/config"
	pkgredis "github.com/rimae/rimae-backend/pkg/redis"
)

func newLimiter(t *testing.T) *pkgredis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := pkgredis.New(context.Background(), config.RedisConfig{URL: "redis://" + mr.Addr()}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func sessionRequest(sessionID string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/coupon", nil)
	return req.WithContext(WithSessionID(req.Context(), sessionID))
}

func TestSessionRateLimitBlocksAfterLimit(t *testing.T) {
	limiter := newLimiter(t)
	policy := NewRateLimitPolicy("coupon_apply", time.Minute, 2)
	handler := SessionRateLimit(policy, limiter, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, sessionRequest("sess-1"))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, sessionRequest("sess-1"))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "60", rec.Header().Get("Retry-After"))
	require.Contains(t, rec.Body.String(), `"RATE_LIMIT_EXCEEDED"`)

	other := httptest.NewRecorder()
	handler.ServeHTTP(other, sessionRequest("sess-2"))
	require.Equal(t, http.StatusOK, other.Code, "sessions are counted separately")
}

func TestSessionRateLimitDisabledPolicy(t *testing.T) {
	calls := 0
	handler := SessionRateLimit(NewRateLimitPolicy("coupon_apply", 0, 0), nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	for i := 0; i < 5; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), sessionRequest("sess-1"))
	}
	require.Equal(t, 5, calls)
}

type failingLimiter struct{}

func (failingLimiter) FixedWindowAllow(context.Context, string, int64, time.Duration) (bool, int64, error) {
	return false, 0, context.DeadlineExceeded
}

func TestSessionRateLimitDependencyError(t *testing.T) {
	handler := SessionRateLimit(NewRateLimitPolicy("coupon_apply", time.Minute, 1), failingLimiter{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run when the limiter fails")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, sessionRequest("sess-1"))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
