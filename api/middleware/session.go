package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/rimae/rimae-backend/pkg/logger"
)

// SessionHeader carries the opaque storefront session. Clients keep the
// echoed value and send it back on later requests.
const SessionHeader = "X-Session-Id"

const maxSessionIDLength = 128

func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(SessionHeader))
			if sessionID == "" || len(sessionID) > maxSessionIDLength || strings.ContainsAny(sessionID, ": \t") {
				sessionID = uuid.NewString()
			}

			w.Header().Set(SessionHeader, sessionID)

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
