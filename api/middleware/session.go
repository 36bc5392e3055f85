package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/sportiva/storefront-api/pkg/logger"
)

const sessionIDHeader = "X-Session-Id"

// Session resolves the shopper session from the X-Session-Id header, minting
// a fresh identifier for first-time visitors. The resolved id is echoed back
// on the response so clients can persist it.
func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := r.Header.Get(sessionIDHeader)
			if sessionID == "" || uuid.Validate(sessionID) != nil {
				sessionID = uuid.NewString()
			}

			w.Header().Set(sessionIDHeader, sessionID)

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
