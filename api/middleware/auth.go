package middleware

import (
	"net/http"
	"strings"

	"github.com/sportiva/storefront-api/api/responses"
	"github.com/sportiva/storefront-api/pkg/auth"
	"github.com/sportiva/storefront-api/pkg/config"
	pkgerrors "github.com/sportiva/storefront-api/pkg/errors"
	"github.com/sportiva/storefront-api/pkg/logger"
)

// OptionalAuth resolves the buyer identity from a Bearer token when one is
// presented. Requests without a token proceed anonymously; a malformed or
// expired token is rejected rather than silently downgraded.
func OptionalAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := strings.TrimSpace(r.Header.Get("Authorization"))
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token := header
			if strings.HasPrefix(strings.ToLower(header), "bearer ") {
				token = strings.TrimSpace(header[7:])
			}

			claims, err := auth.ParseBuyerToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid access token"))
				return
			}

			ctx := WithBuyerID(r.Context(), claims.BuyerID)
			if logg != nil {
				ctx = logg.WithBuyerID(ctx, claims.BuyerID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
