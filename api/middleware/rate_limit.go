package middleware

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/sportiva/storefront-api/api/responses"
	"github.com/sportiva/storefront-api/pkg/config"
	pkgerrors "github.com/sportiva/storefront-api/pkg/errors"
	"github.com/sportiva/storefront-api/pkg/logger"
)

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimit rejects requests exceeding the fixed-window budget. The budget
// is tracked per session and per remote host; the host scope keeps a client
// from resetting its budget by rotating session ids. A limiter outage fails
// open so the storefront keeps selling.
func RateLimit(limiter rateLimiter, cfg config.RateLimitConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || cfg.Limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()

			host := remoteHost(r)
			if cfg.HostLimit > 0 && !allow(ctx, limiter, "host:"+host, cfg.HostLimit, cfg.Window, logg) {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many requests"))
				return
			}

			scope := SessionIDFromContext(ctx)
			if scope == "" {
				scope = host
			}
			if !allow(ctx, limiter, "session:"+scope, cfg.Limit, cfg.Window, logg) {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many requests"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func allow(ctx context.Context, limiter rateLimiter, scope string, limit int64, window time.Duration, logg *logger.Logger) bool {
	allowed, _, err := limiter.FixedWindowAllow(ctx, scope, limit, window)
	if err != nil {
		if logg != nil {
			logg.Warn(ctx, "rate limiter unavailable, allowing request")
		}
		return true
	}
	return allowed
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
