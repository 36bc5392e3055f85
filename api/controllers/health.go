package controllers

import (
	"context"
	"net/http"

	"github.com/sportiva/storefront-api/api/responses"
	"github.com/sportiva/storefront-api/pkg/config"
	pkgerrors "github.com/sportiva/storefront-api/pkg/errors"
	"github.com/sportiva/storefront-api/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the backing stores answer. Nil pingers
// are skipped so dev setups without redis stay green.
func HealthReady(cfg *config.Config, logg *logger.Logger, pingers ...pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		for _, p := range pingers {
			if p == nil {
				continue
			}
			if err := p.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "backing store unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
