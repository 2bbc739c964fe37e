package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/goupromo/goupromo-backend/api/responses"
	"github.com/goupromo/goupromo-backend/pkg/config"
	pkgerrors "github.com/goupromo/goupromo-backend/pkg/errors"
	"github.com/goupromo/goupromo-backend/pkg/logger"
	"github.com/goupromo/goupromo-backend/pkg/types"
)

const (
	envHeader    = "X-Goupromo-Env"
	readyTimeout = 2 * time.Second
)

// Pinger is satisfied by the database and redis clients.
type Pinger interface {
	Ping(context.Context) error
}

// Root answers the landing route the first frontend used as a liveness probe.
func Root() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteJSON(w, http.StatusOK, types.MessageBody{Message: "API is running"})
	}
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every wired dependency. A nil pinger is reported as
// disabled and does not fail readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP Pinger, redisP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		checks := map[string]string{}
		var failed error
		for _, dep := range []struct {
			name string
			p    Pinger
		}{{"database", dbP}, {"redis", redisP}} {
			if dep.p == nil {
				checks[dep.name] = "disabled"
				continue
			}
			if err := dep.p.Ping(ctx); err != nil {
				checks[dep.name] = "unavailable"
				if failed == nil {
					failed = pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, dep.name+" ping failed")
				}
				continue
			}
			checks[dep.name] = "ok"
		}

		if failed != nil {
			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithField(ctx, "checks", checks)
			}
			responses.WriteError(ctx, logg, w, failed)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
