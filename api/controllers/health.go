package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/globomantics/inventory-backend/api/responses"
	"github.com/globomantics/inventory-backend/pkg/config"
	"github.com/globomantics/inventory-backend/pkg/db"
	pkgerrors "github.com/globomantics/inventory-backend/pkg/errors"
	"github.com/globomantics/inventory-backend/pkg/logger"
	"github.com/globomantics/inventory-backend/pkg/redis"
)

const readyProbeTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Globomantics-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness by pinging the datasources. Redis is optional;
// when it is not wired the probe only covers the database.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyProbeTimeout)
		defer cancel()

		w.Header().Set("X-Globomantics-Env", cfg.App.Env)

		checks := map[string]string{}

		if err := dbP.Ping(ctx); err != nil {
			checks["database"] = "down"
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable").WithDetails(checks))
			return
		}
		checks["database"] = "up"

		if redisClient != nil {
			if err := redisClient.Ping(ctx); err != nil {
				checks["redis"] = "down"
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable").WithDetails(checks))
				return
			}
			checks["redis"] = "up"
		}

		checks["status"] = "ready"
		responses.WriteSuccess(w, checks)
	}
}
