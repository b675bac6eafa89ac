package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/globomantics/inventory-backend/api/routes"
	authsvc "github.com/globomantics/inventory-backend/internal/auth"
	"github.com/globomantics/inventory-backend/internal/inventory"
	"github.com/globomantics/inventory-backend/internal/locations"
	"github.com/globomantics/inventory-backend/internal/products"
	"github.com/globomantics/inventory-backend/internal/roles"
	"github.com/globomantics/inventory-backend/internal/users"
	"github.com/globomantics/inventory-backend/pkg/config"
	"github.com/globomantics/inventory-backend/pkg/db"
	"github.com/globomantics/inventory-backend/pkg/logger"
	"github.com/globomantics/inventory-backend/pkg/metrics"
	"github.com/globomantics/inventory-backend/pkg/migrate"
	"github.com/globomantics/inventory-backend/pkg/redis"
	"github.com/joho/godotenv"
	"go.uber.org/multierr"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "redis not configured, login rate limiting disabled")
	}

	httpMetrics := metrics.NewHTTP("api")

	svcs := routes.Services{
		Auth:      authsvc.NewService(dbClient, cfg.JWT, logg),
		Products:  products.NewService(dbClient, logg),
		Locations: locations.NewService(dbClient, logg),
		Inventory: inventory.NewService(dbClient, logg),
		Users:     users.NewService(dbClient, cfg.Password, logg),
		Roles:     roles.NewService(dbClient, logg),
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, httpMetrics, svcs),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var closeErr error
		closeErr = multierr.Append(closeErr, server.Shutdown(shutdownCtx))
		if redisClient != nil {
			closeErr = multierr.Append(closeErr, redisClient.Close())
		}
		closeErr = multierr.Append(closeErr, dbClient.Close())

		if closeErr != nil {
			logg.Error(ctx, "errors during shutdown", closeErr)
			os.Exit(1)
		}
		logg.Info(ctx, "shutdown complete")
	}
}
