// Package main is the entry point for the trip tracker API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/triptracker/backend/internal/auth"
	"github.com/pkordes/triptracker/backend/internal/config"
	"github.com/pkordes/triptracker/backend/internal/handler"
	"github.com/pkordes/triptracker/backend/internal/logging"
	"github.com/pkordes/triptracker/backend/internal/middleware"
	"github.com/pkordes/triptracker/backend/internal/repo"
	"github.com/pkordes/triptracker/backend/internal/repo/memory"
	"github.com/pkordes/triptracker/backend/internal/service"
	"github.com/pkordes/triptracker/backend/migrations"
	"github.com/pkordes/triptracker/backend/openapi"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use the default logger before ours is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	// --- Storage ----------------------------------------------------------
	trips, users, closeStore, err := openStore(context.Background(), cfg, logger)
	if err != nil {
		slog.Error("failed to open store", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// --- Services ---------------------------------------------------------
	authz, err := auth.NewAuthorizer()
	if err != nil {
		slog.Error("failed to build authorizer", "error", err)
		os.Exit(1)
	}
	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	srv := handler.NewServer(
		service.NewTripService(trips, logger),
		service.NewUserService(users),
		service.NewExportService(trips),
		tokens,
		authz,
		logger,
	).WithAuthThrottle(middleware.NewRateLimiter(cfg.AuthRatePerMinute, cfg.AuthRatePerMinute/2+1, 10*time.Minute).Handler)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Metrics →
	// Recoverer → CORS → MaxBodySize. The /auth routes are also rate limited per IP.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(middleware.Metrics)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/openapi.yaml", openapi.Handler)
	r.Mount("/", srv.Routes(middleware.Authenticate(tokens)))

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr, "backend", cfg.StorageBackend)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openStore builds the repos for the configured backend. The returned func
// releases whatever the backend holds open.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (repo.TripRepo, repo.UserRepo, func(), error) {
	if cfg.StorageBackend == config.BackendMemory {
		log.Warn("using in-memory store; data is lost on exit")
		store := memory.NewStore()
		return store.Trips(), store.Users(), func() {}, nil
	}

	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("ping: %w", err)
	}
	log.Info("database connection established")

	if cfg.MigrateOnStart {
		if err := migrate(ctx, cfg.DatabaseURL, log); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
	}

	return repo.NewTripRepo(pool), repo.NewUserRepo(pool), pool.Close, nil
}

// migrate applies pending goose migrations over a short-lived database/sql
// connection; goose does not speak pgx natively.
func migrate(ctx context.Context, dsn string, log *slog.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("migrate: open: %w", err)
	}
	defer db.Close()

	provider, err := migrations.NewProvider(db)
	if err != nil {
		return err
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	for _, res := range results {
		log.Info("migration applied", "version", res.Source.Version, "duration_ms", res.Duration.Milliseconds())
	}
	return nil
}
