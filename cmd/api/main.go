// Package main is the entry point for the name service.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
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
	"golang.org/x/sync/errgroup"

	"github.com/pkordes/name-service/internal/config"
	"github.com/pkordes/name-service/internal/domain"
	"github.com/pkordes/name-service/internal/handler"
	"github.com/pkordes/name-service/internal/metrics"
	"github.com/pkordes/name-service/internal/middleware"
	"github.com/pkordes/name-service/internal/repo"
	"github.com/pkordes/name-service/internal/worker"
	"github.com/pkordes/name-service/names"
)

// poolLoadTimeout bounds the one-off database read at start-up.
const poolLoadTimeout = 30 * time.Second

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// The default logger writes plain text to stderr at this point.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON lines on stdout, picked up by the platform's log collector.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// run loads the name pool, starts the workers and the HTTP server, and blocks
// until ctx is cancelled or either of them fails.
func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	// --- Name pool --------------------------------------------------------
	pool, err := loadNamePool(ctx, cfg, logger)
	if err != nil {
		return err
	}

	// --- Workers ----------------------------------------------------------
	m := metrics.New(true)
	workers := worker.NewPool(cfg.WorkerCount(), pool,
		worker.WithRecorder(m),
		worker.WithLogger(logger),
	)

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(cfg, logger, m, handler.NewServer(workers, logger)),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Workers get their own context: they must outlive the HTTP server during
	// shutdown so in-flight requests can still be answered.
	workersCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return workers.Run(workersCtx)
	})
	g.Go(func() error {
		logger.Info("server starting", "addr", srv.Addr, "env", cfg.Env, "workers", workers.Size())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		defer stopWorkers()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// loadNamePool returns the pool from Postgres when NAME_POOL_DATABASE_URL is
// set, migrating first only if NAME_POOL_MIGRATE is, otherwise the embedded
// default. An empty pool is a start-up error.
func loadNamePool(ctx context.Context, cfg config.Config, logger *slog.Logger) (domain.NamePool, error) {
	source := "embedded"
	var list []string

	if cfg.NamePoolDatabaseURL != "" {
		source = "postgres"
		loadCtx, cancel := context.WithTimeout(ctx, poolLoadTimeout)
		defer cancel()

		var err error
		list, err = repo.LoadNames(loadCtx, cfg.NamePoolDatabaseURL, cfg.NamePoolMigrate)
		if err != nil {
			return domain.NamePool{}, fmt.Errorf("load name pool: %w", err)
		}
	} else {
		list = names.All()
	}

	pool := domain.NewNamePool(list)
	if pool.Len() == 0 {
		return domain.NamePool{}, fmt.Errorf("load name pool from %s: %w", source, domain.ErrEmptyPool)
	}
	logger.Info("name pool loaded", "source", source, "names", pool.Len())
	return pool, nil
}

// newRouter assembles the middleware chain and mounts the API and /metrics.
//
// Middleware order: RequestID → RealIP → SlogLogger → Recoverer → Metrics →
// CORS → MaxBodySize. The logger sits outside the recoverer so that panics
// are logged with their final 500 status.
func newRouter(cfg config.Config, logger *slog.Logger, m *metrics.Metrics, api *handler.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(middleware.NewRecoverer(logger))
	r.Use(middleware.NewMetrics(m))
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	routes := api.Handler()
	r.NotFound(routes.ServeHTTP)
	r.MethodNotAllowed(routes.ServeHTTP)

	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Mount("/", routes)
	return r
}
