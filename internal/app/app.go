// Package app wires configuration, storage, seeding and the HTTP server
// into a runnable todo service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/todo/internal/api"
	"github.com/mmynk/todo/internal/config"
	"github.com/mmynk/todo/internal/metrics"
	"github.com/mmynk/todo/internal/seed"
	"github.com/mmynk/todo/internal/service"
	"github.com/mmynk/todo/internal/storage"
	"github.com/mmynk/todo/internal/storage/postgres"
	"github.com/mmynk/todo/internal/storage/sqlite"
	"github.com/mmynk/todo/internal/storage/sqlstore"
)

// OpenStore opens the repository selected by cfg.Database.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig) (storage.TodoRepository, error) {
	var (
		store *sqlstore.Store
		err   error
	)

	switch cfg.Driver {
	case config.DriverSQLite:
		store, err = sqlite.New(cfg.Path)
	case config.DriverPostgres:
		store, err = postgres.New(ctx, cfg.URL, postgres.PoolConfig{
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.ConnMaxIdleTime,
		})
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	return store, nil
}

// Seed runs a seed strategy against store and records the inserted
// samples in m.
func Seed(ctx context.Context, store storage.TodoRepository, m *metrics.Metrics, strategy seed.Strategy) error {
	runner := seed.NewRunner(store)
	runner.OnSeeded = func(n int) { m.TodosSeeded.Add(float64(n)) }

	_, err := runner.Run(ctx, strategy)
	return err
}

// Server is a configured todo HTTP server.
type Server struct {
	cfg  *config.Config
	http *http.Server
}

// NewServer builds the HTTP server over an open store.
func NewServer(cfg *config.Config, store storage.TodoRepository, m *metrics.Metrics) *Server {
	svc := service.NewTodoService(store, m)
	handler := api.NewHandler(svc, m, cfg.Server.BasePath)

	return &Server{
		cfg: cfg,
		http: &http.Server{
			Addr: cfg.Addr(),
			// Wrap with h2c for HTTP/2 without TLS
			Handler:      h2c.NewHandler(handler, &http2.Server{}),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
	}
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully, waiting at most the configured shutdown timeout for in-flight
// requests.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting",
			"address", ln.Addr().String(),
			"base_path", s.cfg.Server.BasePath,
			"profile", s.cfg.Profile,
		)
		errCh <- s.http.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down", "timeout", s.cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}

	slog.Info("Server stopped")
	return nil
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Run opens the store, seeds it according to the profile and serves HTTP
// until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config) error {
	store, err := OpenStore(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "driver", cfg.Database.Driver)

	m := metrics.New()

	strategy := cfg.SeedStrategy()
	slog.Info("Seed strategy selected", "profile", cfg.Profile, "strategy", strategy.String())
	if err := Seed(ctx, store, m, strategy); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	return NewServer(cfg, store, m).ListenAndServe(ctx)
}
