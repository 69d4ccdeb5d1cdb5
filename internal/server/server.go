// Package server is the HTTP exporter: it serves the latest snapshot as
// JSON and as Prometheus metrics.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/haskel/monix/internal/config"
	"github.com/haskel/monix/internal/sampler"
	"github.com/haskel/monix/internal/server/middleware"
)

// SnapshotSource provides the most recently published snapshot, or nil
// before the first cycle.
type SnapshotSource interface {
	Latest() *sampler.Snapshot
}

type Server struct {
	httpServer *http.Server
	snapshots  SnapshotSource
	metrics    *Metrics
	config     *config.Config
	logger     *slog.Logger
	version    string
	authConfig *middleware.AuthConfig
	startedAt  time.Time
}

func New(cfg *config.Config, snapshots SnapshotSource, logger *slog.Logger, version string) *Server {
	s := &Server{
		snapshots:  snapshots,
		metrics:    NewMetrics(),
		config:     cfg,
		logger:     logger,
		version:    version,
		authConfig: middleware.NewAuthConfig(cfg.Auth.Enabled, cfg.Auth.User, cfg.Auth.Password),
		startedAt:  time.Now(),
	}

	mux := s.setupRoutes()

	handler := middleware.Chain(
		mux,
		middleware.Recovery(logger),
		middleware.SecurityHeaders(),
		middleware.Logging(logger, "/metrics", "/health"),
		middleware.RateLimit(middleware.RateLimitConfig{
			Enabled:           cfg.Server.RateLimit.Enabled,
			RequestsPerSecond: cfg.Server.RateLimit.RequestsPerSecond,
			Burst:             cfg.Server.RateLimit.Burst,
		}),
		middleware.Auth(s.authConfig, "/health"), // Exclude /health from auth
	)

	s.httpServer = &http.Server{
		Addr:         cfg.Address(),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// ReloadConfig applies the settings that can change at runtime.
// Host, port and rate limits require a restart.
func (s *Server) ReloadConfig(cfg *config.Config) {
	s.logger.Info("reloading configuration")

	s.authConfig.Update(cfg.Auth.Enabled, cfg.Auth.User, cfg.Auth.Password)

	s.logger.Info("configuration reloaded",
		"auth_enabled", cfg.Auth.Enabled,
	)
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve serves on ln until Shutdown. It returns nil after a graceful
// shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("server starting",
		"addr", ln.Addr().String(),
	)
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
