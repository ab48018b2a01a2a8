// Package server собирает HTTP сервер эталонного Remote API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iudanet/dashsync/internal/server/config"
	"github.com/iudanet/dashsync/internal/server/handlers"
	"github.com/iudanet/dashsync/internal/server/jwt"
	"github.com/iudanet/dashsync/internal/server/middleware"
	"github.com/iudanet/dashsync/internal/server/storage"
	"github.com/iudanet/dashsync/pkg/api"
)

const shutdownTimeout = 15 * time.Second

// Server wraps the HTTP server with the rate limiter it owns
type Server struct {
	http    *http.Server
	limiter *middleware.RateLimiter
	logger  *slog.Logger
}

// New builds the router and the HTTP server. Authentication is enabled
// when cfg carries a JWT secret.
func New(cfg config.Config, st storage.RecordStorage, logger *slog.Logger) (*Server, error) {
	var validator middleware.TokenValidator
	if cfg.AuthEnabled() {
		svc, err := jwt.NewService(cfg.JWTSecret, cfg.TokenTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to create token service: %w", err)
		}
		validator = svc
	} else {
		logger.Warn("JWT_SECRET is empty, device authentication is disabled")
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow, logger)

	return &Server{
		http: &http.Server{
			Addr:              cfg.HTTPAddress,
			Handler:           NewHandler(st, validator, limiter, logger),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		limiter: limiter,
		logger:  logger,
	}, nil
}

// NewHandler assembles routes and middleware. A nil validator disables authentication.
//
// Порядок: logging -> recovery -> mux -> auth -> rate limit -> handler.
// Logging оборачивает mux напрямую, чтобы видеть шаблон маршрута.
func NewHandler(st storage.RecordStorage, validator middleware.TokenValidator, limiter *middleware.RateLimiter, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	health := handlers.NewHealthHandler(logger, st)
	mux.HandleFunc("GET "+api.HealthPath, health.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	rateLimit := middleware.RateLimitMiddleware(limiter, logger)
	protect := rateLimit
	if validator != nil {
		auth := middleware.AuthMiddleware(logger, validator)
		protect = func(next http.Handler) http.Handler {
			return auth(rateLimit(next))
		}
	}

	handlers.NewRecordsHandler(logger, st).RegisterRoutes(mux, protect)

	skip := []string{api.HealthPath, "/metrics"}
	return middleware.LoggingWithSkip(logger, skip)(middleware.RecoveryMiddleware(logger)(mux))
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run serves on the configured address until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.limiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", "addr", ln.Addr().String())
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	return nil
}
