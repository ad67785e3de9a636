// Package server provides the HTTP server implementation
package server

// @title           rubconv API
// @version         1.0
// @description     Converts rubles into other currencies using an upstream rate service.
// @x-skip-model-definitions true
//
// @description.markdown
// All API endpoints except health and swagger are subject to rate limiting:
// * Default rate: 1000 requests per 60 seconds
// * Burst allowance: 50 requests
// * Rate limits are applied per IP address
//
// When rate limit is exceeded:
// * Status code 429 (Too Many Requests) is returned
// * Headers:
//   - X-RateLimit-Limit: Maximum requests allowed
//   - X-RateLimit-Reset: Unix timestamp when the rate limit resets
//   - Retry-After: Seconds to wait before retrying
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Operator bearer token, see `web -issue-token`
//
// @response 429 {object} models.ErrorResponse "Rate limit exceeded"

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"rubconv/internal/config"

	"go.uber.org/zap"
)

// shutdownTimeout is how long outstanding requests get to complete
const shutdownTimeout = 5 * time.Second

// Server represents the HTTP server
type Server struct {
	srv    *http.Server
	logger *zap.Logger
}

// New creates a new server instance
func New(cfg config.APIConfig, handler http.Handler, logger *zap.Logger) (*Server, error) {
	port, err := strconv.Atoi(cfg.Port)
	if err != nil || port < 0 || port > 65535 {
		return nil, fmt.Errorf("invalid port number: %q", cfg.Port)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}, nil
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return s.srv.Addr
}

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.srv.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", zap.String("addr", ln.Addr().String()))
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.logger.Info("Server exiting")
	return nil
}
