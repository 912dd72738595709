// Package server runs an http.Handler with the configured timeouts and shuts
// it down gracefully when the run context is cancelled.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/kart-io/logger"
)

// Server is a gracefully stoppable HTTP server.
type Server struct {
	opts   *Options
	server *http.Server

	mu       sync.Mutex
	listener net.Listener
}

// New creates a Server serving handler.
func New(opts *Options, handler http.Handler) *Server {
	if opts == nil {
		opts = NewOptions()
	}
	return &Server{
		opts: opts,
		server: &http.Server{
			Addr:         opts.Addr,
			Handler:      handler,
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
			IdleTimeout:  opts.IdleTimeout,
		},
	}
}

// Name returns the server name.
func (s *Server) Name() string {
	return "http"
}

// Addr returns the bound address once the server is listening, otherwise the configured one.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.opts.Addr
}

// Start binds the listener and serves in the background. Bind errors are
// returned synchronously.
func (s *Server) Start(_ context.Context) (<-chan error, error) {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", s.opts.Addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	logger.Infow("HTTP server started", "addr", ln.Addr().String())
	return errCh, nil
}

// Stop stops the HTTP server gracefully.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run serves until ctx is cancelled or the server fails, then shuts down
// within ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	errCh, err := s.Start(ctx)
	if err != nil {
		return err
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("HTTP server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := s.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	logger.Info("HTTP server stopped")
	return nil
}
