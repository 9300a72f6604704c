package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/custodia-labs/medagent/internal/core/domain"
	"github.com/custodia-labs/medagent/internal/logger"
)

// Server serves the API on a TCP listener.
type Server struct {
	mu       sync.Mutex
	settings domain.ServerSettings
	server   *http.Server
	listener net.Listener
}

// NewServer creates a server for the given ports.
func NewServer(ports *Ports, settings domain.ServerSettings) (*Server, error) {
	handler, err := NewHandler(ports)
	if err != nil {
		return nil, err
	}

	return &Server{
		settings: settings,
		server: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: settings.ReadTimeout,
			ReadTimeout:       settings.ReadTimeout,
			WriteTimeout:      settings.WriteTimeout,
		},
	}, nil
}

// Listen binds the configured address. Port 0 picks a free port.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	listener, err := net.Listen("tcp", s.settings.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.settings.Addr, err)
	}
	s.listener = listener
	return nil
}

// Addr returns the bound address, or the configured one before Listen.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.settings.Addr
}

// Run serves until ctx is cancelled, then shuts down gracefully within
// the configured shutdown timeout. It calls Listen if needed.
func (s *Server) Run(ctx context.Context) error {
	s.mu.Lock()
	bound := s.listener != nil
	s.mu.Unlock()
	if !bound {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	logger.Always("Application is running on: http://%s", displayAddr(s.Addr()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(s.listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.settings.ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// displayAddr turns ":3000" or "[::]:3000" into "localhost:3000".
func displayAddr(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	if host == "" || host == "::" || host == "0.0.0.0" {
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}
