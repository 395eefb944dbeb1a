// Package server owns HTTP server initialization and lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Config holds HTTP server configuration.
type Config struct {
	Host        string
	Port        int
	ReadTimeout time.Duration
	// WriteTimeout must stay zero when the handler serves SSE streams;
	// a deadline would cut long-lived event connections.
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns default HTTP server configuration.
func DefaultConfig() Config {
	return Config{
		Host:        "0.0.0.0",
		Port:        8000,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
}

// Server wraps an http.Server around a handler.
type Server struct {
	http *http.Server
}

// New creates an HTTP server serving handler at config's address.
func New(handler http.Handler, config Config) *Server {
	return &Server{
		http: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
			Handler:      handler,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
	}
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.http.Addr
}

// Start runs the server and blocks until it stops. A shutdown-initiated
// stop is not an error.
func (s *Server) Start() error {
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
