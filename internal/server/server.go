// Package server exposes project generation over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/diagram-to-project/generator/internal/history"
	"github.com/diagram-to-project/generator/internal/project"
)

// RunLister lists recorded generation runs.
type RunLister interface {
	List(limit int) ([]history.Run, error)
}

// Options configures a Server.
type Options struct {
	Addr string
	// Defaults is applied to every generation; the project name comes from the URL.
	Defaults project.Options
	// Runs backs GET /api/runs; nil disables the endpoint.
	Runs RunLister
	// MaxBody caps request bodies in bytes. Zero uses DefaultMaxBody.
	MaxBody int64
}

// DefaultMaxBody is the request body limit when Options.MaxBody is zero.
const DefaultMaxBody = 4 << 20

// Server represents the HTTP API server
type Server struct {
	router    *http.ServeMux
	server    *http.Server
	opts      Options
	log       *slog.Logger
	assembler *project.Assembler
	locks     *project.Locker
}

// New creates a server that generates projects with a.
func New(a *project.Assembler, opts Options, log *slog.Logger) *Server {
	if opts.MaxBody <= 0 {
		opts.MaxBody = DefaultMaxBody
	}
	s := &Server{
		router:    http.NewServeMux(),
		opts:      opts,
		log:       log,
		assembler: a,
		locks:     project.NewLocker(),
	}
	s.registerRoutes()

	s.server = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.applyMiddleware(s.router),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("starting HTTP server", "addr", s.opts.Addr, "output_root", s.opts.Defaults.OutputRoot)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.server.Handler.ServeHTTP(w, r)
}

func (s *Server) applyMiddleware(h http.Handler) http.Handler {
	h = recoveryMiddleware(s.log)(h)
	h = loggingMiddleware(s.log)(h)
	h = requestIDMiddleware()(h)
	return h
}
