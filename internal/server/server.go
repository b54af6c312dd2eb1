// Package server serves a manifest directory over HTTP for local development
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path"
	"time"

	"go.uber.org/zap"
)

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: all interfaces)
	Host string
	// Port is the port to listen on (default: 8000)
	Port string
	// Dir is the directory served at /
	Dir string
	// Logger is the structured logger to use
	Logger *zap.Logger
}

// Server is a static file server with permissive CORS headers
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	dir        string
}

// New creates a new Server with the given configuration.
func New(cfg Config) *Server {
	if cfg.Port == "" {
		cfg.Port = "8000"
	}
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
			Handler:           Handler(cfg.Dir),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: cfg.Logger,
		dir:    cfg.Dir,
	}
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving manifests",
			zap.String("addr", s.httpServer.Addr),
			zap.String("dir", s.dir))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// Handler serves dir with CORS headers and application/json for .json files
func Handler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		if path.Ext(r.URL.Path) == ".json" {
			h.Set("Content-Type", "application/json")
		}
		files.ServeHTTP(w, r)
	})
}
