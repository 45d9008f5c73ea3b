// Package server provides the HTTP surface of the redaction pipeline:
// direct image uploads, storage-event submissions, health and metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MeKo-Tech/phiredact/internal/pipeline"
	"github.com/MeKo-Tech/phiredact/internal/storage"
)

// NewServer creates a server around an already-built orchestrator. The
// store must be the same one the orchestrator reads from, so uploaded
// images are visible to the pipeline.
func NewServer(orch *pipeline.Orchestrator, store storage.ObjectStore, cfg Config) (*Server, error) {
	if orch == nil {
		return nil, errors.New("orchestrator is required")
	}
	if store == nil {
		return nil, errors.New("object store is required")
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 25
	}
	if cfg.UploadBucket == "" {
		cfg.UploadBucket = "uploads"
	}
	if cfg.UploadPrefix == "" {
		cfg.UploadPrefix = orch.Config().Rewrite.FromPrefix
	}
	return &Server{orchestrator: orch, store: store, cfg: cfg}, nil
}

// Routes returns the HTTP handler with all endpoints registered.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.withMetrics(s.healthHandler))
	mux.HandleFunc("/redact", s.withMetrics(s.redactHandler))
	mux.HandleFunc("/events", s.withMetrics(s.eventsHandler))
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Start runs the server until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	timeout := time.Duration(s.cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownTimeout := time.Duration(s.cfg.ShutdownTimeout) * time.Second
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	slog.Info("server shutting down")
	return srv.Shutdown(shutdownCtx)
}
