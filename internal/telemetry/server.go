// Package telemetry serves a read-only view of the simulation for debugging:
// a JSON snapshot, a health probe and Prometheus metrics.
package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iburimskiy/hand-particles/internal/logging"
	"github.com/iburimskiy/hand-particles/internal/sim"
)

const shutdownTimeout = 5 * time.Second

// SnapshotSource is polled on every request. sim.Driver implements it.
type SnapshotSource interface {
	Snapshot() sim.Snapshot
}

// Report is the /telemetry response body.
type Report struct {
	sim.Snapshot
	FPS float64 `json:"fps"`
}

// NewHandler builds the router. fps may be nil when no host reports it.
func NewHandler(src SnapshotSource, fps func() float64) http.Handler {
	if fps == nil {
		fps = func() float64 { return 0 }
	}
	reg := NewRegistry(src, fps)

	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})
	r.Get("/telemetry", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, Report{Snapshot: src.Snapshot(), FPS: fps()})
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Server runs the telemetry handler until its context is canceled.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

func NewServer(addr string, handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("telemetry server listening", "addr", s.srv.Addr)
		serverErrors <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("telemetry shutdown incomplete", "error", err)
			return s.srv.Close()
		}
		s.logger.Info("telemetry server stopped")
		return nil
	}
}
