// Package http exposes one sync run's health, live progress, and metrics
// over HTTP, for operators watching a long bulk sync.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Phases of one sync run, in order.
const (
	PhaseStarting    = "starting"
	PhaseFetching    = "fetching"
	PhaseNormalizing = "normalizing"
	PhaseDone        = "done"
)

// Progress is a point-in-time view of the current sync run. Counters only
// ever grow; Phase moves forward through the phase constants.
type Progress struct {
	Phase             string `json:"phase"`
	CatalogSize       int    `json:"catalog_size"`
	Fetched           int    `json:"fetched"`
	FetchFailures     int    `json:"fetch_failures"`
	Normalized        int    `json:"normalized"`
	NormalizeFailures int    `json:"normalize_failures"`
}

// Tracker reports the live progress of the sync run.
type Tracker interface {
	Progress() Progress
}

// Server serves /healthz, /readyz, /statusz, and /metrics for one sync run.
// It is optional; a run without METRICS_ADDR never starts it.
type Server struct {
	httpServer *http.Server
	tracker    Tracker
	logger     *slog.Logger
}

// NewServer creates the status server for a sync run reporting through tracker.
func NewServer(addr string, tracker Tracker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		tracker: tracker,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /statusz", s.handleStatus)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleReady reports not-ready until the startup phase is over, i.e. the
// directory index and remote catalog are built and fetching has begun.
func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	progress := s.tracker.Progress()
	if progress.Phase == PhaseStarting {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"phase":  progress.Phase,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"phase":  progress.Phase,
	})
}

// handleStatus reports the full progress snapshot, so an operator can watch
// a multi-hour sync without grepping logs.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Progress())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort status response
}
