package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// RunInfo describes the most recent pipeline run.
type RunInfo struct {
	RunID      string    `json:"run_id"`
	Status     string    `json:"status"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Error      string    `json:"error,omitempty"`
}

// HealthServer serves the worker's probes:
//   - GET /health: liveness, always 200
//   - GET /health/ready: 200 once SetReady(true) was called, else 503
//   - GET /health/last-run: the latest RunInfo, 204 before the first run
type HealthServer struct {
	addr    string
	logger  *slog.Logger
	isReady atomic.Bool

	mu      sync.RWMutex
	lastRun *RunInfo
}

type healthResponse struct {
	Status string `json:"status"`
}

// NewHealthServer creates a health server listening on addr. It starts not ready.
func NewHealthServer(addr string, logger *slog.Logger) *HealthServer {
	return &HealthServer{addr: addr, logger: logger}
}

// Handler returns the probe routes.
func (h *HealthServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.handleLiveness)
	mux.HandleFunc("GET /health/ready", h.handleReadiness)
	mux.HandleFunc("GET /health/last-run", h.handleLastRun)
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully and
// returns http.ErrServerClosed.
func (h *HealthServer) Start(ctx context.Context) error {
	return serve(ctx, "health", h.addr, h.Handler(), h.logger)
}

// SetReady changes the readiness state.
func (h *HealthServer) SetReady(ready bool) {
	h.isReady.Store(ready)
	h.logger.Info("health server readiness changed", slog.Bool("ready", ready))
}

// RecordRun stores info as the latest run.
func (h *HealthServer) RecordRun(info RunInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastRun = &info
}

func (h *HealthServer) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (h *HealthServer) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	if h.isReady.Load() {
		h.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
		return
	}
	h.writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "not ready"})
}

func (h *HealthServer) handleLastRun(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	info := h.lastRun
	h.mu.RUnlock()

	if info == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.writeJSON(w, http.StatusOK, info)
}

func (h *HealthServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode health response", slog.Any("error", err))
	}
}

// MetricsServer exposes a Prometheus gatherer on /metrics.
type MetricsServer struct {
	addr     string
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// NewMetricsServer creates a metrics server for gatherer.
func NewMetricsServer(addr string, gatherer prometheus.Gatherer, logger *slog.Logger) *MetricsServer {
	return &MetricsServer{addr: addr, gatherer: gatherer, logger: logger}
}

// Handler returns the /metrics route.
func (m *MetricsServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully and
// returns http.ErrServerClosed.
func (m *MetricsServer) Start(ctx context.Context) error {
	return serve(ctx, "metrics", m.addr, m.Handler(), m.logger)
}

func serve(ctx context.Context, name, addr string, handler http.Handler, logger *slog.Logger) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info(name+" server starting", slog.String("addr", addr))
		errChan <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Info(name + " server shutting down")
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error(name+" server shutdown failed", slog.Any("error", err))
			return err
		}
		logger.Info(name + " server stopped")
		return http.ErrServerClosed

	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error(name+" server failed", slog.Any("error", err))
		}
		return err
	}
}
