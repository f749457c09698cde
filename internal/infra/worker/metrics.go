package worker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Job run outcomes.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// WorkerMetrics are the Prometheus metrics of scheduled pipeline runs.
//
//   - menu_worker_job_runs_total{status}
//   - menu_worker_job_duration_seconds
//   - menu_worker_stage_duration_seconds{stage,status}
//   - menu_worker_last_success_timestamp
//   - menu_worker_config_fallbacks_total{field}
//   - menu_worker_config_fallback_active
type WorkerMetrics struct {
	JobRunsTotal         *prometheus.CounterVec
	JobDurationSeconds   prometheus.Histogram
	StageDurationSeconds *prometheus.HistogramVec
	LastSuccessTimestamp prometheus.Gauge
	ConfigFallbacksTotal *prometheus.CounterVec
	ConfigFallbackActive prometheus.Gauge
}

// NewWorkerMetrics creates the metrics and registers them on reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewWorkerMetrics(reg prometheus.Registerer) *WorkerMetrics {
	factory := promauto.With(reg)
	return &WorkerMetrics{
		JobRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "menu_worker_job_runs_total",
			Help: "Total number of scheduled pipeline runs by status",
		}, []string{"status"}),

		// 10s .. 30m: a run is dominated by the completion call.
		JobDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "menu_worker_job_duration_seconds",
			Help:    "Duration of scheduled pipeline runs in seconds",
			Buckets: []float64{10, 30, 60, 120, 300, 600, 1800},
		}),

		StageDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "menu_worker_stage_duration_seconds",
			Help:    "Duration of each pipeline stage in seconds",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 12),
		}, []string{"stage", "status"}),

		LastSuccessTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "menu_worker_last_success_timestamp",
			Help: "Unix timestamp of the last successful pipeline run",
		}),

		ConfigFallbacksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "menu_worker_config_fallbacks_total",
			Help: "Worker configuration values replaced by their default",
		}, []string{"field"}),

		ConfigFallbackActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "menu_worker_config_fallback_active",
			Help: "1 if any worker configuration fallback is active",
		}),
	}
}

// RecordJobRun counts one run with the given status.
func (m *WorkerMetrics) RecordJobRun(status string, d time.Duration) {
	m.JobRunsTotal.WithLabelValues(status).Inc()
	m.JobDurationSeconds.Observe(d.Seconds())
	if status == StatusSuccess {
		m.LastSuccessTimestamp.SetToCurrentTime()
	}
}

// RecordStage observes the duration of one pipeline stage.
func (m *WorkerMetrics) RecordStage(stage, status string, d time.Duration) {
	m.StageDurationSeconds.WithLabelValues(stage, status).Observe(d.Seconds())
}

// RecordConfigFallback counts a configuration value that fell back to its default.
func (m *WorkerMetrics) RecordConfigFallback(field string) {
	m.ConfigFallbacksTotal.WithLabelValues(field).Inc()
}

// SetFallbackActive exposes whether any configuration fallback is in effect.
func (m *WorkerMetrics) SetFallbackActive(active bool) {
	if active {
		m.ConfigFallbackActive.Set(1)
		return
	}
	m.ConfigFallbackActive.Set(0)
}
