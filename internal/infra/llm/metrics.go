package llm

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsRecorder records completion outcomes.
type MetricsRecorder interface {
	RecordRequest(provider, status string, duration time.Duration)
	RecordTokens(provider string, input, output int)
}

// PrometheusMetrics is the process-wide MetricsRecorder.
type PrometheusMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	tokens   *prometheus.CounterVec
}

var (
	metricsInstance *PrometheusMetrics
	metricsOnce     sync.Once
)

func getOrCreateCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
	}
	return c
}

func getOrCreateHistogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(opts, labels)
	if err := prometheus.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.HistogramVec)
		}
	}
	return h
}

// NewPrometheusMetrics returns the shared recorder, registering it on first use.
func NewPrometheusMetrics() *PrometheusMetrics {
	metricsOnce.Do(func() {
		metricsInstance = &PrometheusMetrics{
			requests: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "menu_completion_requests_total",
				Help: "Completion requests by provider and final status",
			}, []string{"provider", "status"}),
			duration: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "menu_completion_duration_seconds",
				Help:    "Time to obtain a completion, retries included",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			}, []string{"provider"}),
			tokens: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "menu_completion_tokens_total",
				Help: "Tokens consumed by provider and direction",
			}, []string{"provider", "direction"}),
		}
	})
	return metricsInstance
}

// RecordRequest implements MetricsRecorder.
func (m *PrometheusMetrics) RecordRequest(provider, status string, duration time.Duration) {
	m.requests.WithLabelValues(provider, status).Inc()
	m.duration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordTokens implements MetricsRecorder.
func (m *PrometheusMetrics) RecordTokens(provider string, input, output int) {
	m.tokens.WithLabelValues(provider, "input").Add(float64(input))
	m.tokens.WithLabelValues(provider, "output").Add(float64(output))
}
