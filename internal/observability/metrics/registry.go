package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline metrics
var (
	// IntakeFetchTotal counts intake lookups by result
	// (exact, fallback, absent, invalid, error).
	IntakeFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menu_intake_fetch_total",
			Help: "Intake lookups in the preference store by result",
		},
		[]string{"result"},
	)

	// MenusGeneratedTotal counts generated menus by provider and settings source.
	MenusGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menu_generated_total",
			Help: "Generated menus by provider and whether intake was used",
		},
		[]string{"provider", "settings"},
	)

	// PagesPublishedTotal counts page creations by status.
	PagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menu_pages_published_total",
			Help: "Menu pages created in the document store by status",
		},
		[]string{"status"},
	)

	// PageBlocks observes the number of body blocks of each published page.
	PageBlocks = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "menu_page_blocks",
			Help:    "Body blocks per published menu page",
			Buckets: []float64{10, 25, 50, 100, 200, 400},
		},
	)

	// PagesRetiredTotal counts pages taken out of service by reason and status.
	// reason is "replaced" for same-week pages trashed before a publish and
	// "expired" for pages past retention.
	PagesRetiredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menu_pages_retired_total",
			Help: "Menu pages archived by reason and status",
		},
		[]string{"reason", "status"},
	)

	// NotificationsTotal counts publish notifications by status.
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menu_notifications_total",
			Help: "Publish notifications by status",
		},
		[]string{"status"},
	)

	// OperationDuration measures use case durations.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "menu_operation_duration_seconds",
			Help:    "Use case duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 14),
		},
		[]string{"operation"},
	)
)

// RecordOperationDuration records the duration of one use case.
func RecordOperationDuration(operation string, duration time.Duration) {
	OperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
