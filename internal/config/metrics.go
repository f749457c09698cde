package config

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// FallbacksTotal counts environment values replaced by their default.
var FallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "menu_config_fallbacks_total",
		Help: "Total number of configuration values that fell back to their default",
	},
	[]string{"key"},
)

func recordFallback(key string) {
	FallbacksTotal.WithLabelValues(key).Inc()
}
