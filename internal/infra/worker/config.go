// Package worker holds the scheduled-run infrastructure of the menu pipeline:
// cron and timeout configuration, job metrics and the health endpoints.
package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"weekly-menu/internal/config"
)

// WorkerConfig controls when and how long the scheduled pipeline runs.
//
// Environment variables:
//   - CRON_SCHEDULE: five-field cron expression (default "0 6 * * 0", Sunday 06:00)
//   - WORKER_TIMEZONE: IANA time zone of the schedule (default "Asia/Tokyo")
//   - PIPELINE_TIMEOUT: upper bound for one pipeline run, 1m-2h (default 15m)
//   - WORKER_HEALTH_PORT: health server port, 1024-65535 (default 9091)
//   - METRICS_PORT: Prometheus endpoint port, 1024-65535 (default 9090)
type WorkerConfig struct {
	CronSchedule    string
	Timezone        string
	PipelineTimeout time.Duration
	HealthPort      int
	MetricsPort     int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:    "0 6 * * 0",
		Timezone:        "Asia/Tokyo",
		PipelineTimeout: 15 * time.Minute,
		HealthPort:      9091,
		MetricsPort:     9090,
	}
}

const (
	minPipelineTimeout = time.Minute
	maxPipelineTimeout = 2 * time.Hour
)

func validatePipelineTimeout(d time.Duration) error {
	if d < minPipelineTimeout || d > maxPipelineTimeout {
		return fmt.Errorf("duration %v out of range [%v, %v]", d, minPipelineTimeout, maxPipelineTimeout)
	}
	return nil
}

func validatePort(p int) error {
	return config.ValidateIntRange(p, 1024, 65535)
}

// Validate checks every field and reports all failures at once.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := validatePipelineTimeout(c.PipelineTimeout); err != nil {
		errs = append(errs, fmt.Errorf("pipeline timeout: %w", err))
	}
	if err := validatePort(c.HealthPort); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if err := validatePort(c.MetricsPort); err != nil {
		errs = append(errs, fmt.Errorf("metrics port: %w", err))
	}
	if c.HealthPort == c.MetricsPort {
		errs = append(errs, fmt.Errorf("health port and metrics port must differ, both are %d", c.HealthPort))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// Location loads the schedule time zone.
func (c *WorkerConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// LoadConfigFromEnv reads the worker configuration. It is fail-open: an invalid
// value is replaced by its default, a warning is logged and the fallback is
// counted in metrics. The returned config is always valid.
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) *WorkerConfig {
	cfg := DefaultConfig()
	fallbackActive := false

	track := func(field string, warnings []string, applied bool) {
		if !applied {
			return
		}
		fallbackActive = true
		if metrics != nil {
			metrics.RecordConfigFallback(field)
		}
		for _, w := range warnings {
			logger.Warn("configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", w))
		}
	}

	schedule := config.LoadEnvWithFallback("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = schedule.Value
	track("cron_schedule", schedule.Warnings, schedule.FallbackApplied)

	tz := config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = tz.Value
	track("timezone", tz.Warnings, tz.FallbackApplied)

	timeout := config.LoadEnvDuration("PIPELINE_TIMEOUT", cfg.PipelineTimeout, validatePipelineTimeout)
	cfg.PipelineTimeout = timeout.Value
	track("pipeline_timeout", timeout.Warnings, timeout.FallbackApplied)

	health := config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, validatePort)
	cfg.HealthPort = health.Value
	track("health_port", health.Warnings, health.FallbackApplied)

	metricsPort := config.LoadEnvInt("METRICS_PORT", cfg.MetricsPort, validatePort)
	cfg.MetricsPort = metricsPort.Value
	track("metrics_port", metricsPort.Warnings, metricsPort.FallbackApplied)

	if cfg.HealthPort == cfg.MetricsPort {
		defaults := DefaultConfig()
		track("metrics_port", []string{fmt.Sprintf(
			"METRICS_PORT=%d collides with WORKER_HEALTH_PORT, falling back to defaults %d/%d",
			cfg.MetricsPort, defaults.HealthPort, defaults.MetricsPort)}, true)
		cfg.HealthPort = defaults.HealthPort
		cfg.MetricsPort = defaults.MetricsPort
	}

	if metrics != nil {
		metrics.SetFallbackActive(fallbackActive)
	}
	return &cfg
}
