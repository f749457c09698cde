package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	_ "time/tzdata" // zone database for hosts without one

	"github.com/robfig/cron/v3"
)

// LoadResult is the outcome of loading one validated value.
// Loading never fails: an invalid value is replaced by the default and a warning recorded.
type LoadResult[T any] struct {
	Value           T
	Warnings        []string
	FallbackApplied bool
}

// LogWarnings writes each fallback warning to logger.
func (r LoadResult[T]) LogWarnings(logger *slog.Logger) {
	for _, w := range r.Warnings {
		logger.Warn("configuration fallback applied", slog.String("warning", w))
	}
}

// LoadEnvWithFallback loads a string value, falling back to defaultValue when
// validator rejects it. An unset variable yields the default without a warning.
//
// Example:
//
//	result := LoadEnvWithFallback("CRON_SCHEDULE", "0 6 * * 0", ValidateCronSchedule)
//	schedule := result.Value
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) LoadResult[string] {
	value := strings.TrimSpace(os.Getenv(envKey))
	if value == "" {
		return LoadResult[string]{Value: defaultValue}
	}

	if validator != nil {
		if err := validator(value); err != nil {
			return fallback(envKey, value, defaultValue, err)
		}
	}
	return LoadResult[string]{Value: value}
}

// LoadEnvDuration loads a duration with parsing, validation and fallback.
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) LoadResult[time.Duration] {
	valueStr := strings.TrimSpace(os.Getenv(envKey))
	if valueStr == "" {
		return LoadResult[time.Duration]{Value: defaultValue}
	}

	parsed, err := time.ParseDuration(valueStr)
	if err != nil {
		return fallback(envKey, valueStr, defaultValue, err)
	}
	if validator != nil {
		if err := validator(parsed); err != nil {
			return fallback(envKey, valueStr, defaultValue, err)
		}
	}
	return LoadResult[time.Duration]{Value: parsed}
}

// LoadEnvInt loads an integer with parsing, validation and fallback.
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) LoadResult[int] {
	valueStr := strings.TrimSpace(os.Getenv(envKey))
	if valueStr == "" {
		return LoadResult[int]{Value: defaultValue}
	}

	parsed, err := strconv.Atoi(valueStr)
	if err != nil {
		return fallback(envKey, valueStr, defaultValue, err)
	}
	if validator != nil {
		if err := validator(parsed); err != nil {
			return fallback(envKey, valueStr, defaultValue, err)
		}
	}
	return LoadResult[int]{Value: parsed}
}

// LoadEnvLocation loads an IANA time zone, falling back to defaultName.
// defaultName itself must be loadable.
func LoadEnvLocation(envKey, defaultName string) (LoadResult[*time.Location], error) {
	name := LoadEnvWithFallback(envKey, defaultName, ValidateTimezone)
	loc, err := time.LoadLocation(name.Value)
	if err != nil {
		return LoadResult[*time.Location]{}, &ConfigError{Key: envKey, Message: "cannot load time zone " + name.Value, Err: err}
	}
	return LoadResult[*time.Location]{
		Value:           loc,
		Warnings:        name.Warnings,
		FallbackApplied: name.FallbackApplied,
	}, nil
}

func fallback[T any](envKey, raw string, defaultValue T, cause error) LoadResult[T] {
	recordFallback(envKey)
	return LoadResult[T]{
		Value: defaultValue,
		Warnings: []string{fmt.Sprintf(
			"Invalid %s='%s': %v, falling back to default '%v'",
			envKey, raw, cause, defaultValue)},
		FallbackApplied: true,
	}
}

// ValidateCronSchedule checks a standard five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	if schedule == "" {
		return fmt.Errorf("invalid cron schedule: cannot be empty")
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}
	return nil
}

// ValidateTimezone checks that name is a loadable IANA time zone.
func ValidateTimezone(name string) error {
	if name == "" {
		return fmt.Errorf("invalid timezone: cannot be empty")
	}
	if _, err := time.LoadLocation(name); err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", name, err)
	}
	return nil
}

// ValidatePositiveDuration rejects zero and negative durations.
func ValidatePositiveDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %v", d)
	}
	return nil
}

// ValidateIntRange checks min <= v <= max.
func ValidateIntRange(v, min, max int) error {
	if v < min || v > max {
		return fmt.Errorf("value %d out of range [%d, %d]", v, min, max)
	}
	return nil
}
