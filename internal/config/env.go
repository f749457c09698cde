// Package config loads the pipeline's configuration from environment variables and
// the household rules file. Secrets only ever come from the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnvString returns the value of an environment variable or the default value if not set.
//
// Example:
//
//	apiURL := GetEnvString("NOTION_API_URL", "https://api.notion.com/v1")
func GetEnvString(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvInt returns the value of an environment variable as an integer.
//
// If the variable cannot be parsed, the default is returned and a warning is logged.
func GetEnvInt(key string, defaultValue int) int {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		slog.Warn("invalid integer value for environment variable, using default",
			slog.String("key", key),
			slog.String("value", valueStr),
			slog.Int("default", defaultValue))
		return defaultValue
	}
	return value
}

// GetEnvFloat returns the value of an environment variable as a float64.
func GetEnvFloat(key string, defaultValue float64) float64 {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		slog.Warn("invalid float value for environment variable, using default",
			slog.String("key", key),
			slog.String("value", valueStr),
			slog.Float64("default", defaultValue))
		return defaultValue
	}
	return value
}

// GetEnvBool returns the value of an environment variable as a boolean.
//
// Accepted values are those of strconv.ParseBool. Anything else falls back to the default.
func GetEnvBool(key string, defaultValue bool) bool {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		slog.Warn("invalid boolean value for environment variable, using default",
			slog.String("key", key),
			slog.String("value", valueStr),
			slog.Bool("default", defaultValue))
		return defaultValue
	}
	return value
}

// GetEnvDuration returns the value of an environment variable as a time.Duration.
//
// The value must be parseable by time.ParseDuration (e.g., "30s", "2m").
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		slog.Warn("invalid duration value for environment variable, using default",
			slog.String("key", key),
			slog.String("value", valueStr),
			slog.Duration("default", defaultValue))
		return defaultValue
	}
	return value
}

// RequireEnv returns the value of a mandatory environment variable.
// A missing or blank value is a *ConfigError.
func RequireEnv(key string) (string, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return "", &ConfigError{Key: key, Message: "environment variable is required"}
	}
	return value, nil
}
