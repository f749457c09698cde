package config

import (
	"errors"
	"fmt"
)

// ConfigError reports a configuration problem detected before any network activity.
type ConfigError struct {
	Key     string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config %s: %s: %v", e.Key, e.Message, e.Err)
	}
	return fmt.Sprintf("config %s: %s", e.Key, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is, or wraps, a *ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
