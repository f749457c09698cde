// Package circuitbreaker guards calls to LLM providers with github.com/sony/gobreaker.
// A tripped breaker rejects calls immediately; the surrounding retry executor sees
// the rejection as an ordinary failed attempt.
package circuitbreaker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// ErrOpen is returned by Execute when the breaker rejects the call.
var ErrOpen = errors.New("circuit breaker open")

// Config holds the configuration for a circuit breaker.
type Config struct {
	// Name is the circuit breaker name for logging
	Name string

	// MaxRequests is the maximum number of requests allowed in half-open state
	MaxRequests uint32

	// Interval is the cyclic period of the closed state to clear success/failure counts
	Interval time.Duration

	// Timeout is how long to wait in open state before trying again
	Timeout time.Duration

	// FailureThreshold is the failure ratio threshold to trip the circuit
	FailureThreshold float64

	// MinRequests is the minimum number of requests before calculating failure ratio
	MinRequests uint32
}

// DefaultConfig returns a default configuration for circuit breakers.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// CompletionConfig returns the configuration for a completion provider.
// provider is used as a suffix in the breaker name, e.g. "openai-api".
func CompletionConfig(provider string) Config {
	cfg := DefaultConfig(provider + "-api")
	cfg.Timeout = 2 * time.Minute
	return cfg
}

// CircuitBreaker wraps gobreaker.CircuitBreaker with logging of state changes.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

// New creates a new circuit breaker with the given configuration.
func New(cfg Config, logger *slog.Logger) *CircuitBreaker {
	if logger == nil {
		logger = slog.Default()
	}
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}

	return &CircuitBreaker{
		breaker: gobreaker.NewCircuitBreaker(settings),
		name:    cfg.Name,
	}
}

// Execute runs fn through the breaker. When the breaker is open or the half-open
// request budget is spent, the returned error wraps ErrOpen.
func Execute[T any](cb *CircuitBreaker, fn func() (T, error)) (T, error) {
	var zero T
	result, err := cb.breaker.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%s: %w", cb.name, ErrOpen)
		}
		return zero, err
	}
	return result.(T), nil
}

// State returns the current state of the circuit breaker.
func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}

// Name returns the name of the circuit breaker.
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// IsOpen returns true if the circuit breaker is in the open state.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.breaker.State() == gobreaker.StateOpen
}
