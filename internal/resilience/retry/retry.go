// Package retry provides the bounded retry executor used around every external call.
// Failed operations are retried with exponential backoff until the attempt budget
// is exhausted, at which point the last error is returned to the caller.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Policy holds the configuration for retry logic.
// It is a plain value and carries no state between invocations.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first one
	MaxAttempts int

	// BaseDelay is the delay applied after the first failed attempt.
	// Each further delay doubles.
	BaseDelay time.Duration
}

// DefaultPolicy returns the policy used when a caller has no specific needs.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   1 * time.Second,
	}
}

// AIAPIPolicy returns the policy for LLM completion requests.
// Longer base delay since providers rate limit aggressively.
func AIAPIPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
	}
}

// DocumentStorePolicy returns the policy for Notion API calls.
func DocumentStorePolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   1 * time.Second,
	}
}

// PreferenceStorePolicy returns the policy for fetching intake files from the gist.
func PreferenceStorePolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   1 * time.Second,
	}
}

// NotifierPolicy returns the policy for chat webhook announcements.
// Webhooks are best effort, so a single retry is enough.
func NotifierPolicy() Policy {
	return Policy{
		MaxAttempts: 2,
		BaseDelay:   5 * time.Second,
	}
}

// Validate reports whether the policy can be executed.
func (p Policy) Validate() error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got %d", p.MaxAttempts)
	}
	if p.BaseDelay <= 0 {
		return fmt.Errorf("base delay must be positive, got %v", p.BaseDelay)
	}
	return nil
}

// Delay returns the wait applied after the failed attempt with the given 0-based index:
// BaseDelay * 2^attempt.
func (p Policy) Delay(attempt int) time.Duration {
	delay := p.BaseDelay
	for i := 0; i < attempt; i++ {
		delay *= 2
	}
	return delay
}

// Attempt is the record of a single invocation of the wrapped operation.
// Delay is zero when no further attempt follows.
type Attempt struct {
	Index int
	Err   error
	Delay time.Duration
}

// Succeeded reports whether the attempt returned without error.
func (a Attempt) Succeeded() bool {
	return a.Err == nil
}

// ExhaustedError is returned when every attempt failed.
// It unwraps to the error of the last attempt.
type ExhaustedError struct {
	Operation string
	Attempts  int
	Err       error
}

// Error implements the error interface.
func (e *ExhaustedError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("%s failed after %d attempt(s): %v", e.Operation, e.Attempts, e.Err)
	}
	return fmt.Sprintf("max retry attempts (%d) exceeded: %v", e.Attempts, e.Err)
}

// Unwrap returns the last attempt's error.
func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// IsExhausted reports whether err came from a retry budget running out.
func IsExhausted(err error) bool {
	var exhausted *ExhaustedError
	return errors.As(err, &exhausted)
}

// Sleeper suspends the caller for d. It returns early with an error only when ctx ends.
type Sleeper func(ctx context.Context, d time.Duration) error

// Executor runs operations under a Policy.
type Executor struct {
	policy   Policy
	logger   *slog.Logger
	sleep    Sleeper
	observer func(Attempt)
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger used for attempt diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSleeper replaces the wait implementation. Tests use it to avoid real delays.
func WithSleeper(sleep Sleeper) Option {
	return func(e *Executor) {
		if sleep != nil {
			e.sleep = sleep
		}
	}
}

// WithObserver registers a callback invoked once per attempt.
func WithObserver(observer func(Attempt)) Option {
	return func(e *Executor) {
		e.observer = observer
	}
}

// New creates an Executor. An invalid policy is logged and clamped:
// MaxAttempts below 1 becomes 1 and a non-positive BaseDelay becomes the default.
func New(policy Policy, opts ...Option) *Executor {
	e := &Executor{
		policy: policy,
		logger: slog.Default(),
		sleep:  SleepContext,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := policy.Validate(); err != nil {
		e.logger.Warn("invalid retry policy, clamping", slog.Any("error", err))
		if e.policy.MaxAttempts < 1 {
			e.policy.MaxAttempts = 1
		}
		if e.policy.BaseDelay <= 0 {
			e.policy.BaseDelay = DefaultPolicy().BaseDelay
		}
	}
	return e
}

// Policy returns the executor's policy.
func (e *Executor) Policy() Policy {
	return e.policy
}

// Run executes fn with retry logic. name identifies the operation in logs and errors.
func (e *Executor) Run(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	_, err := Do(ctx, e, name, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Do executes op under the executor's policy and returns the first successful result.
// Every failure is retried until the attempt budget is spent; the last failure is
// then returned wrapped in *ExhaustedError.
func Do[T any](ctx context.Context, e *Executor, name string, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	maxAttempts := e.policy.MaxAttempts
	logger := e.logger.With(slog.String("operation", name))

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			logger.Debug("attempt succeeded",
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", maxAttempts))
			if attempt > 0 {
				logger.Info("operation succeeded after retry", slog.Int("attempt", attempt))
			}
			e.observe(Attempt{Index: attempt})
			return result, nil
		}
		lastErr = err

		// Don't wait after last attempt
		if attempt == maxAttempts-1 {
			logger.Warn("attempt failed, retry budget exhausted",
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", maxAttempts),
				slog.Any("error", err))
			e.observe(Attempt{Index: attempt, Err: err})
			break
		}

		delay := e.policy.Delay(attempt)
		logger.Warn("attempt failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", maxAttempts),
			slog.Duration("delay", delay),
			slog.Any("error", err))
		e.observe(Attempt{Index: attempt, Err: err, Delay: delay})

		if sleepErr := e.sleep(ctx, delay); sleepErr != nil {
			return zero, fmt.Errorf("%s: retry aborted after attempt %d: %w", name, attempt, errors.Join(sleepErr, lastErr))
		}
	}

	return zero, &ExhaustedError{Operation: name, Attempts: maxAttempts, Err: lastErr}
}

func (e *Executor) observe(a Attempt) {
	if e.observer != nil {
		e.observer(a)
	}
}

// SleepContext is the default Sleeper: it waits for d or until ctx ends.
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
