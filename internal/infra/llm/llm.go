// Package llm adapts the completion providers (OpenAI, Claude, Gemini) to one
// Completer interface. Every provider call runs under the retry executor and a
// per-provider circuit breaker.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"weekly-menu/internal/config"
	"weekly-menu/internal/observability/tracing"
	"weekly-menu/internal/resilience/circuitbreaker"
	"weekly-menu/internal/resilience/retry"

	"go.opentelemetry.io/otel/attribute"
)

// ErrEmptyCompletion is returned when a provider answers without any text.
var ErrEmptyCompletion = errors.New("completion returned no text")

// Prompt is one system + user message exchange.
type Prompt struct {
	System string
	User   string
}

// Completion is the provider's answer.
type Completion struct {
	Text         string
	Provider     string
	Model        string
	InputTokens  int
	OutputTokens int
	Duration     time.Duration
}

// Completer produces a completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, p Prompt) (*Completion, error)
	Provider() string
	Model() string
}

// callFunc performs exactly one provider request.
type callFunc func(ctx context.Context, p Prompt) (*Completion, error)

// guard holds what every provider shares: retry, breaker, metrics and logging.
type guard struct {
	provider string
	model    string
	timeout  time.Duration
	retry    *retry.Executor
	breaker  *circuitbreaker.CircuitBreaker
	metrics  MetricsRecorder
	logger   *slog.Logger
}

// Option customizes a provider.
type Option func(*guard)

// WithRetry replaces the retry executor. Tests use it to skip real waits.
func WithRetry(exec *retry.Executor) Option {
	return func(g *guard) { g.retry = exec }
}

// WithCircuitBreaker replaces the circuit breaker.
func WithCircuitBreaker(cb *circuitbreaker.CircuitBreaker) Option {
	return func(g *guard) { g.breaker = cb }
}

// WithMetrics replaces the metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(g *guard) { g.metrics = m }
}

func newGuard(provider string, cfg config.LLMConfig, logger *slog.Logger, opts []Option) *guard {
	g := &guard{
		provider: provider,
		model:    cfg.Model,
		timeout:  cfg.Timeout,
		logger:   logger.With(slog.String("provider", provider), slog.String("model", cfg.Model)),
	}
	g.retry = retry.New(retry.AIAPIPolicy(), retry.WithLogger(g.logger))
	g.breaker = circuitbreaker.New(circuitbreaker.CompletionConfig(provider), g.logger)
	g.metrics = NewPrometheusMetrics()
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// complete runs call under retry and the circuit breaker and records the outcome.
func (g *guard) complete(ctx context.Context, p Prompt, call callFunc) (*Completion, error) {
	ctx, span := tracing.StartSpan(ctx, "llm.complete",
		attribute.String("llm.provider", g.provider),
		attribute.String("llm.model", g.model))
	defer span.End()

	start := time.Now()
	out, err := retry.Do(ctx, g.retry, g.provider+".complete", func(ctx context.Context) (*Completion, error) {
		return circuitbreaker.Execute(g.breaker, func() (*Completion, error) {
			attemptCtx := ctx
			if g.timeout > 0 {
				var cancel context.CancelFunc
				attemptCtx, cancel = context.WithTimeout(ctx, g.timeout)
				defer cancel()
			}

			attemptStart := time.Now()
			c, err := call(attemptCtx, p)
			if err != nil {
				return nil, err
			}
			if strings.TrimSpace(c.Text) == "" {
				return nil, ErrEmptyCompletion
			}
			c.Provider = g.provider
			if c.Model == "" {
				c.Model = g.model
			}
			c.Duration = time.Since(attemptStart)
			return c, nil
		})
	})
	duration := time.Since(start)

	if err != nil {
		tracing.RecordError(span, err)
		g.metrics.RecordRequest(g.provider, "failure", duration)
		g.logger.ErrorContext(ctx, "completion failed",
			slog.Duration("duration", duration),
			slog.Any("error", err))
		return nil, fmt.Errorf("%s completion: %w", g.provider, err)
	}

	g.metrics.RecordRequest(g.provider, "success", duration)
	g.metrics.RecordTokens(g.provider, out.InputTokens, out.OutputTokens)
	span.SetAttributes(
		attribute.Int("llm.input_tokens", out.InputTokens),
		attribute.Int("llm.output_tokens", out.OutputTokens))
	g.logger.InfoContext(ctx, "completion succeeded",
		slog.Int("output_length", len([]rune(out.Text))),
		slog.Int("input_tokens", out.InputTokens),
		slog.Int("output_tokens", out.OutputTokens),
		slog.Duration("duration", duration))
	return out, nil
}

// New returns the Completer selected by cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger, opts ...Option) (Completer, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAI(cfg, logger, opts...), nil
	case config.ProviderClaude:
		return NewClaude(cfg, logger, opts...), nil
	case config.ProviderGemini:
		return NewGemini(ctx, cfg, logger, opts...)
	default:
		return nil, &config.ConfigError{Key: "MENU_PROVIDER", Message: fmt.Sprintf("unsupported provider %q", cfg.Provider)}
	}
}
