package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"weekly-menu/internal/observability/tracing"
	"weekly-menu/internal/resilience/retry"
	"weekly-menu/internal/utils/text"
)

const (
	defaultRetryAfter = 5 * time.Second
	maxErrorBodyBytes = 4 << 10
)

// RateLimitError is a 429 from a webhook service.
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (retry after %v)", e.Message, e.RetryAfter)
	}
	return fmt.Sprintf("rate limit exceeded (retry after %v)", e.RetryAfter)
}

// ClientError is a non-429 4xx from a webhook service. It is not retried.
type ClientError struct {
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string {
	return e.Message
}

// ServerError is a 5xx from a webhook service.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

// truncate shortens s to at most maxRunes runes, ending with suffix when cut.
func truncate(s string, maxRunes int, suffix string) string {
	if text.CountRunes(s) <= maxRunes {
		return s
	}
	cut := maxRunes - text.CountRunes(suffix)
	if cut < 0 {
		cut = 0
	}
	return string([]rune(s)[:cut]) + suffix
}

// webhook posts JSON payloads to one incoming-webhook URL.
type webhook struct {
	service    string
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter
	exec       *retry.Executor
	logger     *slog.Logger
	// sleep waits out a Retry-After advertised by a 429.
	sleep retry.Sleeper

	mu         sync.Mutex
	retryAfter time.Duration
}

func newWebhook(service, url string, timeout time.Duration, limiter *rate.Limiter, logger *slog.Logger) *webhook {
	return &webhook{
		service:    service,
		url:        url,
		httpClient: tracing.NewClient(&http.Client{Timeout: timeout}),
		limiter:    limiter,
		exec:       retry.New(retry.NotifierPolicy(), retry.WithLogger(logger)),
		logger:     logger,
		sleep:      retry.SleepContext,
	}
}

// post sends payload once and classifies the response.
func (w *webhook) post(ctx context.Context, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{
			Message:    w.service + " rate limit exceeded",
			RetryAfter: extractRetryAfter(resp, body),
		}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &ClientError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s client error %d: %s", w.service, resp.StatusCode, string(body)),
		}
	case resp.StatusCode >= 500:
		return &ServerError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s server error %d: %s", w.service, resp.StatusCode, string(body)),
		}
	}
	return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
}

// send posts payload once. A 4xx other than 429, or a done context, is
// returned as is; any other failure is handed to the retry executor. A 429
// defers the next attempt by its Retry-After.
func (w *webhook) send(ctx context.Context, payload any, attrs ...any) error {
	requestID := uuid.New().String()
	logger := w.logger.With(slog.String("service", w.service), slog.String("request_id", requestID))
	logger = logger.With(attrs...)

	err := w.attempt(ctx, payload)
	if err == nil {
		logger.Info("notification sent")
		return nil
	}
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		logger.Error("notification rejected", slog.Int("status", clientErr.StatusCode))
		return err
	}
	if ctx.Err() != nil {
		return err
	}
	logger.Warn("notification failed, retrying", slog.Any("error", err))

	if err := w.exec.Run(ctx, w.service+".notify", func(ctx context.Context) error {
		return w.attempt(ctx, payload)
	}); err != nil {
		logger.Error("notification failed", slog.Any("error", err))
		return fmt.Errorf("%s notification: %w", w.service, err)
	}
	logger.Info("notification sent after retry")
	return nil
}

// attempt waits out any pending Retry-After and the rate limiter, then posts once.
func (w *webhook) attempt(ctx context.Context, payload any) error {
	if d := w.takeRetryAfter(); d > 0 {
		if err := w.sleep(ctx, d); err != nil {
			return fmt.Errorf("retry after: %w", err)
		}
	}
	if err := w.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	err := w.post(ctx, payload)
	var rl *RateLimitError
	if errors.As(err, &rl) {
		w.mu.Lock()
		w.retryAfter = rl.RetryAfter
		w.mu.Unlock()
	}
	return err
}

func (w *webhook) takeRetryAfter() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	d := w.retryAfter
	w.retryAfter = 0
	return d
}

type retryAfterBody struct {
	RetryAfter float64 `json:"retry_after"`
}

// extractRetryAfter reads retry_after (seconds) from a JSON body, then the
// Retry-After header, defaulting to 5s.
func extractRetryAfter(resp *http.Response, body []byte) time.Duration {
	var rb retryAfterBody
	if err := json.Unmarshal(body, &rb); err == nil && rb.RetryAfter > 0 {
		return time.Duration(rb.RetryAfter * float64(time.Second))
	}
	if h := resp.Header.Get("Retry-After"); h != "" {
		if seconds, err := strconv.Atoi(h); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultRetryAfter
}
