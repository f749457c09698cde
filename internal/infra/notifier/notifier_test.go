package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"weekly-menu/internal/config"
	"weekly-menu/internal/observability/logging"
	"weekly-menu/internal/resilience/retry"
)

func testEvent() MenuPublished {
	return MenuPublished{
		PageID:     "page-1",
		PageURL:    "https://www.notion.so/page-1",
		Title:      "2024年01月15日週の献立",
		WeekStart:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		IntakeUsed: true,
		Provider:   "openai",
		Model:      "gpt-4",
		Preview:    "月曜日 (01/15)\n• 肉じゃが (調理時間: 30分)",
	}
}

func noSleep(context.Context, time.Duration) error { return nil }

// fastSlack returns a notifier pointed at url that never sleeps.
func fastSlack(url string) *SlackNotifier {
	n := NewSlackNotifier(config.SlackConfig{Enabled: true, WebhookURL: url, Timeout: time.Second}, logging.Nop())
	n.webhook.limiter = rate.NewLimiter(rate.Inf, 0)
	n.webhook.exec = retry.New(retry.NotifierPolicy(), retry.WithSleeper(noSleep), retry.WithLogger(logging.Nop()))
	n.webhook.sleep = noSleep
	return n
}

func TestBuildSlackPayload(t *testing.T) {
	p := buildSlackPayload(testEvent())

	assert.Equal(t, "2024年01月15日週の献立 を公開しました", p.Text)
	require.Len(t, p.Blocks, 3)
	assert.Equal(t, "section", p.Blocks[0].Type)
	assert.True(t, strings.HasPrefix(p.Blocks[0].Text.Text, "*<https://www.notion.so/page-1|2024年01月15日週の献立>*\n\n月曜日"))
	assert.Equal(t, "divider", p.Blocks[1].Type)
	assert.Equal(t, "週: 2024-01-15 • 希望データ: あり • openai/gpt-4", p.Blocks[2].Elements[0].Text)
}

func TestBuildSlackPayload_TruncatesLongPreview(t *testing.T) {
	event := testEvent()
	event.PageURL = ""
	event.Preview = strings.Repeat("献立", 3000)

	p := buildSlackPayload(event)
	text := p.Blocks[0].Text.Text
	assert.Equal(t, maxSectionTextLength, len([]rune(text)))
	assert.True(t, strings.HasSuffix(text, truncationSuffix))
	assert.True(t, strings.HasPrefix(text, "*2024年01月15日週の献立*"))
}

func TestSlackNotifier_Sends(t *testing.T) {
	var got SlackWebhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	require.NoError(t, fastSlack(srv.URL).NotifyMenuPublished(context.Background(), testEvent()))
	assert.Len(t, got.Blocks, 3)
}

func TestSlackNotifier_RateLimiterHonoursContext(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	n := fastSlack(srv.URL)
	n.webhook.limiter = rate.NewLimiter(rate.Every(time.Hour), 1)
	require.NoError(t, n.NotifyMenuPublished(context.Background(), testEvent()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := n.NotifyMenuPublished(ctx, testEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter")
	assert.Equal(t, int32(1), calls.Load())
}

func TestSlackNotifier_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "invalid_payload", http.StatusBadRequest)
	}))
	defer srv.Close()

	err := fastSlack(srv.URL).NotifyMenuPublished(context.Background(), testEvent())
	var clientErr *ClientError
	require.True(t, errors.As(err, &clientErr))
	assert.Equal(t, http.StatusBadRequest, clientErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSlackNotifier_RetriesServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "oops", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	require.NoError(t, fastSlack(srv.URL).NotifyMenuPublished(context.Background(), testEvent()))
	assert.Equal(t, int32(2), calls.Load())
}

func TestSlackNotifier_RateLimitUsesRetryAfter(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	n := fastSlack(srv.URL)
	var waited []time.Duration
	n.webhook.sleep = func(_ context.Context, d time.Duration) error {
		waited = append(waited, d)
		return nil
	}

	err := n.NotifyMenuPublished(context.Background(), testEvent())
	var rl *RateLimitError
	require.True(t, errors.As(err, &rl))
	assert.Equal(t, 7*time.Second, rl.RetryAfter)
	assert.True(t, retry.IsExhausted(err))
	// one wait before each of the executor's two attempts
	assert.Equal(t, []time.Duration{7 * time.Second, 7 * time.Second}, waited)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSlackNotifier_RetriesThroughExecutor(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	var delays []time.Duration
	var attempts []retry.Attempt
	n := fastSlack(srv.URL)
	n.webhook.exec = retry.New(retry.NotifierPolicy(),
		retry.WithLogger(logging.Nop()),
		retry.WithSleeper(func(_ context.Context, d time.Duration) error {
			delays = append(delays, d)
			return nil
		}),
		retry.WithObserver(func(a retry.Attempt) { attempts = append(attempts, a) }))

	err := n.NotifyMenuPublished(context.Background(), testEvent())
	var serverErr *ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, http.StatusServiceUnavailable, serverErr.StatusCode)

	// the first post plus the executor's two attempts
	assert.Equal(t, int32(3), calls.Load())
	assert.Len(t, attempts, 2)
	assert.Equal(t, []time.Duration{retry.NotifierPolicy().BaseDelay}, delays)
}

func TestDiscordNotifier_Payload(t *testing.T) {
	var got DiscordWebhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewDiscordNotifier(config.DiscordConfig{Enabled: true, WebhookURL: srv.URL, Timeout: time.Second}, logging.Nop())
	require.NoError(t, n.NotifyMenuPublished(context.Background(), testEvent()))

	require.Len(t, got.Embeds, 1)
	e := got.Embeds[0]
	assert.Equal(t, "2024年01月15日週の献立", e.Title)
	assert.Equal(t, discordBlueColor, e.Color)
	assert.Equal(t, "週: 2024-01-15 • openai/gpt-4", e.Footer.Text)
	assert.Equal(t, "2024-01-15T00:00:00Z", e.Timestamp)
}

func TestExtractRetryAfter(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	assert.Equal(t, 1500*time.Millisecond, extractRetryAfter(resp, []byte(`{"retry_after": 1.5}`)))

	resp.Header.Set("Retry-After", "3")
	assert.Equal(t, 3*time.Second, extractRetryAfter(resp, []byte("rate limited")))

	assert.Equal(t, defaultRetryAfter, extractRetryAfter(&http.Response{Header: http.Header{}}, nil))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3, "..."))
	assert.Equal(t, "a...", truncate("abcdef", 4, "..."))
	assert.Equal(t, "献立", truncate("献立表", 2, ""))
}

type fakeNotifier struct {
	calls int
	err   error
}

func (f *fakeNotifier) NotifyMenuPublished(context.Context, MenuPublished) error {
	f.calls++
	return f.err
}

func TestMulti_AttemptsAll(t *testing.T) {
	a := &fakeNotifier{err: errors.New("slack down")}
	b := &fakeNotifier{}
	err := Multi{a, b}.NotifyMenuPublished(context.Background(), testEvent())

	assert.ErrorContains(t, err, "slack down")
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
}

func TestNew(t *testing.T) {
	logger := logging.Nop()
	assert.IsType(t, &NoOpNotifier{}, New(config.SlackConfig{}, config.DiscordConfig{}, logger))
	assert.IsType(t, &SlackNotifier{}, New(config.SlackConfig{Enabled: true}, config.DiscordConfig{}, logger))
	assert.IsType(t, Multi{}, New(config.SlackConfig{Enabled: true}, config.DiscordConfig{Enabled: true}, logger))
	assert.NoError(t, NewNoOpNotifier().NotifyMenuPublished(context.Background(), testEvent()))
}
