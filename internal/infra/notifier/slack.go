package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"weekly-menu/internal/config"
)

const (
	maxSectionTextLength = 3000
	maxContextTextLength = 2000
	maxFallbackLength    = 150
	truncationSuffix     = "..."
)

// SlackNotifier posts menu announcements to a Slack Incoming Webhook.
type SlackNotifier struct {
	webhook *webhook
}

// NewSlackNotifier creates a SlackNotifier. Slack accepts about one message
// per second per webhook, so the limiter is 1 req/s with burst 1.
func NewSlackNotifier(cfg config.SlackConfig, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{webhook: newWebhook("slack", cfg.WebhookURL, cfg.Timeout, rate.NewLimiter(rate.Limit(1), 1), logger)}
}

// SlackWebhookPayload is a Block Kit message.
type SlackWebhookPayload struct {
	Text   string       `json:"text"`
	Blocks []SlackBlock `json:"blocks"`
}

// SlackBlock is one Block Kit block.
type SlackBlock struct {
	Type     string            `json:"type"`
	Text     *SlackTextObject  `json:"text,omitempty"`
	Elements []SlackTextObject `json:"elements,omitempty"`
}

// SlackTextObject is a Block Kit text object.
type SlackTextObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// buildSlackPayload renders a header section linking the page, the menu
// preview and a context line with the week and provider.
func buildSlackPayload(event MenuPublished) SlackWebhookPayload {
	fallback := truncate(event.Title+" を公開しました", maxFallbackLength, truncationSuffix)

	header := "*" + event.Title + "*"
	if event.PageURL != "" {
		header = fmt.Sprintf("*<%s|%s>*", event.PageURL, event.Title)
	}
	section := header
	if event.Preview != "" {
		section += "\n\n" + event.Preview
	}
	section = truncate(section, maxSectionTextLength, truncationSuffix)

	intake := "なし"
	if event.IntakeUsed {
		intake = "あり"
	}
	contextText := fmt.Sprintf("週: %s • 希望データ: %s", event.WeekStart.Format("2006-01-02"), intake)
	if event.Provider != "" {
		contextText += fmt.Sprintf(" • %s/%s", event.Provider, event.Model)
	}
	contextText = truncate(contextText, maxContextTextLength, truncationSuffix)

	return SlackWebhookPayload{
		Text: fallback,
		Blocks: []SlackBlock{
			{Type: "section", Text: &SlackTextObject{Type: "mrkdwn", Text: section}},
			{Type: "divider"},
			{Type: "context", Elements: []SlackTextObject{{Type: "mrkdwn", Text: contextText}}},
		},
	}
}

// NotifyMenuPublished implements Notifier.
func (s *SlackNotifier) NotifyMenuPublished(ctx context.Context, event MenuPublished) error {
	return s.webhook.send(ctx, buildSlackPayload(event),
		slog.String("page_id", event.PageID),
		slog.String("week_start", event.WeekStart.Format("2006-01-02")))
}
