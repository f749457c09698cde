package notifier

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"weekly-menu/internal/config"
)

const (
	maxEmbedTitleLength       = 256
	maxEmbedDescriptionLength = 4096

	// #5865F2
	discordBlueColor = 5793266
)

// DiscordNotifier posts menu announcements to a Discord webhook.
type DiscordNotifier struct {
	webhook *webhook
}

// NewDiscordNotifier creates a DiscordNotifier limited to 30 requests per minute.
func NewDiscordNotifier(cfg config.DiscordConfig, logger *slog.Logger) *DiscordNotifier {
	return &DiscordNotifier{webhook: newWebhook("discord", cfg.WebhookURL, cfg.Timeout, rate.NewLimiter(rate.Limit(0.5), 3), logger)}
}

// DiscordWebhookPayload is a webhook message with embeds.
type DiscordWebhookPayload struct {
	Embeds []DiscordEmbed `json:"embeds"`
}

// DiscordEmbed is one embed.
type DiscordEmbed struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	URL         string             `json:"url,omitempty"`
	Color       int                `json:"color"`
	Footer      DiscordEmbedFooter `json:"footer"`
	Timestamp   string             `json:"timestamp"`
}

// DiscordEmbedFooter is the footer of an embed.
type DiscordEmbedFooter struct {
	Text string `json:"text"`
}

func buildDiscordPayload(event MenuPublished) DiscordWebhookPayload {
	footer := "週: " + event.WeekStart.Format("2006-01-02")
	if event.Provider != "" {
		footer += " • " + event.Provider + "/" + event.Model
	}
	return DiscordWebhookPayload{Embeds: []DiscordEmbed{{
		Title:       truncate(event.Title, maxEmbedTitleLength, ""),
		Description: truncate(event.Preview, maxEmbedDescriptionLength, truncationSuffix),
		URL:         event.PageURL,
		Color:       discordBlueColor,
		Footer:      DiscordEmbedFooter{Text: footer},
		Timestamp:   event.WeekStart.Format(time.RFC3339),
	}}}
}

// NotifyMenuPublished implements Notifier.
func (d *DiscordNotifier) NotifyMenuPublished(ctx context.Context, event MenuPublished) error {
	return d.webhook.send(ctx, buildDiscordPayload(event),
		slog.String("page_id", event.PageID))
}
