// Package notifier announces published menus on chat webhooks.
// Slack and Discord are supported; NoOpNotifier stands in when both are disabled.
package notifier

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"weekly-menu/internal/config"
)

// MenuPublished describes a menu page that was just created.
type MenuPublished struct {
	PageID     string
	PageURL    string
	Title      string
	WeekStart  time.Time
	IntakeUsed bool
	Provider   string
	Model      string
	// Preview is the plain-text menu body.
	Preview string
}

// Notifier sends a message about a published menu.
// Implementations rate limit and retry internally.
type Notifier interface {
	NotifyMenuPublished(ctx context.Context, event MenuPublished) error
}

// Multi fans a notification out to several notifiers.
// Every notifier is attempted; failures are joined.
type Multi []Notifier

// NotifyMenuPublished implements Notifier.
func (m Multi) NotifyMenuPublished(ctx context.Context, event MenuPublished) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyMenuPublished(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// New builds the notifier for the enabled channels.
// With none enabled it returns a NoOpNotifier.
func New(slack config.SlackConfig, discord config.DiscordConfig, logger *slog.Logger) Notifier {
	var m Multi
	if slack.Enabled {
		m = append(m, NewSlackNotifier(slack, logger))
	}
	if discord.Enabled {
		m = append(m, NewDiscordNotifier(discord, logger))
	}
	switch len(m) {
	case 0:
		return NewNoOpNotifier()
	case 1:
		return m[0]
	}
	return m
}

// NoOpNotifier is used when no webhook is configured.
type NoOpNotifier struct{}

// NewNoOpNotifier creates a NoOpNotifier.
func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

// NotifyMenuPublished returns nil.
func (n *NoOpNotifier) NotifyMenuPublished(context.Context, MenuPublished) error {
	return nil
}
