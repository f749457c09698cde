package menu

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"weekly-menu/internal/blocks"
	"weekly-menu/internal/domain/entity"
	"weekly-menu/internal/infra/notifier"
	"weekly-menu/internal/observability/metrics"
)

// PageStore is the document store as seen by publishing.
type PageStore interface {
	FindByWeekStart(ctx context.Context, weekStart time.Time) ([]*entity.MenuPage, error)
	Archive(ctx context.Context, pageID string) error
	Create(ctx context.Context, page *entity.MenuPage, body []blocks.Block) (*entity.MenuPage, error)
}

// Publisher writes a generated menu as a page, replacing any page of the same week.
type Publisher struct {
	Pages    PageStore
	Notifier notifier.Notifier
	Logger   *slog.Logger
}

// NewPublisher creates a Publisher. A nil notifier disables announcements.
func NewPublisher(pages PageStore, n notifier.Notifier, logger *slog.Logger) *Publisher {
	if n == nil {
		n = notifier.NewNoOpNotifier()
	}
	return &Publisher{Pages: pages, Notifier: n, Logger: logger}
}

// Body converts menu content to blocks under a title heading and a divider.
func Body(m *entity.GeneratedMenu) []blocks.Block {
	converted := blocks.Convert(m.MenuContent)
	body := make([]blocks.Block, 0, len(converted)+2)
	body = append(body, blocks.Title(entity.MenuHeading(m.WeekStart)), blocks.Divider())
	return append(body, converted...)
}

// Publish archives existing pages for the menu's week, then creates the new
// page and announces it. Lookup and archive failures abort before creation;
// announcement failures are only logged.
func (p *Publisher) Publish(ctx context.Context, m *entity.GeneratedMenu) (*entity.MenuPage, error) {
	if m == nil {
		return nil, ErrNoMenu
	}
	if strings.TrimSpace(m.MenuContent) == "" {
		return nil, ErrEmptyMenu
	}
	weekStart := m.WeekStart.Format("2006-01-02")

	existing, err := p.Pages.FindByWeekStart(ctx, m.WeekStart)
	if err != nil {
		return nil, fmt.Errorf("find pages for week %s: %w", weekStart, err)
	}
	for _, old := range existing {
		err := p.Pages.Archive(ctx, old.ID)
		metrics.RecordPageRetired(metrics.RetireReplaced, err == nil)
		if err != nil {
			return nil, fmt.Errorf("archive existing page %s: %w", old.ID, err)
		}
		p.Logger.Info("archived existing page", slog.String("page_id", old.ID), slog.String("week_start", weekStart))
	}

	body := Body(m)
	page, err := p.Pages.Create(ctx, entity.NewMenuPage(m), body)
	metrics.RecordMenuPublished(err == nil, len(body))
	if err != nil {
		return page, fmt.Errorf("create page for week %s: %w", weekStart, err)
	}

	p.Logger.Info("menu page created",
		slog.String("page_id", page.ID),
		slog.String("week_start", weekStart),
		slog.Int("blocks", len(body)),
		slog.Int("replaced", len(existing)))

	event := notifier.MenuPublished{
		PageID:     page.ID,
		PageURL:    page.URL,
		Title:      page.Title,
		WeekStart:  m.WeekStart,
		IntakeUsed: m.IntakeDataAvailable,
		Provider:   m.Provider,
		Model:      m.Model,
		Preview:    blocks.PlainText(body[2:]),
	}
	err = p.Notifier.NotifyMenuPublished(ctx, event)
	metrics.RecordNotification(err == nil)
	if err != nil {
		p.Logger.Warn("menu announcement failed", slog.String("page_id", page.ID), slog.Any("error", err))
	}
	return page, nil
}
