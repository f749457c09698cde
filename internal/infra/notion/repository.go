package notion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"weekly-menu/internal/blocks"
	"weekly-menu/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// MenuRepository stores menu pages in the Notion database.
type MenuRepository struct {
	client *Client
}

// NewMenuRepository creates a MenuRepository backed by client.
func NewMenuRepository(client *Client) *MenuRepository {
	return &MenuRepository{client: client}
}

// FindByWeekStart returns the pages whose Week Start equals weekStart.
func (r *MenuRepository) FindByWeekStart(ctx context.Context, weekStart time.Time) ([]*entity.MenuPage, error) {
	pages, err := r.client.QueryDatabase(ctx, WeekStartEquals(weekStart))
	if err != nil {
		return nil, fmt.Errorf("FindByWeekStart: %w", err)
	}
	return toMenuPages(pages), nil
}

// FindStale returns pages with Week Start before cutoff that are not yet Archived.
func (r *MenuRepository) FindStale(ctx context.Context, cutoff time.Time) ([]*entity.MenuPage, error) {
	pages, err := r.client.QueryDatabase(ctx, StaleBefore(cutoff))
	if err != nil {
		return nil, fmt.Errorf("FindStale: %w", err)
	}
	return toMenuPages(pages), nil
}

// Archive moves the page to the trash.
func (r *MenuRepository) Archive(ctx context.Context, pageID string) error {
	archived := true
	if _, err := r.client.UpdatePage(ctx, pageID, UpdatePageRequest{Archived: &archived}); err != nil {
		return fmt.Errorf("Archive %s: %w", pageID, err)
	}
	return nil
}

// SetStatus updates the Status select of the page.
func (r *MenuRepository) SetStatus(ctx context.Context, pageID string, status entity.PageStatus) error {
	req := UpdatePageRequest{Properties: map[string]PropertyValue{
		PropStatus: {Select: &SelectValue{Name: string(status)}},
	}}
	if _, err := r.client.UpdatePage(ctx, pageID, req); err != nil {
		return fmt.Errorf("SetStatus %s: %w", pageID, err)
	}
	return nil
}

// Create publishes page with the given body and returns a copy carrying the
// new page id and URL. When only the body append fails the copy is returned
// together with the error.
func (r *MenuRepository) Create(ctx context.Context, page *entity.MenuPage, body []blocks.Block) (*entity.MenuPage, error) {
	created, err := r.client.CreatePage(ctx, PageProperties(page), ToBlocks(body))
	if created == nil {
		return nil, fmt.Errorf("Create: %w", err)
	}
	out := *page
	out.ID = created.ID
	out.URL = created.URL
	if err != nil {
		return &out, fmt.Errorf("Create: %w", err)
	}
	return &out, nil
}

// WeekStartEquals filters pages of one week.
func WeekStartEquals(weekStart time.Time) *Filter {
	return &Filter{Property: PropWeekStart, Date: &DateFilter{Equals: weekStart.Format(dateLayout)}}
}

// StaleBefore filters non-archived pages older than cutoff.
func StaleBefore(cutoff time.Time) *Filter {
	return &Filter{And: []Filter{
		{Property: PropWeekStart, Date: &DateFilter{Before: cutoff.Format(dateLayout)}},
		{Property: PropStatus, Select: &SelectFilter{DoesNotEqual: string(entity.PageStatusArchived)}},
	}}
}

// PageProperties builds the database properties of a menu page.
// Intake Used is only sent when true.
func PageProperties(page *entity.MenuPage) map[string]PropertyValue {
	props := map[string]PropertyValue{
		PropTitle:       {Title: TextProperty(page.Title)},
		PropWeekStart:   {Date: &DateValue{Start: page.WeekStart.Format(dateLayout)}},
		PropGeneratedAt: {Date: &DateValue{Start: page.GeneratedAt.Format(time.RFC3339)}},
		PropStatus:      {Select: &SelectValue{Name: string(page.Status)}},
	}
	if page.IntakeUsed {
		used := true
		props[PropIntakeUsed] = PropertyValue{Checkbox: &used}
	}
	return props
}

func toMenuPages(pages []Page) []*entity.MenuPage {
	out := make([]*entity.MenuPage, 0, len(pages))
	for _, p := range pages {
		out = append(out, toMenuPage(p))
	}
	return out
}

func toMenuPage(p Page) *entity.MenuPage {
	mp := &entity.MenuPage{ID: p.ID, URL: p.URL}
	if prop, ok := p.Properties[PropTitle]; ok {
		var sb strings.Builder
		for _, rt := range prop.Title {
			switch {
			case rt.PlainText != "":
				sb.WriteString(rt.PlainText)
			case rt.Text != nil:
				sb.WriteString(rt.Text.Content)
			}
		}
		mp.Title = sb.String()
	}
	if prop, ok := p.Properties[PropWeekStart]; ok && prop.Date != nil {
		if t, err := time.Parse(dateLayout, prop.Date.Start); err == nil {
			mp.WeekStart = t
		}
	}
	if prop, ok := p.Properties[PropGeneratedAt]; ok && prop.Date != nil {
		if t, err := time.Parse(time.RFC3339, prop.Date.Start); err == nil {
			mp.GeneratedAt = t
		}
	}
	if prop, ok := p.Properties[PropStatus]; ok && prop.Select != nil {
		mp.Status = entity.PageStatus(prop.Select.Name)
	}
	if prop, ok := p.Properties[PropIntakeUsed]; ok && prop.Checkbox != nil {
		mp.IntakeUsed = *prop.Checkbox
	}
	return mp
}
