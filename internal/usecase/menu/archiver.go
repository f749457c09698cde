package menu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"weekly-menu/internal/domain/entity"
	"weekly-menu/internal/observability/metrics"
)

// DefaultRetention is how long a menu stays Current before archiving.
const DefaultRetention = 14 * 24 * time.Hour

// StaleStore is the document store as seen by archiving.
type StaleStore interface {
	FindStale(ctx context.Context, cutoff time.Time) ([]*entity.MenuPage, error)
	SetStatus(ctx context.Context, pageID string, status entity.PageStatus) error
}

// ArchiveStats summarises one archive run.
type ArchiveStats struct {
	Cutoff   time.Time
	Found    int
	Archived int
	Failed   int
	Duration time.Duration
}

// Archiver marks old menu pages as Archived.
type Archiver struct {
	Pages     StaleStore
	Retention time.Duration
	Logger    *slog.Logger
}

// NewArchiver creates an Archiver with DefaultRetention.
func NewArchiver(pages StaleStore, logger *slog.Logger) *Archiver {
	return &Archiver{Pages: pages, Retention: DefaultRetention, Logger: logger}
}

// ArchiveOld sets Status=Archived on every non-archived page whose week
// started before now minus the retention. Every page is attempted; per-page
// failures are returned joined together with the stats.
func (a *Archiver) ArchiveOld(ctx context.Context, now time.Time) (*ArchiveStats, error) {
	start := time.Now()
	stats := &ArchiveStats{Cutoff: now.Add(-a.Retention)}

	pages, err := a.Pages.FindStale(ctx, stats.Cutoff)
	if err != nil {
		return stats, fmt.Errorf("find pages before %s: %w", stats.Cutoff.Format("2006-01-02"), err)
	}
	stats.Found = len(pages)

	var errs []error
	for _, page := range pages {
		err := a.Pages.SetStatus(ctx, page.ID, entity.PageStatusArchived)
		metrics.RecordPageRetired(metrics.RetireExpired, err == nil)
		if err != nil {
			stats.Failed++
			errs = append(errs, fmt.Errorf("archive page %s: %w", page.ID, err))
			a.Logger.Warn("failed to archive page", slog.String("page_id", page.ID), slog.Any("error", err))
			continue
		}
		stats.Archived++
		a.Logger.Info("archived page",
			slog.String("page_id", page.ID),
			slog.String("title", page.Title))
	}

	stats.Duration = time.Since(start)
	metrics.RecordOperationDuration("archive", stats.Duration)
	a.Logger.Info("archive run completed",
		slog.String("cutoff", stats.Cutoff.Format("2006-01-02")),
		slog.Int("found", stats.Found),
		slog.Int("archived", stats.Archived),
		slog.Int("failed", stats.Failed),
		slog.Duration("duration", stats.Duration))

	return stats, errors.Join(errs...)
}
