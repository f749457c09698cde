// Package pipeline runs the weekly menu stages in order: fetch intake,
// generate, publish and archive.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"weekly-menu/internal/domain/entity"
	"weekly-menu/internal/observability/logging"
	"weekly-menu/internal/observability/tracing"
	"weekly-menu/internal/usecase/intake"
	"weekly-menu/internal/usecase/menu"
)

// Stage names used for spans, metrics and errors.
const (
	StageFetchIntake = "fetch_intake"
	StageGenerate    = "generate"
	StagePublish     = "publish"
	StageArchive     = "archive"
)

// Run and stage outcomes.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// IntakeFetcher selects and saves this week's intake.
type IntakeFetcher interface {
	Fetch(ctx context.Context, now time.Time) (*intake.Result, error)
}

// IntakeClearer drops a previously saved intake.
type IntakeClearer interface {
	RemoveIntake() error
}

// MenuGenerator drafts and saves the menu.
type MenuGenerator interface {
	Generate(ctx context.Context, now time.Time) (*entity.GeneratedMenu, error)
}

// MenuPublisher writes the menu to the document store.
type MenuPublisher interface {
	Publish(ctx context.Context, m *entity.GeneratedMenu) (*entity.MenuPage, error)
}

// MenuArchiver retires old menu pages.
type MenuArchiver interface {
	ArchiveOld(ctx context.Context, now time.Time) (*menu.ArchiveStats, error)
}

// Recorder receives stage and run outcomes.
type Recorder interface {
	RecordStage(stage, status string, d time.Duration)
	RecordJobRun(status string, d time.Duration)
}

// StageError reports the stage a run failed in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Report summarises one run.
type Report struct {
	RunID      string
	StartedAt  time.Time
	Duration   time.Duration
	Intake     *intake.Result
	Menu       *entity.GeneratedMenu
	Page       *entity.MenuPage
	Archive    *menu.ArchiveStats
	FailedStep string
}

// Runner executes the stages sequentially. A failed intake fetch is
// tolerated and any stale intake is cleared; generate and publish failures
// stop the run; archive runs after a successful publish and its failures
// fail the run without undoing the publish.
type Runner struct {
	Intake    IntakeFetcher
	Clearer   IntakeClearer
	Generator MenuGenerator
	Publisher MenuPublisher
	Archiver  MenuArchiver
	Recorder  Recorder
	Clock     func() time.Time
	Logger    *slog.Logger
}

// Run executes one pipeline run. The returned report is never nil.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	logger, runID := logging.WithRunID(r.Logger)
	ctx = logging.WithLogger(ctx, logger)
	ctx, span := tracing.StartSpan(ctx, "pipeline.run", attribute.String("run_id", runID))
	defer span.End()

	start := time.Now()
	now := r.now()
	report := &Report{RunID: runID, StartedAt: now}
	logger.Info("pipeline run started", slog.Time("now", now))

	err := r.run(ctx, logger, now, report)
	report.Duration = time.Since(start)

	status := StatusSuccess
	if err != nil {
		status = StatusFailure
		tracing.RecordError(span, err)
		logger.Error("pipeline run failed",
			slog.String("stage", report.FailedStep),
			slog.Duration("duration", report.Duration),
			slog.String("error", logging.SanitizeError(err)))
	} else {
		attrs := []any{slog.Duration("duration", report.Duration)}
		if report.Page != nil {
			attrs = append(attrs, slog.String("page_id", report.Page.ID))
		}
		logger.Info("pipeline run completed", attrs...)
	}
	if r.Recorder != nil {
		r.Recorder.RecordJobRun(status, report.Duration)
	}
	return report, err
}

func (r *Runner) run(ctx context.Context, logger *slog.Logger, now time.Time, report *Report) error {
	_ = r.stage(ctx, StageFetchIntake, func(ctx context.Context) error {
		res, err := r.Intake.Fetch(ctx, now)
		if err != nil {
			r.clearIntake(logger, err)
			if errors.Is(err, intake.ErrNoIntake) {
				return nil
			}
			return err
		}
		report.Intake = res
		return nil
	})

	if err := r.stage(ctx, StageGenerate, func(ctx context.Context) error {
		m, err := r.Generator.Generate(ctx, now)
		report.Menu = m
		return err
	}); err != nil {
		report.FailedStep = StageGenerate
		return err
	}

	if err := r.stage(ctx, StagePublish, func(ctx context.Context) error {
		page, err := r.Publisher.Publish(ctx, report.Menu)
		report.Page = page
		return err
	}); err != nil {
		report.FailedStep = StagePublish
		return err
	}

	if err := r.stage(ctx, StageArchive, func(ctx context.Context) error {
		stats, err := r.Archiver.ArchiveOld(ctx, now)
		report.Archive = stats
		return err
	}); err != nil {
		report.FailedStep = StageArchive
		return err
	}
	return nil
}

// stage runs fn in its own span and records its outcome.
func (r *Runner) stage(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := tracing.StartSpan(ctx, "pipeline."+name, attribute.String("stage", name))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	d := time.Since(start)

	status := StatusSuccess
	if err != nil {
		status = StatusFailure
		tracing.RecordError(span, err)
		logging.FromContext(ctx).Warn("pipeline stage failed",
			slog.String("stage", name),
			slog.String("error", logging.SanitizeError(err)))
	}
	if r.Recorder != nil {
		r.Recorder.RecordStage(name, status, d)
	}
	if err != nil {
		return &StageError{Stage: name, Err: err}
	}
	return nil
}

func (r *Runner) clearIntake(logger *slog.Logger, cause error) {
	if errors.Is(cause, intake.ErrNoIntake) {
		logger.Info("no intake this week, generating from default rules")
	} else {
		logger.Warn("intake fetch failed, generating from default rules",
			slog.String("error", logging.SanitizeError(cause)))
	}
	if r.Clearer == nil {
		return
	}
	if err := r.Clearer.RemoveIntake(); err != nil {
		logger.Warn("failed to clear stale intake", slog.Any("error", err))
	}
}

func (r *Runner) now() time.Time {
	if r.Clock != nil {
		return r.Clock()
	}
	return time.Now()
}
