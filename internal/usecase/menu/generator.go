package menu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"weekly-menu/internal/domain/entity"
	"weekly-menu/internal/infra/llm"
	"weekly-menu/internal/infra/storage"
	"weekly-menu/internal/observability/metrics"
)

// Completer drafts the menu text for a prompt.
type Completer interface {
	Complete(ctx context.Context, p llm.Prompt) (*llm.Completion, error)
}

// GenerationStore reads the saved intake and writes the generated menu.
type GenerationStore interface {
	LoadIntakeBytes() ([]byte, error)
	SaveMenu(m *entity.GeneratedMenu) error
}

// Generator drafts a week's menu from the default rules and optional intake.
type Generator struct {
	Defaults  entity.MenuSettings
	Completer Completer
	Store     GenerationStore
	Location  *time.Location
	Logger    *slog.Logger
}

// NewGenerator creates a Generator. A nil location means time.Local.
func NewGenerator(defaults entity.MenuSettings, completer Completer, store GenerationStore, loc *time.Location, logger *slog.Logger) *Generator {
	if loc == nil {
		loc = time.Local
	}
	return &Generator{Defaults: defaults, Completer: completer, Store: store, Location: loc, Logger: logger}
}

// Generate merges settings, requests a completion and saves the result.
// Missing or invalid intake is logged and the defaults are used alone.
func (g *Generator) Generate(ctx context.Context, now time.Time) (*entity.GeneratedMenu, error) {
	in := g.loadIntake()
	settings := entity.MergeSettings(g.Defaults, in)

	weekStart := entity.WeekStart(now.In(g.Location))
	if in != nil && !in.WeekStart.IsZero() {
		weekStart = in.WeekStart
	}

	prompt := BuildPrompt(settings, weekStart)
	g.Logger.Info("generating menu",
		slog.String("week_start", weekStart.Format("2006-01-02")),
		slog.Bool("intake_used", in != nil),
		slog.Int("days_needed", settings.DaysNeeded))

	completion, err := g.Completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("complete menu prompt: %w", err)
	}

	menu := &entity.GeneratedMenu{
		WeekStart:           weekStart,
		GeneratedAt:         now.In(g.Location),
		MenuContent:         completion.Text,
		SettingsUsed:        settings,
		IntakeDataAvailable: in != nil,
		Provider:            completion.Provider,
		Model:               completion.Model,
	}
	if err := g.Store.SaveMenu(menu); err != nil {
		return nil, fmt.Errorf("save generated menu: %w", err)
	}

	metrics.RecordMenuGenerated(completion.Provider, menu.IntakeDataAvailable)
	g.Logger.Info("menu generated",
		slog.String("provider", completion.Provider),
		slog.String("model", completion.Model),
		slog.Int("output_tokens", completion.OutputTokens),
		slog.Int("content_length", len(completion.Text)))
	return menu, nil
}

// loadIntake returns the saved intake, or nil when it is absent or unusable.
func (g *Generator) loadIntake() *entity.Intake {
	raw, err := g.Store.LoadIntakeBytes()
	if errors.Is(err, storage.ErrNotExist) {
		g.Logger.Info("no intake data found, using default rules only")
		return nil
	}
	if err != nil {
		g.Logger.Warn("failed to read intake data, using default rules only", slog.Any("error", err))
		return nil
	}

	in, err := entity.ParseIntake(raw)
	if err != nil {
		attrs := []any{slog.Any("error", err)}
		var verrs entity.ValidationErrors
		if errors.As(err, &verrs) {
			attrs = append(attrs, slog.Any("fields", verrs.Fields()))
		}
		g.Logger.Warn("intake data rejected, using default rules only", attrs...)
		return nil
	}
	return in
}
