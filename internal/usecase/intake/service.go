package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"weekly-menu/internal/domain/entity"
	"weekly-menu/internal/observability/metrics"
)

// Source lists the files of the preference store keyed by file name.
type Source interface {
	Contents(ctx context.Context) (map[string]string, error)
}

// Saver persists the selected intake for the generation stage.
type Saver interface {
	SaveIntake(raw []byte) error
}

// Result describes the intake file that was selected and saved.
type Result struct {
	Filename  string
	WeekStart time.Time
	// Fallback is true when the file for this week was missing and the newest
	// intake file was used instead.
	Fallback bool
	Raw      []byte
}

// Service selects and stores the intake for the current week.
type Service struct {
	Source   Source
	Saver    Saver
	Location *time.Location
	Logger   *slog.Logger
}

// NewService creates an intake Service. A nil location means time.Local.
func NewService(source Source, saver Saver, loc *time.Location, logger *slog.Logger) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{Source: source, Saver: saver, Location: loc, Logger: logger}
}

// Fetch looks for intake_<YYYY_MM_DD>.json for the week containing now.
// When it is missing the lexicographically greatest intake_*.json is used.
// A selected file that is not valid JSON counts as absent. Any success is
// saved through Saver; absence returns ErrNoIntake.
func (s *Service) Fetch(ctx context.Context, now time.Time) (*Result, error) {
	weekStart := entity.WeekStart(now.In(s.Location))
	target := entity.IntakeFilename(weekStart)

	files, err := s.Source.Contents(ctx)
	if err != nil {
		metrics.RecordIntakeFetch(metrics.IntakeError)
		return nil, fmt.Errorf("list preference store: %w", err)
	}

	name, fallback, ok := selectFile(files, target)
	if !ok {
		s.Logger.Info("no intake files found",
			slog.String("expected", target),
			slog.Int("files", len(files)))
		metrics.RecordIntakeFetch(metrics.IntakeAbsent)
		return nil, ErrNoIntake
	}
	if fallback {
		s.Logger.Warn("using fallback intake file",
			slog.String("expected", target),
			slog.String("file", name))
	}

	raw := []byte(files[name])
	if !json.Valid(raw) {
		s.Logger.Warn("intake file is not valid JSON, ignoring",
			slog.String("file", name))
		metrics.RecordIntakeFetch(metrics.IntakeInvalid)
		return nil, ErrNoIntake
	}

	if err := s.Saver.SaveIntake(raw); err != nil {
		metrics.RecordIntakeFetch(metrics.IntakeError)
		return nil, fmt.Errorf("save intake: %w", err)
	}

	if fallback {
		metrics.RecordIntakeFetch(metrics.IntakeFallback)
	} else {
		metrics.RecordIntakeFetch(metrics.IntakeExact)
	}

	s.Logger.Info("intake fetched",
		slog.String("file", name),
		slog.Bool("fallback", fallback),
		slog.String("week_start", weekStart.Format("2006-01-02")))
	return &Result{Filename: name, WeekStart: weekStart, Fallback: fallback, Raw: raw}, nil
}

// selectFile returns target when present, else the greatest intake_*.json name.
func selectFile(files map[string]string, target string) (name string, fallback, ok bool) {
	if _, exists := files[target]; exists {
		return target, false, true
	}

	var candidates []string
	for n := range files {
		if strings.HasPrefix(n, "intake_") && strings.HasSuffix(n, ".json") {
			candidates = append(candidates, n)
		}
	}
	if len(candidates) == 0 {
		return "", false, false
	}
	sort.Strings(candidates)
	return candidates[len(candidates)-1], true, true
}
