// Package app wires configuration and infrastructure into the use cases for
// the command binaries. Every constructor validates its configuration before
// any network client is built.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/joho/godotenv"

	"weekly-menu/internal/config"
	"weekly-menu/internal/infra/gist"
	"weekly-menu/internal/infra/llm"
	"weekly-menu/internal/infra/notifier"
	"weekly-menu/internal/infra/notion"
	"weekly-menu/internal/infra/storage"
	"weekly-menu/internal/observability/logging"
	"weekly-menu/internal/observability/tracing"
	"weekly-menu/internal/usecase/intake"
	"weekly-menu/internal/usecase/menu"
	"weekly-menu/internal/usecase/pipeline"
)

// Env is the shared state of one process.
type Env struct {
	Logger *slog.Logger
	Paths  *config.PathsConfig
	Files  *storage.Files

	shutdownTracing func(context.Context) error

	mu      sync.Mutex
	closers []io.Closer
}

// Init loads .env when present, creates the logger and installs tracing.
// Close must be called before the process exits.
func Init(component string) (*Env, error) {
	// .env is optional; real deployments set the environment directly
	envErr := godotenv.Load()

	logger := logging.WithComponent(logging.NewLogger(), component)
	slog.SetDefault(logger)
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		logger.Warn("failed to load .env file", slog.Any("error", envErr))
	}

	paths, warnings, err := config.LoadPathsConfig()
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		logger.Warn("configuration fallback applied", slog.String("warning", w))
	}

	return &Env{
		Logger:          logger,
		Paths:           paths,
		Files:           storage.NewFiles(paths.DataDir),
		shutdownTracing: tracing.Install(logger),
	}, nil
}

// Close releases clients created by the builders and flushes spans.
// Calling it more than once is safe.
func (e *Env) Close() {
	e.mu.Lock()
	closers := e.closers
	e.closers = nil
	shutdown := e.shutdownTracing
	e.shutdownTracing = nil
	e.mu.Unlock()

	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			e.Logger.Warn("failed to close client", slog.Any("error", err))
		}
	}
	if shutdown == nil {
		return
	}
	if err := shutdown(context.Background()); err != nil {
		e.Logger.Warn("failed to flush traces", slog.Any("error", err))
	}
}

// track registers c to be closed by Close.
func (e *Env) track(c io.Closer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closers = append(e.closers, c)
}

// IntakeService builds the intake fetcher.
func (e *Env) IntakeService() (*intake.Service, error) {
	cfg, err := config.LoadGistConfig()
	if err != nil {
		return nil, err
	}
	client := gist.NewClient(*cfg, e.Logger)
	return intake.NewService(client, e.Files, e.Paths.Location, e.Logger), nil
}

// Generator builds the menu generator. The rules file is loaded first so
// that a missing file fails before any credentials are checked.
func (e *Env) Generator(ctx context.Context) (*menu.Generator, error) {
	rules, err := config.LoadRules(e.Paths.RulesPath)
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadLLMConfig()
	if err != nil {
		return nil, err
	}
	completer, err := llm.New(ctx, *cfg, e.Logger)
	if err != nil {
		return nil, fmt.Errorf("create completer: %w", err)
	}
	if c, ok := completer.(io.Closer); ok {
		e.track(c)
	}
	e.Logger.Info("completion provider selected",
		slog.String("provider", completer.Provider()),
		slog.String("model", completer.Model()))
	return menu.NewGenerator(rules.DefaultSettings, completer, e.Files, e.Paths.Location, e.Logger), nil
}

// MenuRepository builds the document store repository.
func (e *Env) MenuRepository() (*notion.MenuRepository, error) {
	cfg, err := config.LoadNotionConfig()
	if err != nil {
		return nil, err
	}
	return notion.NewMenuRepository(notion.NewClient(*cfg, e.Logger)), nil
}

// Notifier builds the publish announcer from SLACK_* and DISCORD_* settings.
func (e *Env) Notifier() (notifier.Notifier, error) {
	slack, err := config.LoadSlackConfig()
	if err != nil {
		return nil, err
	}
	discord, err := config.LoadDiscordConfig()
	if err != nil {
		return nil, err
	}
	return notifier.New(*slack, *discord, e.Logger), nil
}

// Publisher builds the menu publisher.
func (e *Env) Publisher() (*menu.Publisher, error) {
	repo, err := e.MenuRepository()
	if err != nil {
		return nil, err
	}
	n, err := e.Notifier()
	if err != nil {
		return nil, err
	}
	return menu.NewPublisher(repo, n, e.Logger), nil
}

// Archiver builds the old-menu archiver.
func (e *Env) Archiver() (*menu.Archiver, error) {
	repo, err := e.MenuRepository()
	if err != nil {
		return nil, err
	}
	return menu.NewArchiver(repo, e.Logger), nil
}

// Runner builds the full pipeline. recorder may be nil.
func (e *Env) Runner(ctx context.Context, recorder pipeline.Recorder) (*pipeline.Runner, error) {
	generator, err := e.Generator(ctx)
	if err != nil {
		return nil, err
	}
	intakeSvc, err := e.IntakeService()
	if err != nil {
		return nil, err
	}
	publisher, err := e.Publisher()
	if err != nil {
		return nil, err
	}
	archiver, err := e.Archiver()
	if err != nil {
		return nil, err
	}
	return &pipeline.Runner{
		Intake:    intakeSvc,
		Clearer:   e.Files,
		Generator: generator,
		Publisher: publisher,
		Archiver:  archiver,
		Recorder:  recorder,
		Logger:    e.Logger,
	}, nil
}

// Fatal logs err and exits with status 1.
func (e *Env) Fatal(msg string, err error) {
	attrs := []any{slog.String("error", logging.SanitizeError(err))}
	var cfgErr *config.ConfigError
	if errors.As(err, &cfgErr) {
		attrs = append(attrs, slog.String("key", cfgErr.Key))
	}
	e.Logger.Error(msg, attrs...)
	e.Close()
	os.Exit(1)
}
