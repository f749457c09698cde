package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"
)

// Output formats accepted by LOG_FORMAT.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Options configures a logger.
type Options struct {
	Level  slog.Level
	Format string
	Writer io.Writer
}

// OptionsFromEnv reads LOG_LEVEL and LOG_FORMAT.
// Supported levels: debug, info, warn, error. Default level: info. Default format: json.
func OptionsFromEnv() Options {
	return Options{
		Level:  ParseLevel(os.Getenv("LOG_LEVEL")),
		Format: strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT"))),
		Writer: os.Stdout,
	}
}

// ParseLevel maps a level name to slog.Level. Unknown names map to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates the process logger from the environment.
func NewLogger() *slog.Logger {
	return New(OptionsFromEnv())
}

// New creates a logger with the given options.
func New(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}

	if opts.Format == FormatText {
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      opts.Level,
			TimeFormat: time.RFC3339,
			AddSource:  opts.Level <= slog.LevelDebug,
		}))
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: opts.Level,
		// Add source code location for debug runs
		AddSource: opts.Level <= slog.LevelDebug,
	}))
}

// NewRunID returns a fresh identifier for one pipeline run.
func NewRunID() string {
	return uuid.NewString()
}

// WithRunID returns a logger tagged with a new run_id, and the id itself.
func WithRunID(logger *slog.Logger) (*slog.Logger, string) {
	runID := NewRunID()
	return logger.With(slog.String("run_id", runID)), runID
}

// WithComponent tags logger with the component name.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With(slog.String("component", component))
}

// Nop returns a logger that discards everything. Used by tests.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// FromContext retrieves the logger from the context, or returns the default logger if not found.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

type contextKey string

const loggerContextKey contextKey = "logger"
