package tracing

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Install sets a global TracerProvider that writes every finished span to
// logger at debug level. The returned function flushes and uninstalls it.
func Install(logger *slog.Logger) func(context.Context) error {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(NewLogExporter(logger)))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	return func(ctx context.Context) error {
		otel.SetTracerProvider(prev)
		return tp.Shutdown(ctx)
	}
}

// LogExporter is a span exporter backed by slog.
type LogExporter struct {
	logger *slog.Logger
}

// NewLogExporter creates a LogExporter.
func NewLogExporter(logger *slog.Logger) *LogExporter {
	return &LogExporter{logger: logger}
}

// ExportSpans implements sdktrace.SpanExporter.
func (e *LogExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		attrs := []slog.Attr{
			slog.String("span", s.Name()),
			slog.String("trace_id", s.SpanContext().TraceID().String()),
			slog.String("span_id", s.SpanContext().SpanID().String()),
			slog.Duration("duration", s.EndTime().Sub(s.StartTime())),
			slog.String("status", s.Status().Code.String()),
		}
		if s.Parent().IsValid() {
			attrs = append(attrs, slog.String("parent_id", s.Parent().SpanID().String()))
		}
		if desc := s.Status().Description; desc != "" {
			attrs = append(attrs, slog.String("status_message", desc))
		}
		for _, kv := range s.Attributes() {
			attrs = append(attrs, slog.String(string(kv.Key), kv.Value.Emit()))
		}
		e.logger.LogAttrs(ctx, slog.LevelDebug, "span finished", attrs...)
	}
	return nil
}

// Shutdown implements sdktrace.SpanExporter.
func (e *LogExporter) Shutdown(context.Context) error {
	return nil
}

var _ sdktrace.SpanExporter = (*LogExporter)(nil)
