// Package tracing provides OpenTelemetry spans for pipeline stages and outbound HTTP calls.
//
// The tracer is resolved through the global provider, so spans are no-ops until a
// command installs a real TracerProvider.
//
// Example usage:
//
//	import "weekly-menu/internal/observability/tracing"
//
//	func publish(ctx context.Context) error {
//	    ctx, span := tracing.StartSpan(ctx, "menu.publish")
//	    defer span.End()
//	    err := doPublish(ctx)
//	    tracing.RecordError(span, err)
//	    return err
//	}
package tracing
