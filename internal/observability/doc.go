// Package observability groups the logging, metrics and tracing used by the
// weekly menu commands.
//
// Subpackages:
//   - logging: slog construction, run IDs, context propagation and secret masking
//   - metrics: Prometheus counters for intake, generation, publishing and archiving
//   - tracing: OpenTelemetry spans, exported to the logger at debug level
//
// Example usage:
//
//	import (
//	    "weekly-menu/internal/observability/logging"
//	    "weekly-menu/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("menu generated")
//
//	    metrics.RecordMenuGenerated("openai", true)
//	}
package observability
