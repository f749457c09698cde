// Package logging builds the single structured logger each command creates at startup
// and passes down to every component.
//
// JSON output is the default. Setting LOG_FORMAT=text switches to a colored,
// human-readable handler for local runs.
//
// Example usage:
//
//	import "weekly-menu/internal/observability/logging"
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger, runID := logging.WithRunID(logger)
//	    logger.Info("menu generation started", slog.String("run_id", runID))
//	}
package logging
