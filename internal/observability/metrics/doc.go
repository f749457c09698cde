// Package metrics holds the process-wide Prometheus metrics of the menu pipeline.
//
// All metrics are registered with the default registry and exposed by the
// worker's /metrics endpoint. One-shot commands record them too; they are
// simply never scraped there.
//
// Example usage:
//
//	import "weekly-menu/internal/observability/metrics"
//
//	func publish() {
//	    start := time.Now()
//	    // ... create the page ...
//	    metrics.RecordMenuPublished(true, len(body))
//	    metrics.RecordOperationDuration("publish", time.Since(start))
//	}
package metrics
