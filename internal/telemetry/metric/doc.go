// Package metric provides Prometheus metrics for LiveWatch.
//
// This package implements metrics collection and exposition:
//
//   - metrics.go: event and connection counters, registered once at startup
//   - collector.go: scrape-time collector for session totals
//
// Metrics include:
//
//   - Frame and event counters by method
//   - Parse error counters by pipeline stage
//   - Connection state and reconnect counters
//   - Viewer and like gauges
//   - Snapshot write counters by status
//
// Metrics are exposed at /metrics in Prometheus format when the
// metrics listener is enabled.
//
// @req RQ-0403
// @design DS-0402
package metric
