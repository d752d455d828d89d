// Package metrics provides Prometheus metrics collection for Redkeep.
//
// # Overview
//
// The metrics package implements Prometheus metrics for monitoring the
// configuration reload pipeline: reload attempts and durations, validation
// outcomes, filesystem watcher activity, and schema migrations.
//
// # Metric Categories
//
//   - Reload Metrics: Attempt counts, durations, last-reload status,
//     restart requirements, and automatic restart outcomes
//   - Validation Metrics: Run outcomes and findings by severity
//   - Watcher Metrics: Raw filesystem events, debounced reloads, and
//     watch re-establishments
//   - Migration Metrics: Migration runs and applied steps by version pair
//
// # Usage
//
//	// Create collector
//	collector := metrics.NewCollector(&metrics.Config{Enabled: true}, nil)
//
//	// Record a reload
//	collector.RecordReload("watcher", "success", 12*time.Millisecond)
//
//	// Record validation results
//	collector.RecordValidation("fail", 2, 1, 0)
//
//	// Record watcher activity
//	collector.RecordWatchEvent("write")
//	collector.RecordDebouncedReload()
//
//	// Expose the endpoint
//	http.Handle("/metrics", collector.Handler())
//
// # Naming
//
// All metrics are prefixed with the configured namespace and subsystem,
// "redkeep_config" by default, e.g. redkeep_config_reloads_total.
//
// Label values are closed sets (triggers, outcomes, severities, schema
// versions), so metric cardinality stays bounded without enforcement.
package metrics
