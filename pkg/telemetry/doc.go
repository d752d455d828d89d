// Package telemetry provides observability for Redkeep.
//
// # Overview
//
// The telemetry package implements structured logging and Prometheus
// metrics for the configuration engine: reload outcomes, validation
// findings, watcher activity, and migrations.
//
// # Components
//
//   - logging: Structured slog-based logging with secret redaction
//   - metrics: Prometheus metrics collection
//
// # Usage
//
//	// Create a logger
//	logger, err := logging.New(logging.Config{
//		Level:         "info",
//		Format:        "json",
//		RedactSecrets: true,
//	})
//
//	// Record metrics
//	collector := metrics.NewCollector(&metrics.Config{Enabled: true}, nil)
//	collector.RecordReload("watcher", "success", 12*time.Millisecond)
//
//	// Serve them
//	http.Handle("/metrics", collector.Handler())
//
// # Secret Protection
//
// With RedactSecrets enabled, password and credential values in log
// fields are masked before they reach any handler. Secret references
// such as "${ENV:REDIS_PASSWORD}" are safe to log as written; resolved
// values never are.
package telemetry
