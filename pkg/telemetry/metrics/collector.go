package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config controls metric naming and recording.
type Config struct {
	// Enabled toggles metric recording. When false, collectors register
	// their metrics but record nothing.
	Enabled bool

	// Namespace is the first segment of every metric name. Default: "redkeep".
	Namespace string

	// Subsystem is the second segment of every metric name. Default: "config".
	Subsystem string

	// ReloadDurationBuckets overrides the reload duration histogram buckets.
	ReloadDurationBuckets []float64
}

// Collector is the main orchestrator for all Prometheus metrics in Redkeep.
// It manages metric registration and provides a unified interface for
// recording metrics across the reload pipeline.
type Collector struct {
	config   *Config
	registry *prometheus.Registry

	// Reload pipeline metrics
	reloadMetrics *ReloadMetrics

	// Validation metrics
	validationMetrics *ValidationMetrics

	// File watcher metrics
	watcherMetrics *WatcherMetrics

	// Schema migration metrics
	migrationMetrics *MigrationMetrics
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. A nil registry creates a private
// one; a nil config enables recording with default naming.
//
// Example:
//
//	cfg := &metrics.Config{
//		Enabled:   true,
//		Namespace: "redkeep",
//		Subsystem: "config",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *Config, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg == nil {
		cfg = &Config{Enabled: true}
	}

	// Set defaults if not specified
	if cfg.Namespace == "" {
		cfg.Namespace = "redkeep"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "config"
	}
	if len(cfg.ReloadDurationBuckets) == 0 {
		// Reloads are file reads plus validation, occasionally probing
		// ports and runtimes (1ms - 5s)
		cfg.ReloadDurationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0}
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}

	// Initialize metric subsystems
	c.reloadMetrics = NewReloadMetrics(cfg, registry)
	c.validationMetrics = NewValidationMetrics(cfg, registry)
	c.watcherMetrics = NewWatcherMetrics(cfg, registry)
	c.migrationMetrics = NewMigrationMetrics(cfg, registry)

	return c
}

// RecordReload records metrics for a completed reload attempt.
//
// Parameters:
//   - trigger: What initiated the reload ("watcher", "manual", "signal")
//   - outcome: Reload outcome ("success", "rejected", "error")
//   - duration: Time from read to cache swap
func (c *Collector) RecordReload(trigger, outcome string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.reloadMetrics.RecordReload(trigger, outcome, duration)
}

// RecordRestartRequired records that an applied change set requires a
// backend restart to take effect.
func (c *Collector) RecordRestartRequired() {
	if !c.config.Enabled {
		return
	}

	c.reloadMetrics.RecordRestartRequired()
}

// RecordAutoRestart records an automatic restart attempt after a
// restart-requiring change.
//
// Parameters:
//   - outcome: Restart outcome ("success", "failure", "skipped")
func (c *Collector) RecordAutoRestart(outcome string) {
	if !c.config.Enabled {
		return
	}

	c.reloadMetrics.RecordAutoRestart(outcome)
}

// RecordValidation records the outcome of a validation run.
//
// Parameters:
//   - outcome: "pass" or "fail"
//   - errors, warnings, infos: Finding counts by severity
func (c *Collector) RecordValidation(outcome string, errors, warnings, infos int) {
	if !c.config.Enabled {
		return
	}

	c.validationMetrics.RecordReport(outcome, errors, warnings, infos)
}

// RecordWatchEvent records a filesystem event seen by the config watcher.
//
// Parameters:
//   - event: Event type ("write", "create", "remove", "rename", "chmod")
func (c *Collector) RecordWatchEvent(event string) {
	if !c.config.Enabled {
		return
	}

	c.watcherMetrics.RecordEvent(event)
}

// RecordDebouncedReload records a reload fired after the debounce window
// collapsed one or more filesystem events.
func (c *Collector) RecordDebouncedReload() {
	if !c.config.Enabled {
		return
	}

	c.watcherMetrics.RecordDebouncedReload()
}

// RecordWatcherResubscribe records the watcher re-establishing its
// subscription after the watched file was replaced or removed.
func (c *Collector) RecordWatcherResubscribe() {
	if !c.config.Enabled {
		return
	}

	c.watcherMetrics.RecordResubscribe()
}

// RecordMigration records a completed migration run.
//
// Parameters:
//   - outcome: "applied", "noop", or "error"
func (c *Collector) RecordMigration(outcome string) {
	if !c.config.Enabled {
		return
	}

	c.migrationMetrics.RecordMigration(outcome)
}

// RecordMigrationStep records a single applied migration step.
//
// Parameters:
//   - fromVersion, toVersion: Schema versions the step bridges
func (c *Collector) RecordMigrationStep(fromVersion, toVersion string) {
	if !c.config.Enabled {
		return
	}

	c.migrationMetrics.RecordStep(fromVersion, toVersion)
}

// Registry returns the Prometheus registry used by this collector.
// This can be used to create an HTTP handler for the /metrics endpoint:
//
//	http.Handle("/metrics", promhttp.HandlerFor(
//		collector.Registry(),
//		promhttp.HandlerOpts{},
//	))
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
