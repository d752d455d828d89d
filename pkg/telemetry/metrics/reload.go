package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ReloadMetrics tracks metrics for the configuration reload pipeline.
//
// Metrics:
//   - redkeep_config_reloads_total: Total reload attempts by trigger and outcome
//   - redkeep_config_reload_duration_seconds: Reload duration from read to swap
//   - redkeep_config_last_reload_timestamp_seconds: Unix time of the last attempt
//   - redkeep_config_last_reload_success: 1 when the last attempt succeeded
//   - redkeep_config_restarts_required_total: Applied changes that need a restart
//   - redkeep_config_auto_restarts_total: Automatic restart attempts by outcome
type ReloadMetrics struct {
	// Total reload attempts
	reloadsTotal *prometheus.CounterVec

	// Reload duration histogram
	reloadDuration *prometheus.HistogramVec

	// Unix timestamp of the most recent reload attempt
	lastReloadTimestamp prometheus.Gauge

	// Whether the most recent reload attempt succeeded
	lastReloadSuccess prometheus.Gauge

	// Applied change sets that require a backend restart
	restartsRequiredTotal prometheus.Counter

	// Automatic restart attempts
	autoRestartsTotal *prometheus.CounterVec
}

// NewReloadMetrics creates and registers reload metrics with the provided registry.
func NewReloadMetrics(cfg *Config, registry *prometheus.Registry) *ReloadMetrics {
	rm := &ReloadMetrics{
		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "reloads_total",
				Help:      "Total number of configuration reload attempts",
			},
			[]string{"trigger", "outcome"},
		),

		reloadDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "reload_duration_seconds",
				Help:      "Duration of a reload from file read to cache swap",
				Buckets:   cfg.ReloadDurationBuckets,
			},
			[]string{"trigger"},
		),

		lastReloadTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "last_reload_timestamp_seconds",
				Help:      "Unix timestamp of the most recent reload attempt",
			},
		),

		lastReloadSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "last_reload_success",
				Help:      "Whether the most recent reload attempt succeeded (1) or not (0)",
			},
		),

		restartsRequiredTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "restarts_required_total",
				Help:      "Total number of applied change sets requiring a backend restart",
			},
		),

		autoRestartsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "auto_restarts_total",
				Help:      "Total number of automatic restart attempts",
			},
			[]string{"outcome"},
		),
	}

	// Register all metrics
	registry.MustRegister(
		rm.reloadsTotal,
		rm.reloadDuration,
		rm.lastReloadTimestamp,
		rm.lastReloadSuccess,
		rm.restartsRequiredTotal,
		rm.autoRestartsTotal,
	)

	return rm
}

// RecordReload records a completed reload attempt.
//
// Parameters:
//   - trigger: What initiated the reload ("watcher", "manual", "signal")
//   - outcome: "success", "rejected" (validation failed, previous config kept),
//     or "error" (read, parse, or migration failed)
//   - duration: Time from file read to cache swap or rejection
func (rm *ReloadMetrics) RecordReload(trigger, outcome string, duration time.Duration) {
	rm.reloadsTotal.WithLabelValues(trigger, outcome).Inc()
	rm.reloadDuration.WithLabelValues(trigger).Observe(duration.Seconds())
	rm.lastReloadTimestamp.SetToCurrentTime()
	if outcome == "success" {
		rm.lastReloadSuccess.Set(1)
	} else {
		rm.lastReloadSuccess.Set(0)
	}
}

// RecordRestartRequired records an applied change set that needs a backend
// restart before it takes effect.
func (rm *ReloadMetrics) RecordRestartRequired() {
	rm.restartsRequiredTotal.Inc()
}

// RecordAutoRestart records an automatic restart attempt.
//
// Parameters:
//   - outcome: "success", "failure", or "skipped" (auto restart disabled)
func (rm *ReloadMetrics) RecordAutoRestart(outcome string) {
	rm.autoRestartsTotal.WithLabelValues(outcome).Inc()
}
