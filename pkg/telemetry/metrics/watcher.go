package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// WatcherMetrics tracks metrics for the configuration file watcher.
//
// Metrics:
//   - redkeep_config_watch_events_total: Raw filesystem events by type
//   - redkeep_config_debounced_reloads_total: Reloads fired after debouncing
//   - redkeep_config_watcher_resubscribes_total: Watch re-establishments
type WatcherMetrics struct {
	// Raw filesystem events
	eventsTotal *prometheus.CounterVec

	// Reloads fired after the debounce window closed
	debouncedReloadsTotal prometheus.Counter

	// Watch subscriptions re-established after file replacement
	resubscribesTotal prometheus.Counter
}

// NewWatcherMetrics creates and registers watcher metrics with the provided
// registry.
func NewWatcherMetrics(cfg *Config, registry *prometheus.Registry) *WatcherMetrics {
	wm := &WatcherMetrics{
		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "watch_events_total",
				Help:      "Total number of filesystem events seen by the watcher",
			},
			[]string{"event"},
		),

		debouncedReloadsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "debounced_reloads_total",
				Help:      "Total number of reloads fired after the debounce window",
			},
		),

		resubscribesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "watcher_resubscribes_total",
				Help:      "Total number of times the watch was re-established",
			},
		),
	}

	registry.MustRegister(
		wm.eventsTotal,
		wm.debouncedReloadsTotal,
		wm.resubscribesTotal,
	)

	return wm
}

// RecordEvent records a raw filesystem event.
//
// Parameters:
//   - event: Event type ("write", "create", "remove", "rename", "chmod")
func (wm *WatcherMetrics) RecordEvent(event string) {
	wm.eventsTotal.WithLabelValues(event).Inc()
}

// RecordDebouncedReload records a reload fired after the debounce window
// collapsed one or more events.
func (wm *WatcherMetrics) RecordDebouncedReload() {
	wm.debouncedReloadsTotal.Inc()
}

// RecordResubscribe records the watcher re-establishing its subscription,
// which happens when editors replace the watched file by rename.
func (wm *WatcherMetrics) RecordResubscribe() {
	wm.resubscribesTotal.Inc()
}
