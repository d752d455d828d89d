package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MigrationMetrics tracks metrics for schema migration runs.
//
// Metrics:
//   - redkeep_config_migrations_total: Migration runs by outcome
//   - redkeep_config_migration_steps_total: Applied steps by version pair
type MigrationMetrics struct {
	// Migration runs
	migrationsTotal *prometheus.CounterVec

	// Individual applied steps
	stepsTotal *prometheus.CounterVec
}

// NewMigrationMetrics creates and registers migration metrics with the
// provided registry.
func NewMigrationMetrics(cfg *Config, registry *prometheus.Registry) *MigrationMetrics {
	mm := &MigrationMetrics{
		migrationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "migrations_total",
				Help:      "Total number of schema migration runs",
			},
			[]string{"outcome"},
		),

		stepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "migration_steps_total",
				Help:      "Total number of applied migration steps",
			},
			[]string{"from_version", "to_version"},
		),
	}

	registry.MustRegister(
		mm.migrationsTotal,
		mm.stepsTotal,
	)

	return mm
}

// RecordMigration records a completed migration run.
//
// Parameters:
//   - outcome: "applied" (at least one step ran), "noop" (already current),
//     or "error"
func (mm *MigrationMetrics) RecordMigration(outcome string) {
	mm.migrationsTotal.WithLabelValues(outcome).Inc()
}

// RecordStep records a single applied migration step.
//
// Parameters:
//   - fromVersion, toVersion: Schema versions the step bridges
func (mm *MigrationMetrics) RecordStep(fromVersion, toVersion string) {
	mm.stepsTotal.WithLabelValues(fromVersion, toVersion).Inc()
}
