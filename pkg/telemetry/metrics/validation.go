package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ValidationMetrics tracks metrics for configuration validation runs.
//
// Metrics:
//   - redkeep_config_validation_reports_total: Validation runs by outcome
//   - redkeep_config_validation_findings_total: Findings by severity
type ValidationMetrics struct {
	// Validation runs
	reportsTotal *prometheus.CounterVec

	// Individual findings
	findingsTotal *prometheus.CounterVec
}

// NewValidationMetrics creates and registers validation metrics with the
// provided registry.
func NewValidationMetrics(cfg *Config, registry *prometheus.Registry) *ValidationMetrics {
	vm := &ValidationMetrics{
		reportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validation_reports_total",
				Help:      "Total number of validation runs",
			},
			[]string{"outcome"},
		),

		findingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validation_findings_total",
				Help:      "Total number of validation findings",
			},
			[]string{"severity"},
		),
	}

	registry.MustRegister(
		vm.reportsTotal,
		vm.findingsTotal,
	)

	return vm
}

// RecordReport records a validation run and its finding counts.
//
// Parameters:
//   - outcome: "pass" (no error findings) or "fail"
//   - errors, warnings, infos: Finding counts by severity
func (vm *ValidationMetrics) RecordReport(outcome string, errors, warnings, infos int) {
	vm.reportsTotal.WithLabelValues(outcome).Inc()

	if errors > 0 {
		vm.findingsTotal.WithLabelValues("error").Add(float64(errors))
	}
	if warnings > 0 {
		vm.findingsTotal.WithLabelValues("warning").Add(float64(warnings))
	}
	if infos > 0 {
		vm.findingsTotal.WithLabelValues("info").Add(float64(infos))
	}
}
