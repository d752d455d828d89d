package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Helper function to create test config
func testConfig() *Config {
	return &Config{
		Enabled:               true,
		Namespace:             "test",
		Subsystem:             "metrics",
		ReloadDurationBuckets: []float64{0.01, 0.1, 1.0},
	}
}

func TestCollector_NewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector == nil {
		t.Fatal("Expected non-nil collector")
	}
	if collector.config != cfg {
		t.Error("Collector config not set correctly")
	}
	if collector.registry != registry {
		t.Error("Collector registry not set correctly")
	}
}

func TestCollector_NewCollector_Defaults(t *testing.T) {
	collector := NewCollector(nil, nil)

	if collector.registry == nil {
		t.Fatal("Expected a private registry")
	}
	if collector.config.Namespace != "redkeep" {
		t.Errorf("Expected default namespace redkeep, got %q", collector.config.Namespace)
	}
	if collector.config.Subsystem != "config" {
		t.Errorf("Expected default subsystem config, got %q", collector.config.Subsystem)
	}
	if len(collector.config.ReloadDurationBuckets) == 0 {
		t.Error("Expected default duration buckets")
	}
}

func TestCollector_RecordReload(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	tests := []struct {
		name    string
		trigger string
		outcome string
	}{
		{name: "watcher success", trigger: "watcher", outcome: "success"},
		{name: "manual rejected", trigger: "manual", outcome: "rejected"},
		{name: "signal error", trigger: "signal", outcome: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector.RecordReload(tt.trigger, tt.outcome, 12*time.Millisecond)

			count := testutil.ToFloat64(collector.reloadMetrics.reloadsTotal.WithLabelValues(tt.trigger, tt.outcome))
			if count < 1 {
				t.Errorf("Expected reload counter >= 1, got %f", count)
			}
		})
	}

	// Last outcome was an error
	success := testutil.ToFloat64(collector.reloadMetrics.lastReloadSuccess)
	if success != 0 {
		t.Errorf("Expected last_reload_success=0, got %f", success)
	}

	collector.RecordReload("manual", "success", time.Millisecond)
	success = testutil.ToFloat64(collector.reloadMetrics.lastReloadSuccess)
	if success != 1 {
		t.Errorf("Expected last_reload_success=1, got %f", success)
	}

	ts := testutil.ToFloat64(collector.reloadMetrics.lastReloadTimestamp)
	if ts <= 0 {
		t.Errorf("Expected last reload timestamp to be set, got %f", ts)
	}
}

func TestCollector_RecordRestarts(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RecordRestartRequired()
	collector.RecordRestartRequired()
	collector.RecordAutoRestart("success")
	collector.RecordAutoRestart("skipped")

	required := testutil.ToFloat64(collector.reloadMetrics.restartsRequiredTotal)
	if required != 2 {
		t.Errorf("Expected 2 required restarts, got %f", required)
	}

	skipped := testutil.ToFloat64(collector.reloadMetrics.autoRestartsTotal.WithLabelValues("skipped"))
	if skipped != 1 {
		t.Errorf("Expected 1 skipped auto restart, got %f", skipped)
	}
}

func TestCollector_RecordValidation(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RecordValidation("fail", 2, 1, 0)
	collector.RecordValidation("pass", 0, 0, 3)

	failRuns := testutil.ToFloat64(collector.validationMetrics.reportsTotal.WithLabelValues("fail"))
	if failRuns != 1 {
		t.Errorf("Expected 1 failed run, got %f", failRuns)
	}

	errorFindings := testutil.ToFloat64(collector.validationMetrics.findingsTotal.WithLabelValues("error"))
	if errorFindings != 2 {
		t.Errorf("Expected 2 error findings, got %f", errorFindings)
	}

	infoFindings := testutil.ToFloat64(collector.validationMetrics.findingsTotal.WithLabelValues("info"))
	if infoFindings != 3 {
		t.Errorf("Expected 3 info findings, got %f", infoFindings)
	}
}

func TestCollector_WatcherMetrics(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RecordWatchEvent("write")
	collector.RecordWatchEvent("write")
	collector.RecordWatchEvent("rename")
	collector.RecordDebouncedReload()
	collector.RecordWatcherResubscribe()

	writes := testutil.ToFloat64(collector.watcherMetrics.eventsTotal.WithLabelValues("write"))
	if writes != 2 {
		t.Errorf("Expected 2 write events, got %f", writes)
	}

	debounced := testutil.ToFloat64(collector.watcherMetrics.debouncedReloadsTotal)
	if debounced != 1 {
		t.Errorf("Expected 1 debounced reload, got %f", debounced)
	}

	resubs := testutil.ToFloat64(collector.watcherMetrics.resubscribesTotal)
	if resubs != 1 {
		t.Errorf("Expected 1 resubscribe, got %f", resubs)
	}
}

func TestCollector_MigrationMetrics(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RecordMigration("applied")
	collector.RecordMigrationStep("1.0.0", "1.1.0")
	collector.RecordMigrationStep("1.1.0", "2.0.0")

	applied := testutil.ToFloat64(collector.migrationMetrics.migrationsTotal.WithLabelValues("applied"))
	if applied != 1 {
		t.Errorf("Expected 1 applied migration, got %f", applied)
	}

	steps := testutil.ToFloat64(collector.migrationMetrics.stepsTotal.WithLabelValues("1.0.0", "1.1.0"))
	if steps != 1 {
		t.Errorf("Expected 1 step for 1.0.0 to 1.1.0, got %f", steps)
	}
}

func TestCollector_DisabledRecordsNothing(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, prometheus.NewRegistry())

	collector.RecordReload("watcher", "success", time.Millisecond)
	collector.RecordValidation("pass", 0, 0, 0)
	collector.RecordWatchEvent("write")
	collector.RecordMigration("noop")
	collector.RecordRestartRequired()

	count := testutil.ToFloat64(collector.reloadMetrics.reloadsTotal.WithLabelValues("watcher", "success"))
	if count != 0 {
		t.Errorf("Expected no recording when disabled, got %f", count)
	}
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.RecordReload("manual", "success", time.Millisecond)

	server := httptest.NewServer(collector.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if !strings.Contains(string(body), "test_metrics_reloads_total") {
		t.Errorf("Expected reloads_total in exposition output")
	}
}
