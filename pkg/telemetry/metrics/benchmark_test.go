package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BenchmarkCollector_RecordReload measures reload recording overhead.
func BenchmarkCollector_RecordReload(b *testing.B) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		collector.RecordReload("watcher", "success", 10*time.Millisecond)
	}
}

// BenchmarkCollector_RecordReload_Disabled measures the disabled fast path.
func BenchmarkCollector_RecordReload_Disabled(b *testing.B) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, prometheus.NewRegistry())

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		collector.RecordReload("watcher", "success", 10*time.Millisecond)
	}
}

// BenchmarkCollector_RecordWatchEvent measures event recording overhead.
func BenchmarkCollector_RecordWatchEvent(b *testing.B) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		collector.RecordWatchEvent("write")
	}
}
