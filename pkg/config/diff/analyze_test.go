package diff

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"redkeep-hq/redkeep/pkg/config"
	"redkeep-hq/redkeep/pkg/secrets"
)

var analyzedAt = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

func TestAnalyze_IdenticalSnapshots(t *testing.T) {
	cfg := config.Default()

	report := Analyze(cfg, cfg.Clone(), analyzedAt)

	if report.HasChanges() {
		t.Errorf("expected no changes, got %+v", report.ChangedProperties)
	}
	if report.RequiresRestart {
		t.Error("expected no restart for identical snapshots")
	}
	if report.Severity != SeverityLow {
		t.Errorf("expected severity low, got %v", report.Severity)
	}
	if len(report.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", report.Warnings)
	}
	if !report.AnalyzedAt.Equal(analyzedAt) {
		t.Errorf("expected analyzed at %v, got %v", analyzedAt, report.AnalyzedAt)
	}
}

func TestAnalyze_PortChange(t *testing.T) {
	oldCfg := config.Default()
	oldCfg.Redis.Port = 6380
	newCfg := oldCfg.Clone()
	newCfg.Redis.Port = 6381

	report := Analyze(oldCfg, newCfg, analyzedAt)

	if len(report.ChangedProperties) != 1 {
		t.Fatalf("expected one change, got %+v", report.ChangedProperties)
	}
	change := report.ChangedProperties[0]
	if change.Path != "redis.port" {
		t.Errorf("expected path redis.port, got %q", change.Path)
	}
	if change.OldValue != "6380" || change.NewValue != "6381" {
		t.Errorf("expected 6380 -> 6381, got %q -> %q", change.OldValue, change.NewValue)
	}
	if change.Severity != SeverityHigh {
		t.Errorf("expected severity high, got %v", change.Severity)
	}
	if !change.RequiresRestart || !report.RequiresRestart {
		t.Error("expected port change to require restart")
	}
}

func TestAnalyze_BackendSwitchIsCritical(t *testing.T) {
	oldCfg := config.Default()
	newCfg := oldCfg.Clone()
	newCfg.BackendType = config.BackendDocker

	report := Analyze(oldCfg, newCfg, analyzedAt)

	if len(report.ChangedProperties) != 1 {
		t.Fatalf("expected one change, got %+v", report.ChangedProperties)
	}
	if report.ChangedProperties[0].Severity != SeverityCritical {
		t.Errorf("expected severity critical, got %v", report.ChangedProperties[0].Severity)
	}
	if !report.RequiresRestart {
		t.Error("expected backend switch to require restart")
	}
	if report.Severity != SeverityCritical {
		t.Errorf("expected report severity critical, got %v", report.Severity)
	}
}

func TestAnalyze_MemoryLimitAppliesLive(t *testing.T) {
	oldCfg := config.Default()
	newCfg := oldCfg.Clone()
	newCfg.Redis.MemoryLimit = "512mb"

	report := Analyze(oldCfg, newCfg, analyzedAt)

	if len(report.ChangedProperties) != 1 {
		t.Fatalf("expected one change, got %+v", report.ChangedProperties)
	}
	change := report.ChangedProperties[0]
	if change.Severity != SeverityMedium {
		t.Errorf("expected severity medium, got %v", change.Severity)
	}
	if change.RequiresRestart || report.RequiresRestart {
		t.Error("expected memory limit change to apply without restart")
	}
}

func TestAnalyze_PasswordWithheld(t *testing.T) {
	oldCfg := config.Default()
	oldCfg.Redis.Password = "old-secret"
	newCfg := oldCfg.Clone()
	newCfg.Redis.Password = "new-secret"

	report := Analyze(oldCfg, newCfg, analyzedAt)

	if len(report.ChangedProperties) != 1 {
		t.Fatalf("expected one change, got %+v", report.ChangedProperties)
	}
	change := report.ChangedProperties[0]
	if !change.Sensitive {
		t.Error("expected password change to be marked sensitive")
	}
	if change.OldValue != secrets.Mask || change.NewValue != secrets.Mask {
		t.Errorf("expected masked values, got %q -> %q", change.OldValue, change.NewValue)
	}
	if change.RequiresRestart {
		t.Error("expected password change to apply without restart")
	}
	if change.Severity != SeverityLow {
		t.Errorf("expected severity low, got %v", change.Severity)
	}

	if len(report.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", report.Warnings)
	}
	for _, secret := range []string{"old-secret", "new-secret"} {
		if strings.Contains(report.Warnings[0], secret) {
			t.Errorf("warning leaks the value: %q", report.Warnings[0])
		}
	}
}

func TestAnalyze_SeverityIsMaximum(t *testing.T) {
	oldCfg := config.Default()
	newCfg := oldCfg.Clone()
	newCfg.Service.DisplayName = "Renamed"
	newCfg.Redis.Port = 6381

	report := Analyze(oldCfg, newCfg, analyzedAt)

	if len(report.ChangedProperties) != 2 {
		t.Fatalf("expected two changes, got %+v", report.ChangedProperties)
	}
	if report.Severity != SeverityHigh {
		t.Errorf("expected report severity high, got %v", report.Severity)
	}
	if !report.RequiresRestart {
		t.Error("expected restart from the port change")
	}

	// Entries are ordered by path.
	if report.ChangedProperties[0].Path != "redis.port" ||
		report.ChangedProperties[1].Path != "service.displayName" {
		t.Errorf("expected path-ordered entries, got %+v", report.ChangedProperties)
	}

	if got := report.RestartProperties(); !reflect.DeepEqual(got, []string{"redis.port"}) {
		t.Errorf("expected restart properties [redis.port], got %v", got)
	}
}

func TestAnalyze_MetadataIgnored(t *testing.T) {
	oldCfg := config.Default()
	newCfg := oldCfg.Clone()
	newCfg.Metadata.ModifiedAt = "2026-02-01T12:00:00Z"
	newCfg.Metadata.Notes = "touched"

	report := Analyze(oldCfg, newCfg, analyzedAt)

	if report.HasChanges() {
		t.Errorf("expected metadata changes to be invisible, got %+v", report.ChangedProperties)
	}
}

func TestAnalyze_EnvironmentPerKey(t *testing.T) {
	oldCfg := config.Default()
	oldCfg.Advanced.Environment = map[string]string{"TZ": "UTC"}
	newCfg := oldCfg.Clone()
	newCfg.Advanced.Environment["TZ"] = "America/New_York"
	newCfg.Advanced.Environment["LANG"] = "C"

	report := Analyze(oldCfg, newCfg, analyzedAt)

	if len(report.ChangedProperties) != 2 {
		t.Fatalf("expected two changes, got %+v", report.ChangedProperties)
	}

	added := report.ChangedProperties[0]
	if added.Path != "advanced.environment.LANG" || added.OldValue != "" || added.NewValue != "C" {
		t.Errorf("unexpected added entry %+v", added)
	}
	modified := report.ChangedProperties[1]
	if modified.Path != "advanced.environment.TZ" || modified.NewValue != "America/New_York" {
		t.Errorf("unexpected modified entry %+v", modified)
	}
	if !report.RequiresRestart {
		t.Error("expected environment changes to require restart")
	}
}

func TestAnalyze_CustomArgsWholesale(t *testing.T) {
	oldCfg := config.Default()
	newCfg := oldCfg.Clone()
	newCfg.Advanced.CustomArgs = []string{"--appendonly", "yes"}

	report := Analyze(oldCfg, newCfg, analyzedAt)

	if len(report.ChangedProperties) != 1 {
		t.Fatalf("expected one change, got %+v", report.ChangedProperties)
	}
	change := report.ChangedProperties[0]
	if change.Path != "advanced.customArgs" {
		t.Errorf("expected path advanced.customArgs, got %q", change.Path)
	}
	if change.OldValue != "" {
		t.Errorf("expected empty old value, got %q", change.OldValue)
	}
	if !change.RequiresRestart {
		t.Error("expected custom args change to require restart")
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	oldCfg := config.Default()
	newCfg := oldCfg.Clone()
	newCfg.Redis.Port = 6381
	newCfg.Monitoring.VerboseLogging = true

	a := Analyze(oldCfg, newCfg, analyzedAt)
	b := Analyze(oldCfg, newCfg, analyzedAt)

	if !reflect.DeepEqual(a, b) {
		t.Errorf("expected identical reports,\nfirst  %+v\nsecond %+v", a, b)
	}
}

func TestAnalyze_InputsUntouched(t *testing.T) {
	oldCfg := config.Default()
	newCfg := oldCfg.Clone()
	newCfg.Redis.Port = 6381

	oldSnapshot := oldCfg.Clone()
	newSnapshot := newCfg.Clone()

	Analyze(oldCfg, newCfg, analyzedAt)

	if !reflect.DeepEqual(oldCfg, oldSnapshot) || !reflect.DeepEqual(newCfg, newSnapshot) {
		t.Error("expected analysis to leave both snapshots unchanged")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		path         string
		wantSeverity Severity
		wantRestart  bool
	}{
		{"backendType", SeverityCritical, true},
		{"wsl2.distribution", SeverityHigh, true},
		{"docker.image", SeverityHigh, true},
		{"redis.port", SeverityHigh, true},
		{"redis.bindAddress", SeverityHigh, true},
		{"redis.persistenceMode", SeverityHigh, true},
		{"redis.dataDir", SeverityHigh, true},
		{"redis.memoryLimit", SeverityMedium, false},
		{"redis.password", SeverityLow, false},
		{"service.name", SeverityHigh, true},
		{"service.displayName", SeverityLow, false},
		{"service.startMode", SeverityMedium, false},
		{"service.failureActions", SeverityMedium, false},
		{"monitoring.verboseLogging", SeverityLow, false},
		{"performance.maxRestartAttempts", SeverityMedium, false},
		{"advanced.customArgs", SeverityHigh, true},
		{"advanced.environment.TZ", SeverityHigh, true},
		{"advanced.preStartScript", SeverityLow, false},
		{"advanced.postStopScript", SeverityLow, false},
		{"unclassified.path", SeverityLow, false},
	}

	for _, tt := range tests {
		severity, restart := classify(tt.path)
		if severity != tt.wantSeverity || restart != tt.wantRestart {
			t.Errorf("classify(%q): expected (%v, %v), got (%v, %v)",
				tt.path, tt.wantSeverity, tt.wantRestart, severity, restart)
		}
	}
}

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityLow, "low"},
		{SeverityMedium, "medium"},
		{SeverityHigh, "high"},
		{SeverityCritical, "critical"},
		{Severity(9), "severity(9)"},
	}

	for _, tt := range tests {
		if got := tt.severity.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}
