package main

import (
	"strings"
	"testing"
	"time"

	"redkeep-hq/redkeep/pkg/config/diff"
)

func TestWatchCommandFlags(t *testing.T) {
	tests := []struct {
		name string
		def  string
	}{
		{"system", "false"},
		{"debounce", "1s"},
		{"history", ""},
		{"metrics-listen", ""},
	}

	for _, tt := range tests {
		flag := watchCmd.Flags().Lookup(tt.name)
		if flag == nil {
			t.Errorf("expected flag --%s to be registered", tt.name)
			continue
		}
		if flag.DefValue != tt.def {
			t.Errorf("flag --%s default = %q, want %q", tt.name, flag.DefValue, tt.def)
		}
	}
}

func TestPrintChangeReport(t *testing.T) {
	report := &diff.ChangeReport{
		ChangedProperties: []diff.ChangedProperty{
			{Path: "redis.memoryLimit", OldValue: "256mb", NewValue: "512mb", Severity: diff.SeverityMedium},
			{Path: "redis.port", OldValue: "6380", NewValue: "6381", Severity: diff.SeverityHigh, RequiresRestart: true},
		},
		Severity:        diff.SeverityHigh,
		RequiresRestart: true,
		AnalyzedAt:      time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC),
	}

	output, _ := captureStdout(t, func() error {
		printChangeReport(report)
		return nil
	})

	if !strings.Contains(output, "severity high") {
		t.Errorf("expected severity in output, got %q", output)
	}
	if !strings.Contains(output, "redis.port: 6380 -> 6381") {
		t.Errorf("expected change line, got %q", output)
	}
	if !strings.Contains(output, "* restart required to apply: redis.port") {
		t.Errorf("expected restart note, got %q", output)
	}
}

func TestPrintChangeReportMaskedValues(t *testing.T) {
	report := &diff.ChangeReport{
		ChangedProperties: []diff.ChangedProperty{
			{Path: "redis.password", OldValue: "***", NewValue: "***", Severity: diff.SeverityHigh, Sensitive: true},
		},
		Severity:   diff.SeverityHigh,
		Warnings:   []string{"sensitive property redis.password changed"},
		AnalyzedAt: time.Now(),
	}

	output, _ := captureStdout(t, func() error {
		printChangeReport(report)
		return nil
	})

	if !strings.Contains(output, "redis.password: *** -> ***") {
		t.Errorf("expected masked change line, got %q", output)
	}
	if !strings.Contains(output, "sensitive property redis.password changed") {
		t.Errorf("expected warning line, got %q", output)
	}
}

func TestDisplayValue(t *testing.T) {
	if got := displayValue(""); got != "(unset)" {
		t.Errorf("displayValue(\"\") = %q, want %q", got, "(unset)")
	}
	if got := displayValue("6380"); got != "6380" {
		t.Errorf("displayValue(\"6380\") = %q, want %q", got, "6380")
	}
}
