package config

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"redkeep-hq/redkeep/pkg/validation"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newStubChecker returns a checker whose probes all succeed. Tests
// override individual probes to simulate failures.
func newStubChecker() *SystemChecker {
	return &SystemChecker{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		lookPath: func(string) (string, error) {
			return "/usr/bin/stub", nil
		},
		listen: func(string, string) (io.Closer, error) {
			return nopCloser{}, nil
		},
		diskFree: func(string) (uint64, error) {
			return 10 * 1024 * 1024 * 1024, nil
		},
	}
}

func TestSystemChecker_AllProbesPass(t *testing.T) {
	cfg := Default()
	cfg.Redis.DataDir = "/var/lib/redkeep"

	report := newStubChecker().Check(cfg)
	if !report.IsSuccess() {
		t.Errorf("expected clean report, got %v", report.Failures())
	}
}

func TestSystemChecker_PortBusy(t *testing.T) {
	system := newStubChecker()
	system.listen = func(_, addr string) (io.Closer, error) {
		return nil, errors.New("address already in use")
	}

	report := system.Check(Default())

	failures := report.Failures()
	if len(failures) != 1 {
		t.Fatalf("expected one failure, got %v", failures)
	}
	if failures[0].PropertyPath != "redis.port" {
		t.Errorf("expected property redis.port, got %q", failures[0].PropertyPath)
	}
	if failures[0].Severity != validation.SeverityError {
		t.Errorf("expected severity error, got %v", failures[0].Severity)
	}
}

func TestSystemChecker_RuntimeMissing(t *testing.T) {
	tests := []struct {
		name         string
		backendType  string
		wantProperty string
	}{
		{"wsl2", BackendWSL2, "wsl2.distribution"},
		{"docker", BackendDocker, "docker.image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			system := newStubChecker()
			system.lookPath = func(string) (string, error) {
				return "", errors.New("executable file not found in $PATH")
			}

			cfg := Default()
			cfg.BackendType = tt.backendType

			report := system.Check(cfg)
			failures := report.Failures()
			if len(failures) != 1 {
				t.Fatalf("expected one failure, got %v", failures)
			}
			if failures[0].PropertyPath != tt.wantProperty {
				t.Errorf("expected property %s, got %q", tt.wantProperty, failures[0].PropertyPath)
			}
		})
	}
}

func TestSystemChecker_LowDiskSpace(t *testing.T) {
	system := newStubChecker()
	system.diskFree = func(string) (uint64, error) {
		return 5 * 1024 * 1024, nil
	}

	cfg := Default()
	cfg.Redis.DataDir = "/var/lib/redkeep"

	report := system.Check(cfg)
	failures := report.Failures()
	if len(failures) != 1 {
		t.Fatalf("expected one failure, got %v", failures)
	}
	if failures[0].PropertyPath != "redis.dataDir" {
		t.Errorf("expected property redis.dataDir, got %q", failures[0].PropertyPath)
	}
}

func TestSystemChecker_DiskProbeFailureWarnsOnly(t *testing.T) {
	system := newStubChecker()
	system.diskFree = func(string) (uint64, error) {
		return 0, errors.New("stat failed")
	}

	cfg := Default()
	cfg.Redis.DataDir = "/var/lib/redkeep"

	report := system.Check(cfg)
	if !report.IsSuccess() {
		t.Errorf("expected warning only for unverifiable disk space, got %v", report.Failures())
	}
	if len(report.BySeverity(validation.SeverityWarning)) != 1 {
		t.Errorf("expected one warning, got %v", report.Findings)
	}
}

func TestSystemChecker_DiskSkippedWithoutDataDir(t *testing.T) {
	probed := false
	system := newStubChecker()
	system.diskFree = func(string) (uint64, error) {
		probed = true
		return 0, nil
	}

	system.Check(Default())
	if probed {
		t.Error("expected disk probe to be skipped without a data directory")
	}
}

func TestSystemChecker_CustomFloor(t *testing.T) {
	system := newStubChecker()
	system.MinFreeDiskMB = 1024
	system.diskFree = func(string) (uint64, error) {
		return 512 * 1024 * 1024, nil
	}

	cfg := Default()
	cfg.Redis.DataDir = "/var/lib/redkeep"

	if report := system.Check(cfg); report.IsSuccess() {
		t.Error("expected failure below the raised free space floor")
	}
}
