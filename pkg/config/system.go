package config

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"os/exec"
	"runtime"

	"redkeep-hq/redkeep/pkg/validation"
)

// DefaultMinFreeDiskMB is the free space floor checked under the data
// directory before persistence is considered safe.
const DefaultMinFreeDiskMB = 100

// SystemChecker probes the host environment for conditions a configuration
// depends on: a bindable port, a reachable backend runtime, and enough free
// disk under the data directory. Probes touch the system, so the checker
// only runs when validation explicitly asks for system checks.
type SystemChecker struct {
	// MinFreeDiskMB overrides the free space floor. Zero uses the default.
	MinFreeDiskMB uint64

	logger   *slog.Logger
	lookPath func(file string) (string, error)
	listen   func(network, address string) (io.Closer, error)
	diskFree func(path string) (uint64, error)
}

// NewSystemChecker creates a checker backed by real host probes.
// If logger is nil, slog.Default() is used.
func NewSystemChecker(logger *slog.Logger) *SystemChecker {
	if logger == nil {
		logger = slog.Default()
	}
	return &SystemChecker{
		logger:   logger,
		lookPath: exec.LookPath,
		listen: func(network, address string) (io.Closer, error) {
			return net.Listen(network, address)
		},
		diskFree: freeDiskSpace,
	}
}

// Check probes the environment for the given configuration and reports
// what it finds. Probes that cannot run at all surface as warnings rather
// than errors; an unverifiable condition is not a failed one.
func (sc *SystemChecker) Check(cfg *Config) validation.Report {
	var report validation.Report

	report.Merge(
		sc.checkPort(&cfg.Redis),
		sc.checkRuntime(cfg.BackendType),
		sc.checkDiskSpace(&cfg.Redis),
	)

	return report
}

func (sc *SystemChecker) checkPort(r *RedisConfig) validation.Report {
	var report validation.Report

	addr := r.Address()
	l, err := sc.listen("tcp", addr)
	if err != nil {
		sc.logger.Debug("port probe failed", "address", addr, "error", err)
		report.Add(validation.Finding{
			PropertyPath: "redis.port",
			Severity:     validation.SeverityError,
			Message:      fmt.Sprintf("cannot bind %s: %v", addr, err),
			Suggestion:   "stop the process using the port or choose another port",
		})
		return report
	}
	l.Close()

	return report
}

func (sc *SystemChecker) checkRuntime(backendType string) validation.Report {
	var report validation.Report

	var binary, property string
	switch backendType {
	case BackendWSL2:
		binary = "wsl"
		if runtime.GOOS == "windows" {
			binary = "wsl.exe"
		}
		property = "wsl2.distribution"
	case BackendDocker:
		binary = "docker"
		property = "docker.image"
	default:
		return report
	}

	if _, err := sc.lookPath(binary); err != nil {
		report.Add(validation.Finding{
			PropertyPath: property,
			Severity:     validation.SeverityError,
			Message:      fmt.Sprintf("backend runtime %q not found on PATH", binary),
			Suggestion:   "install the " + backendType + " runtime or switch backendType",
		})
	}

	return report
}

func (sc *SystemChecker) checkDiskSpace(r *RedisConfig) validation.Report {
	var report validation.Report

	// Without an explicit data directory the server picks its own
	// location, which may live inside the backend. Nothing to probe.
	if r.DataDir == "" || r.PersistenceMode == PersistenceNone {
		return report
	}

	free, err := sc.diskFree(r.DataDir)
	if err != nil {
		sc.logger.Debug("disk space probe failed", "path", r.DataDir, "error", err)
		report.Add(validation.Finding{
			PropertyPath: "redis.dataDir",
			Severity:     validation.SeverityWarning,
			Message:      fmt.Sprintf("could not determine free disk space: %v", err),
			Suggestion:   "verify the data directory exists and is accessible",
		})
		return report
	}

	floor := sc.MinFreeDiskMB
	if floor == 0 {
		floor = DefaultMinFreeDiskMB
	}
	if free < floor*1024*1024 {
		report.Add(validation.Finding{
			PropertyPath: "redis.dataDir",
			Severity:     validation.SeverityError,
			Message: fmt.Sprintf("only %d MB free under %s, need at least %d MB",
				free/(1024*1024), r.DataDir, floor),
			Suggestion: "free up disk space or point redis.dataDir at a larger volume",
		})
	}

	return report
}
