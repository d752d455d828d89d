package config

import (
	"net"
	"regexp"
	"strconv"

	"redkeep-hq/redkeep/pkg/validation"
)

var (
	serviceNamePattern   = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)
	containerPattern     = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)
	envVarNamePattern    = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	schemaVersionPattern = regexp.MustCompile(`^[0-9]+\.[0-9]+\.[0-9]+$`)
)

// Options controls how much of the configuration is validated.
type Options struct {
	// IncludeSystemChecks enables environment probes (port availability,
	// disk space, backend runtime presence) after the syntactic checks
	// pass. Syntactic validation never touches the system.
	IncludeSystemChecks bool

	// System performs the environment probes when IncludeSystemChecks is
	// set. Nil uses a checker with real probes.
	System *SystemChecker
}

// Validate runs every domain validator over the configuration and returns
// the combined report. Findings accumulate: one report lists everything
// wrong, not just the first problem. System probes run only when requested
// and only if the syntactic checks succeed, so a malformed configuration
// never triggers I/O.
func Validate(cfg *Config, opts Options) validation.Report {
	var report validation.Report

	report.Merge(
		ValidateBackend(cfg),
		ValidateDataStore(&cfg.Redis),
		ValidateService(&cfg.Service),
		validateMonitoring(&cfg.Monitoring),
		validatePerformance(&cfg.Performance),
		validateAdvanced(&cfg.Advanced),
		validateMetadata(&cfg.Metadata),
	)

	if !opts.IncludeSystemChecks || !report.IsSuccess() {
		return report
	}

	system := opts.System
	if system == nil {
		system = NewSystemChecker(nil)
	}
	report.Merge(system.Check(cfg))

	return report
}

// ValidateBackend checks the backend discriminator and the sub-section it
// selects. The inactive sub-section is not validated; a docker
// configuration may carry stale wsl2 settings without complaint.
func ValidateBackend(cfg *Config) validation.Report {
	var r validation.Report
	r.Merge(validation.OneOf(cfg.BackendType, "backendType", BackendWSL2, BackendDocker))

	switch cfg.BackendType {
	case BackendWSL2:
		r.Merge(
			validation.NonEmpty(cfg.WSL2.Distribution, "wsl2.distribution"),
			validation.WellFormedPath(cfg.WSL2.BinaryPath, "wsl2.binaryPath"),
			validation.Range(cfg.WSL2.StartupTimeoutSeconds, "wsl2.startupTimeoutSeconds", 1, 600),
		)
	case BackendDocker:
		r.Merge(
			validation.NonEmpty(cfg.Docker.Image, "docker.image"),
			validation.Pattern(cfg.Docker.ContainerName, "docker.containerName",
				containerPattern, "a letter or digit followed by letters, digits, '_', '.' or '-'"),
			validation.Pattern(cfg.Docker.Volume, "docker.volume",
				containerPattern, "a letter or digit followed by letters, digits, '_', '.' or '-'"),
		)
	}

	return r
}

// ValidateDataStore checks the data store section: port range, bind
// address, memory limit shape, persistence mode, and data directory.
// The password field is not inspected here; secret references are the
// resolver's concern.
func ValidateDataStore(r *RedisConfig) validation.Report {
	var report validation.Report

	report.Merge(
		validation.Port(r.Port, "redis.port"),
		validation.NonEmpty(r.BindAddress, "redis.bindAddress"),
		validation.SizeString(r.MemoryLimit, "redis.memoryLimit"),
		validation.OneOf(r.PersistenceMode, "redis.persistenceMode",
			PersistenceNone, PersistenceRDB, PersistenceAOF, PersistenceBoth),
	)

	if r.BindAddress != "" && net.ParseIP(r.BindAddress) == nil {
		report.Add(validation.Finding{
			PropertyPath: "redis.bindAddress",
			Severity:     validation.SeverityError,
			Message:      "must be an IP address, got " + r.BindAddress,
			Suggestion:   "use an address such as 127.0.0.1 or 0.0.0.0",
		})
	}

	if r.DataDir != "" {
		report.Merge(validation.WellFormedPath(r.DataDir, "redis.dataDir"))
	}
	if r.PersistenceMode != PersistenceNone && r.PersistenceMode != "" && r.DataDir == "" {
		report.Add(validation.Finding{
			PropertyPath: "redis.dataDir",
			Severity:     validation.SeverityInfo,
			Message:      "persistence is enabled without an explicit data directory",
			Suggestion:   "set redis.dataDir to control where persistence files are written",
		})
	}

	return report
}

// ValidateService checks service identity and lifecycle settings.
func ValidateService(s *ServiceConfig) validation.Report {
	var report validation.Report

	report.Merge(
		validation.Pattern(s.Name, "service.name",
			serviceNamePattern, "a letter or digit followed by letters, digits, '_' or '-'"),
		validation.NonEmpty(s.DisplayName, "service.displayName"),
		validation.OneOf(s.StartMode, "service.startMode",
			StartModeAutomatic, StartModeManual, StartModeDisabled),
	)

	for i, action := range s.FailureActions {
		report.Merge(validation.OneOf(action, indexedPath("service.failureActions", i),
			FailureActionRestart, FailureActionNone))
	}
	if len(s.FailureActions) > 3 {
		report.Add(validation.Finding{
			PropertyPath: "service.failureActions",
			Severity:     validation.SeverityWarning,
			Message:      "only the first three failure actions are applied",
			Suggestion:   "list at most three actions: first, second, and subsequent failures",
		})
	}

	return report
}

func validateMonitoring(m *MonitoringConfig) validation.Report {
	var report validation.Report

	report.Merge(
		validation.Range(m.HealthCheckIntervalSeconds, "monitoring.healthCheckIntervalSeconds", 1, 86400),
		validation.Range(m.HealthCheckTimeoutSeconds, "monitoring.healthCheckTimeoutSeconds", 1, 300),
		validation.Range(m.MaxLogSizeMB, "monitoring.maxLogSizeMB", 1, 1024),
		validation.Range(m.MaxLogFiles, "monitoring.maxLogFiles", 1, 100),
	)

	if m.HealthCheckTimeoutSeconds >= m.HealthCheckIntervalSeconds && m.HealthCheckIntervalSeconds >= 1 {
		report.Add(validation.Finding{
			PropertyPath: "monitoring.healthCheckTimeoutSeconds",
			Severity:     validation.SeverityWarning,
			Message:      "probe timeout is not shorter than the probe interval",
			Suggestion:   "keep the timeout well below healthCheckIntervalSeconds",
		})
	}

	return report
}

func validatePerformance(p *PerformanceConfig) validation.Report {
	var report validation.Report

	report.Merge(
		validation.Range(p.MaxRestartAttempts, "performance.maxRestartAttempts", 0, 20),
		validation.Range(p.RestartCooldownSeconds, "performance.restartCooldownSeconds", 0, 3600),
		validation.Range(p.MemoryWarningPercent, "performance.memoryWarningPercent", 1, 100),
		validation.Range(p.MemoryCriticalPercent, "performance.memoryCriticalPercent", 1, 100),
	)

	if p.MemoryCriticalPercent <= p.MemoryWarningPercent {
		report.Add(validation.Finding{
			PropertyPath: "performance.memoryCriticalPercent",
			Severity:     validation.SeverityError,
			Message:      "critical memory threshold must be above the warning threshold",
			Suggestion:   "raise memoryCriticalPercent or lower memoryWarningPercent",
		})
	}

	return report
}

func validateAdvanced(a *AdvancedConfig) validation.Report {
	var report validation.Report

	if a.PreStartScript != "" {
		report.Merge(validation.WellFormedPath(a.PreStartScript, "advanced.preStartScript"))
	}
	if a.PostStopScript != "" {
		report.Merge(validation.WellFormedPath(a.PostStopScript, "advanced.postStopScript"))
	}

	for name := range a.Environment {
		if !envVarNamePattern.MatchString(name) {
			report.Add(validation.Finding{
				PropertyPath: "advanced.environment." + name,
				Severity:     validation.SeverityError,
				Message:      "invalid environment variable name",
				Suggestion:   "use letters, digits and underscores, not starting with a digit",
			})
		}
	}

	for i, arg := range a.CustomArgs {
		if arg == "" {
			report.Add(validation.Finding{
				PropertyPath: indexedPath("advanced.customArgs", i),
				Severity:     validation.SeverityError,
				Message:      "argument must not be empty",
				Suggestion:   "remove the empty entry",
			})
		}
	}

	return report
}

func validateMetadata(m *Metadata) validation.Report {
	var report validation.Report

	if m.SchemaVersion != "" && !schemaVersionPattern.MatchString(m.SchemaVersion) {
		report.Add(validation.Finding{
			PropertyPath: "metadata.schemaVersion",
			Severity:     validation.SeverityError,
			Message:      "schema version must be of the form major.minor.patch",
			Suggestion:   "use a version such as " + CurrentSchemaVersion,
		})
	}

	return report
}

func indexedPath(base string, i int) string {
	return base + "[" + strconv.Itoa(i) + "]"
}
