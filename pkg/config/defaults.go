package config

// Default values for configuration fields.
const (
	// Backend defaults
	DefaultBackendType               = BackendWSL2
	DefaultWSL2Distribution          = "Ubuntu"
	DefaultWSL2BinaryPath            = "/usr/bin/redis-server"
	DefaultWSL2StartupTimeoutSeconds = 30
	DefaultDockerImage               = "redis:7-alpine"
	DefaultDockerContainerName       = "redkeep-redis"
	DefaultDockerVolume              = "redkeep-data"

	// Data store defaults
	DefaultRedisPort            = 6379
	DefaultRedisBindAddress     = "127.0.0.1"
	DefaultRedisMemoryLimit     = "256mb"
	DefaultRedisPersistenceMode = PersistenceRDB

	// Service defaults
	DefaultServiceName        = "redkeep"
	DefaultServiceDisplayName = "Redkeep Redis Supervisor"
	DefaultServiceStartMode   = StartModeAutomatic

	// Monitoring defaults
	DefaultHealthCheckIntervalSeconds = 30
	DefaultHealthCheckTimeoutSeconds  = 5
	DefaultMaxLogSizeMB               = 10
	DefaultMaxLogFiles                = 5

	// Performance defaults
	DefaultAutoRestart            = true
	DefaultMaxRestartAttempts     = 3
	DefaultRestartCooldownSeconds = 60
	DefaultMemoryWarningPercent   = 80
	DefaultMemoryCriticalPercent  = 95
)

// DefaultFailureActions is the failure action sequence applied to new
// configurations: restart twice, then stop trying.
func DefaultFailureActions() []string {
	return []string{FailureActionRestart, FailureActionRestart, FailureActionNone}
}

// Default returns a fully populated configuration with all defaults
// applied. The result is deterministic; provenance timestamps are left
// empty and are stamped by whatever writes the document.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills in default values for any unset fields.
// It is idempotent: applying defaults to an already-defaulted
// configuration changes nothing.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.BackendType == "" {
		cfg.BackendType = DefaultBackendType
	}

	applyWSL2Defaults(&cfg.WSL2)
	applyDockerDefaults(&cfg.Docker)
	applyRedisDefaults(&cfg.Redis)
	applyServiceDefaults(&cfg.Service)
	applyMonitoringDefaults(&cfg.Monitoring)
	applyPerformanceDefaults(&cfg.Performance)
	applyMetadataDefaults(&cfg.Metadata)
}

func applyWSL2Defaults(w *WSL2Config) {
	if w.Distribution == "" {
		w.Distribution = DefaultWSL2Distribution
	}
	if w.BinaryPath == "" {
		w.BinaryPath = DefaultWSL2BinaryPath
	}
	if w.StartupTimeoutSeconds == 0 {
		w.StartupTimeoutSeconds = DefaultWSL2StartupTimeoutSeconds
	}
}

func applyDockerDefaults(d *DockerConfig) {
	if d.Image == "" {
		d.Image = DefaultDockerImage
	}
	if d.ContainerName == "" {
		d.ContainerName = DefaultDockerContainerName
	}
	if d.Volume == "" {
		d.Volume = DefaultDockerVolume
	}
}

func applyRedisDefaults(r *RedisConfig) {
	if r.Port == 0 {
		r.Port = DefaultRedisPort
	}
	if r.BindAddress == "" {
		r.BindAddress = DefaultRedisBindAddress
	}
	if r.MemoryLimit == "" {
		r.MemoryLimit = DefaultRedisMemoryLimit
	}
	if r.PersistenceMode == "" {
		r.PersistenceMode = DefaultRedisPersistenceMode
	}
}

func applyServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = DefaultServiceName
	}
	if s.DisplayName == "" {
		s.DisplayName = DefaultServiceDisplayName
	}
	if s.StartMode == "" {
		s.StartMode = DefaultServiceStartMode
	}
	if s.FailureActions == nil {
		s.FailureActions = DefaultFailureActions()
	}
}

func applyMonitoringDefaults(m *MonitoringConfig) {
	if m.HealthCheckIntervalSeconds == 0 {
		m.HealthCheckIntervalSeconds = DefaultHealthCheckIntervalSeconds
	}
	if m.HealthCheckTimeoutSeconds == 0 {
		m.HealthCheckTimeoutSeconds = DefaultHealthCheckTimeoutSeconds
	}
	if m.MaxLogSizeMB == 0 {
		m.MaxLogSizeMB = DefaultMaxLogSizeMB
	}
	if m.MaxLogFiles == 0 {
		m.MaxLogFiles = DefaultMaxLogFiles
	}
}

func applyPerformanceDefaults(p *PerformanceConfig) {
	// Only an entirely empty section receives the AutoRestart default;
	// a plain zero check would turn an explicit false back on.
	if *p == (PerformanceConfig{}) {
		p.AutoRestart = DefaultAutoRestart
	}
	if p.MaxRestartAttempts == 0 {
		p.MaxRestartAttempts = DefaultMaxRestartAttempts
	}
	if p.RestartCooldownSeconds == 0 {
		p.RestartCooldownSeconds = DefaultRestartCooldownSeconds
	}
	if p.MemoryWarningPercent == 0 {
		p.MemoryWarningPercent = DefaultMemoryWarningPercent
	}
	if p.MemoryCriticalPercent == 0 {
		p.MemoryCriticalPercent = DefaultMemoryCriticalPercent
	}
}

func applyMetadataDefaults(m *Metadata) {
	if m.SchemaVersion == "" {
		m.SchemaVersion = CurrentSchemaVersion
	}
	if m.CreatedBy == "" {
		m.CreatedBy = "redkeep"
	}
}
