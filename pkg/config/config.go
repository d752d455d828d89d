package config

import (
	"net"
	"strconv"
	"time"
)

// CurrentSchemaVersion is the schema version written by this build.
// Older documents are migrated forward to this version on load.
const CurrentSchemaVersion = "2.2.0"

// Backend types selectable via Config.BackendType.
const (
	// BackendWSL2 runs the data store inside a WSL2 distribution.
	BackendWSL2 = "wsl2"

	// BackendDocker runs the data store inside a Docker container.
	BackendDocker = "docker"
)

// Persistence modes for the data store.
const (
	PersistenceNone = "none"
	PersistenceRDB  = "rdb"
	PersistenceAOF  = "aof"
	PersistenceBoth = "both"
)

// Service start modes.
const (
	StartModeAutomatic = "automatic"
	StartModeManual    = "manual"
	StartModeDisabled  = "disabled"
)

// Failure actions applied by the service host after successive failures.
const (
	FailureActionRestart = "restart"
	FailureActionNone    = "none"
)

// Config is the root configuration for the Redkeep supervisor.
// It is treated as an immutable snapshot once loaded: components receive a
// pointer to a fully populated value and never mutate it in place. Use
// Clone before modifying a snapshot.
type Config struct {
	// BackendType selects which backend hosts the data store.
	// One of "wsl2" or "docker". The matching sub-section must validate.
	// Default: "wsl2"
	BackendType string `json:"backendType" yaml:"backendType" toml:"backendType"`

	// WSL2 configures the WSL2 backend. Only consulted when BackendType
	// is "wsl2".
	WSL2 WSL2Config `json:"wsl2" yaml:"wsl2" toml:"wsl2"`

	// Docker configures the Docker backend. Only consulted when
	// BackendType is "docker".
	Docker DockerConfig `json:"docker" yaml:"docker" toml:"docker"`

	// Redis contains connection and resource settings for the managed
	// data store.
	Redis RedisConfig `json:"redis" yaml:"redis" toml:"redis"`

	// Service contains host service identity and lifecycle settings.
	Service ServiceConfig `json:"service" yaml:"service" toml:"service"`

	// Monitoring contains health check cadence and log rotation settings.
	Monitoring MonitoringConfig `json:"monitoring" yaml:"monitoring" toml:"monitoring"`

	// Performance contains restart policy and memory threshold settings.
	Performance PerformanceConfig `json:"performance" yaml:"performance" toml:"performance"`

	// Advanced contains free-form process arguments, environment
	// variables, and lifecycle script hooks.
	Advanced AdvancedConfig `json:"advanced" yaml:"advanced" toml:"advanced"`

	// Metadata carries the schema version and provenance information.
	Metadata Metadata `json:"metadata" yaml:"metadata" toml:"metadata"`
}

// WSL2Config configures the WSL2 backend.
type WSL2Config struct {
	// Distribution is the name of the WSL2 distribution hosting the data
	// store, as reported by `wsl --list`.
	// Default: "Ubuntu"
	Distribution string `json:"distribution" yaml:"distribution" toml:"distribution"`

	// BinaryPath is the path to the redis-server binary inside the
	// distribution.
	// Default: "/usr/bin/redis-server"
	BinaryPath string `json:"binaryPath" yaml:"binaryPath" toml:"binaryPath"`

	// StartupTimeoutSeconds is how long to wait for the distribution and
	// server to come up before a start attempt is abandoned.
	// Default: 30
	StartupTimeoutSeconds int `json:"startupTimeoutSeconds" yaml:"startupTimeoutSeconds" toml:"startupTimeoutSeconds"`
}

// StartupTimeout returns the startup deadline as a duration.
func (w WSL2Config) StartupTimeout() time.Duration {
	return time.Duration(w.StartupTimeoutSeconds) * time.Second
}

// DockerConfig configures the Docker backend.
type DockerConfig struct {
	// Image is the container image to run.
	// Default: "redis:7-alpine"
	Image string `json:"image" yaml:"image" toml:"image"`

	// ContainerName names the managed container so restarts reattach to
	// the same instance.
	// Default: "redkeep-redis"
	ContainerName string `json:"containerName" yaml:"containerName" toml:"containerName"`

	// Volume is the named volume mounted at the data directory.
	// Default: "redkeep-data"
	Volume string `json:"volume" yaml:"volume" toml:"volume"`
}

// RedisConfig contains connection and resource settings for the data store.
type RedisConfig struct {
	// Port is the TCP port the data store listens on. Must be 1-65535.
	// Default: 6379
	Port int `json:"port" yaml:"port" toml:"port"`

	// BindAddress is the address the data store binds to.
	// Default: "127.0.0.1"
	BindAddress string `json:"bindAddress" yaml:"bindAddress" toml:"bindAddress"`

	// MemoryLimit caps data store memory, as a size string understood by
	// the server (e.g. "512mb", "1gb").
	// Default: "256mb"
	MemoryLimit string `json:"memoryLimit" yaml:"memoryLimit" toml:"memoryLimit"`

	// PersistenceMode selects durability: "none", "rdb", "aof", or "both".
	// Default: "rdb"
	PersistenceMode string `json:"persistenceMode" yaml:"persistenceMode" toml:"persistenceMode"`

	// DataDir is where persistence files are written. Empty uses the
	// server's own default directory.
	DataDir string `json:"dataDir" yaml:"dataDir" toml:"dataDir"`

	// Password authenticates clients. May be a literal value or a secret
	// reference such as "${ENV:REDIS_PASSWORD}" or "${CRED:redis}".
	// References are resolved at use and never persisted resolved.
	Password string `json:"password" yaml:"password" toml:"password"`
}

// Address returns the host:port the data store listens on.
func (r RedisConfig) Address() string {
	return net.JoinHostPort(r.BindAddress, strconv.Itoa(r.Port))
}

// ServiceConfig contains host service identity and lifecycle settings.
type ServiceConfig struct {
	// Name is the service identity registered with the host. Changing it
	// re-registers the service, which requires a restart.
	// Default: "redkeep"
	Name string `json:"name" yaml:"name" toml:"name"`

	// DisplayName is the human-readable name shown in management tools.
	// Default: "Redkeep Redis Supervisor"
	DisplayName string `json:"displayName" yaml:"displayName" toml:"displayName"`

	// StartMode controls when the host starts the service:
	// "automatic", "manual", or "disabled".
	// Default: "automatic"
	StartMode string `json:"startMode" yaml:"startMode" toml:"startMode"`

	// FailureActions lists the action taken after the first, second, and
	// subsequent service failures. Each entry is "restart" or "none".
	// Default: ["restart", "restart", "none"]
	FailureActions []string `json:"failureActions" yaml:"failureActions" toml:"failureActions"`
}

// MonitoringConfig contains health check cadence and log rotation settings.
type MonitoringConfig struct {
	// HealthCheckIntervalSeconds is the delay between health probes.
	// Default: 30
	HealthCheckIntervalSeconds int `json:"healthCheckIntervalSeconds" yaml:"healthCheckIntervalSeconds" toml:"healthCheckIntervalSeconds"`

	// HealthCheckTimeoutSeconds bounds a single health probe.
	// Default: 5
	HealthCheckTimeoutSeconds int `json:"healthCheckTimeoutSeconds" yaml:"healthCheckTimeoutSeconds" toml:"healthCheckTimeoutSeconds"`

	// VerboseLogging enables debug-level supervisor logging.
	// Default: false
	VerboseLogging bool `json:"verboseLogging" yaml:"verboseLogging" toml:"verboseLogging"`

	// MaxLogSizeMB rotates the supervisor log once it reaches this size.
	// Default: 10
	MaxLogSizeMB int `json:"maxLogSizeMB" yaml:"maxLogSizeMB" toml:"maxLogSizeMB"`

	// MaxLogFiles is how many rotated log files are kept.
	// Default: 5
	MaxLogFiles int `json:"maxLogFiles" yaml:"maxLogFiles" toml:"maxLogFiles"`
}

// HealthCheckInterval returns the probe interval as a duration.
func (m MonitoringConfig) HealthCheckInterval() time.Duration {
	return time.Duration(m.HealthCheckIntervalSeconds) * time.Second
}

// HealthCheckTimeout returns the probe timeout as a duration.
func (m MonitoringConfig) HealthCheckTimeout() time.Duration {
	return time.Duration(m.HealthCheckTimeoutSeconds) * time.Second
}

// PerformanceConfig contains restart policy and memory threshold settings.
type PerformanceConfig struct {
	// AutoRestart restarts the data store automatically after a crash.
	// Default: true
	AutoRestart bool `json:"autoRestart" yaml:"autoRestart" toml:"autoRestart"`

	// MaxRestartAttempts caps consecutive automatic restarts before the
	// supervisor gives up and waits for operator action.
	// Default: 3
	MaxRestartAttempts int `json:"maxRestartAttempts" yaml:"maxRestartAttempts" toml:"maxRestartAttempts"`

	// RestartCooldownSeconds is the pause between restart attempts.
	// Default: 60
	RestartCooldownSeconds int `json:"restartCooldownSeconds" yaml:"restartCooldownSeconds" toml:"restartCooldownSeconds"`

	// MemoryWarningPercent logs a warning when data store memory use
	// crosses this percentage of the configured limit.
	// Default: 80
	MemoryWarningPercent int `json:"memoryWarningPercent" yaml:"memoryWarningPercent" toml:"memoryWarningPercent"`

	// MemoryCriticalPercent raises a critical alert when memory use
	// crosses this percentage. Must be above MemoryWarningPercent.
	// Default: 95
	MemoryCriticalPercent int `json:"memoryCriticalPercent" yaml:"memoryCriticalPercent" toml:"memoryCriticalPercent"`
}

// RestartCooldown returns the restart pause as a duration.
func (p PerformanceConfig) RestartCooldown() time.Duration {
	return time.Duration(p.RestartCooldownSeconds) * time.Second
}

// AdvancedConfig contains free-form process settings.
type AdvancedConfig struct {
	// CustomArgs are extra arguments appended to the server command line.
	CustomArgs []string `json:"customArgs" yaml:"customArgs" toml:"customArgs"`

	// Environment is injected into the server process environment.
	Environment map[string]string `json:"environment" yaml:"environment" toml:"environment"`

	// PreStartScript runs before the server starts. Empty disables it.
	PreStartScript string `json:"preStartScript" yaml:"preStartScript" toml:"preStartScript"`

	// PostStopScript runs after the server stops. Empty disables it.
	PostStopScript string `json:"postStopScript" yaml:"postStopScript" toml:"postStopScript"`
}

// Metadata carries the schema version and provenance of a configuration
// document. Metadata never affects runtime behavior and is excluded from
// change analysis.
type Metadata struct {
	// SchemaVersion tags the document shape, e.g. "2.2.0". Documents
	// without a tag have their version inferred from structure.
	SchemaVersion string `json:"schemaVersion" yaml:"schemaVersion" toml:"schemaVersion"`

	// CreatedAt is when the document was first written, RFC 3339.
	CreatedAt string `json:"createdAt" yaml:"createdAt" toml:"createdAt"`

	// ModifiedAt is when the document was last written, RFC 3339.
	ModifiedAt string `json:"modifiedAt" yaml:"modifiedAt" toml:"modifiedAt"`

	// CreatedBy records what produced the document (tool or operator).
	CreatedBy string `json:"createdBy" yaml:"createdBy" toml:"createdBy"`

	// Notes is free-form operator commentary.
	Notes string `json:"notes" yaml:"notes" toml:"notes"`
}

// Clone returns a deep copy of the configuration. Mutating the copy never
// affects the original snapshot.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	out := *c

	if c.Service.FailureActions != nil {
		out.Service.FailureActions = append([]string(nil), c.Service.FailureActions...)
	}
	if c.Advanced.CustomArgs != nil {
		out.Advanced.CustomArgs = append([]string(nil), c.Advanced.CustomArgs...)
	}
	if c.Advanced.Environment != nil {
		out.Advanced.Environment = make(map[string]string, len(c.Advanced.Environment))
		for k, v := range c.Advanced.Environment {
			out.Advanced.Environment[k] = v
		}
	}

	return &out
}

// ActiveBackendName returns a short description of the selected backend,
// e.g. "wsl2 (Ubuntu)" or "docker (redis:7-alpine)".
func (c *Config) ActiveBackendName() string {
	switch c.BackendType {
	case BackendWSL2:
		return BackendWSL2 + " (" + c.WSL2.Distribution + ")"
	case BackendDocker:
		return BackendDocker + " (" + c.Docker.Image + ")"
	default:
		return c.BackendType
	}
}
