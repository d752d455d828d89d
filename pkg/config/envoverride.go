package config

import (
	"os"
	"reflect"

	"github.com/golobby/cast"
)

// ApplyEnvOverrides applies REDKEEP_* environment variables on top of a
// loaded configuration. Overrides run after defaults and before
// validation, so an override is validated exactly like a file value.
// Variables that are unset or empty leave the field alone; values that do
// not convert to the field's type are ignored.
//
// The variable name is REDKEEP_<SECTION>_<FIELD>, e.g. REDKEEP_REDIS_PORT
// or REDKEEP_SERVICE_START_MODE.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	envOverride("REDKEEP_BACKEND_TYPE", &cfg.BackendType)

	envOverride("REDKEEP_WSL2_DISTRIBUTION", &cfg.WSL2.Distribution)
	envOverride("REDKEEP_WSL2_BINARY_PATH", &cfg.WSL2.BinaryPath)
	envOverride("REDKEEP_WSL2_STARTUP_TIMEOUT_SECONDS", &cfg.WSL2.StartupTimeoutSeconds)

	envOverride("REDKEEP_DOCKER_IMAGE", &cfg.Docker.Image)
	envOverride("REDKEEP_DOCKER_CONTAINER_NAME", &cfg.Docker.ContainerName)
	envOverride("REDKEEP_DOCKER_VOLUME", &cfg.Docker.Volume)

	envOverride("REDKEEP_REDIS_PORT", &cfg.Redis.Port)
	envOverride("REDKEEP_REDIS_BIND_ADDRESS", &cfg.Redis.BindAddress)
	envOverride("REDKEEP_REDIS_MEMORY_LIMIT", &cfg.Redis.MemoryLimit)
	envOverride("REDKEEP_REDIS_PERSISTENCE_MODE", &cfg.Redis.PersistenceMode)
	envOverride("REDKEEP_REDIS_DATA_DIR", &cfg.Redis.DataDir)
	envOverride("REDKEEP_REDIS_PASSWORD", &cfg.Redis.Password)

	envOverride("REDKEEP_SERVICE_START_MODE", &cfg.Service.StartMode)

	envOverride("REDKEEP_MONITORING_HEALTH_CHECK_INTERVAL_SECONDS", &cfg.Monitoring.HealthCheckIntervalSeconds)
	envOverride("REDKEEP_MONITORING_VERBOSE_LOGGING", &cfg.Monitoring.VerboseLogging)

	envOverride("REDKEEP_PERFORMANCE_AUTO_RESTART", &cfg.Performance.AutoRestart)
	envOverride("REDKEEP_PERFORMANCE_MAX_RESTART_ATTEMPTS", &cfg.Performance.MaxRestartAttempts)
}

// envOverride replaces *dst with the converted value of the named
// environment variable. Unset variables and conversion failures are
// silently skipped.
func envOverride[T any](name string, dst *T) {
	raw := os.Getenv(name)
	if raw == "" {
		return
	}

	converted, err := cast.FromType(raw, reflect.TypeOf(*dst))
	if err != nil {
		return
	}
	if v, ok := converted.(T); ok {
		*dst = v
	}
}
