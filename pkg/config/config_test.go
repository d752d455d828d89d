package config

import (
	"reflect"
	"testing"
	"time"
)

func TestClone_DeepCopy(t *testing.T) {
	original := Default()
	original.Service.FailureActions = []string{FailureActionRestart, FailureActionNone}
	original.Advanced.CustomArgs = []string{"--appendonly", "yes"}
	original.Advanced.Environment = map[string]string{"TZ": "UTC"}

	clone := original.Clone()

	if !reflect.DeepEqual(clone, original) {
		t.Fatalf("expected clone to equal original, got %+v", clone)
	}

	clone.Redis.Port = 7000
	clone.Service.FailureActions[0] = FailureActionNone
	clone.Advanced.CustomArgs[0] = "--maxclients"
	clone.Advanced.Environment["TZ"] = "America/New_York"

	if original.Redis.Port != DefaultRedisPort {
		t.Errorf("expected original port %d, got %d", DefaultRedisPort, original.Redis.Port)
	}
	if original.Service.FailureActions[0] != FailureActionRestart {
		t.Errorf("expected original failure action %q, got %q",
			FailureActionRestart, original.Service.FailureActions[0])
	}
	if original.Advanced.CustomArgs[0] != "--appendonly" {
		t.Errorf("expected original custom arg %q, got %q",
			"--appendonly", original.Advanced.CustomArgs[0])
	}
	if original.Advanced.Environment["TZ"] != "UTC" {
		t.Errorf("expected original environment TZ=UTC, got %q",
			original.Advanced.Environment["TZ"])
	}
}

func TestClone_Nil(t *testing.T) {
	var cfg *Config
	if clone := cfg.Clone(); clone != nil {
		t.Errorf("expected nil clone of nil config, got %+v", clone)
	}
}

func TestRedisConfig_Address(t *testing.T) {
	r := RedisConfig{Port: 6380, BindAddress: "0.0.0.0"}
	if got := r.Address(); got != "0.0.0.0:6380" {
		t.Errorf("expected address 0.0.0.0:6380, got %q", got)
	}
}

func TestDurationHelpers(t *testing.T) {
	m := MonitoringConfig{HealthCheckIntervalSeconds: 45, HealthCheckTimeoutSeconds: 10}
	if got := m.HealthCheckInterval(); got != 45*time.Second {
		t.Errorf("expected interval 45s, got %v", got)
	}
	if got := m.HealthCheckTimeout(); got != 10*time.Second {
		t.Errorf("expected timeout 10s, got %v", got)
	}

	p := PerformanceConfig{RestartCooldownSeconds: 90}
	if got := p.RestartCooldown(); got != 90*time.Second {
		t.Errorf("expected cooldown 90s, got %v", got)
	}

	w := WSL2Config{StartupTimeoutSeconds: 30}
	if got := w.StartupTimeout(); got != 30*time.Second {
		t.Errorf("expected startup timeout 30s, got %v", got)
	}
}

func TestActiveBackendName(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "wsl2",
			cfg: Config{
				BackendType: BackendWSL2,
				WSL2:        WSL2Config{Distribution: "Ubuntu"},
			},
			want: "wsl2 (Ubuntu)",
		},
		{
			name: "docker",
			cfg: Config{
				BackendType: BackendDocker,
				Docker:      DockerConfig{Image: "redis:7-alpine"},
			},
			want: "docker (redis:7-alpine)",
		},
		{
			name: "unknown backend passes through",
			cfg:  Config{BackendType: "podman"},
			want: "podman",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ActiveBackendName(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
