package config

import (
	"reflect"
	"testing"
)

func TestDefault_Deterministic(t *testing.T) {
	a := Default()
	b := Default()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("expected identical defaults, got %+v and %+v", a, b)
	}
}

func TestDefault_Values(t *testing.T) {
	cfg := Default()

	if cfg.BackendType != BackendWSL2 {
		t.Errorf("expected backend %q, got %q", BackendWSL2, cfg.BackendType)
	}
	if cfg.WSL2.Distribution != "Ubuntu" {
		t.Errorf("expected distribution Ubuntu, got %q", cfg.WSL2.Distribution)
	}
	if cfg.Docker.Image != "redis:7-alpine" {
		t.Errorf("expected image redis:7-alpine, got %q", cfg.Docker.Image)
	}
	if cfg.Redis.Port != 6379 {
		t.Errorf("expected port 6379, got %d", cfg.Redis.Port)
	}
	if cfg.Redis.MemoryLimit != "256mb" {
		t.Errorf("expected memory limit 256mb, got %q", cfg.Redis.MemoryLimit)
	}
	if cfg.Redis.PersistenceMode != PersistenceRDB {
		t.Errorf("expected persistence %q, got %q", PersistenceRDB, cfg.Redis.PersistenceMode)
	}
	if cfg.Service.Name != "redkeep" {
		t.Errorf("expected service name redkeep, got %q", cfg.Service.Name)
	}
	if want := []string{"restart", "restart", "none"}; !reflect.DeepEqual(cfg.Service.FailureActions, want) {
		t.Errorf("expected failure actions %v, got %v", want, cfg.Service.FailureActions)
	}
	if !cfg.Performance.AutoRestart {
		t.Error("expected auto restart enabled by default")
	}
	if cfg.Metadata.SchemaVersion != CurrentSchemaVersion {
		t.Errorf("expected schema version %q, got %q",
			CurrentSchemaVersion, cfg.Metadata.SchemaVersion)
	}
	if cfg.Metadata.CreatedAt != "" || cfg.Metadata.ModifiedAt != "" {
		t.Error("expected default timestamps to be empty")
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	cfg := Default()
	before := cfg.Clone()

	ApplyDefaults(cfg)

	if !reflect.DeepEqual(cfg, before) {
		t.Errorf("expected defaults to be idempotent, got %+v", cfg)
	}
}

func TestApplyDefaults_PreservesSetValues(t *testing.T) {
	cfg := &Config{
		BackendType: BackendDocker,
		Redis:       RedisConfig{Port: 6390, MemoryLimit: "1gb"},
		Service:     ServiceConfig{Name: "custom"},
	}

	ApplyDefaults(cfg)

	if cfg.BackendType != BackendDocker {
		t.Errorf("expected backend %q preserved, got %q", BackendDocker, cfg.BackendType)
	}
	if cfg.Redis.Port != 6390 {
		t.Errorf("expected port 6390 preserved, got %d", cfg.Redis.Port)
	}
	if cfg.Redis.MemoryLimit != "1gb" {
		t.Errorf("expected memory limit 1gb preserved, got %q", cfg.Redis.MemoryLimit)
	}
	if cfg.Service.Name != "custom" {
		t.Errorf("expected service name custom preserved, got %q", cfg.Service.Name)
	}
	if cfg.Redis.BindAddress != DefaultRedisBindAddress {
		t.Errorf("expected bind address default %q, got %q",
			DefaultRedisBindAddress, cfg.Redis.BindAddress)
	}
}

func TestApplyDefaults_AutoRestartDisabled(t *testing.T) {
	// A performance section with any other field set keeps an explicit
	// AutoRestart false.
	cfg := &Config{
		Performance: PerformanceConfig{AutoRestart: false, MaxRestartAttempts: 5},
	}

	ApplyDefaults(cfg)

	if cfg.Performance.AutoRestart {
		t.Error("expected explicit auto restart false to be preserved")
	}
	if cfg.Performance.MaxRestartAttempts != 5 {
		t.Errorf("expected max restart attempts 5, got %d", cfg.Performance.MaxRestartAttempts)
	}
	if cfg.Performance.RestartCooldownSeconds != DefaultRestartCooldownSeconds {
		t.Errorf("expected cooldown default %d, got %d",
			DefaultRestartCooldownSeconds, cfg.Performance.RestartCooldownSeconds)
	}
}

func TestApplyDefaults_Nil(t *testing.T) {
	ApplyDefaults(nil)
}

func TestDefaultFailureActions_Copy(t *testing.T) {
	a := DefaultFailureActions()
	a[0] = FailureActionNone
	if b := DefaultFailureActions(); b[0] != FailureActionRestart {
		t.Errorf("expected fresh slice per call, got %v", b)
	}
}
