package secrets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEnvProvider_GetSecret(t *testing.T) {
	t.Setenv("REDKEEP_TEST_SECRET", "value-1")

	p := NewEnvProvider()
	got, err := p.GetSecret(context.Background(), "REDKEEP_TEST_SECRET")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "value-1" {
		t.Errorf("expected value-1, got %q", got)
	}
}

func TestEnvProvider_Prefix(t *testing.T) {
	t.Setenv("REDKEEP_API_KEY", "value-2")

	p := &EnvProvider{Prefix: "REDKEEP_"}
	got, err := p.GetSecret(context.Background(), "API_KEY")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "value-2" {
		t.Errorf("expected value-2, got %q", got)
	}
}

func TestEnvProvider_EmptyValueIsMissing(t *testing.T) {
	t.Setenv("REDKEEP_EMPTY_SECRET", "")

	_, err := NewEnvProvider().GetSecret(context.Background(), "REDKEEP_EMPTY_SECRET")

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestCredProvider_StoreHit(t *testing.T) {
	p := NewCredProvider(MemoryStore{"redis-password": "hunter2"})

	got, err := p.GetSecret(context.Background(), "redis-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hunter2" {
		t.Errorf("expected hunter2, got %q", got)
	}
}

func TestCredProvider_EnvFallback(t *testing.T) {
	t.Setenv("REDKEEP_CRED_REDIS_PASSWORD", "from-env")

	p := NewCredProvider(MemoryStore{})
	got, err := p.GetSecret(context.Background(), "redis-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-env" {
		t.Errorf("expected fallback value, got %q", got)
	}
}

func TestCredProvider_StoreWinsOverFallback(t *testing.T) {
	t.Setenv("REDKEEP_CRED_REDIS_PASSWORD", "from-env")

	p := NewCredProvider(MemoryStore{"redis-password": "from-store"})
	got, err := p.GetSecret(context.Background(), "redis-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-store" {
		t.Errorf("expected store value to win, got %q", got)
	}
}

func TestCredProvider_MissingEverywhere(t *testing.T) {
	t.Setenv("REDKEEP_CRED_NOWHERE", "")

	_, err := NewCredProvider(nil).GetSecret(context.Background(), "nowhere")

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.Kind != KindCred {
		t.Errorf("expected kind cred, got %q", notFound.Kind)
	}
}

func TestEnvVarName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"redis-password", "REDIS_PASSWORD"},
		{"prod.redis", "PROD_REDIS"},
		{"API_KEY", "API_KEY"},
		{"a--b", "A_B"},
		{"token2", "TOKEN2"},
	}

	for _, tt := range tests {
		if got := envVarName(tt.in); got != tt.want {
			t.Errorf("envVarName(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestFileStore_Lookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(path, []byte(`{"redis-password": "hunter2", "empty": ""}`), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, ok := store.Lookup("redis-password"); !ok || got != "hunter2" {
		t.Errorf("expected hunter2, got %q (ok=%v)", got, ok)
	}
	if _, ok := store.Lookup("empty"); ok {
		t.Error("expected empty value to read as missing")
	}
	if _, ok := store.Lookup("absent"); ok {
		t.Error("expected absent name to read as missing")
	}
}

func TestFileStore_MissingFile(t *testing.T) {
	if _, err := NewFileStore(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing credential file")
	}
}

func TestFileStore_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(path, []byte(`{not json`), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := NewFileStore(path); err == nil {
		t.Error("expected error for malformed credential file")
	}
}
