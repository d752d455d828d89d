package migrate

import (
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"redkeep-hq/redkeep/pkg/config"
)

func testEngine() *Engine {
	return NewEngine(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		tree map[string]any
		want string
	}{
		{
			name: "metadata tag wins",
			tree: map[string]any{
				"metadata": map[string]any{"schemaVersion": "2.2.0"},
			},
			want: "2.2.0",
		},
		{
			name: "legacy top-level tag",
			tree: map[string]any{"schemaVersion": "2.0.0"},
			want: "2.0.0",
		},
		{
			name: "explicit tag beats fingerprint",
			tree: map[string]any{
				"schemaVersion": "2.1.0",
				"advanced":      map[string]any{},
			},
			want: "2.1.0",
		},
		{
			name: "fingerprint advanced section",
			tree: map[string]any{"advanced": map[string]any{}},
			want: Version220,
		},
		{
			name: "fingerprint performance section",
			tree: map[string]any{"performance": map[string]any{}},
			want: Version210,
		},
		{
			name: "fingerprint renamed memory limit",
			tree: map[string]any{
				"redis": map[string]any{"memoryLimit": "512mb"},
			},
			want: Version210,
		},
		{
			name: "fingerprint backend discriminator",
			tree: map[string]any{"backendType": "docker"},
			want: Version200,
		},
		{
			name: "fingerprint wsl2 section",
			tree: map[string]any{"wsl2": map[string]any{}},
			want: Version200,
		},
		{
			name: "fingerprint monitoring section",
			tree: map[string]any{"monitoring": map[string]any{}},
			want: Version110,
		},
		{
			name: "unrecognizable falls back to oldest",
			tree: map[string]any{
				"redis": map[string]any{"port": float64(6379)},
			},
			want: Version100,
		},
		{
			name: "empty document is oldest",
			tree: map[string]any{},
			want: Version100,
		},
	}

	engine := testEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := engine.Detect(tt.tree); got != tt.want {
				t.Errorf("expected version %s, got %s", tt.want, got)
			}
		})
	}
}

func TestRun_FullChainFromOldest(t *testing.T) {
	doc := map[string]any{
		"distribution": "Debian",
		"redis": map[string]any{
			"port":      float64(6380),
			"maxmemory": "512mb",
		},
		"service": map[string]any{"name": "legacy"},
		"notes":   "migrated box",
	}

	result, err := testEngine().Run(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.FromVersion != Version100 {
		t.Errorf("expected from version %s, got %s", Version100, result.FromVersion)
	}
	if result.ToVersion != config.CurrentSchemaVersion {
		t.Errorf("expected to version %s, got %s", config.CurrentSchemaVersion, result.ToVersion)
	}
	if len(result.Steps) != 4 {
		t.Errorf("expected 4 steps, got %d: %+v", len(result.Steps), result.Steps)
	}
	if !result.Migrated() {
		t.Error("expected Migrated() to report true")
	}

	tree := result.Tree
	if tree["backendType"] != config.BackendWSL2 {
		t.Errorf("expected wsl2 backend, got %v", tree["backendType"])
	}
	wsl2, ok := tree["wsl2"].(map[string]any)
	if !ok || wsl2["distribution"] != "Debian" {
		t.Errorf("expected distribution moved under wsl2, got %v", tree["wsl2"])
	}
	if _, exists := tree["distribution"]; exists {
		t.Error("expected top-level distribution to be removed")
	}

	redis := tree["redis"].(map[string]any)
	if redis["memoryLimit"] != "512mb" {
		t.Errorf("expected memoryLimit 512mb, got %v", redis["memoryLimit"])
	}
	if _, exists := redis["maxmemory"]; exists {
		t.Error("expected maxmemory to be renamed away")
	}

	for _, section := range []string{"monitoring", "performance", "advanced", "docker", "metadata"} {
		if _, ok := tree[section]; !ok {
			t.Errorf("expected %s section to be present", section)
		}
	}

	meta := tree["metadata"].(map[string]any)
	if meta["schemaVersion"] != config.CurrentSchemaVersion {
		t.Errorf("expected metadata tag %s, got %v", config.CurrentSchemaVersion, meta["schemaVersion"])
	}
	if meta["notes"] != "migrated box" {
		t.Errorf("expected notes moved into metadata, got %v", meta["notes"])
	}
	if _, exists := tree["schemaVersion"]; exists {
		t.Error("expected top-level version tag to be removed")
	}

	cfg, err := config.FromTree(tree)
	if err != nil {
		t.Fatalf("expected migrated tree to decode: %v", err)
	}
	if cfg.Redis.Port != 6380 {
		t.Errorf("expected port 6380, got %d", cfg.Redis.Port)
	}
	if cfg.Redis.MemoryLimit != "512mb" {
		t.Errorf("expected memory limit 512mb, got %q", cfg.Redis.MemoryLimit)
	}
	if cfg.WSL2.Distribution != "Debian" {
		t.Errorf("expected distribution Debian, got %q", cfg.WSL2.Distribution)
	}
	if cfg.Service.Name != "legacy" {
		t.Errorf("expected service name legacy, got %q", cfg.Service.Name)
	}
}

func TestRun_InputTreeUntouched(t *testing.T) {
	doc := map[string]any{
		"distribution": "Debian",
		"redis":        map[string]any{"maxmemory": "512mb"},
	}
	snapshot, err := deepCopyTree(doc)
	if err != nil {
		t.Fatalf("copying fixture: %v", err)
	}

	if _, err := testEngine().Run(doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(doc, snapshot) {
		t.Errorf("expected input tree unchanged,\nbefore %v\nafter  %v", snapshot, doc)
	}
}

func TestRun_CurrentVersionNoSteps(t *testing.T) {
	doc := map[string]any{
		"metadata": map[string]any{"schemaVersion": config.CurrentSchemaVersion},
	}

	result, err := testEngine().Run(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Migrated() {
		t.Errorf("expected no steps, got %+v", result.Steps)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", result.Warnings)
	}
}

func TestRun_Idempotent(t *testing.T) {
	doc := map[string]any{
		"distribution": "Debian",
		"redis":        map[string]any{"maxmemory": "512mb"},
	}

	first, err := testEngine().Run(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := testEngine().Run(first.Tree)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Migrated() {
		t.Errorf("expected already-migrated tree to need no steps, got %+v", second.Steps)
	}
	if !reflect.DeepEqual(second.Tree, first.Tree) {
		t.Error("expected second run to leave the tree unchanged")
	}
}

func TestRun_PartialChain(t *testing.T) {
	doc := map[string]any{
		"schemaVersion": Version110,
		"monitoring":    map[string]any{"healthCheckIntervalSeconds": float64(15)},
		"redis":         map[string]any{"maxmemory": "128mb"},
	}

	result, err := testEngine().Run(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Steps) != 3 {
		t.Errorf("expected 3 steps from %s, got %d", Version110, len(result.Steps))
	}

	monitoring := result.Tree["monitoring"].(map[string]any)
	if monitoring["healthCheckIntervalSeconds"] != float64(15) {
		t.Errorf("expected existing monitoring values preserved, got %v", monitoring)
	}
}

func TestRun_RenameKeepsExistingTarget(t *testing.T) {
	doc := map[string]any{
		"schemaVersion": Version200,
		"backendType":   config.BackendWSL2,
		"redis": map[string]any{
			"maxmemory":   "512mb",
			"memoryLimit": "1gb",
		},
	}

	result, err := testEngine().Run(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	redis := result.Tree["redis"].(map[string]any)
	if redis["memoryLimit"] != "1gb" {
		t.Errorf("expected existing memoryLimit to win, got %v", redis["memoryLimit"])
	}
	if _, exists := redis["maxmemory"]; exists {
		t.Error("expected maxmemory to be dropped")
	}
}

func TestRun_FutureVersionWarns(t *testing.T) {
	doc := map[string]any{
		"metadata": map[string]any{"schemaVersion": "9.9.9"},
		"redis":    map[string]any{"port": float64(6379)},
	}

	result, err := testEngine().Run(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Migrated() {
		t.Errorf("expected no steps for a future document, got %+v", result.Steps)
	}
	if result.ToVersion != "9.9.9" {
		t.Errorf("expected version kept at 9.9.9, got %s", result.ToVersion)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", result.Warnings)
	}
}

func TestRun_UnknownVersionFails(t *testing.T) {
	for _, version := range []string{"1.5.0", "0.9.0", "banana"} {
		doc := map[string]any{"schemaVersion": version}

		_, err := testEngine().Run(doc)
		if err == nil {
			t.Errorf("expected error for version %q", version)
			continue
		}
		var unknown *UnknownVersionError
		if !errors.As(err, &unknown) {
			t.Errorf("expected UnknownVersionError for %q, got %T", version, err)
		}
	}
}

func TestSteps_ChainIsContiguous(t *testing.T) {
	steps := testEngine().Steps()
	if len(steps) == 0 {
		t.Fatal("expected a non-empty chain")
	}
	for i := 1; i < len(steps); i++ {
		if steps[i].From != steps[i-1].To {
			t.Errorf("chain broken at %d: %s -> %s then %s",
				i, steps[i-1].From, steps[i-1].To, steps[i].From)
		}
	}
	if last := steps[len(steps)-1]; last.To != config.CurrentSchemaVersion {
		t.Errorf("expected chain to end at %s, got %s", config.CurrentSchemaVersion, last.To)
	}
}
