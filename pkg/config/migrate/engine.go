package migrate

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"redkeep-hq/redkeep/pkg/config"
)

// AppliedStep records one migration the engine performed.
type AppliedStep struct {
	From        string
	To          string
	Description string
}

// Result describes a migration run. The input tree is never modified;
// Tree holds the migrated copy.
type Result struct {
	// FromVersion is the detected version of the input document.
	FromVersion string

	// ToVersion is the version of Tree. Equal to FromVersion when no
	// steps were needed or the document is from a newer build.
	ToVersion string

	// Steps lists the migrations applied, in order.
	Steps []AppliedStep

	// Warnings carries conditions worth surfacing that did not stop the
	// run, such as a document from a newer build.
	Warnings []string

	// Tree is the migrated document.
	Tree map[string]any
}

// Migrated reports whether any steps were applied.
func (r *Result) Migrated() bool {
	return len(r.Steps) > 0
}

// Engine migrates configuration documents to the current schema version.
// It works on untyped key trees so documents older than the current model
// can be reshaped before typed decoding.
type Engine struct {
	steps   []Step
	current string
	logger  *slog.Logger
}

// NewEngine creates an engine with the built-in migration chain.
// If logger is nil, slog.Default() is used.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		steps:   defaultSteps(),
		current: config.CurrentSchemaVersion,
		logger:  logger,
	}
}

// Steps returns a copy of the migration chain, oldest first.
func (e *Engine) Steps() []Step {
	return append([]Step(nil), e.steps...)
}

// Detect determines the schema version of a document. An explicit tag
// wins: metadata.schemaVersion first, then the legacy top-level
// schemaVersion. Untagged documents are fingerprinted by which sections
// they contain, newest shape first; a document matching no fingerprint is
// treated as the oldest version, which makes every migration run against
// it and each one skip work already present.
func (e *Engine) Detect(tree map[string]any) string {
	if meta, ok := tree["metadata"].(map[string]any); ok {
		if v, ok := meta["schemaVersion"].(string); ok && v != "" {
			return v
		}
	}
	if v, ok := tree["schemaVersion"].(string); ok && v != "" {
		return v
	}

	if _, ok := tree["advanced"]; ok {
		return Version220
	}
	if _, ok := tree["metadata"]; ok {
		return Version220
	}
	if _, ok := tree["performance"]; ok {
		return Version210
	}
	if redis, ok := tree["redis"].(map[string]any); ok {
		if _, ok := redis["memoryLimit"]; ok {
			return Version210
		}
	}
	for _, key := range []string{"backendType", "wsl2", "docker"} {
		if _, ok := tree[key]; ok {
			return Version200
		}
	}
	if _, ok := tree["monitoring"]; ok {
		return Version110
	}
	return Version100
}

// Run migrates a document to the current schema version. The input tree
// is left untouched. Documents tagged with a version newer than this
// build are returned as-is with a warning; unknown versions are an error.
func (e *Engine) Run(tree map[string]any) (*Result, error) {
	work, err := deepCopyTree(tree)
	if err != nil {
		return nil, err
	}

	from := e.Detect(work)
	result := &Result{FromVersion: from, ToVersion: from, Tree: work}

	cmp, err := Compare(from, e.current)
	if err != nil {
		return nil, &UnknownVersionError{Version: from}
	}
	if cmp == 0 {
		return result, nil
	}
	if cmp > 0 {
		warning := fmt.Sprintf(
			"document schema version %s is newer than %s supported by this build; loading without migration",
			from, e.current)
		result.Warnings = append(result.Warnings, warning)
		e.logger.Warn("configuration from a newer build", "document_version", from, "supported_version", e.current)
		return result, nil
	}

	start := -1
	for i, step := range e.steps {
		if step.From == from {
			start = i
			break
		}
	}
	if start == -1 {
		return nil, &UnknownVersionError{Version: from}
	}

	for _, step := range e.steps[start:] {
		step.apply(work)
		setVersionTag(work, step.To)
		result.Steps = append(result.Steps, AppliedStep{
			From:        step.From,
			To:          step.To,
			Description: step.Description,
		})
		e.logger.Info("applied migration step",
			"from", step.From, "to", step.To, "description", step.Description)
	}

	// Steps insert Go-typed values; normalize so Tree always carries the
	// same value types ParseTree produces.
	normalized, err := deepCopyTree(work)
	if err != nil {
		return nil, err
	}
	result.Tree = normalized
	result.ToVersion = e.current
	return result, nil
}

// setVersionTag writes the version tag where the target shape keeps it:
// top level before 2.2.0, metadata.schemaVersion from 2.2.0 on.
func setVersionTag(tree map[string]any, version string) {
	cmp, err := Compare(version, Version220)
	if err != nil || cmp < 0 {
		tree["schemaVersion"] = version
		return
	}

	meta, ok := tree["metadata"].(map[string]any)
	if !ok {
		meta = map[string]any{}
		tree["metadata"] = meta
	}
	meta["schemaVersion"] = version
	delete(tree, "schemaVersion")
}

// deepCopyTree copies a document tree through its JSON form. Values end
// up as the same types ParseTree produces for JSON input.
func deepCopyTree(tree map[string]any) (map[string]any, error) {
	data, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("copying document tree: %w", err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("copying document tree: %w", err)
	}
	return out, nil
}
