package diff

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"time"

	"redkeep-hq/redkeep/pkg/config"
	"redkeep-hq/redkeep/pkg/secrets"
)

// ChangedProperty is one difference between two configuration snapshots.
type ChangedProperty struct {
	// Path is the dotted property path, e.g. "redis.port".
	Path string

	// OldValue and NewValue are display strings of the two values.
	// Empty when the property is absent on that side. For sensitive
	// properties both carry the mask, never the values.
	OldValue string
	NewValue string

	// Severity grades the operational impact of this change.
	Severity Severity

	// RequiresRestart is true when the change only takes effect after a
	// data store restart.
	RequiresRestart bool

	// Sensitive marks properties whose values are withheld.
	Sensitive bool
}

// ChangeReport is the outcome of comparing two configuration snapshots.
type ChangeReport struct {
	// ChangedProperties lists every difference, ordered by path.
	ChangedProperties []ChangedProperty

	// Severity is the highest severity across all changes. SeverityLow
	// when nothing changed.
	Severity Severity

	// RequiresRestart is true when any change requires a restart.
	RequiresRestart bool

	// Warnings carries operator-facing notes, such as a sensitive value
	// having changed. Warnings never contain secret values.
	Warnings []string

	// AnalyzedAt is the timestamp the caller supplied to Analyze.
	AnalyzedAt time.Time
}

// HasChanges reports whether the two snapshots differ.
func (r *ChangeReport) HasChanges() bool {
	return len(r.ChangedProperties) > 0
}

// RestartProperties returns the paths whose changes require a restart.
func (r *ChangeReport) RestartProperties() []string {
	var paths []string
	for _, p := range r.ChangedProperties {
		if p.RequiresRestart {
			paths = append(paths, p.Path)
		}
	}
	return paths
}

// Analyze compares two configuration snapshots and classifies every
// difference. It is a pure function: identical inputs, including the
// timestamp, produce identical reports, and neither snapshot is modified.
// Metadata is excluded; a change that only touches provenance is not a
// change in behavior.
func Analyze(oldCfg, newCfg *config.Config, at time.Time) *ChangeReport {
	report := &ChangeReport{Severity: SeverityLow, AnalyzedAt: at}

	oldFlat := flatten(oldCfg)
	newFlat := flatten(newCfg)

	paths := make([]string, 0, len(oldFlat)+len(newFlat))
	seen := make(map[string]bool, len(oldFlat)+len(newFlat))
	for path := range oldFlat {
		paths = append(paths, path)
		seen[path] = true
	}
	for path := range newFlat {
		if !seen[path] {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)

	for _, path := range paths {
		oldValue, inOld := oldFlat[path]
		newValue, inNew := newFlat[path]
		if inOld && inNew && reflect.DeepEqual(oldValue, newValue) {
			continue
		}

		severity, restart := classify(path)
		entry := ChangedProperty{
			Path:            path,
			Severity:        severity,
			RequiresRestart: restart,
			Sensitive:       secrets.IsSensitiveProperty(path),
		}

		if entry.Sensitive {
			entry.OldValue = secrets.Mask
			entry.NewValue = secrets.Mask
			report.Warnings = append(report.Warnings, path+" changed; values withheld")
		} else {
			if inOld {
				entry.OldValue = formatValue(oldValue)
			}
			if inNew {
				entry.NewValue = formatValue(newValue)
			}
		}

		report.ChangedProperties = append(report.ChangedProperties, entry)
		if severity > report.Severity {
			report.Severity = severity
		}
		if restart {
			report.RequiresRestart = true
		}
	}

	return report
}

// flatten reduces a configuration to dotted leaf paths. Struct sections
// become path segments named by their serialized keys; map entries get a
// segment per key; slices stay whole, compared as single values. Nil
// collections read as absent. Metadata is dropped entirely.
func flatten(cfg *config.Config) map[string]any {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil
	}
	tree := map[string]any{}
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil
	}
	delete(tree, "metadata")

	out := map[string]any{}
	flattenInto("", tree, out)
	return out
}

func flattenInto(prefix string, node map[string]any, out map[string]any) {
	for key, value := range node {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		switch child := value.(type) {
		case map[string]any:
			flattenInto(path, child, out)
		case nil:
		default:
			out[path] = value
		}
	}
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}
