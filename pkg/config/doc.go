// Package config defines the Redkeep configuration model and the pure
// operations over it: defaulting, serialization, and validation.
//
// A Config is an immutable snapshot. Loading produces a fully populated
// value; nothing mutates it afterwards. Components that want a variant
// call Clone and modify the copy. This is what makes hot reload safe:
// readers holding the old snapshot are never surprised mid-flight.
//
// # Shape
//
// The model is a tree of sections. BackendType discriminates between the
// wsl2 and docker sub-sections; only the selected one is validated.
// The redis section carries data store settings, service the host service
// identity, monitoring and performance the supervisor's tunables, and
// advanced the free-form escape hatches. Metadata tags the document with
// its schema version and provenance and never affects behavior.
//
// # Loading and defaults
//
// Documents decode over a defaulted value: absent keys receive defaults,
// present keys always win, including explicit zeros. Three formats are
// supported, chosen by file extension: JSON (canonical), YAML, and TOML.
//
//	cfg, err := config.Decode(data, config.DetectFormat(path))
//
// Documents that may predate the current schema go through the manager's
// load path instead, which runs the migration engine over the untyped key
// tree before decoding.
//
// # Validation
//
// Validate runs every domain validator and returns a validation.Report
// with all findings, not just the first:
//
//	report := config.Validate(cfg, config.Options{})
//	if !report.IsSuccess() {
//		for _, f := range report.Failures() {
//			fmt.Println(f)
//		}
//	}
//
// Syntactic checks are pure. Environment probes (port availability, disk
// space, backend runtime presence) run only when IncludeSystemChecks is
// set in Options, and only after the syntactic checks pass.
//
// # Environment overrides
//
// ApplyEnvOverrides layers REDKEEP_* variables over a loaded value, e.g.
// REDKEEP_REDIS_PORT=6380. Overrides are validated exactly like file
// values.
package config
