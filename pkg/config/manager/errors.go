package manager

import (
	"fmt"

	"redkeep-hq/redkeep/pkg/validation"
)

// MissingSourceError reports that the configuration source file does not
// exist. LoadOrDefault treats this error as the signal to synthesize a
// default configuration.
type MissingSourceError struct {
	// Path is the configuration file path that was not found
	Path string
}

// Error implements the error interface.
func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("configuration file %q does not exist", e.Path)
}

// SyntaxError reports that the source document could not be parsed or
// decoded into the configuration model.
type SyntaxError struct {
	// Path is the configuration file path that failed to parse
	Path string

	// Format is the document format that was attempted ("json", "yaml", "toml")
	Format string

	// Cause is the underlying parser or decoder error
	Cause error
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("failed to parse %s configuration %q: %v", e.Format, e.Path, e.Cause)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *SyntaxError) Unwrap() error {
	return e.Cause
}

// MigrationError reports that an out-of-date document could not be
// migrated to the current schema version.
type MigrationError struct {
	// Path is the configuration file path that failed to migrate
	Path string

	// Cause is the underlying migration error
	Cause error
}

// Error implements the error interface.
func (e *MigrationError) Error() string {
	return fmt.Sprintf("failed to migrate configuration %q: %v", e.Path, e.Cause)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *MigrationError) Unwrap() error {
	return e.Cause
}

// ValidationFailedError reports that the configuration failed syntactic
// validation. The full finding list is attached; nothing was cached.
type ValidationFailedError struct {
	// Path is the configuration file path that failed validation
	Path string

	// Report carries every finding, not just the first problem
	Report validation.Report
}

// Error implements the error interface.
func (e *ValidationFailedError) Error() string {
	failures := e.Report.Failures()
	if len(failures) == 1 {
		return fmt.Sprintf("configuration %q is invalid: %s", e.Path, failures[0])
	}
	return fmt.Sprintf("configuration %q is invalid: %d blocking findings", e.Path, len(failures))
}

// SystemCheckError reports that the configuration is syntactically valid
// but conflicts with the host environment, such as a listening port that
// is already bound or a missing backend runtime.
type SystemCheckError struct {
	// Path is the configuration file path whose system checks failed
	Path string

	// Report carries the system check findings
	Report validation.Report
}

// Error implements the error interface.
func (e *SystemCheckError) Error() string {
	failures := e.Report.Failures()
	if len(failures) == 1 {
		return fmt.Sprintf("configuration %q failed system checks: %s", e.Path, failures[0])
	}
	return fmt.Sprintf("configuration %q failed system checks: %d blocking findings", e.Path, len(failures))
}

// UnresolvedSecretError reports that a secret reference in the
// configuration could not be resolved, such as an unset environment
// variable. The message names the reference, never a secret value.
type UnresolvedSecretError struct {
	// Path is the configuration file path containing the reference
	Path string

	// Cause is the underlying resolution error
	Cause error
}

// Error implements the error interface.
func (e *UnresolvedSecretError) Error() string {
	return fmt.Sprintf("configuration %q has an unresolvable secret reference: %v", e.Path, e.Cause)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *UnresolvedSecretError) Unwrap() error {
	return e.Cause
}

// WatcherError reports a failure of the file watching subscription after
// its automatic resubscribe attempt was used up.
type WatcherError struct {
	// Path is the watched configuration file path
	Path string

	// Op describes what failed ("watch", "resubscribe")
	Op string

	// Cause is the underlying fsnotify error
	Cause error
}

// Error implements the error interface.
func (e *WatcherError) Error() string {
	return fmt.Sprintf("configuration watcher failed during %s of %q: %v", e.Op, e.Path, e.Cause)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *WatcherError) Unwrap() error {
	return e.Cause
}
