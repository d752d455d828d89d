package migrate

import "fmt"

// UnknownVersionError indicates a document whose schema version has no
// migration path to the current version: either the tag is not a valid
// version string, or it names a version this build has never written.
type UnknownVersionError struct {
	// Version is the detected document version.
	Version string
}

// Error returns a description of the unmigratable version.
func (e *UnknownVersionError) Error() string {
	return fmt.Sprintf("no migration path from schema version %q", e.Version)
}
