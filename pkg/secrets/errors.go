package secrets

import "fmt"

// NotFoundError indicates a secret reference that could not be resolved.
// The error names the reference, never the surrounding configuration
// values, so it is safe to log.
type NotFoundError struct {
	// Kind is the reference kind, e.g. "env" or "cred".
	Kind string

	// Name is the secret name exactly as written in the reference.
	Name string

	// Detail explains what was looked up and missed.
	Detail string
}

// Error returns a description of the unresolved reference.
func (e *NotFoundError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("secret %s:%s not found", e.Kind, e.Name)
	}
	return fmt.Sprintf("secret %s:%s not found: %s", e.Kind, e.Name, e.Detail)
}

// UnknownKindError indicates a value shaped like a secret reference whose
// kind has no registered provider. Treating such a value as a literal
// would silently hand the raw reference text to the data store, so the
// resolver refuses it instead.
type UnknownKindError struct {
	// Kind is the unrecognized reference kind as written.
	Kind string
}

// Error returns a description of the unsupported kind.
func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unsupported secret reference kind %q (use ENV or CRED)", e.Kind)
}
