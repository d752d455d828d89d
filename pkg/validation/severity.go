package validation

import "fmt"

// Severity classifies how serious a finding is.
type Severity int

const (
	// SeverityInfo is purely informational and never fails validation.
	SeverityInfo Severity = iota

	// SeverityWarning flags a questionable value that is still usable.
	SeverityWarning

	// SeverityError marks a value the engine refuses to run with.
	SeverityError

	// SeverityCritical marks a value that could corrupt state or lock the
	// operator out if it were accepted.
	SeverityCritical
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Fails reports whether a finding of this severity fails a report.
func (s Severity) Fails() bool {
	return s >= SeverityError
}
