package diff

import "fmt"

// Severity grades how much a configuration change matters operationally.
// It is ordered: comparing severities with < and > follows impact.
type Severity int

const (
	// SeverityLow marks cosmetic or freely tunable changes.
	SeverityLow Severity = iota

	// SeverityMedium marks changes the supervisor applies without
	// restarting the data store, but that alter runtime behavior.
	SeverityMedium

	// SeverityHigh marks changes that require a data store restart.
	SeverityHigh

	// SeverityCritical marks changes that replace the deployment itself,
	// such as switching backends.
	SeverityCritical
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}
