package validation

import (
	"fmt"
	"strings"
)

// Finding describes one validation problem on one property.
type Finding struct {
	// PropertyPath is the dotted path to the property (e.g., "redis.port").
	PropertyPath string

	// Message is a human-readable description of the problem.
	Message string

	// Suggestion is an optional remedy the operator can apply.
	// Empty when no concrete fix can be suggested.
	Suggestion string

	// Severity classifies the finding.
	Severity Severity
}

// String formats the finding as "severity path: message".
func (f Finding) String() string {
	if f.Suggestion != "" {
		return fmt.Sprintf("%s %s: %s (try: %s)", f.Severity, f.PropertyPath, f.Message, f.Suggestion)
	}
	return fmt.Sprintf("%s %s: %s", f.Severity, f.PropertyPath, f.Message)
}

// Report is an ordered collection of findings produced by one or more
// checks. The zero value is an empty, successful report.
type Report struct {
	// Findings holds every finding in the order it was produced.
	Findings []Finding
}

// Add appends findings to the report.
func (r *Report) Add(findings ...Finding) {
	r.Findings = append(r.Findings, findings...)
}

// Merge appends all findings from other reports, preserving order.
// Merging never drops or deduplicates findings.
func (r *Report) Merge(others ...Report) {
	for _, other := range others {
		r.Findings = append(r.Findings, other.Findings...)
	}
}

// IsSuccess reports whether the report contains no Error or Critical
// findings. Info and Warning findings do not fail a report.
func (r Report) IsSuccess() bool {
	for _, f := range r.Findings {
		if f.Severity.Fails() {
			return false
		}
	}
	return true
}

// Failures returns the findings with severity Error or Critical.
func (r Report) Failures() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity.Fails() {
			out = append(out, f)
		}
	}
	return out
}

// BySeverity returns the findings with exactly the given severity.
func (r Report) BySeverity(s Severity) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == s {
			out = append(out, f)
		}
	}
	return out
}

// String formats the report for display. An empty report reads "valid".
func (r Report) String() string {
	if len(r.Findings) == 0 {
		return "valid"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d finding(s):\n", len(r.Findings)))
	for _, f := range r.Findings {
		sb.WriteString("  - ")
		sb.WriteString(f.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
