package diff

import "strings"

// rule classifies changed property paths. Exact matches are listed before
// the prefix rules for their section, and the first matching rule wins.
type rule struct {
	exact    string
	prefix   string
	severity Severity
	restart  bool
}

// classification of every configuration property. Paths not matched by
// any rule are low-impact and applied without restart.
var rules = []rule{
	{exact: "backendType", severity: SeverityCritical, restart: true},

	{prefix: "wsl2.", severity: SeverityHigh, restart: true},
	{prefix: "docker.", severity: SeverityHigh, restart: true},

	// The server applies maxmemory and requirepass at runtime; everything
	// else about the listener needs a restart.
	{exact: "redis.memoryLimit", severity: SeverityMedium, restart: false},
	{exact: "redis.password", severity: SeverityLow, restart: false},
	{prefix: "redis.", severity: SeverityHigh, restart: true},

	{exact: "service.name", severity: SeverityHigh, restart: true},
	{exact: "service.displayName", severity: SeverityLow, restart: false},
	{prefix: "service.", severity: SeverityMedium, restart: false},

	{prefix: "monitoring.", severity: SeverityLow, restart: false},
	{prefix: "performance.", severity: SeverityMedium, restart: false},

	{exact: "advanced.customArgs", severity: SeverityHigh, restart: true},
	{prefix: "advanced.environment.", severity: SeverityHigh, restart: true},
	{prefix: "advanced.", severity: SeverityLow, restart: false},
}

// classify returns the severity and restart requirement for a property
// path.
func classify(path string) (Severity, bool) {
	for _, r := range rules {
		if r.exact != "" && path == r.exact {
			return r.severity, r.restart
		}
		if r.prefix != "" && strings.HasPrefix(path, r.prefix) {
			return r.severity, r.restart
		}
	}
	return SeverityLow, false
}
