// Package diff classifies what changed between two configuration
// snapshots and what the change costs operationally.
//
// Analyze is pure: it compares the old and new snapshots, lists every
// differing property with display values, grades each with a severity,
// and decides whether the data store must restart for the change to take
// effect. The report's severity is the maximum across changes and its
// restart flag is true if any single change needs one.
//
//	report := diff.Analyze(oldCfg, newCfg, time.Now())
//	if report.RequiresRestart {
//		// schedule a restart before applying
//	}
//
// Sensitive properties (the data store password, secret-looking
// environment keys) appear in the report by path only; both value columns
// carry the mask and a warning notes the change. Reports are routinely
// logged and persisted to history, so no secret value may enter one.
//
// Metadata changes are invisible here. Saving a document bumps
// modifiedAt, and treating that as a configuration change would make
// every save look like one.
package diff
