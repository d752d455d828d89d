// Redkeep is a configuration management engine for a supervised Redis
// data store running under WSL2 or Docker.
//
// It loads, validates, migrates, and hot-reloads configuration
// documents, classifies every change by operational impact, and keeps
// an audit journal of reload outcomes.
//
// Usage:
//
//	# Validate a configuration document
//	redkeep validate --config config.yaml
//
//	# Show the effective configuration with secrets masked
//	redkeep show --format json
//
//	# Migrate a legacy document to the current schema
//	redkeep migrate --write
//
//	# Watch a document and hot-reload on change
//	redkeep watch --history redkeep-history.db
//
//	# Inspect the reload journal
//	redkeep history list --db redkeep-history.db
//
// For complete documentation, see: https://github.com/redkeep-hq/redkeep
package main

func main() {
	Execute()
}
