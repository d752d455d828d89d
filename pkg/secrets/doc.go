// Package secrets keeps secret values out of configuration documents,
// logs, and change reports.
//
// Configuration fields that authenticate something accept secret
// references instead of literals:
//
//	${ENV:REDIS_PASSWORD}   resolved from an environment variable
//	${CRED:redis}           resolved from the host credential store
//
// The kind is case-insensitive; ${env:x} and ${ENV:x} are the same
// reference. Any string not shaped like a reference is an ordinary
// literal and passes through resolution unchanged. A reference-shaped
// string with an unknown kind is an error: a typo must fail loudly, not
// become the literal password "${VAULT:x}".
//
// References stay textual through the whole configuration lifecycle.
// Loading verifies that every reference resolves; saving writes the
// reference back out; only ResolveConfig materializes values, and its
// result exists to be handed to a spawned process.
//
// ${CRED:...} lookups consult the credential store first and then fall
// back to REDKEEP_CRED_* environment variables, so hosts without a
// credential facility can still inject credentials.
//
// SanitizeForLogging produces the copy used anywhere a configuration is
// printed. It is idempotent and never reveals literal secret values.
package secrets
