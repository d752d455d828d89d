package secrets

import (
	"context"
	"strings"
)

// Reference kinds understood by the resolver.
const (
	// KindEnv resolves against process environment variables.
	KindEnv = "env"

	// KindCred resolves against the host credential store.
	KindCred = "cred"
)

// SecretProvider resolves secret names for one reference kind.
// Implementations must be safe for concurrent use.
type SecretProvider interface {
	// Provider returns the reference kind this provider serves,
	// lowercase, e.g. "env" or "cred".
	Provider() string

	// GetSecret returns the secret value for the given name.
	// A missing secret is an error; implementations never return an
	// empty value with a nil error.
	GetSecret(ctx context.Context, name string) (string, error)
}

// envVarName converts a secret name to environment variable form:
// uppercased, with runs of characters outside [A-Z0-9_] collapsed to
// underscores. "redis-password" becomes "REDIS_PASSWORD".
func envVarName(name string) string {
	upper := strings.ToUpper(name)
	var b strings.Builder
	b.Grow(len(upper))
	pendingUnderscore := false
	for _, r := range upper {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			if pendingUnderscore && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingUnderscore = false
			b.WriteRune(r)
		default:
			pendingUnderscore = true
		}
	}
	return b.String()
}
