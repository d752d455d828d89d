package secrets

import (
	"context"
	"os"
)

// CredFallbackPrefix is the environment prefix consulted when no
// credential store holds a ${CRED:...} secret. "${CRED:redis-password}"
// falls back to REDKEEP_CRED_REDIS_PASSWORD.
const CredFallbackPrefix = "REDKEEP_CRED_"

// CredentialStore is the host credential facility behind ${CRED:...}
// references. On Windows this is backed by the Credential Manager; other
// hosts typically use a FileStore. Lookups must not block on user
// interaction.
type CredentialStore interface {
	// Lookup returns the stored value for name and whether it exists.
	Lookup(name string) (string, bool)
}

// CredProvider resolves ${CRED:...} references against a credential
// store, falling back to prefixed environment variables so headless and
// containerized hosts work without a store.
type CredProvider struct {
	store CredentialStore
}

// NewCredProvider creates a provider over the given store. A nil store
// resolves from the environment fallback only.
func NewCredProvider(store CredentialStore) *CredProvider {
	return &CredProvider{store: store}
}

// Provider returns "cred".
func (p *CredProvider) Provider() string {
	return KindCred
}

// GetSecret looks the name up in the credential store, then falls back to
// the REDKEEP_CRED_ environment form. The fallback variable name is the
// secret name uppercased with punctuation collapsed to underscores.
func (p *CredProvider) GetSecret(_ context.Context, name string) (string, error) {
	if p.store != nil {
		if value, ok := p.store.Lookup(name); ok {
			return value, nil
		}
	}

	envVar := CredFallbackPrefix + envVarName(name)
	if value, ok := os.LookupEnv(envVar); ok && value != "" {
		return value, nil
	}

	return "", &NotFoundError{
		Kind:   KindCred,
		Name:   name,
		Detail: "not in the credential store and fallback variable " + envVar + " is not set",
	}
}
