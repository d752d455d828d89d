package secrets

import (
	"context"
	"os"
)

// EnvProvider resolves secrets from process environment variables.
type EnvProvider struct {
	// Prefix is prepended to the variable name, e.g. a prefix of
	// "REDKEEP_" makes "${ENV:API_KEY}" read REDKEEP_API_KEY.
	// Empty reads the variable name as written.
	Prefix string
}

// NewEnvProvider creates a provider reading unprefixed environment
// variables.
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{}
}

// Provider returns "env".
func (p *EnvProvider) Provider() string {
	return KindEnv
}

// GetSecret reads the named environment variable. The name is used
// verbatim apart from the optional prefix; "${ENV:REDIS_PASSWORD}" reads
// REDIS_PASSWORD. An unset or empty variable is an error.
func (p *EnvProvider) GetSecret(_ context.Context, name string) (string, error) {
	envVar := p.Prefix + name
	value, ok := os.LookupEnv(envVar)
	if !ok || value == "" {
		return "", &NotFoundError{
			Kind:   KindEnv,
			Name:   name,
			Detail: "environment variable " + envVar + " is not set",
		}
	}
	return value, nil
}
