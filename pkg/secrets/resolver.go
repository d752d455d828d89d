package secrets

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"redkeep-hq/redkeep/pkg/config"
)

// referencePattern matches the whole-value reference form ${KIND:NAME}.
// The kind is matched case-insensitively; the name is taken verbatim.
var referencePattern = regexp.MustCompile(`^\$\{([A-Za-z]+):([A-Za-z0-9_][A-Za-z0-9_.-]*)\}$`)

// ParseReference splits a secret reference into its kind (lowercased) and
// name. ok is false when value is not shaped like a reference, in which
// case the value is an ordinary literal.
func ParseReference(value string) (kind, name string, ok bool) {
	m := referencePattern.FindStringSubmatch(value)
	if m == nil {
		return "", "", false
	}
	return strings.ToLower(m[1]), m[2], true
}

// IsReference reports whether value is shaped like a secret reference.
func IsReference(value string) bool {
	_, _, ok := ParseReference(value)
	return ok
}

// Resolver resolves secret references in configuration values against a
// set of providers, one per reference kind. The resolver itself performs
// no I/O; providers read only the process environment or a store loaded
// ahead of time.
type Resolver struct {
	providers map[string]SecretProvider
	logger    *slog.Logger
}

// NewResolver creates a resolver over the given providers. With no
// providers it uses the defaults: environment variables for ${ENV:...}
// and the credential fallback chain for ${CRED:...}.
// If logger is nil, slog.Default() is used.
func NewResolver(logger *slog.Logger, providers ...SecretProvider) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	if len(providers) == 0 {
		providers = []SecretProvider{NewEnvProvider(), NewCredProvider(nil)}
	}

	byKind := make(map[string]SecretProvider, len(providers))
	for _, p := range providers {
		byKind[strings.ToLower(p.Provider())] = p
	}

	return &Resolver{providers: byKind, logger: logger}
}

// Resolve materializes a single value. Values that are not shaped like a
// reference pass through unchanged; a reference with an unknown kind is
// an error rather than a passthrough, so a typo never becomes a literal
// password.
func (r *Resolver) Resolve(ctx context.Context, value string) (string, error) {
	kind, name, ok := ParseReference(value)
	if !ok {
		return value, nil
	}

	provider, found := r.providers[kind]
	if !found {
		return "", &UnknownKindError{Kind: kind}
	}

	secret, err := provider.GetSecret(ctx, name)
	if err != nil {
		return "", err
	}

	r.logger.Debug("resolved secret reference", "kind", kind, "name", name)
	return secret, nil
}

// ResolveConfig returns a deep copy of cfg with every secret reference
// materialized: the data store password and any advanced.environment
// values. The result is for handing to a spawned process only; it must
// never be persisted or logged.
func (r *Resolver) ResolveConfig(ctx context.Context, cfg *config.Config) (*config.Config, error) {
	resolved := cfg.Clone()

	password, err := r.Resolve(ctx, cfg.Redis.Password)
	if err != nil {
		return nil, fmt.Errorf("redis.password: %w", err)
	}
	resolved.Redis.Password = password

	for key, value := range cfg.Advanced.Environment {
		v, err := r.Resolve(ctx, value)
		if err != nil {
			return nil, fmt.Errorf("advanced.environment.%s: %w", key, err)
		}
		resolved.Advanced.Environment[key] = v
	}

	return resolved, nil
}

// Verify resolves every secret reference in cfg and discards the values.
// The load pipeline runs it so an unresolvable reference fails at load
// time, not at the moment the data store is started.
func (r *Resolver) Verify(ctx context.Context, cfg *config.Config) error {
	_, err := r.ResolveConfig(ctx, cfg)
	return err
}
