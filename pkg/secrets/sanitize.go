package secrets

import (
	"regexp"

	"redkeep-hq/redkeep/pkg/config"
)

// Mask replaces secret values in sanitized output.
const Mask = "***"

var sensitiveKeyPattern = regexp.MustCompile(`(?i)password|passwd|secret|token|credential|api[_-]?key`)

// IsSensitiveProperty reports whether a dotted property path carries a
// secret value. Change analysis and logging use it to decide what to
// redact.
func IsSensitiveProperty(path string) bool {
	return sensitiveKeyPattern.MatchString(path)
}

// SanitizeForLogging returns a copy of cfg safe to log or display:
// literal secret values are replaced with the mask. Secret references
// such as "${ENV:REDIS_PASSWORD}" are kept as written, since the
// reference names a secret without containing one.
//
// Sanitizing is idempotent: sanitizing a sanitized copy changes nothing.
func SanitizeForLogging(cfg *config.Config) *config.Config {
	if cfg == nil {
		return nil
	}

	out := cfg.Clone()
	out.Redis.Password = maskValue(out.Redis.Password)
	for key, value := range out.Advanced.Environment {
		if IsSensitiveProperty(key) {
			out.Advanced.Environment[key] = maskValue(value)
		}
	}

	return out
}

func maskValue(value string) string {
	if value == "" || value == Mask || IsReference(value) {
		return value
	}
	return Mask
}
