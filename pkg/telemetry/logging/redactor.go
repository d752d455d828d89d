package logging

import (
	"regexp"
	"strings"
)

// Redactor masks passwords and other secret material in log fields.
// Patterns apply in a fixed order so overlapping matches produce the same
// output on every run.
type Redactor struct {
	patterns []*redactPattern
	index    map[string]int
	enabled  bool
}

// redactPattern contains a compiled regex and replacement string.
type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// RedactPattern is a custom redaction rule applied to string log values.
type RedactPattern struct {
	// Name identifies the pattern. A custom pattern replaces a built-in
	// pattern with the same name.
	Name string

	// Pattern is the regular expression to match.
	Pattern string

	// Replacement is the substitution text. Capture groups may be
	// referenced as $1, $2, and so on.
	Replacement string
}

// Built-in pattern names.
const (
	PatternRedisURI = "redis_uri"
	PatternAuthFlag = "auth_flag"
	PatternCredEnv  = "cred_env"
	PatternPassword = "password"
)

// NewRedactor creates a new Redactor with default and custom patterns.
func NewRedactor(customPatterns []RedactPattern) *Redactor {
	r := &Redactor{
		index:   make(map[string]int),
		enabled: true,
	}

	r.addDefaultPatterns()

	for _, p := range customPatterns {
		regex, err := regexp.Compile(p.Pattern)
		if err != nil {
			// Skip invalid patterns rather than fail logger construction
			continue
		}
		r.add(&redactPattern{
			name:        p.Name,
			regex:       regex,
			replacement: p.Replacement,
		})
	}

	return r
}

// add appends a pattern, or replaces the same-named one in place.
func (r *Redactor) add(p *redactPattern) {
	if i, ok := r.index[p.name]; ok {
		r.patterns[i] = p
		return
	}
	r.index[p.name] = len(r.patterns)
	r.patterns = append(r.patterns, p)
}

// addDefaultPatterns adds the built-in secret redaction patterns.
// The password pattern runs last and skips values already reduced to the
// mask, so the earlier, more specific rewrites stand.
func (r *Redactor) addDefaultPatterns() {
	defaults := []struct {
		name        string
		regex       string
		replacement string
	}{
		// Userinfo embedded in redis connection URIs
		{
			name:        PatternRedisURI,
			regex:       `(redis|rediss)://[^@/\s]*@`,
			replacement: "$1://***@",
		},

		// Auth flags on redis-server command lines
		{
			name:        PatternAuthFlag,
			regex:       `(?i)(--requirepass|--masterauth)[=\s]+\S+`,
			replacement: "$1 ***",
		},

		// Credential values passed through the environment
		{
			name:        PatternCredEnv,
			regex:       `\b(REDKEEP_(?:CRED_[A-Z0-9_]+|REDIS_PASSWORD))=\S+`,
			replacement: "$1=***",
		},

		// Password assignments in config snippets and command output
		{
			name:        PatternPassword,
			regex:       `(?i)(password|passwd|pwd|requirepass|masterauth)[:=]\s*[^\s"*][^\s"]*`,
			replacement: "$1: ***",
		},
	}

	for _, p := range defaults {
		r.add(&redactPattern{
			name:        p.name,
			regex:       regexp.MustCompile(p.regex),
			replacement: p.replacement,
		})
	}
}

// RedactString masks secret material in a string value.
func (r *Redactor) RedactString(value string) string {
	if !r.enabled || value == "" {
		return value
	}

	redacted := value
	for _, pattern := range r.patterns {
		redacted = pattern.regex.ReplaceAllString(redacted, pattern.replacement)
	}

	return redacted
}

// RedactArgs masks secret material in variadic log arguments.
// Args are in the form: key1, value1, key2, value2, ...
func (r *Redactor) RedactArgs(args ...any) []any {
	if !r.enabled || len(args) == 0 {
		return args
	}

	redacted := make([]any, len(args))
	copy(redacted, args)

	for i := 1; i < len(redacted); i += 2 {
		// Mask the whole value when the key names something sensitive
		if key, ok := redacted[i-1].(string); ok && r.isSensitiveKey(key) {
			redacted[i] = r.redactValue(redacted[i])
			continue
		}

		// Otherwise run string values through the pattern set
		if str, ok := redacted[i].(string); ok {
			redacted[i] = r.RedactString(str)
		}
	}

	return redacted
}

// isSensitiveKey checks if a key name indicates secret material.
func (r *Redactor) isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)

	sensitiveKeys := []string{
		"password", "passwd", "pwd",
		"secret", "token", "credential",
		"requirepass", "masterauth",
		"auth", "authorization",
		"api_key", "apikey",
		"private_key", "privatekey",
	}

	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}

	return false
}

// redactValue masks a sensitive value completely. No prefix or length hint
// is kept; any fragment of a password is a leak.
func (r *Redactor) redactValue(value any) any {
	if s, ok := value.(string); ok && s == "" {
		return ""
	}
	return "***"
}

// RedactConnectionString masks the userinfo portion of a redis connection
// URI, leaving host and port visible.
func RedactConnectionString(uri string) string {
	re := regexp.MustCompile(`(redis|rediss)://[^@/\s]*@`)
	return re.ReplaceAllString(uri, "$1://***@")
}

// RedactCommandLine masks the value following password-carrying flags in a
// command argument list, so spawn commands can be logged safely.
func RedactCommandLine(args []string) []string {
	redacted := make([]string, len(args))
	copy(redacted, args)

	for i, arg := range redacted {
		lower := strings.ToLower(arg)
		switch {
		case lower == "--requirepass" || lower == "--masterauth":
			if i+1 < len(redacted) {
				redacted[i+1] = "***"
			}
		case strings.HasPrefix(lower, "--requirepass=") || strings.HasPrefix(lower, "--masterauth="):
			flag, _, _ := strings.Cut(arg, "=")
			redacted[i] = flag + "=***"
		}
	}

	return redacted
}
