package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// sizePattern matches memory size strings accepted by the data store,
// e.g. "512mb", "1gb", "100000" (plain bytes).
var sizePattern = regexp.MustCompile(`(?i)^[0-9]+(b|kb|mb|gb)?$`)

// mustProperty panics when the property name is missing. Checks validate
// values, not call sites; a missing property name is programmer error.
func mustProperty(property string) {
	if property == "" {
		panic("validation: property name is required")
	}
}

// Range checks that value lies within [min, max] inclusive.
func Range(value int, property string, min, max int) Report {
	mustProperty(property)

	var r Report
	if value < min || value > max {
		r.Add(Finding{
			PropertyPath: property,
			Message:      fmt.Sprintf("value %d is outside the allowed range %d-%d", value, min, max),
			Suggestion:   fmt.Sprintf("choose a value between %d and %d", min, max),
			Severity:     SeverityError,
		})
	}
	return r
}

// NonEmpty checks that value contains at least one non-whitespace character.
func NonEmpty(value, property string) Report {
	mustProperty(property)

	var r Report
	if strings.TrimSpace(value) == "" {
		r.Add(Finding{
			PropertyPath: property,
			Message:      "value must not be empty",
			Severity:     SeverityError,
		})
	}
	return r
}

// Pattern checks that value matches the compiled expression. The describe
// argument names the expected shape in the finding message (e.g. "a
// three-part version like 2.1.0").
func Pattern(value, property string, re *regexp.Regexp, describe string) Report {
	mustProperty(property)
	if re == nil {
		panic("validation: pattern is required")
	}

	var r Report
	if !re.MatchString(value) {
		r.Add(Finding{
			PropertyPath: property,
			Message:      fmt.Sprintf("value %q does not match the expected format: %s", value, describe),
			Severity:     SeverityError,
		})
	}
	return r
}

// WellFormedPath checks that value could name a file: non-empty, valid
// UTF-8, and free of NUL and other characters no supported filesystem
// accepts. It does not touch the filesystem; existence is a system check.
func WellFormedPath(value, property string) Report {
	mustProperty(property)

	var r Report
	switch {
	case strings.TrimSpace(value) == "":
		r.Add(Finding{
			PropertyPath: property,
			Message:      "path must not be empty",
			Severity:     SeverityError,
		})
	case !utf8.ValidString(value):
		r.Add(Finding{
			PropertyPath: property,
			Message:      "path contains invalid UTF-8",
			Severity:     SeverityError,
		})
	case strings.ContainsRune(value, 0):
		r.Add(Finding{
			PropertyPath: property,
			Message:      "path contains a NUL character",
			Severity:     SeverityError,
		})
	case strings.ContainsAny(value, `*?"<>|`):
		r.Add(Finding{
			PropertyPath: property,
			Message:      fmt.Sprintf("path %q contains characters not accepted on all platforms", value),
			Suggestion:   `remove any of * ? " < > | from the path`,
			Severity:     SeverityError,
		})
	}
	return r
}

// Port checks that value is a usable TCP/UDP port (1-65535).
func Port(value int, property string) Report {
	mustProperty(property)

	var r Report
	if value < 1 || value > 65535 {
		r.Add(Finding{
			PropertyPath: property,
			Message:      fmt.Sprintf("port %d is outside the valid range 1-65535", value),
			Suggestion:   "choose a port between 1 and 65535, e.g. 6379",
			Severity:     SeverityError,
		})
	}
	return r
}

// OneOf checks that value is one of the allowed strings (exact match).
func OneOf(value, property string, allowed ...string) Report {
	mustProperty(property)
	if len(allowed) == 0 {
		panic("validation: at least one allowed value is required")
	}

	var r Report
	for _, a := range allowed {
		if value == a {
			return r
		}
	}
	r.Add(Finding{
		PropertyPath: property,
		Message:      fmt.Sprintf("invalid value %q", value),
		Suggestion:   fmt.Sprintf("use one of: %s", strings.Join(allowed, ", ")),
		Severity:     SeverityError,
	})
	return r
}

// SizeString checks that value is a memory size string such as "512mb",
// "1gb", or a plain byte count.
func SizeString(value, property string) Report {
	mustProperty(property)

	var r Report
	if !sizePattern.MatchString(value) {
		r.Add(Finding{
			PropertyPath: property,
			Message:      fmt.Sprintf("invalid size %q", value),
			Suggestion:   `use a number with an optional unit suffix, e.g. "512mb" or "1gb"`,
			Severity:     SeverityError,
		})
	}
	return r
}
