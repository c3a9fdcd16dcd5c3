// Package normalize centralizes value cleaning, emptiness checks, and slug
// generation so every component agrees on what "empty" means.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// naEquivalents are string forms that spreadsheet exports use for missing
// values. Compared case-insensitively after trimming.
var naEquivalents = map[string]bool{
	"nan":  true,
	"none": true,
	"null": true,
	"n/a":  true,
	"na":   true,
	"-":    true,
}

// Clean trims whitespace and collapses NaN-equivalents to the empty string.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if naEquivalents[strings.ToLower(s)] {
		return ""
	}
	return s
}

// IsEmpty reports whether a raw value cleans to nothing.
func IsEmpty(s string) bool {
	return Clean(s) == ""
}

// Email cleans an email address and lowercases it so that case variants
// de-duplicate to one selection.
func Email(s string) string {
	return strings.ToLower(Clean(s))
}

// stripDiacritics removes combining marks after NFD decomposition.
var stripDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Slugify converts an organization name into the URL-safe grouping key
// used by the upstream dedup step: lowercase ASCII, runs of
// non-alphanumerics collapsed to single hyphens.
func Slugify(name string) string {
	cleaned := Clean(name)
	if cleaned == "" {
		return ""
	}
	if ascii, _, err := transform.String(stripDiacritics, cleaned); err == nil {
		cleaned = ascii
	}
	cleaned = strings.ToLower(cleaned)

	var b strings.Builder
	b.Grow(len(cleaned))
	lastHyphen := true // suppress leading hyphen
	for _, r := range cleaned {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// JoinNonEmpty joins the cleaned, non-empty elements with sep.
func JoinNonEmpty(values []string, sep string) string {
	var out []string
	for _, v := range values {
		if c := Clean(v); c != "" {
			out = append(out, c)
		}
	}
	return strings.Join(out, sep)
}
