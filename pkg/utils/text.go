package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugDisallowed  = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace  = regexp.MustCompile(`\s+`)
	fileNameInvalid = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// foldDiacritics maps "é" to "e" so accented names keep their letters in slugs.
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Slugify derives a URL-safe slug: lowercased and trimmed, characters outside
// [a-z0-9 -] dropped, whitespace runs replaced by a single hyphen.
func Slugify(s string) string {
	out := strings.ToLower(strings.TrimSpace(foldDiacritics(s)))
	out = slugDisallowed.ReplaceAllString(out, "")
	return slugWhitespace.ReplaceAllString(out, "-")
}

// SanitizeFileName replaces characters unsafe for object keys with underscores.
func SanitizeFileName(name string) string {
	if name == "" {
		name = "upload"
	}
	return fileNameInvalid.ReplaceAllString(name, "_")
}

// IsValidEmail performs the basic local@domain.tld check used by the contact form.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
