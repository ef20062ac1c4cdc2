package sanitizer

import (
	"regexp"
	"strings"
)

var whitespaces = regexp.MustCompile(`\s+`)

// Sanitize converts a comma separated decimal into a point separated one.
// Only the first comma is replaced.
func Sanitize(amount string) string {
	return strings.Replace(amount, ",", ".", 1)
}

// SanitizeInput removes spaces, tabs and line breaks, usually coming from
// pasted texts.
func SanitizeInput(str string) string {
	return whitespaces.ReplaceAllString(str, "")
}

// SanitizeMnemonic collapses whitespaces, trims and lowercases a recovery
// phrase.
func SanitizeMnemonic(str string) string {
	return strings.ToLower(strings.TrimSpace(whitespaces.ReplaceAllString(str, " ")))
}
