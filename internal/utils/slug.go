// internal/utils/slug.go
package utils

import (
	"regexp"
	"strings"
)

var (
	nonSlugChars    = regexp.MustCompile(`[^a-z0-9]+`)
	repeatedHyphens = regexp.MustCompile(`-{2,}`)
)

// Slugify turns an arbitrary title into a URL-safe identifier: lowercase,
// every run of characters outside [a-z0-9] collapsed to a single hyphen,
// no leading or trailing hyphen. Empty or all-symbol input yields an
// empty string; callers fall back to a placeholder where that matters.
func Slugify(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = nonSlugChars.ReplaceAllString(value, "-")
	value = repeatedHyphens.ReplaceAllString(value, "-")
	return strings.Trim(value, "-")
}
