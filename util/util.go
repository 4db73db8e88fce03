// Package util holds small helpers shared across packages.
package util

import (
	"fmt"
	"regexp"
	"strings"
)

// SanitizeFilename normalizes a suggested filename so it is safe to create on any platform.
// Path separators and reserved characters are replaced, so the result never escapes its directory.
func SanitizeFilename(filename string) string {
	filename = invalidFilenameChars.ReplaceAllString(filename, "_")
	filename = repeatedUnderscores.ReplaceAllString(filename, "_")
	return strings.Trim(filename, " .")
}

var (
	invalidFilenameChars = regexp.MustCompile(`[\\/<>:"|?*\x00-\x1f]`)
	repeatedUnderscores  = regexp.MustCompile(`__+`)
)

// Quantify formats count followed by the singular or plural label.
func Quantify(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	for i := range s {
		if i > 0 {
			return strings.ToUpper(s[:i]) + s[i:]
		}
	}
	return strings.ToUpper(s)
}

// ReGroups returns the named groups of the first match of pattern in str.
func ReGroups(pattern *regexp.Regexp, str string) map[string]string {
	groups := make(map[string]string)
	match := pattern.FindStringSubmatch(str)
	for i, name := range pattern.SubexpNames() {
		if name != "" && i < len(match) {
			groups[name] = match[i]
		}
	}
	return groups
}

// Ignore calls f and drops its error, for deferred closes.
func Ignore(f func() error) {
	_ = f()
}
