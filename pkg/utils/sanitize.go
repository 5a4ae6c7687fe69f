package utils

import (
	"html"
	"regexp"
	"strings"
)

// EscapeSQLWildcards escapes SQL LIKE/ILIKE wildcard characters so user
// input can be embedded in location/title searches safely.
func EscapeSQLWildcards(input string) string {
	input = strings.ReplaceAll(input, "\\", "\\\\")
	input = strings.ReplaceAll(input, "%", "\\%")
	input = strings.ReplaceAll(input, "_", "\\_")
	return input
}

// SanitizeSearchQuery prepares a search string for safe ILIKE usage and
// wraps it with % for partial matching.
func SanitizeSearchQuery(input string) string {
	input = strings.TrimSpace(input)
	if len(input) > 100 {
		input = input[:100]
	}
	input = EscapeSQLWildcards(input)
	return "%" + input + "%"
}

// SanitizeHTML escapes HTML entities in user-generated content such as
// message bodies and property descriptions.
func SanitizeHTML(input string) string {
	return html.EscapeString(input)
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes HTML tags entirely.
func StripHTML(input string) string {
	return tagPattern.ReplaceAllString(input, "")
}

// TruncateString safely truncates a string to max length
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
