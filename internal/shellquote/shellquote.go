// Package shellquote quotes strings for sh -c command lines.
package shellquote

import "strings"

// Quote wraps s in single quotes, escaping internal single quotes.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// QuoteIfNeeded quotes s only when it contains characters a shell
// would interpret.
func QuoteIfNeeded(s string) string {
	if strings.ContainsAny(s, "#[]()|!\"' ") {
		return Quote(s)
	}
	return s
}
