// Package escape turns text and attribute values into HTML-safe strings.
package escape

import (
	"regexp"
	"strings"
)

// An ampersand is only ambiguous when it could be read as a character reference.
var ambiguousAmpersand = regexp.MustCompile(`&([0-9A-Za-z]+;)`)

var specialChars = strings.NewReplacer(
	`"`, "&quot;",
	`'`, "&#39;",
	`<`, "&lt;",
	`>`, "&gt;",
)

// NeedsEscaped reports whether Escape would change s.
func NeedsEscaped(s string) bool {
	if strings.ContainsAny(s, `"'<>`) {
		return true
	}
	return strings.IndexByte(s, '&') >= 0 && ambiguousAmpersand.MatchString(s)
}

// Escape escapes quotes, angle brackets and ambiguous ampersands.
// Strings that need no escaping are returned as-is.
func Escape(s string) string {
	if !NeedsEscaped(s) {
		return s
	}
	// Ampersands first, so the entities introduced below are not escaped twice.
	s = ambiguousAmpersand.ReplaceAllString(s, "&amp;${1}")
	return specialChars.Replace(s)
}
