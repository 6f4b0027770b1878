// Package slug derives the url-safe keys that labels are unique by.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Make returns the slug for the given text: accents are decomposed and dropped,
// anything that is not a letter, digit, underscore, hyphen or whitespace is removed,
// the result is lowercased, and runs of whitespace and hyphens become a single hyphen.
//
// "Chore", "chore" and "  CHORÉ " all map to "chore".
func Make(text string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))

	ascii, _, err := transform.String(t, text)
	if err != nil {
		// only returned for malformed transformer state; fall back to a rune filter
		ascii = strings.Map(func(r rune) rune {
			if r > unicode.MaxASCII {
				return -1
			}

			return r
		}, text)
	}

	var b strings.Builder

	pendingHyphen := false

	for _, r := range ascii {
		switch {
		case r == '-' || unicode.IsSpace(r):
			pendingHyphen = true
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}

			pendingHyphen = false

			b.WriteRune(unicode.ToLower(r))
		}
	}

	return strings.Trim(b.String(), "-_")
}
