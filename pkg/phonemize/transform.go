package phonemize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Convenience transforms for the chain. Which transforms a deployment uses,
// and in what order, is entirely the caller's choice.

// Lower is a casing transform mapping words to lower case.
func Lower(s string) string { return strings.ToLower(s) }

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripAccents removes diacritics (e.g. "Élodie" -> "Elodie"). On transform
// failure the word is returned unchanged.
func StripAccents(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	if out == s {
		// No accents to strip; signal a non-applicable transform so the
		// resolver skips the duplicate store query.
		return ""
	}
	return out
}

// TrimPossessive drops a trailing English possessive marker ("dog's",
// "dogs’" -> "dog", "dogs"). It returns "" when the word has none.
func TrimPossessive(s string) string {
	for _, suffix := range []string{"'s", "’s", "'", "’"} {
		if base := strings.TrimSuffix(s, suffix); base != s && base != "" {
			return base
		}
	}
	return ""
}
