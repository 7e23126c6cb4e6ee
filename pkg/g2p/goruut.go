// Package g2p provides grapheme-to-phoneme engines that satisfy the
// resolver's Analyzer interface: goruut for IPA output across many
// languages, and a kagome-based engine producing Japanese morae.
package g2p

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/neurlang/goruut/lib"
	"github.com/neurlang/goruut/models/requests"
)

// Goruut converts graphemes to IPA phoneme symbols using the goruut engine.
// One instance is fixed to a single language (e.g. "English").
type Goruut struct {
	p    *lib.Phonemizer
	lang string
}

func NewGoruut(lang string) *Goruut {
	return &Goruut{p: lib.NewPhonemizer(nil), lang: lang}
}

// Analyze phonemizes a single word. Clause-breaking punctuation is dropped
// from the input unless keepClauseBreakers is set.
func (g *Goruut) Analyze(word string, keepClauseBreakers bool) ([]string, error) {
	if !keepClauseBreakers {
		word = strings.Map(func(r rune) rune {
			if isClauseBreaker(r) {
				return -1
			}
			return r
		}, word)
	}
	if strings.TrimSpace(word) == "" {
		return nil, fmt.Errorf("nothing to analyze")
	}

	resp := g.p.Sentence(requests.PhonemizeSentence{
		Language: g.lang,
		Sentence: word,
	})

	var ipa strings.Builder
	for i, w := range resp.Words {
		if i > 0 {
			ipa.WriteString(" ")
		}
		ipa.WriteString(w.Phonetic)
	}

	symbols := SplitIPA(ipa.String())
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no phonemes for %q", word)
	}
	return symbols, nil
}

func isClauseBreaker(r rune) bool {
	switch r {
	case ',', ';', ':', '.', '!', '?':
		return true
	}
	return false
}

// SplitIPA breaks an IPA string into phoneme symbols. Combining marks,
// length marks and modifier letters attach to the preceding base character;
// stress marks attach to the following one.
func SplitIPA(s string) []string {
	var out []string
	cur := ""
	pending := false // cur holds a stress prefix waiting for its base
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			if cur != "" {
				out = append(out, cur)
				cur = ""
			}
			pending = false
		case r == 'ˈ' || r == 'ˌ':
			if cur != "" && !pending {
				out = append(out, cur)
				cur = ""
			}
			cur += string(r)
			pending = true
		case isIPAModifier(r):
			cur += string(r)
		default:
			if cur != "" && !pending {
				out = append(out, cur)
				cur = ""
			}
			cur += string(r)
			pending = false
		}
	}
	if cur != "" {
		out = append(out, cur)
	}
	return out
}

func isIPAModifier(r rune) bool {
	if r == 'ː' || r == 'ˑ' {
		return true
	}
	return unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Sk, r) ||
		(unicode.Is(unicode.Lm, r) && r != 'ˈ' && r != 'ˌ')
}
