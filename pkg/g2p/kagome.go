package g2p

import (
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Kagome derives phoneme symbols for Japanese words from the IPA dictionary
// readings, one symbol per mora.
type Kagome struct {
	t *tokenizer.Tokenizer
}

func NewKagome() (*Kagome, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Kagome{t: t}, nil
}

// Analyze concatenates the katakana readings of the word's tokens and splits
// the hiragana form into morae. Tokens without a reading (rare katakana-less
// entries, latin fragments) contribute their surface form.
func (k *Kagome) Analyze(word string, keepClauseBreakers bool) ([]string, error) {
	if !keepClauseBreakers {
		word = strings.Map(func(r rune) rune {
			if isJapaneseClauseBreaker(r) || isClauseBreaker(r) {
				return -1
			}
			return r
		}, word)
	}

	var reading strings.Builder
	for _, tok := range k.t.Tokenize(word) {
		if tok.Class == tokenizer.DUMMY {
			continue
		}
		// IPA dict feature 7 is the katakana reading.
		features := tok.Features()
		if len(features) > 7 && features[7] != "*" {
			reading.WriteString(features[7])
		} else {
			reading.WriteString(tok.Surface)
		}
	}

	morae := SplitMorae(ToHiragana(reading.String()))
	if len(morae) == 0 {
		return nil, fmt.Errorf("no reading for %q", word)
	}
	return morae, nil
}

func isJapaneseClauseBreaker(r rune) bool {
	switch r {
	case '。', '、', '！', '？', '・':
		return true
	}
	return false
}

// ToHiragana converts Katakana to Hiragana.
func ToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}

// SplitMorae splits a hiragana string into morae: small kana and the long
// vowel mark attach to the preceding character, everything else stands alone.
func SplitMorae(s string) []string {
	var out []string
	for _, r := range s {
		if (isSmallKana(r) || r == 'ー') && len(out) > 0 {
			out[len(out)-1] += string(r)
			continue
		}
		out = append(out, string(r))
	}
	return out
}

func isSmallKana(r rune) bool {
	switch r {
	case 'ゃ', 'ゅ', 'ょ', 'ぁ', 'ぃ', 'ぅ', 'ぇ', 'ぉ', 'ゎ':
		return true
	}
	return false
}
