package phonemize

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// roleSet is an insertion-ordered role -> pronunciation map. It is shared by
// pointer between a word and its transformed spellings, so a merge through
// one cache key is visible through every alias.
type roleSet struct {
	order []Role
	prons map[Role]Pronunciation
}

func newRoleSet() *roleSet {
	return &roleSet{prons: make(map[Role]Pronunciation)}
}

// put records a pronunciation for role unless one is already present.
// The first write for a role wins.
func (rs *roleSet) put(role Role, p Pronunciation) bool {
	if _, ok := rs.prons[role]; ok {
		return false
	}
	rs.order = append(rs.order, role)
	rs.prons[role] = p
	return true
}

func (rs *roleSet) get(role Role) (Pronunciation, bool) {
	p, ok := rs.prons[role]
	return p, ok
}

// first returns the first-inserted pronunciation, giving the "any role"
// fallback a deterministic answer.
func (rs *roleSet) first() (Pronunciation, bool) {
	if len(rs.order) == 0 {
		return nil, false
	}
	return rs.prons[rs.order[0]], true
}

// Preload seeds the lexicon with a known pronunciation. RoleAny is stored
// under the default role.
func (r *Resolver) Preload(word string, role Role, phonemes Pronunciation) {
	if r.Casing != nil {
		word = r.Casing(word)
	}
	if role == RoleAny {
		role = RoleDefault
	}
	rs := r.lexicon[word]
	if rs == nil {
		rs = newRoleSet()
		r.lexicon[word] = rs
	}
	rs.put(role, phonemes)
}

// MarkMissing records that word has no pronunciation anywhere, so future
// lookups return ErrNotFound without touching the store or analyzer.
// It never overwrites an entry that already has pronunciations.
func (r *Resolver) MarkMissing(word string) {
	if r.Casing != nil {
		word = r.Casing(word)
	}
	if _, ok := r.lexicon[word]; !ok {
		r.lexicon[word] = newRoleSet()
	}
}

// Len reports the number of cached words, aliases included.
func (r *Resolver) Len() int { return len(r.lexicon) }

// LoadLexicon preloads pronunciations from a lexicon text stream and returns
// the number of entries read. See ParseLexiconLine for the line format.
func (r *Resolver) LoadLexicon(rd io.Reader) (int, error) {
	scanner := bufio.NewScanner(rd)
	count := 0
	lineno := 0
	for scanner.Scan() {
		lineno++
		word, role, phonemes, ok := ParseLexiconLine(scanner.Text())
		if !ok {
			continue
		}
		if len(phonemes) == 0 {
			return count, fmt.Errorf("line %d: word %q has no phonemes", lineno, word)
		}
		r.Preload(word, role, phonemes)
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, err
	}
	return count, nil
}

// ParseLexiconLine parses one line of the lexicon text format:
//
//	word [@role] phoneme phoneme ...
//
// Blank lines and lines starting with '#' are skipped (ok is false).
// A field starting with '@' directly after the word tags the entry's role;
// without it the entry belongs to the default role.
func ParseLexiconLine(line string) (word string, role Role, phonemes Pronunciation, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", RoleAny, nil, false
	}
	fields := strings.Fields(line)
	word = fields[0]
	rest := fields[1:]
	role = RoleDefault
	if len(rest) > 0 && strings.HasPrefix(rest[0], "@") {
		role = Role(strings.TrimPrefix(rest[0], "@"))
		rest = rest[1:]
	}
	return word, role, Pronunciation(rest), true
}
