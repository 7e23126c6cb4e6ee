// Package phonemize resolves words (optionally tagged with a grammatical
// role) to phoneme sequences, layering an in-memory lexicon cache over a
// persistent pronunciation store with a grapheme-to-phoneme analyzer as the
// source of last resort.
package phonemize

import (
	"errors"
	"fmt"
	"log"
	"strings"
)

// Role disambiguates a word's grammatical or contextual sense
// (e.g. a part-of-speech tag).
type Role string

const (
	// RoleAny requests no specific role; the resolver falls back to the
	// default role and then to the first recorded pronunciation.
	RoleAny Role = ""

	// RoleDefault marks a role-agnostic pronunciation. It is a reserved
	// value and never collides with role tags coming out of the store,
	// which may legitimately be empty strings.
	RoleDefault Role = "_default"
)

// Pronunciation is an ordered sequence of phoneme symbols.
type Pronunciation []string

func (p Pronunciation) String() string { return strings.Join(p, " ") }

// ErrNotFound is returned when a word has no pronunciation in the cache,
// the store, or via any configured transform.
var ErrNotFound = errors.New("pronunciation not found")

// StoreRow is a single pronunciation row fetched from the persistent store.
// Phonemes is a whitespace-joined symbol string, split at the cache boundary.
type StoreRow struct {
	Role     Role
	Phonemes string
}

// Store is the narrow persistence surface the resolver consumes.
// Lookup must return rows ordered by the store's pronunciation-order field.
// A Lookup with RoleAny returns rows for every role of the word.
type Store interface {
	Lookup(word string, role Role) ([]StoreRow, error)
	Insert(word string, phonemes []string, role Role) error
}

// Analyzer is the external grapheme-to-phoneme capability, fixed to one
// language/voice per instance. Invocations are expensive; the resolver only
// calls it when both cache and store miss.
type Analyzer interface {
	Analyze(word string, keepClauseBreakers bool) ([]string, error)
}

// Transform maps a word to an alternate lookup spelling. An empty result
// means the transform does not apply and the candidate is skipped.
type Transform func(string) string

// Resolver answers pronunciation lookups. It exclusively owns its in-memory
// lexicon and borrows the store and analyzer handles.
//
// A Resolver is single-writer: concurrent callers must either shard one
// Resolver per worker or serialize access externally. There is no internal
// locking.
type Resolver struct {
	store    Store
	analyzer Analyzer

	// word -> role -> pronunciation. Entries for transformed spellings
	// share the same roleSet pointer as the original word.
	lexicon map[string]*roleSet

	// WriteBack controls whether freshly analyzed pronunciations are
	// persisted to the store. Persistence is best-effort: failures are
	// logged and never surfaced to callers.
	WriteBack bool

	// Transforms are tried in order after the exact spelling misses.
	Transforms []Transform

	// Casing, when set, normalizes every incoming word before any lookup.
	Casing Transform

	// Logger receives write-back failure diagnostics. nil disables logging.
	Logger *log.Logger
}

// NewResolver creates a resolver over the given store and analyzer with an
// empty lexicon and write-back disabled.
func NewResolver(store Store, analyzer Analyzer) *Resolver {
	return &Resolver{
		store:    store,
		analyzer: analyzer,
		lexicon:  make(map[string]*roleSet),
	}
}

// Resolve returns the pronunciation of word with no role preference.
func (r *Resolver) Resolve(word string) (Pronunciation, error) {
	return r.resolve(word, RoleAny, true)
}

// ResolveRole returns the pronunciation of word for a specific role, falling
// back to the default role and then to the first recorded pronunciation.
func (r *Resolver) ResolveRole(word string, role Role) (Pronunciation, error) {
	return r.resolve(word, role, true)
}

// ResolveExact is Resolve without the transform fallbacks: only the exact
// (case-normalized) spelling is considered.
func (r *Resolver) ResolveExact(word string, role Role) (Pronunciation, error) {
	return r.resolve(word, role, false)
}

func (r *Resolver) resolve(word string, role Role, doTransforms bool) (Pronunciation, error) {
	if r.Casing != nil {
		word = r.Casing(word)
	}

	if pron, ok, confirmedMiss := r.cached(word, role); ok {
		return pron, nil
	} else if confirmedMiss {
		// An empty role set records a prior exhaustive miss; don't hit
		// the store or analyzer again.
		return nil, ErrNotFound
	}

	// Candidate spellings: the word itself, then each transform in order.
	candidates := []Transform{nil}
	if doTransforms {
		candidates = append(candidates, r.Transforms...)
	}

	// First analyzer result, held so a word that never produces store rows
	// (write-back off or failing) still resolves for this call.
	var analyzed Pronunciation

	for _, tf := range candidates {
		lookup := word
		if tf != nil {
			lookup = tf(word)
		}
		if lookup == "" {
			continue
		}

		rows, err := r.store.Lookup(lookup, role)
		if err != nil {
			return nil, fmt.Errorf("lookup %q: %w", lookup, err)
		}

		if len(rows) == 0 {
			phonemes, err := r.analyzer.Analyze(lookup, false)
			if err != nil {
				return nil, fmt.Errorf("analyze %q: %w", lookup, err)
			}
			if len(phonemes) == 0 {
				continue
			}
			if analyzed == nil {
				analyzed = phonemes
			}
			if r.WriteBack {
				if err := r.store.Insert(lookup, phonemes, role); err != nil {
					// Best-effort persistence: the word still resolves
					// from the in-memory result, it just isn't durable.
					r.logf("write-back %q (role %q): %v", lookup, role, err)
				} else {
					mergeRole := role
					if mergeRole == RoleAny {
						mergeRole = RoleDefault
					}
					rows = append(rows, StoreRow{Role: mergeRole, Phonemes: strings.Join(phonemes, " ")})
				}
			}
		}

		if len(rows) == 0 {
			continue
		}

		rs := r.lexicon[word]
		if rs == nil {
			rs = newRoleSet()
			r.lexicon[word] = rs
		}
		for _, row := range rows {
			// First row wins per role; later duplicates in the batch
			// are ignored.
			rs.put(row.Role, Pronunciation(strings.Fields(row.Phonemes)))
		}

		// The transformed spelling shares the role set with the original
		// word, so an independent lookup of either lands on one entry.
		r.lexicon[lookup] = rs

		// Second cache probe; the set just got populated, so this is the
		// hit path of the probe above.
		if pron, ok, _ := r.cached(word, role); ok {
			return pron, nil
		}
		return nil, ErrNotFound
	}

	if analyzed != nil {
		return analyzed, nil
	}

	// A full-exhaustion miss is not memoized; only loaded-but-empty role
	// sets act as a negative cache.
	return nil, ErrNotFound
}

// cached probes the lexicon. It reports the pronunciation and whether it was
// found; confirmedMiss is true when the word is present with an empty role
// set, meaning absence was already established.
func (r *Resolver) cached(word string, role Role) (pron Pronunciation, ok, confirmedMiss bool) {
	rs, present := r.lexicon[word]
	if !present {
		return nil, false, false
	}
	if role != RoleAny {
		if p, ok := rs.get(role); ok {
			return p, true, false
		}
	}
	if p, ok := rs.get(RoleDefault); ok {
		return p, true, false
	}
	if p, ok := rs.first(); ok {
		return p, true, false
	}
	return nil, false, true
}

func (r *Resolver) logf(format string, args ...interface{}) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
	}
}
