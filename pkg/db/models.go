package db

import "database/sql"

// Entry is one pronunciation row. Phonemes holds the symbols joined by
// single spaces; a NULL Role marks the role-agnostic default pronunciation.
// (word, role, pron_order) is unique; id is a global surrogate key.
type Entry struct {
	ID        int64
	Word      string
	PronOrder int
	Phonemes  string
	Role      sql.NullString
}
