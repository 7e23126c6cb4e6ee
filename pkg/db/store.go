package db

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/phenning/phonolex/pkg/phonemize"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

const selectColumns = `SELECT id, word, pron_order, phonemes, role FROM word_phonemes`

// LookupWord returns every pronunciation of word, all roles, ordered by
// pron_order.
func LookupWord(ex DBExecutor, word string) ([]Entry, error) {
	rows, err := ex.Query(selectColumns+` WHERE word = ? ORDER BY pron_order`, word)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// LookupWordRole returns the pronunciations of word for one role, ordered by
// pron_order.
func LookupWordRole(ex DBExecutor, word, role string) ([]Entry, error) {
	rows, err := ex.Query(selectColumns+` WHERE word = ? AND role = ? ORDER BY pron_order`, word, role)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// LookupWordDefault returns the role-agnostic (NULL role) pronunciations of
// word, ordered by pron_order.
func LookupWordDefault(ex DBExecutor, word string) ([]Entry, error) {
	rows, err := ex.Query(selectColumns+` WHERE word = ? AND role IS NULL ORDER BY pron_order`, word)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Word, &e.PronOrder, &e.Phonemes, &e.Role); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// InsertEntry appends a pronunciation row for word. The id is the current
// global maximum plus one; pron_order is the word's current maximum plus one
// (0 for a first pronunciation).
func InsertEntry(ex DBExecutor, word, phonemes string, role sql.NullString) error {
	_, err := ex.Exec(`INSERT INTO word_phonemes
		VALUES ((SELECT IFNULL(MAX(id), 0) + 1 FROM word_phonemes),
		        ?,
		        (SELECT IFNULL(MAX(pron_order) + 1, 0) FROM word_phonemes WHERE word = ?),
		        ?, ?)`,
		word, word, phonemes, role)
	if err != nil {
		return fmt.Errorf("insert pronunciation for %q: %w", word, err)
	}
	return nil
}

// HasEntry reports whether word already has a row for the given role.
func HasEntry(ex DBExecutor, word string, role sql.NullString) (bool, error) {
	var n int
	var err error
	if role.Valid {
		err = ex.QueryRow(`SELECT COUNT(*) FROM word_phonemes WHERE word = ? AND role = ?`, word, role.String).Scan(&n)
	} else {
		err = ex.QueryRow(`SELECT COUNT(*) FROM word_phonemes WHERE word = ? AND role IS NULL`, word).Scan(&n)
	}
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Store adapts a *sql.DB to the resolver's phonemize.Store interface.
// The default role maps to NULL in the role column both ways.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Lookup fetches pronunciation rows for word, filtered by role unless the
// role is phonemize.RoleAny, ordered by pron_order.
func (s *Store) Lookup(word string, role phonemize.Role) ([]phonemize.StoreRow, error) {
	var entries []Entry
	var err error
	switch role {
	case phonemize.RoleAny:
		entries, err = LookupWord(s.db, word)
	case phonemize.RoleDefault:
		entries, err = LookupWordDefault(s.db, word)
	default:
		entries, err = LookupWordRole(s.db, word, string(role))
	}
	if err != nil {
		return nil, err
	}
	rows := make([]phonemize.StoreRow, 0, len(entries))
	for _, e := range entries {
		r := phonemize.RoleDefault
		if e.Role.Valid {
			r = phonemize.Role(e.Role.String)
		}
		rows = append(rows, phonemize.StoreRow{Role: r, Phonemes: e.Phonemes})
	}
	return rows, nil
}

// Insert persists a freshly analyzed pronunciation. RoleAny and RoleDefault
// are stored as a NULL role.
func (s *Store) Insert(word string, phonemes []string, role phonemize.Role) error {
	return InsertEntry(s.db, word, strings.Join(phonemes, " "), roleColumn(role))
}

func roleColumn(role phonemize.Role) sql.NullString {
	if role == phonemize.RoleAny || role == phonemize.RoleDefault {
		return sql.NullString{}
	}
	return sql.NullString{String: string(role), Valid: true}
}
