package db

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/phenning/phonolex/pkg/phonemize"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Ensure single connection to avoid separate in-memory DBs per connection.
	db.SetMaxOpenConns(1)
	if err := InitDB(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestInsertAssignsIDsAndPronOrder(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	verb := sql.NullString{String: "verb", Valid: true}
	noun := sql.NullString{String: "noun", Valid: true}

	if err := InsertEntry(db, "run", "r ʌ n", verb); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := InsertEntry(db, "run", "r ʌ n", noun); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := InsertEntry(db, "cat", "k æ t", sql.NullString{}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	entries, err := LookupWord(db, "run")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 rows for run, got %d", len(entries))
	}
	if entries[0].ID != 1 || entries[1].ID != 2 {
		t.Errorf("expected ids 1,2, got %d,%d", entries[0].ID, entries[1].ID)
	}
	if entries[0].PronOrder != 0 || entries[1].PronOrder != 1 {
		t.Errorf("expected pron_order 0,1, got %d,%d", entries[0].PronOrder, entries[1].PronOrder)
	}

	entries, err = LookupWord(db, "cat")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 row for cat, got %d", len(entries))
	}
	// id is global, pron_order is per word.
	if entries[0].ID != 3 {
		t.Errorf("expected id 3, got %d", entries[0].ID)
	}
	if entries[0].PronOrder != 0 {
		t.Errorf("expected pron_order 0, got %d", entries[0].PronOrder)
	}
	if entries[0].Role.Valid {
		t.Errorf("expected NULL role, got %q", entries[0].Role.String)
	}
}

func TestLookupWordRoleFilters(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := InsertEntry(db, "read", "r iː d", sql.NullString{String: "verb", Valid: true}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := InsertEntry(db, "read", "r ɛ d", sql.NullString{String: "verb-past", Valid: true}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := InsertEntry(db, "read", "r iː d", sql.NullString{}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	entries, err := LookupWordRole(db, "read", "verb-past")
	if err != nil {
		t.Fatalf("lookup role: %v", err)
	}
	if len(entries) != 1 || entries[0].Phonemes != "r ɛ d" {
		t.Fatalf("expected the verb-past row, got %+v", entries)
	}

	entries, err = LookupWordDefault(db, "read")
	if err != nil {
		t.Fatalf("lookup default: %v", err)
	}
	if len(entries) != 1 || entries[0].Role.Valid {
		t.Fatalf("expected one NULL-role row, got %+v", entries)
	}
}

func TestHasEntry(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	verb := sql.NullString{String: "verb", Valid: true}
	if err := InsertEntry(db, "run", "r ʌ n", verb); err != nil {
		t.Fatalf("insert: %v", err)
	}

	ok, err := HasEntry(db, "run", verb)
	if err != nil {
		t.Fatalf("has entry: %v", err)
	}
	if !ok {
		t.Error("expected (run, verb) to exist")
	}
	ok, err = HasEntry(db, "run", sql.NullString{})
	if err != nil {
		t.Fatalf("has entry: %v", err)
	}
	if ok {
		t.Error("did not expect a NULL-role row for run")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()
	store := NewStore(conn)

	phonemes := []string{"r", "ʌ", "n"}
	if err := store.Insert("run", phonemes, phonemize.Role("verb")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	rows, err := store.Lookup("run", phonemize.Role("verb"))
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Phonemes != "r ʌ n" {
		t.Errorf("expected joined phonemes %q, got %q", "r ʌ n", rows[0].Phonemes)
	}
	if rows[0].Role != phonemize.Role("verb") {
		t.Errorf("expected role verb, got %q", rows[0].Role)
	}
}

func TestStoreDefaultRoleMapsToNULL(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()
	store := NewStore(conn)

	if err := store.Insert("cat", []string{"k", "æ", "t"}, phonemize.RoleAny); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// The row lands in the NULL role column...
	entries, err := LookupWordDefault(conn, "cat")
	if err != nil {
		t.Fatalf("lookup default: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 NULL-role row, got %d", len(entries))
	}

	// ...and reads back as the reserved default role.
	rows, err := store.Lookup("cat", phonemize.RoleAny)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(rows) != 1 || rows[0].Role != phonemize.RoleDefault {
		t.Fatalf("expected one RoleDefault row, got %+v", rows)
	}

	rows, err = store.Lookup("cat", phonemize.RoleDefault)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected RoleDefault lookup to match NULL role, got %+v", rows)
	}
}

func TestLookupOrderedByPronOrder(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	// Insert out of natural id order to make sure ordering comes from
	// pron_order, not rowid.
	if _, err := db.Exec(`INSERT INTO word_phonemes VALUES (10, 'the', 1, 'ð iː', NULL)`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO word_phonemes VALUES (11, 'the', 0, 'ð ə', NULL)`); err != nil {
		t.Fatalf("seed: %v", err)
	}

	entries, err := LookupWord(db, "the")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(entries))
	}
	if entries[0].Phonemes != "ð ə" || entries[1].Phonemes != "ð iː" {
		t.Errorf("rows not ordered by pron_order: %+v", entries)
	}
}
