// Package db manages the sqlite pronunciation store: schema creation and the
// narrow query/insert surface the resolver consumes.
package db

import (
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS word_phonemes (
    id INTEGER PRIMARY KEY,
    word TEXT NOT NULL,
    pron_order INTEGER NOT NULL DEFAULT 0,
    phonemes TEXT NOT NULL,
    role TEXT,
    UNIQUE(word, role, pron_order)
);

CREATE INDEX IF NOT EXISTS idx_word_phonemes_word ON word_phonemes(word)
`

// InitDB creates the schema on the given connection using the embedded SQL.
func InitDB(db *sql.DB) error {
	stmts := strings.Split(schemaSQL, ";")
	for _, s := range stmts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}
