package lexfile

import (
	"bufio"
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/phenning/phonolex/pkg/db"
	"github.com/phenning/phonolex/pkg/phonemize"
)

// Importer bulk-loads lexicon text files into the pronunciation store so
// first lookups hit the database instead of the analyzer.
type Importer struct {
	conn *sql.DB
	// Logger receives per-line diagnostics for skipped entries. nil means no logging.
	Logger *log.Logger
}

func NewImporter(conn *sql.DB) *Importer {
	return &Importer{conn: conn}
}

// ImportFile imports the lexicon file at path. See Import.
func (im *Importer) ImportFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return im.Import(f)
}

// Import reads lexicon lines (word [@role] phoneme...) and inserts them in a
// single transaction. Words that already have a row for the same role are
// skipped, so re-importing an artifact is idempotent. It returns the number
// of rows inserted.
func (im *Importer) Import(r io.Reader) (int, error) {
	tx, err := im.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	// (word, role) pairs already handled in this import, so repeated lines
	// don't hit the database twice.
	seen := make(map[[2]string]bool)

	count := 0
	lineno := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineno++
		word, role, phonemes, ok := phonemize.ParseLexiconLine(scanner.Text())
		if !ok {
			continue
		}
		if len(phonemes) == 0 {
			im.logf("line %d: skipping %q: no phonemes", lineno, word)
			continue
		}

		roleCol := sql.NullString{}
		if role != phonemize.RoleAny && role != phonemize.RoleDefault {
			roleCol = sql.NullString{String: string(role), Valid: true}
		}

		key := [2]string{word, roleCol.String}
		if seen[key] {
			continue
		}
		seen[key] = true

		exists, err := db.HasEntry(tx, word, roleCol)
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", lineno, err)
		}
		if exists {
			continue
		}

		if err := db.InsertEntry(tx, word, phonemes.String(), roleCol); err != nil {
			return 0, fmt.Errorf("line %d: %w", lineno, err)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}

func (im *Importer) logf(format string, args ...interface{}) {
	if im.Logger != nil {
		im.Logger.Printf(format, args...)
	}
}
