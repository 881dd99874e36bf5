// Package sqlite implements store.Store on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/verbatim/pkg/verbatim/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode enabled and bootstraps the
// schema.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	provider TEXT NOT NULL,
	model TEXT NOT NULL,
	corpus TEXT,
	started_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS outputs (
	book_id TEXT NOT NULL,
	prompt_id TEXT NOT NULL,
	run_id TEXT,
	prompt TEXT,
	final_prompt TEXT,
	output TEXT,
	created_at TEXT,
	PRIMARY KEY(book_id, prompt_id)
);

CREATE TABLE IF NOT EXISTS matches (
	book_id TEXT NOT NULL,
	prompt_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	chapter INTEGER NOT NULL,
	word_count INTEGER NOT NULL,
	char_count INTEGER NOT NULL,
	skipped_short INTEGER NOT NULL,
	skipped_long INTEGER NOT NULL,
	match_text TEXT,
	PRIMARY KEY(book_id, prompt_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_matches_book ON matches(book_id);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (s *sqliteStore) CreateRun(ctx context.Context, r store.Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, provider, model, corpus, started_at) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.Provider, r.Model, r.Corpus, r.StartedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, provider, model, corpus, started_at FROM runs WHERE id = ?`, id)

	var r store.Run
	var started string
	if err := row.Scan(&r.ID, &r.Provider, &r.Model, &r.Corpus, &started); err != nil {
		if err == sql.ErrNoRows {
			return store.Run{}, false, nil
		}
		return store.Run{}, false, err
	}
	if t, err := time.Parse(time.RFC3339, started); err == nil {
		r.StartedAt = t
	}
	return r, true, nil
}

func (s *sqliteStore) InsertOutput(ctx context.Context, o store.Output) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO outputs
		 (book_id, prompt_id, run_id, prompt, final_prompt, output, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		o.BookID, o.PromptID, o.RunID, o.Prompt, o.FinalPrompt, o.Text,
		o.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return false, fmt.Errorf("insert output: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *sqliteStore) GetOutputs(ctx context.Context, bookID string) ([]store.Output, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT book_id, prompt_id, run_id, prompt, final_prompt, output, created_at
		 FROM outputs WHERE book_id = ? ORDER BY prompt_id`, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Output
	for rows.Next() {
		var o store.Output
		var created string
		if err := rows.Scan(&o.BookID, &o.PromptID, &o.RunID, &o.Prompt,
			&o.FinalPrompt, &o.Text, &created); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			o.CreatedAt = t
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *sqliteStore) ReplaceMatches(ctx context.Context, bookID, promptID string, rows []store.MatchRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM matches WHERE book_id = ? AND prompt_id = ?`, bookID, promptID); err != nil {
		return fmt.Errorf("clear matches: %w", err)
	}

	for seq, m := range rows {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO matches
			 (book_id, prompt_id, seq, chapter, word_count, char_count, skipped_short, skipped_long, match_text)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			bookID, promptID, seq, m.Chapter, m.WordCount, m.CharCount,
			m.SkippedShort, m.SkippedLong, m.Text); err != nil {
			return fmt.Errorf("insert match: %w", err)
		}
	}

	return tx.Commit()
}

func (s *sqliteStore) GetMatches(ctx context.Context, bookID string) ([]store.MatchRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT book_id, prompt_id, chapter, word_count, char_count, skipped_short, skipped_long, match_text
		 FROM matches WHERE book_id = ? ORDER BY prompt_id, seq`, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.MatchRow
	for rows.Next() {
		var m store.MatchRow
		if err := rows.Scan(&m.BookID, &m.PromptID, &m.Chapter, &m.WordCount,
			&m.CharCount, &m.SkippedShort, &m.SkippedLong, &m.Text); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *sqliteStore) BookIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT book_id FROM matches ORDER BY book_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
