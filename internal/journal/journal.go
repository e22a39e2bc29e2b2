// Package journal persists one row per assistant turn for later review.
// Turns themselves stay request-scoped; the journal is observability, not
// cross-turn state.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Entry is one recorded turn
type Entry struct {
	ID        string
	Timestamp time.Time
	Utterance string
	Action    string
	Intent    string
	Response  string
}

// Store wraps the SQLite turn journal
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the journal database under statePath
func Open(statePath string) (*Store, error) {
	dbPath := filepath.Join(statePath, "journal.db")

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS turns (
			id        TEXT PRIMARY KEY,
			ts        TIMESTAMP NOT NULL,
			utterance TEXT NOT NULL,
			action    TEXT NOT NULL,
			intent    TEXT NOT NULL,
			response  TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_turns_ts ON turns(ts);
	`)
	return err
}

// Record inserts one turn. A zero ID or Timestamp is filled in.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO turns (id, ts, utterance, action, intent, response)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Timestamp, e.Utterance, e.Action, e.Intent, e.Response)
	if err != nil {
		return fmt.Errorf("failed to record turn: %w", err)
	}
	return nil
}

// Recent returns the latest n turns, newest first
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ts, utterance, action, intent, response
		 FROM turns ORDER BY ts DESC, id LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Utterance, &e.Action, &e.Intent, &e.Response); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}
