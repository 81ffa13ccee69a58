package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"crypto_tracker/internal/event"

	_ "github.com/glebarez/go-sqlite"
)

// Journal is an append-only SQLite log of view model activity.
// It is never read back into screen state.
type Journal struct {
	db *sql.DB
}

// Entry is one journal row.
type Entry struct {
	Seq     int64
	ID      string
	Type    event.Type
	Ts      int64 // Unix Micro
	Payload json.RawMessage
}

// Time returns the entry timestamp.
func (e Entry) Time() time.Time {
	return time.UnixMicro(e.Ts)
}

// NewJournal opens (or creates) the journal at dbPath with WAL mode enabled.
func NewJournal(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=2000;",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS journal (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			type INTEGER NOT NULL,
			ts INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create journal table: %w", err)
	}

	return &Journal{db: db}, nil
}

// Record stores an event.
func (j *Journal) Record(ctx context.Context, ev event.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	_, err = j.db.ExecContext(ctx,
		"INSERT INTO journal (id, type, ts, payload) VALUES (?, ?, ?, ?)",
		ev.GetID(), int(ev.GetType()), ev.GetTs(), payload,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event %s: %w", ev.GetType(), err)
	}

	return nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		return []Entry{}, nil
	}

	rows, err := j.db.QueryContext(ctx,
		"SELECT seq, id, type, ts, payload FROM journal ORDER BY seq DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e      Entry
			evType int
		)
		if err := rows.Scan(&e.Seq, &e.ID, &evType, &e.Ts, &e.Payload); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		e.Type = event.Type(evType)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return entries, nil
}

// Count returns the number of stored entries.
func (j *Journal) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := j.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM journal").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count journal: %w", err)
	}
	return n, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}
