// Package history keeps a local log of generated outputs in SQLite.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/takak2166/mailassist/internal/markdown"
	"github.com/takak2166/mailassist/internal/models"
	_ "modernc.org/sqlite"
)

// DefaultLimit is the number of entries listed when no limit is given
const DefaultLimit = 10

// ErrNotFound is returned when no entry has the requested ID
var ErrNotFound = errors.New("history entry not found")

// Store is a SQLite-backed history log.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// Open opens (creating if needed) the history database at path.
// Use ":memory:" for a throwaway store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// a single connection keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)

	store := &Store{db: db, now: time.Now}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT,
		mode TEXT,
		tone TEXT,
		input TEXT,
		output TEXT
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save appends an entry and returns its ID. The output is stored in its
// normalized Markdown form.
func (s *Store) Save(ctx context.Context, mode, tone, input, output string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO history (timestamp, mode, tone, input, output) VALUES (?, ?, ?, ?, ?)",
		s.now().Format(time.RFC3339Nano), mode, tone, input, markdown.Normalize(output),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert history entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read history entry id: %w", err)
	}
	return id, nil
}

// Recent returns up to limit entries, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, timestamp, mode, tone, input, output FROM history ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history rows: %w", err)
	}
	return entries, nil
}

// Get returns the entry with the given ID
func (s *Store) Get(ctx context.Context, id int64) (models.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, timestamp, mode, tone, input, output FROM history WHERE id = ?",
		id,
	)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.HistoryEntry{}, ErrNotFound
	}
	return entry, err
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (models.HistoryEntry, error) {
	var (
		entry     models.HistoryEntry
		timestamp sql.NullString
		mode      sql.NullString
		tone      sql.NullString
		input     sql.NullString
		output    sql.NullString
	)
	if err := row.Scan(&entry.ID, &timestamp, &mode, &tone, &input, &output); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entry, err
		}
		return entry, fmt.Errorf("failed to scan history entry: %w", err)
	}

	// rows written by older versions may carry a naive ISO timestamp
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999"} {
		if ts, err := time.ParseInLocation(layout, timestamp.String, time.Local); err == nil {
			entry.Timestamp = ts
			break
		}
	}
	entry.Mode = mode.String
	entry.Tone = tone.String
	entry.Input = input.String
	entry.Output = output.String
	return entry, nil
}
