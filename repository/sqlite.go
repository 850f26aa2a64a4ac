package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/daybook-app/daybook/model"
	"github.com/daybook-app/daybook/utils"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	user_id    TEXT PRIMARY KEY,
	username   TEXT NOT NULL,
	email      TEXT NOT NULL,
	password   TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS entries (
	seq     INTEGER PRIMARY KEY AUTOINCREMENT,
	id      TEXT NOT NULL UNIQUE,
	user_id TEXT REFERENCES users(user_id) ON DELETE CASCADE,
	date    TEXT NOT NULL,
	title   TEXT NOT NULL,
	time    TEXT NOT NULL DEFAULT '',
	text    TEXT NOT NULL DEFAULT '',
	color   TEXT NOT NULL DEFAULT 'blue',
	photos  TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS entries_date ON entries(date);
`

// SQLiteStore persists entries in a local SQLite database. The
// autoincrement seq column preserves append order; positional
// operations resolve an index to its seq inside one transaction so the
// row cannot move between lookup and mutation.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: create schema: %v", ErrStorageUnavailable, err)
	}
	return &SQLiteStore{db: db}, nil
}

const entryColumns = "seq, id, user_id, date, title, time, text, color, photos"

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (int64, model.JournalEntry, error) {
	var (
		seq    int64
		e      model.JournalEntry
		userID sql.NullString
		color  string
		photos string
	)
	if err := row.Scan(&seq, &e.ID, &userID, &e.Date, &e.Title, &e.Time, &e.Text, &color, &photos); err != nil {
		return 0, model.JournalEntry{}, err
	}
	e.UserID = userID.String
	e.Color = model.Color(color)
	if err := json.Unmarshal([]byte(photos), &e.Photos); err != nil {
		return 0, model.JournalEntry{}, fmt.Errorf("decode photos: %v", err)
	}
	e.Normalize()
	return seq, e, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]model.JournalEntry, error) {
	timer := utils.TrackDBOperation("find", "sqlite")
	defer timer.ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+entryColumns+" FROM entries ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	entries := []model.JournalEntry{}
	for rows.Next() {
		_, e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return entries, nil
}

func (s *SQLiteStore) FindByDate(ctx context.Context, date string) (*model.JournalEntry, error) {
	timer := utils.TrackDBOperation("find", "sqlite")
	defer timer.ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM entries WHERE date = ? ORDER BY seq LIMIT 1", date)
	_, e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return &e, nil
}

func (s *SQLiteStore) Append(ctx context.Context, entry model.JournalEntry) error {
	timer := utils.TrackDBOperation("insert", "sqlite")
	defer timer.ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry.Normalize()
	photos, err := json.Marshal(entry.Photos)
	if err != nil {
		return fmt.Errorf("%w: encode photos: %v", ErrStorageUnavailable, err)
	}

	// NULL user keeps the FK satisfied while no account system exists.
	var userID interface{}
	if entry.UserID != "" {
		userID = entry.UserID
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO entries (id, user_id, date, title, time, text, color, photos) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		entry.ID, userID, entry.Date, entry.Title, entry.Time, entry.Text, string(entry.Color), string(photos))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// entryAt resolves a positional index to its row within tx.
func entryAt(ctx context.Context, tx *sql.Tx, index int) (int64, model.JournalEntry, error) {
	row := tx.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM entries ORDER BY seq LIMIT 1 OFFSET ?", index)
	seq, e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, model.JournalEntry{}, ErrIndexOutOfRange
		}
		return 0, model.JournalEntry{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return seq, e, nil
}

func (s *SQLiteStore) UpdateAt(ctx context.Context, index int, patch EntryPatch) (model.JournalEntry, error) {
	timer := utils.TrackDBOperation("update", "sqlite")
	defer timer.ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 {
		return model.JournalEntry{}, ErrIndexOutOfRange
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.JournalEntry{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer tx.Rollback()

	seq, entry, err := entryAt(ctx, tx, index)
	if err != nil {
		return model.JournalEntry{}, err
	}
	applyPatch(&entry, patch)

	if _, err := tx.ExecContext(ctx,
		"UPDATE entries SET title = ?, time = ?, text = ? WHERE seq = ?",
		entry.Title, entry.Time, entry.Text, seq); err != nil {
		return model.JournalEntry{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if err := tx.Commit(); err != nil {
		return model.JournalEntry{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return entry, nil
}

func (s *SQLiteStore) RemoveAt(ctx context.Context, index int) error {
	timer := utils.TrackDBOperation("delete", "sqlite")
	defer timer.ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 {
		return ErrIndexOutOfRange
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer tx.Rollback()

	seq, _, err := entryAt(ctx, tx, index)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM entries WHERE seq = ?", seq); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func (s *SQLiteStore) UpdateByID(ctx context.Context, id string, patch EntryPatch) (model.JournalEntry, error) {
	timer := utils.TrackDBOperation("update", "sqlite")
	defer timer.ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.JournalEntry{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM entries WHERE id = ?", id)
	seq, entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.JournalEntry{}, ErrEntryNotFound
		}
		return model.JournalEntry{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	applyPatch(&entry, patch)

	if _, err := tx.ExecContext(ctx,
		"UPDATE entries SET title = ?, time = ?, text = ? WHERE seq = ?",
		entry.Title, entry.Time, entry.Text, seq); err != nil {
		return model.JournalEntry{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if err := tx.Commit(); err != nil {
		return model.JournalEntry{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return entry, nil
}

func (s *SQLiteStore) RemoveByID(ctx context.Context, id string) error {
	timer := utils.TrackDBOperation("delete", "sqlite")
	defer timer.ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if n == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	timer := utils.TrackDBOperation("count", "sqlite")
	defer timer.ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return count, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
