package repository

import (
	"context"
	"errors"

	"github.com/daybook-app/daybook/model"
)

var (
	// ErrIndexOutOfRange reports a positional index below zero or at or
	// past the end of the collection.
	ErrIndexOutOfRange = errors.New("entry index out of range")

	// ErrEntryNotFound reports an unknown entry id.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrStorageUnavailable wraps an unreadable, unwritable or corrupt
	// storage medium.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// EntryPatch is a partial update. A nil field is left alone; a pointer
// to the empty string is applied. Date, color and photos cannot be
// changed after creation.
type EntryPatch struct {
	Title *string
	Time  *string
	Text  *string
}

// EntryStore is the persistence boundary for journal entries. The
// collection is an ordered sequence: List returns entries in append
// order, never sorted by date, and the positional operations address
// that order. Implementations serialize mutations through their own
// lock so a read-modify-write cycle is atomic within the process.
type EntryStore interface {
	// List returns every entry in append order. An empty medium yields
	// an empty slice and no error.
	List(ctx context.Context) ([]model.JournalEntry, error)

	// FindByDate returns the first entry carrying date, or nil when no
	// entry matches. Absence is not an error.
	FindByDate(ctx context.Context, date string) (*model.JournalEntry, error)

	// Append adds entry at the end of the sequence.
	Append(ctx context.Context, entry model.JournalEntry) error

	// UpdateAt merges patch into the entry at the positional index and
	// returns the updated entry. ErrIndexOutOfRange when index < 0 or
	// index >= Count.
	UpdateAt(ctx context.Context, index int, patch EntryPatch) (model.JournalEntry, error)

	// RemoveAt deletes the entry at the positional index; later entries
	// shift down by one. ErrIndexOutOfRange leaves the sequence
	// unchanged.
	RemoveAt(ctx context.Context, index int) error

	// UpdateByID merges patch into the entry with the stable id.
	// ErrEntryNotFound when no entry carries it.
	UpdateByID(ctx context.Context, id string, patch EntryPatch) (model.JournalEntry, error)

	// RemoveByID deletes the entry with the stable id.
	RemoveByID(ctx context.Context, id string) error

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	Close() error
}

func applyPatch(e *model.JournalEntry, p EntryPatch) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Time != nil {
		e.Time = *p.Time
	}
	if p.Text != nil {
		e.Text = *p.Text
	}
}
