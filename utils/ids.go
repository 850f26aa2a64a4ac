package utils

import "github.com/google/uuid"

// NewEntryID returns the stable identifier persisted with a journal
// entry at creation. It never changes for the entry's lifetime, however
// the entry is later addressed.
func NewEntryID() string {
	return uuid.NewString()
}
