package usecase

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/daybook-app/daybook/model"
	"github.com/daybook-app/daybook/repository"
	"github.com/daybook-app/daybook/services"
	"github.com/daybook-app/daybook/utils"
	"github.com/daybook-app/daybook/views"
)

// ErrInvalidInput marks a validation failure; the API maps it to a 400.
var ErrInvalidInput = errors.New("invalid input")

// JournalService composes the entry store with attachment storage and
// the derived views. Creation is the one sequenced operation: photos
// are stored before the entry referencing them is appended.
type JournalService struct {
	Store       repository.EntryStore
	Attachments *services.AttachmentStore
}

// validateEntry normalizes a new entry and rejects malformed fields.
// Date and time are checked for shape only, never against a real
// calendar, and an out-of-palette color quietly becomes blue.
func (svc *JournalService) validateEntry(entry *model.JournalEntry) error {
	entry.Title = strings.TrimSpace(entry.Title)
	if entry.Title == "" {
		return fmt.Errorf("%w: entry title is required", ErrInvalidInput)
	}
	if !utils.ValidateDateString(entry.Date) {
		return fmt.Errorf("%w: entry date must be YYYY-MM-DD", ErrInvalidInput)
	}
	if !utils.ValidateTimeString(entry.Time) {
		return fmt.Errorf("%w: entry time must be HH:MM", ErrInvalidInput)
	}
	entry.Normalize()
	return nil
}

// CreateEntry stores the photos, then appends the entry referencing
// them. When validation or any attachment fails, nothing is appended;
// attachments already written are not rolled back.
func (svc *JournalService) CreateEntry(ctx context.Context, entry model.JournalEntry, photos []*multipart.FileHeader) (model.JournalEntry, error) {
	if err := svc.validateEntry(&entry); err != nil {
		return model.JournalEntry{}, err
	}

	if len(photos) > 0 {
		refs, err := svc.Attachments.Store(photos)
		if err != nil {
			return model.JournalEntry{}, err
		}
		entry.Photos = refs
	}

	entry.ID = utils.NewEntryID()
	if err := svc.Store.Append(ctx, entry); err != nil {
		return model.JournalEntry{}, err
	}
	return entry, nil
}

func (svc *JournalService) ListEntries(ctx context.Context) ([]model.JournalEntry, error) {
	return svc.Store.List(ctx)
}

func (svc *JournalService) EntryByDate(ctx context.Context, date string) (*model.JournalEntry, error) {
	return svc.Store.FindByDate(ctx, date)
}

func (svc *JournalService) UpdateEntryAt(ctx context.Context, index int, patch repository.EntryPatch) (model.JournalEntry, error) {
	return svc.Store.UpdateAt(ctx, index, patch)
}

func (svc *JournalService) RemoveEntryAt(ctx context.Context, index int) error {
	return svc.Store.RemoveAt(ctx, index)
}

func (svc *JournalService) UpdateEntry(ctx context.Context, id string, patch repository.EntryPatch) (model.JournalEntry, error) {
	return svc.Store.UpdateByID(ctx, id, patch)
}

func (svc *JournalService) RemoveEntry(ctx context.Context, id string) error {
	return svc.Store.RemoveByID(ctx, id)
}

func (svc *JournalService) CountEntries(ctx context.Context) (int, error) {
	return svc.Store.Count(ctx)
}

// WeekEntries returns the entries dated inside now's Sunday-to-Sunday
// window, in storage order.
func (svc *JournalService) WeekEntries(ctx context.Context, now time.Time) ([]model.JournalEntry, error) {
	entries, err := svc.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	return views.WeekEntries(entries, now), nil
}

// Memories returns entries dated strictly before today, grouped by
// date.
func (svc *JournalService) Memories(ctx context.Context, today string) ([]views.DateGroup, error) {
	entries, err := svc.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	memories, _ := views.Partition(entries, today)
	return views.GroupByDate(memories), nil
}

// Reminders returns entries dated today or later, grouped by date.
func (svc *JournalService) Reminders(ctx context.Context, today string) ([]views.DateGroup, error) {
	entries, err := svc.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	_, reminders := views.Partition(entries, today)
	return views.GroupByDate(reminders), nil
}
