package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/daybook-app/daybook/model"
)

func testEntry(date, title string) model.JournalEntry {
	return model.JournalEntry{
		ID:    uuid.NewString(),
		Date:  date,
		Title: title,
		Color: model.ColorBlue,
	}
}

func mustAppend(t *testing.T, store EntryStore, entries ...model.JournalEntry) {
	t.Helper()
	for _, e := range entries {
		if err := store.Append(context.Background(), e); err != nil {
			t.Fatal("append entry failed", err)
		}
	}
}

func strPtr(s string) *string { return &s }

// testStores returns one opener per backend runnable without external
// services. The mongo backend runs the same suite from mongo_test.go
// when MONGO_TEST_URI is set.
func testStores() map[string]func(t *testing.T) EntryStore {
	return map[string]func(t *testing.T) EntryStore{
		"file": func(t *testing.T) EntryStore {
			store, err := NewFileStore(filepath.Join(t.TempDir(), "journal.json"))
			if err != nil {
				t.Fatal("open file store failed", err)
			}
			return store
		},
		"sqlite": func(t *testing.T) EntryStore {
			store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "daybook.db"))
			if err != nil {
				t.Fatal("open sqlite store failed", err)
			}
			return store
		},
	}
}

func TestEntryStoreConformance(t *testing.T) {
	for name, open := range testStores() {
		t.Run(name, func(t *testing.T) {
			runEntryStoreTests(t, open)
		})
	}
}

func runEntryStoreTests(t *testing.T, open func(t *testing.T) EntryStore) {
	ctx := context.Background()

	t.Run("EmptyList", func(t *testing.T) {
		store := open(t)
		defer store.Close()

		entries, err := store.List(ctx)
		if err != nil {
			t.Fatal("list failed", err)
		}
		if len(entries) != 0 {
			t.Fatalf("expected empty list, got %d entries", len(entries))
		}

		count, err := store.Count(ctx)
		if err != nil {
			t.Fatal("count failed", err)
		}
		if count != 0 {
			t.Fatalf("expected count 0, got %d", count)
		}
	})

	t.Run("AppendKeepsStorageOrder", func(t *testing.T) {
		store := open(t)
		defer store.Close()

		// Dates deliberately out of calendar order: the store must keep
		// append order, never sort.
		mustAppend(t, store,
			testEntry("2025-06-15", "beach day"),
			testEntry("2025-01-02", "late resolution"),
			testEntry("2025-03-20", "equinox"),
		)

		entries, err := store.List(ctx)
		if err != nil {
			t.Fatal("list failed", err)
		}
		got := []string{}
		for _, e := range entries {
			got = append(got, e.Date)
		}
		want := []string{"2025-06-15", "2025-01-02", "2025-03-20"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("entry %d: expected date %s, got %s", i, want[i], got[i])
			}
		}
	})

	t.Run("FindByDateReturnsFirstMatch", func(t *testing.T) {
		store := open(t)
		defer store.Close()

		first := testEntry("2025-06-15", "morning")
		second := testEntry("2025-06-15", "evening")
		mustAppend(t, store, first, testEntry("2025-06-14", "before"), second)

		found, err := store.FindByDate(ctx, "2025-06-15")
		if err != nil {
			t.Fatal("find by date failed", err)
		}
		if found == nil {
			t.Fatal("expected an entry, got nil")
		}
		if found.Title != "morning" {
			t.Fatalf("expected first match %q, got %q", "morning", found.Title)
		}
	})

	t.Run("FindByDateAbsentIsNil", func(t *testing.T) {
		store := open(t)
		defer store.Close()

		mustAppend(t, store, testEntry("2025-06-15", "beach day"))

		found, err := store.FindByDate(ctx, "2025-06-16")
		if err != nil {
			t.Fatal("find by date failed", err)
		}
		if found != nil {
			t.Fatalf("expected nil for absent date, got %+v", found)
		}
	})

	t.Run("UpdateAtMergesPatch", func(t *testing.T) {
		store := open(t)
		defer store.Close()

		entry := testEntry("2025-06-15", "draft")
		entry.Time = "09:30"
		entry.Text = "original body"
		mustAppend(t, store, testEntry("2025-06-14", "before"), entry)

		updated, err := store.UpdateAt(ctx, 1, EntryPatch{
			Title: strPtr("final"),
			Text:  strPtr(""),
		})
		if err != nil {
			t.Fatal("update at failed", err)
		}
		if updated.Title != "final" {
			t.Fatalf("expected title %q, got %q", "final", updated.Title)
		}
		if updated.Text != "" {
			t.Fatalf("expected cleared text, got %q", updated.Text)
		}
		// Nil fields stay untouched.
		if updated.Time != "09:30" {
			t.Fatalf("expected time %q, got %q", "09:30", updated.Time)
		}
		if updated.Date != "2025-06-15" {
			t.Fatalf("date must not change, got %q", updated.Date)
		}
		if updated.ID != entry.ID {
			t.Fatalf("id must not change, got %q", updated.ID)
		}

		// The change persisted, not just the returned copy.
		entries, err := store.List(ctx)
		if err != nil {
			t.Fatal("list failed", err)
		}
		if entries[1].Title != "final" {
			t.Fatalf("persisted title %q, expected %q", entries[1].Title, "final")
		}
	})

	t.Run("UpdateAtOutOfRange", func(t *testing.T) {
		store := open(t)
		defer store.Close()

		mustAppend(t, store, testEntry("2025-06-15", "only"))

		for _, index := range []int{-1, 1, 5} {
			_, err := store.UpdateAt(ctx, index, EntryPatch{Title: strPtr("nope")})
			if !errors.Is(err, ErrIndexOutOfRange) {
				t.Fatalf("index %d: expected ErrIndexOutOfRange, got %v", index, err)
			}
		}

		entries, err := store.List(ctx)
		if err != nil {
			t.Fatal("list failed", err)
		}
		if entries[0].Title != "only" {
			t.Fatalf("entry mutated by failed update: %q", entries[0].Title)
		}
	})

	t.Run("RemoveAtShiftsLaterEntries", func(t *testing.T) {
		store := open(t)
		defer store.Close()

		mustAppend(t, store,
			testEntry("2025-06-01", "a"),
			testEntry("2025-06-02", "b"),
			testEntry("2025-06-03", "c"),
		)

		if err := store.RemoveAt(ctx, 1); err != nil {
			t.Fatal("remove at failed", err)
		}

		entries, err := store.List(ctx)
		if err != nil {
			t.Fatal("list failed", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].Title != "a" || entries[1].Title != "c" {
			t.Fatalf("expected [a c], got [%s %s]", entries[0].Title, entries[1].Title)
		}
	})

	t.Run("RemoveAtOutOfRange", func(t *testing.T) {
		store := open(t)
		defer store.Close()

		mustAppend(t, store, testEntry("2025-06-15", "only"))

		for _, index := range []int{-1, 1, 42} {
			if err := store.RemoveAt(ctx, index); !errors.Is(err, ErrIndexOutOfRange) {
				t.Fatalf("index %d: expected ErrIndexOutOfRange, got %v", index, err)
			}
		}

		count, err := store.Count(ctx)
		if err != nil {
			t.Fatal("count failed", err)
		}
		if count != 1 {
			t.Fatalf("collection changed by failed remove, count %d", count)
		}
	})

	t.Run("UpdateByID", func(t *testing.T) {
		store := open(t)
		defer store.Close()

		entry := testEntry("2025-06-15", "draft")
		mustAppend(t, store, testEntry("2025-06-14", "before"), entry)

		updated, err := store.UpdateByID(ctx, entry.ID, EntryPatch{Title: strPtr("final")})
		if err != nil {
			t.Fatal("update by id failed", err)
		}
		if updated.Title != "final" {
			t.Fatalf("expected title %q, got %q", "final", updated.Title)
		}

		_, err = store.UpdateByID(ctx, uuid.NewString(), EntryPatch{Title: strPtr("x")})
		if !errors.Is(err, ErrEntryNotFound) {
			t.Fatalf("expected ErrEntryNotFound, got %v", err)
		}
	})

	t.Run("RemoveByID", func(t *testing.T) {
		store := open(t)
		defer store.Close()

		entry := testEntry("2025-06-15", "target")
		mustAppend(t, store, testEntry("2025-06-14", "keep"), entry)

		if err := store.RemoveByID(ctx, entry.ID); err != nil {
			t.Fatal("remove by id failed", err)
		}

		entries, err := store.List(ctx)
		if err != nil {
			t.Fatal("list failed", err)
		}
		if len(entries) != 1 || entries[0].Title != "keep" {
			t.Fatalf("unexpected entries after remove: %+v", entries)
		}

		if err := store.RemoveByID(ctx, entry.ID); !errors.Is(err, ErrEntryNotFound) {
			t.Fatalf("expected ErrEntryNotFound, got %v", err)
		}
	})

	t.Run("NormalizesOnRead", func(t *testing.T) {
		store := open(t)
		defer store.Close()

		entry := testEntry("2025-06-15", "plain")
		entry.Color = model.Color("chartreuse")
		entry.Photos = nil
		mustAppend(t, store, entry)

		entries, err := store.List(ctx)
		if err != nil {
			t.Fatal("list failed", err)
		}
		if entries[0].Color != model.ColorBlue {
			t.Fatalf("expected out-of-palette color to normalize to blue, got %q", entries[0].Color)
		}
		if entries[0].Photos == nil {
			t.Fatal("expected photos to be an empty slice, got nil")
		}
	})
}

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "journal.json"))
	if err != nil {
		t.Fatal("open file store failed", err)
	}
	defer store.Close()

	entries, err := store.List(context.Background())
	if err != nil {
		t.Fatal("list failed", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty journal, got %d entries", len(entries))
	}
}

func TestFileStoreReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.json")

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatal("open file store failed", err)
	}
	mustAppend(t, store,
		testEntry("2025-06-15", "beach day"),
		testEntry("2025-06-16", "rainy day"),
	)
	store.Close()

	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatal("reopen file store failed", err)
	}
	defer reopened.Close()

	entries, err := reopened.List(context.Background())
	if err != nil {
		t.Fatal("list failed", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries after reopen, got %d", len(entries))
	}
	if entries[0].Title != "beach day" {
		t.Fatalf("expected first entry preserved, got %q", entries[0].Title)
	}
}

func TestFileStoreCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal("seed corrupt file failed", err)
	}

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatal("open file store failed", err)
	}
	defer store.Close()

	ctx := context.Background()
	if _, err := store.List(ctx); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if err := store.Append(ctx, testEntry("2025-06-15", "x")); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable on append, got %v", err)
	}
}

func TestSQLiteStoreReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daybook.db")

	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal("open sqlite store failed", err)
	}
	mustAppend(t, store, testEntry("2025-06-15", "beach day"))
	if err := store.Close(); err != nil {
		t.Fatal("close failed", err)
	}

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal("reopen sqlite store failed", err)
	}
	defer reopened.Close()

	entries, err := reopened.List(context.Background())
	if err != nil {
		t.Fatal("list failed", err)
	}
	if len(entries) != 1 || entries[0].Title != "beach day" {
		t.Fatalf("unexpected entries after reopen: %+v", entries)
	}
}
