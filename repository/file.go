package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/facebookgo/atomicfile"

	"github.com/daybook-app/daybook/model"
	"github.com/daybook-app/daybook/utils"
)

// FileStore keeps the whole journal in one JSON document holding the
// ordered entry array. Every operation reads the document fresh and
// mutations rewrite it atomically, so a crash mid-write never leaves a
// torn file. The mutex serializes in-process writers; sharing the file
// across processes is not supported.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return &FileStore{path: path}, nil
}

// read loads the entry array. A missing file is an empty journal.
func (s *FileStore) read() ([]model.JournalEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.JournalEntry{}, nil
		}
		utils.TrackStoreError("file", "read_failed")
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	var entries []model.JournalEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		utils.TrackStoreError("file", "decode_failed")
		return nil, fmt.Errorf("%w: decode %s: %v", ErrStorageUnavailable, s.path, err)
	}
	for i := range entries {
		entries[i].Normalize()
	}
	return entries, nil
}

// write replaces the document. atomicfile stages the bytes in a temp
// file and renames on Close, so readers only ever see a full document.
func (s *FileStore) write(entries []model.JournalEntry) error {
	f, err := atomicfile.New(s.path, 0600)
	if err != nil {
		utils.TrackStoreError("file", "write_failed")
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	buf, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		f.Abort()
		utils.TrackStoreError("file", "encode_failed")
		return fmt.Errorf("%w: encode: %v", ErrStorageUnavailable, err)
	}
	if _, err := f.Write(buf); err != nil {
		f.Abort()
		utils.TrackStoreError("file", "write_failed")
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if err := f.Close(); err != nil {
		utils.TrackStoreError("file", "write_failed")
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]model.JournalEntry, error) {
	timer := utils.TrackDBOperation("find", "file")
	defer timer.ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *FileStore) FindByDate(ctx context.Context, date string) (*model.JournalEntry, error) {
	timer := utils.TrackDBOperation("find", "file")
	defer timer.ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].Date == date {
			e := entries[i]
			return &e, nil
		}
	}
	return nil, nil
}

func (s *FileStore) Append(ctx context.Context, entry model.JournalEntry) error {
	timer := utils.TrackDBOperation("insert", "file")
	defer timer.ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	entry.Normalize()
	return s.write(append(entries, entry))
}

func (s *FileStore) UpdateAt(ctx context.Context, index int, patch EntryPatch) (model.JournalEntry, error) {
	timer := utils.TrackDBOperation("update", "file")
	defer timer.ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return model.JournalEntry{}, err
	}
	if index < 0 || index >= len(entries) {
		return model.JournalEntry{}, ErrIndexOutOfRange
	}

	applyPatch(&entries[index], patch)
	if err := s.write(entries); err != nil {
		return model.JournalEntry{}, err
	}
	return entries[index], nil
}

func (s *FileStore) RemoveAt(ctx context.Context, index int) error {
	timer := utils.TrackDBOperation("delete", "file")
	defer timer.ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(entries) {
		return ErrIndexOutOfRange
	}
	return s.write(append(entries[:index], entries[index+1:]...))
}

func (s *FileStore) UpdateByID(ctx context.Context, id string, patch EntryPatch) (model.JournalEntry, error) {
	timer := utils.TrackDBOperation("update", "file")
	defer timer.ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return model.JournalEntry{}, err
	}
	for i := range entries {
		if entries[i].ID == id {
			applyPatch(&entries[i], patch)
			if err := s.write(entries); err != nil {
				return model.JournalEntry{}, err
			}
			return entries[i], nil
		}
	}
	return model.JournalEntry{}, ErrEntryNotFound
}

func (s *FileStore) RemoveByID(ctx context.Context, id string) error {
	timer := utils.TrackDBOperation("delete", "file")
	defer timer.ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	for i := range entries {
		if entries[i].ID == id {
			return s.write(append(entries[:i], entries[i+1:]...))
		}
	}
	return ErrEntryNotFound
}

func (s *FileStore) Count(ctx context.Context) (int, error) {
	timer := utils.TrackDBOperation("count", "file")
	defer timer.ObserveDuration()

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

func (s *FileStore) Close() error {
	return nil
}
