package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"
)

// AttachmentStore copies uploaded photos into the publicly served
// upload directory and hands back their reference paths.
type AttachmentStore struct {
	dir string
}

func NewAttachmentStore(dir string) (*AttachmentStore, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %v", err)
	}
	return &AttachmentStore{dir: dir}, nil
}

// Dir returns the backing directory for static serving.
func (s *AttachmentStore) Dir() string {
	return s.dir
}

// Store persists every file and returns one /uploads reference per
// input, in input order. Names combine the current time with the
// original file name. The first failing file aborts the operation with
// an error naming it; files already written stay on disk.
func (s *AttachmentStore) Store(files []*multipart.FileHeader) ([]string, error) {
	refs := make([]string, 0, len(files))
	for _, fh := range files {
		name := fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(fh.Filename))
		if err := s.save(fh, name); err != nil {
			return nil, fmt.Errorf("failed to store attachment %q: %v", fh.Filename, err)
		}
		refs = append(refs, "/uploads/"+name)
	}
	return refs, nil
}

func (s *AttachmentStore) save(fh *multipart.FileHeader, name string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
