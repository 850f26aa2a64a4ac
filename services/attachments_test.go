package services

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type uploadFile struct {
	name    string
	content string
}

// buildFileHeaders assembles real multipart file headers the way gin's
// form binding would hand them to the service.
func buildFileHeaders(t *testing.T, files []uploadFile) []*multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, f := range files {
		part, err := writer.CreateFormFile("photos", f.name)
		if err != nil {
			t.Fatal("create form file failed", err)
		}
		if _, err := part.Write([]byte(f.content)); err != nil {
			t.Fatal("write form file failed", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal("close multipart writer failed", err)
	}

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	if err != nil {
		t.Fatal("read multipart form failed", err)
	}
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["photos"]
}

func TestStorePreservesOrder(t *testing.T) {
	dir := t.TempDir()
	store, err := NewAttachmentStore(dir)
	if err != nil {
		t.Fatal("new attachment store failed", err)
	}

	headers := buildFileHeaders(t, []uploadFile{
		{"sunset.jpg", "sunset bytes"},
		{"beach.png", "beach bytes"},
		{"picnic.jpg", "picnic bytes"},
	})

	refs, err := store.Store(headers)
	if err != nil {
		t.Fatal("store failed", err)
	}
	if len(refs) != 3 {
		t.Fatalf("expected 3 references, got %d", len(refs))
	}

	wantSuffix := []string{"-sunset.jpg", "-beach.png", "-picnic.jpg"}
	for i, ref := range refs {
		if !strings.HasPrefix(ref, "/uploads/") {
			t.Fatalf("reference %d missing /uploads/ prefix: %s", i, ref)
		}
		if !strings.HasSuffix(ref, wantSuffix[i]) {
			t.Fatalf("reference %d out of input order: %s", i, ref)
		}
	}

	// The bytes landed under the upload dir with the referenced names.
	data, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(refs[1], "/uploads/")))
	if err != nil {
		t.Fatal("read stored attachment failed", err)
	}
	if string(data) != "beach bytes" {
		t.Fatalf("unexpected attachment content: %s", data)
	}
}

func TestStoreGeneratesDistinctNames(t *testing.T) {
	store, err := NewAttachmentStore(t.TempDir())
	if err != nil {
		t.Fatal("new attachment store failed", err)
	}

	headers := buildFileHeaders(t, []uploadFile{
		{"photo.jpg", "first"},
		{"photo.jpg", "second"},
	})

	refs, err := store.Store(headers)
	if err != nil {
		t.Fatal("store failed", err)
	}
	if refs[0] == refs[1] {
		t.Fatalf("same original name must still get distinct references: %s", refs[0])
	}
}

func TestStoreStripsDirectoryComponents(t *testing.T) {
	dir := t.TempDir()
	store, err := NewAttachmentStore(dir)
	if err != nil {
		t.Fatal("new attachment store failed", err)
	}

	headers := buildFileHeaders(t, []uploadFile{
		{"../../escape.jpg", "payload"},
	})

	refs, err := store.Store(headers)
	if err != nil {
		t.Fatal("store failed", err)
	}
	if strings.Contains(refs[0], "..") {
		t.Fatalf("reference leaked path components: %s", refs[0])
	}
	if !strings.HasSuffix(refs[0], "-escape.jpg") {
		t.Fatalf("expected base name only, got %s", refs[0])
	}
}

func TestStoreEmptyInput(t *testing.T) {
	store, err := NewAttachmentStore(t.TempDir())
	if err != nil {
		t.Fatal("new attachment store failed", err)
	}

	refs, err := store.Store(nil)
	if err != nil {
		t.Fatal("store failed", err)
	}
	if refs == nil || len(refs) != 0 {
		t.Fatalf("expected empty reference list, got %v", refs)
	}
}

func TestStoreFailureNamesFile(t *testing.T) {
	store, err := NewAttachmentStore(t.TempDir())
	if err != nil {
		t.Fatal("new attachment store failed", err)
	}

	good := buildFileHeaders(t, []uploadFile{{"ok.jpg", "fine"}})
	// A header with no backing content cannot be opened.
	broken := &multipart.FileHeader{Filename: "broken.jpg"}

	_, err = store.Store([]*multipart.FileHeader{good[0], broken})
	if err == nil {
		t.Fatal("expected store to fail")
	}
	if !strings.Contains(err.Error(), "broken.jpg") {
		t.Fatalf("error must name the failing file, got %v", err)
	}
}
