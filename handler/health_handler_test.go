package handler

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/daybook-app/daybook/model"
	"github.com/daybook-app/daybook/repository"
	"github.com/daybook-app/daybook/usecase"
)

func TestGetHealthRoute(t *testing.T) {
	store, err := repository.NewFileStore(filepath.Join(t.TempDir(), "journal.json"))
	if err != nil {
		t.Fatal("open file store failed", err)
	}
	t.Cleanup(func() { store.Close() })

	journalService := &usecase.JournalService{Store: store}
	seedEntry(t, journalService, "2025-06-15", "first")
	seedEntry(t, journalService, "2025-06-16", "second")

	healthHandler := NewHealthHandler(journalService, "file")
	r := gin.New()
	r.GET("/health", healthHandler.GetHealth)

	w := doRequest(t, r, "GET", "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var stats model.HealthStats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatal("parsing health body failed", err)
	}
	if stats.Status != "ok" {
		t.Fatalf("expected ok status, got %q", stats.Status)
	}
	if stats.StoreBackend != "file" {
		t.Fatalf("expected file backend, got %q", stats.StoreBackend)
	}
	if stats.EntryCount != 2 {
		t.Fatalf("expected 2 entries, got %d", stats.EntryCount)
	}
	if stats.UptimeSeconds < 0 {
		t.Fatalf("negative uptime %f", stats.UptimeSeconds)
	}
}
