package handler

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/daybook-app/daybook/model"
	"github.com/daybook-app/daybook/repository"
	"github.com/daybook-app/daybook/services"
	"github.com/daybook-app/daybook/usecase"
	"github.com/daybook-app/daybook/views"
)

func setupCalendarRouter(t *testing.T, weatherURL, defaultCity string) (*gin.Engine, *usecase.JournalService) {
	t.Helper()

	store, err := repository.NewFileStore(filepath.Join(t.TempDir(), "journal.json"))
	if err != nil {
		t.Fatal("open file store failed", err)
	}
	t.Cleanup(func() { store.Close() })

	attachments, err := services.NewAttachmentStore(t.TempDir())
	if err != nil {
		t.Fatal("new attachment store failed", err)
	}

	journalService := &usecase.JournalService{Store: store, Attachments: attachments}
	weatherHandler := NewWeatherHandler(testWeatherClient(t, weatherURL), nil, defaultCity)

	r := gin.New()
	calendar := r.Group("/calendar")
	{
		calendar.GET("/week", func(c *gin.Context) { GetWeekEntriesHandler(c, journalService) })
		calendar.GET("/month", func(c *gin.Context) { GetMonthGridHandler(c, journalService, weatherHandler) })
	}
	return r, journalService
}

type monthGridResponse struct {
	Year  int              `json:"year"`
	Month int              `json:"month"`
	Cells []*views.DayCell `json:"cells"`
}

func TestWeekEntriesRoute(t *testing.T) {
	r, journalService := setupCalendarRouter(t, "http://127.0.0.1:0", "")
	today := time.Now().Format("2006-01-02")
	seedEntry(t, journalService, today, "this week")
	seedEntry(t, journalService, "2000-01-01", "long ago")

	w := doRequest(t, r, "GET", "/calendar/week", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var entries []model.JournalEntry
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatal("parsing entries failed", err)
	}
	if len(entries) != 1 || entries[0].Title != "this week" {
		t.Fatalf("unexpected week entries: %+v", entries)
	}
}

func TestMonthGridRoute(t *testing.T) {
	r, journalService := setupCalendarRouter(t, "http://127.0.0.1:0", "")
	seedEntry(t, journalService, "2025-01-05", "first sunday")

	w := doRequest(t, r, "GET", "/calendar/month?year=2025&month=1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var grid monthGridResponse
	if err := json.Unmarshal(w.Body.Bytes(), &grid); err != nil {
		t.Fatal("parsing grid failed", err)
	}
	if grid.Year != 2025 || grid.Month != 1 {
		t.Fatalf("unexpected grid header: %+v", grid)
	}

	// January 2025 starts on a Wednesday: 3 leading blanks + 31 days.
	if len(grid.Cells) != 34 {
		t.Fatalf("expected 34 cells, got %d", len(grid.Cells))
	}
	if grid.Cells[0] != nil || grid.Cells[2] != nil {
		t.Fatal("expected leading cells to be null")
	}
	if grid.Cells[3] == nil || grid.Cells[3].Date != "2025-01-01" {
		t.Fatalf("unexpected first day cell: %+v", grid.Cells[3])
	}
	if grid.Cells[33].Date != "2025-01-31" {
		t.Fatalf("unexpected last day cell: %+v", grid.Cells[33])
	}

	sunday := grid.Cells[3+4]
	if len(sunday.Entries) != 1 || sunday.Entries[0].Title != "first sunday" {
		t.Fatalf("expected entry on 2025-01-05, got %+v", sunday)
	}
	if sunday.Weather != nil {
		t.Fatal("expected no weather without a configured city")
	}
}

func TestMonthGridDefaultsToCurrentMonth(t *testing.T) {
	r, _ := setupCalendarRouter(t, "http://127.0.0.1:0", "")

	w := doRequest(t, r, "GET", "/calendar/month", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var grid monthGridResponse
	if err := json.Unmarshal(w.Body.Bytes(), &grid); err != nil {
		t.Fatal("parsing grid failed", err)
	}
	now := time.Now()
	if grid.Year != now.Year() || grid.Month != int(now.Month()) {
		t.Fatalf("expected current month grid, got %d-%d", grid.Year, grid.Month)
	}
	if len(grid.Cells) == 0 {
		t.Fatal("expected grid cells")
	}
}

func TestMonthGridInvalidParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"MonthZero", "?year=2025&month=0"},
		{"MonthThirteen", "?year=2025&month=13"},
		{"MonthNotANumber", "?year=2025&month=abc"},
		{"YearNotANumber", "?year=abc&month=1"},
		{"YearZero", "?year=0&month=1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := setupCalendarRouter(t, "http://127.0.0.1:0", "")
			w := doRequest(t, r, "GET", "/calendar/month"+tc.query, "", nil)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestMonthGridWithWeather(t *testing.T) {
	srv := forecastServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(forecastBody))
	})
	r, _ := setupCalendarRouter(t, srv.URL, "Oslo")

	w := doRequest(t, r, "GET", "/calendar/month?year=2025&month=1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var grid monthGridResponse
	if err := json.Unmarshal(w.Body.Bytes(), &grid); err != nil {
		t.Fatal("parsing grid failed", err)
	}

	jan1 := grid.Cells[3]
	if jan1.Weather == nil {
		t.Fatal("expected weather on 2025-01-01")
	}
	if jan1.Weather.TempMin != 2.2 || jan1.Weather.TempMax != 7.5 {
		t.Fatalf("unexpected day summary: %+v", jan1.Weather)
	}
	jan2 := grid.Cells[4]
	if jan2.Weather == nil || jan2.Weather.TempMin != 1.1 {
		t.Fatalf("unexpected summary for 2025-01-02: %+v", jan2.Weather)
	}
	if grid.Cells[5].Weather != nil {
		t.Fatal("expected no weather past the forecast window")
	}
}

func TestMonthGridDegradesWithoutWeather(t *testing.T) {
	srv := forecastServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	r, journalService := setupCalendarRouter(t, srv.URL, "Oslo")
	seedEntry(t, journalService, "2025-01-05", "still here")

	w := doRequest(t, r, "GET", "/calendar/month?year=2025&month=1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 despite provider failure, got %d", w.Code)
	}
	var grid monthGridResponse
	if err := json.Unmarshal(w.Body.Bytes(), &grid); err != nil {
		t.Fatal("parsing grid failed", err)
	}
	sunday := grid.Cells[3+4]
	if sunday.Weather != nil {
		t.Fatal("expected grid without weather when the provider fails")
	}
	if len(sunday.Entries) != 1 {
		t.Fatalf("expected entries to survive weather failure, got %+v", sunday)
	}
}
