// Package views holds the pure projections every calendar and list
// surface derives from the flat entry collection. Nothing here touches
// storage or the network; handlers and clients feed data in and render
// what comes out.
package views

import (
	"fmt"
	"time"

	"github.com/daybook-app/daybook/model"
)

// DayCell is one cell of the month grid. A nil *DayCell in the grid is
// a leading blank before day 1.
type DayCell struct {
	Date    string               `json:"date"`
	Entries []model.JournalEntry `json:"entries"`
	Weather *model.DayForecast   `json:"weather,omitempty"`
}

// MonthGrid builds the Sunday-first cell sequence for a calendar month:
// one nil cell per weekday before the 1st, then one cell per day, no
// trailing blanks. Each cell carries the entries whose date matches, in
// storage order, and the day's forecast when present.
func MonthGrid(year int, month time.Month, entries []model.JournalEntry, forecastByDate map[string]model.DayForecast) []*DayCell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	cells := make([]*DayCell, 0, int(first.Weekday())+lastDay)
	for i := 0; i < int(first.Weekday()); i++ {
		cells = append(cells, nil)
	}

	for day := 1; day <= lastDay; day++ {
		date := fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
		cell := &DayCell{Date: date, Entries: []model.JournalEntry{}}
		for _, e := range entries {
			if e.Date == date {
				cell.Entries = append(cell.Entries, e)
			}
		}
		if w, ok := forecastByDate[date]; ok {
			cell.Weather = &w
		}
		cells = append(cells, cell)
	}
	return cells
}

// WeekWindow returns the half-open [start, end) window covering now's
// week: the previous (or same) Sunday at 00:00 through the next Sunday.
func WeekWindow(now time.Time) (start, end time.Time) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start = day.AddDate(0, 0, -int(day.Weekday()))
	return start, start.AddDate(0, 0, 7)
}

// WeekEntries filters entries to those dated inside now's week window,
// keeping storage order. Date strings compare lexicographically, which
// is exact for zero-padded ISO dates.
func WeekEntries(entries []model.JournalEntry, now time.Time) []model.JournalEntry {
	start, end := WeekWindow(now)
	startDate := start.Format("2006-01-02")
	endDate := end.Format("2006-01-02")

	out := []model.JournalEntry{}
	for _, e := range entries {
		if e.Date >= startDate && e.Date < endDate {
			out = append(out, e)
		}
	}
	return out
}
