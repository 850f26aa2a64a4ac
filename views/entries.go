package views

import (
	"sort"

	"github.com/daybook-app/daybook/model"
)

// DateGroup is one bucket of the grouped entry list.
type DateGroup struct {
	Date    string               `json:"date"`
	Entries []model.JournalEntry `json:"entries"`
}

// Partition splits entries into memories, dated strictly before today,
// and reminders, dated today or later. It is recomputed from the full
// collection on every read; nothing persists the split.
func Partition(entries []model.JournalEntry, today string) (memories, reminders []model.JournalEntry) {
	memories = []model.JournalEntry{}
	reminders = []model.JournalEntry{}
	for _, e := range entries {
		if e.Date < today {
			memories = append(memories, e)
		} else {
			reminders = append(reminders, e)
		}
	}
	return memories, reminders
}

// GroupByDate buckets entries by date. Distinct dates sort
// lexicographically ascending; entries within a bucket keep storage
// order.
func GroupByDate(entries []model.JournalEntry) []DateGroup {
	byDate := map[string][]model.JournalEntry{}
	dates := []string{}
	for _, e := range entries {
		if _, seen := byDate[e.Date]; !seen {
			dates = append(dates, e.Date)
		}
		byDate[e.Date] = append(byDate[e.Date], e)
	}
	sort.Strings(dates)

	groups := make([]DateGroup, 0, len(dates))
	for _, d := range dates {
		groups = append(groups, DateGroup{Date: d, Entries: byDate[d]})
	}
	return groups
}
