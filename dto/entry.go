package dto

import (
	"github.com/daybook-app/daybook/repository"
)

// CreateEntryRequest is the multipart form for POST /journal. Photo
// file parts ride alongside under the "photos" field. Date and time are
// shape-checked only; the calendar is never consulted.
type CreateEntryRequest struct {
	Date  string `form:"date" binding:"required,datestr"`
	Title string `form:"title" binding:"required"`
	Time  string `form:"time" binding:"omitempty,timestr"`
	Text  string `form:"text"`
	Color string `form:"color"`
}

// UpdateEntryRequest is the JSON body for both update routes. An absent
// field leaves the stored value alone; an explicit empty string clears
// it.
type UpdateEntryRequest struct {
	Title *string `json:"title"`
	Time  *string `json:"time"`
	Text  *string `json:"text"`
}

// Patch converts the request body into the store's patch form.
func (r UpdateEntryRequest) Patch() repository.EntryPatch {
	return repository.EntryPatch{
		Title: r.Title,
		Time:  r.Time,
		Text:  r.Text,
	}
}
