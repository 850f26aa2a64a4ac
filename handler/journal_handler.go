package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/daybook-app/daybook/dto"
	"github.com/daybook-app/daybook/logger"
	"github.com/daybook-app/daybook/middleware"
	"github.com/daybook-app/daybook/model"
	"github.com/daybook-app/daybook/repository"
	"github.com/daybook-app/daybook/usecase"
	"github.com/daybook-app/daybook/utils"
)

// storeFault maps a journal service failure onto the response envelope.
// The not-found sentinels become 404s, anything else is a logged 500.
func storeFault(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrIndexOutOfRange):
		utils.NotFound(c, "Entry index out of range")
	case errors.Is(err, repository.ErrEntryNotFound):
		utils.NotFound(c, "Entry not found")
	default:
		logger.Error(op+" failed", "error", err, "request_id", c.GetString("request_id"))
		middleware.TrackError("store")
		utils.InternalError(c, "Storage unavailable")
	}
}

func GetAllEntriesHandler(c *gin.Context, journalService *usecase.JournalService) {
	entries, err := journalService.ListEntries(c)
	if err != nil {
		storeFault(c, "listing entries", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetEntryByDateHandler returns the first entry recorded for the date,
// or a literal null body when the date has none.
func GetEntryByDateHandler(c *gin.Context, journalService *usecase.JournalService) {
	entry, err := journalService.EntryByDate(c, c.Param("date"))
	if err != nil {
		storeFault(c, "looking up entry by date", err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func CreateEntryHandler(c *gin.Context, journalService *usecase.JournalService) {
	var req dto.CreateEntryRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.TrackError("validation")
		utils.BadRequest(c, "Invalid entry data")
		return
	}

	var photos []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil {
		photos = form.File["photos"]
	}

	entry := model.JournalEntry{
		Date:  req.Date,
		Title: req.Title,
		Time:  req.Time,
		Text:  req.Text,
		Color: model.Color(req.Color),
	}
	if _, err := journalService.CreateEntry(c, entry, photos); err != nil {
		if errors.Is(err, usecase.ErrInvalidInput) {
			middleware.TrackError("validation")
			utils.BadRequest(c, err.Error())
			return
		}
		storeFault(c, "creating entry", err)
		return
	}

	middleware.TrackJournalOperation("create")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func UpdateEntryAtHandler(c *gin.Context, journalService *usecase.JournalService) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		utils.BadRequest(c, "Invalid entry index")
		return
	}

	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := journalService.UpdateEntryAt(c, index, req.Patch())
	if err != nil {
		storeFault(c, "updating entry", err)
		return
	}

	middleware.TrackJournalOperation("update")
	c.JSON(http.StatusOK, updated)
}

func RemoveEntryAtHandler(c *gin.Context, journalService *usecase.JournalService) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		utils.BadRequest(c, "Invalid entry index")
		return
	}

	if err := journalService.RemoveEntryAt(c, index); err != nil {
		storeFault(c, "removing entry", err)
		return
	}

	middleware.TrackJournalOperation("delete")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func UpdateEntryByIDHandler(c *gin.Context, journalService *usecase.JournalService) {
	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := journalService.UpdateEntry(c, c.Param("id"), req.Patch())
	if err != nil {
		storeFault(c, "updating entry", err)
		return
	}

	middleware.TrackJournalOperation("update")
	c.JSON(http.StatusOK, updated)
}

func RemoveEntryByIDHandler(c *gin.Context, journalService *usecase.JournalService) {
	if err := journalService.RemoveEntry(c, c.Param("id")); err != nil {
		storeFault(c, "removing entry", err)
		return
	}

	middleware.TrackJournalOperation("delete")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func GetMemoriesHandler(c *gin.Context, journalService *usecase.JournalService) {
	today := time.Now().Format("2006-01-02")
	groups, err := journalService.Memories(c, today)
	if err != nil {
		storeFault(c, "listing memories", err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

func GetRemindersHandler(c *gin.Context, journalService *usecase.JournalService) {
	today := time.Now().Format("2006-01-02")
	groups, err := journalService.Reminders(c, today)
	if err != nil {
		storeFault(c, "listing reminders", err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// GetColorsHandler exposes the entry color palette so clients render
// the exact hex values the server persists.
func GetColorsHandler(c *gin.Context) {
	palette := model.Palette()
	colors := make([]gin.H, 0, len(palette))
	for _, color := range palette {
		colors = append(colors, gin.H{"name": string(color), "hex": color.Hex()})
	}
	c.JSON(http.StatusOK, colors)
}
