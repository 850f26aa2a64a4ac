package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/daybook-app/daybook/logger"
	"github.com/daybook-app/daybook/model"
	"github.com/daybook-app/daybook/usecase"
	"github.com/daybook-app/daybook/utils"
)

type HealthHandler struct {
	journalService *usecase.JournalService
	backend        string
	startedAt      time.Time
}

func NewHealthHandler(journalService *usecase.JournalService, backend string) *HealthHandler {
	return &HealthHandler{
		journalService: journalService,
		backend:        backend,
		startedAt:      time.Now(),
	}
}

// GetHealth reports process health. A store failure degrades the
// status instead of failing the endpoint so probes still get a body.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	stats := model.HealthStats{
		Status:        "ok",
		UptimeSeconds: time.Since(h.startedAt).Seconds(),
		StoreBackend:  h.backend,
		CPUPercent:    utils.GetCPUUsage(),
	}
	stats.MemoryPercent, stats.MemoryUsedMB = utils.GetMemoryUsage()

	count, err := h.journalService.CountEntries(c)
	if err != nil {
		logger.Error("health check could not count entries", "error", err)
		stats.Status = "degraded"
	} else {
		stats.EntryCount = count
	}

	c.JSON(http.StatusOK, stats)
}
