package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/daybook-app/daybook/logger"
	"github.com/daybook-app/daybook/model"
	"github.com/daybook-app/daybook/usecase"
	"github.com/daybook-app/daybook/utils"
	"github.com/daybook-app/daybook/views"
)

// GetWeekEntriesHandler returns the entries falling in the current
// Sunday-to-Sunday window.
func GetWeekEntriesHandler(c *gin.Context, journalService *usecase.JournalService) {
	entries, err := journalService.WeekEntries(c, time.Now())
	if err != nil {
		storeFault(c, "listing week entries", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetMonthGridHandler renders the month as Sunday-first grid cells,
// each carrying its entries and, when the provider cooperates, a day
// forecast. Weather failures degrade to an entry-only grid.
func GetMonthGridHandler(c *gin.Context, journalService *usecase.JournalService, weatherHandler *WeatherHandler) {
	now := time.Now()

	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil || year < 1 || year > 9999 {
		utils.BadRequest(c, "Invalid year")
		return
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil || month < 1 || month > 12 {
		utils.BadRequest(c, "Invalid month")
		return
	}

	// The forecast is fetched alongside the entries; the goroutine only
	// captures the city and the request context, never c itself.
	city := weatherHandler.city(c)
	ctx := c.Request.Context()
	forecastCh := make(chan map[string]model.DayForecast, 1)
	go func() {
		if city == "" {
			forecastCh <- nil
			return
		}
		samples, err := weatherHandler.samples(ctx, city)
		if err != nil {
			logger.Warn("month grid rendered without weather", "city", city, "error", err)
			forecastCh <- nil
			return
		}
		forecastCh <- views.ForecastByDate(views.AggregateForecast(samples))
	}()

	entries, err := journalService.ListEntries(c)
	if err != nil {
		storeFault(c, "listing entries", err)
		return
	}

	cells := views.MonthGrid(year, time.Month(month), entries, <-forecastCh)
	c.JSON(http.StatusOK, gin.H{
		"year":  year,
		"month": month,
		"cells": cells,
	})
}
