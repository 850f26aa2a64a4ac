package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/daybook-app/daybook/logger"
	"github.com/daybook-app/daybook/middleware"
	"github.com/daybook-app/daybook/model"
	"github.com/daybook-app/daybook/services"
	"github.com/daybook-app/daybook/utils"
	"github.com/daybook-app/daybook/views"
	"github.com/daybook-app/daybook/weather"
)

// WeatherHandler serves forecast lookups and decorates calendar views
// with day summaries. Lookups go through the optional Redis cache
// before hitting the provider.
type WeatherHandler struct {
	client      *weather.Client
	cache       *services.ForecastCache
	defaultCity string
}

func NewWeatherHandler(client *weather.Client, cache *services.ForecastCache, defaultCity string) *WeatherHandler {
	return &WeatherHandler{
		client:      client,
		cache:       cache,
		defaultCity: defaultCity,
	}
}

// city resolves the query parameter against the configured default.
func (h *WeatherHandler) city(c *gin.Context) string {
	if city := c.Query("city"); city != "" {
		return city
	}
	return h.defaultCity
}

// samples returns the raw provider samples for a city, cache first.
func (h *WeatherHandler) samples(ctx context.Context, city string) ([]model.ForecastSample, error) {
	cached, err := h.cache.Get(ctx, city)
	if err != nil {
		logger.Warn("forecast cache read failed", "city", city, "error", err)
	}
	if cached != nil {
		middleware.TrackForecastFetch("cache", "ok")
		return cached, nil
	}

	samples, err := h.client.Forecast(ctx, city)
	if err != nil {
		middleware.TrackForecastFetch("provider", "error")
		return nil, err
	}
	middleware.TrackForecastFetch("provider", "ok")

	if err := h.cache.Set(ctx, city, samples); err != nil {
		logger.Warn("forecast cache write failed", "city", city, "error", err)
	}
	return samples, nil
}

func (h *WeatherHandler) GetForecastHandler(c *gin.Context) {
	city := h.city(c)
	if city == "" {
		utils.BadRequest(c, "City is required")
		return
	}

	samples, err := h.samples(c.Request.Context(), city)
	if err != nil {
		logger.Error("forecast fetch failed", "city", city, "error", err)
		middleware.TrackError("weather")
		utils.BadGateway(c, "Weather provider unavailable")
		return
	}

	c.JSON(http.StatusOK, views.AggregateForecast(samples))
}
