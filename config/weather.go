package config

import (
	"time"

	"github.com/daybook-app/daybook/utils"
)

type WeatherConfig struct {
	APIKey      string
	BaseURL     string
	Units       string
	DefaultCity string
	Timeout     time.Duration
	MaxRetries  uint64
	CacheTTL    time.Duration
	RedisURL    string // empty disables the forecast cache
}

func LoadWeatherConfig() WeatherConfig {
	return WeatherConfig{
		APIKey:      utils.GetEnvAsString("WEATHER_API_KEY", ""),
		BaseURL:     utils.GetEnvAsString("WEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5"),
		Units:       utils.GetEnvAsString("WEATHER_UNITS", "metric"),
		DefaultCity: utils.GetEnvAsString("WEATHER_DEFAULT_CITY", ""),
		Timeout:     utils.GetEnvAsDuration("WEATHER_TIMEOUT", 10*time.Second),
		MaxRetries:  utils.GetEnvAsUint64("WEATHER_MAX_RETRIES", 3),
		CacheTTL:    utils.GetEnvAsDuration("FORECAST_CACHE_TTL", 30*time.Minute),
		RedisURL:    utils.GetEnvAsString("REDIS_URL", ""),
	}
}
