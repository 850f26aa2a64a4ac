package model

import "time"

// ForecastSample is one 3-hour point from the forecast provider feed.
type ForecastSample struct {
	Time      time.Time `json:"time"`
	Temp      float64   `json:"temp"`
	Condition string    `json:"condition"`
	Icon      string    `json:"icon"`
}

// DayForecast summarizes every sample falling on one calendar date.
type DayForecast struct {
	Date      string  `json:"date"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Condition string  `json:"condition"`
	Icon      string  `json:"icon"`
}
