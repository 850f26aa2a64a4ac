package views

import (
	"github.com/daybook-app/daybook/model"
)

// maxForecastDays caps the aggregation at the provider's 5-day horizon.
const maxForecastDays = 5

// AggregateForecast reduces 3-hour samples to day summaries: running
// min/max temperature per calendar date, condition and icon from the
// first sample of that date. At most five dates come back, in the order
// first encountered in the input.
func AggregateForecast(samples []model.ForecastSample) []model.DayForecast {
	index := map[string]int{}
	days := []model.DayForecast{}

	for _, s := range samples {
		date := s.Time.Format("2006-01-02")
		i, seen := index[date]
		if !seen {
			if len(days) == maxForecastDays {
				continue
			}
			index[date] = len(days)
			days = append(days, model.DayForecast{
				Date:      date,
				TempMin:   s.Temp,
				TempMax:   s.Temp,
				Condition: s.Condition,
				Icon:      s.Icon,
			})
			continue
		}
		if s.Temp < days[i].TempMin {
			days[i].TempMin = s.Temp
		}
		if s.Temp > days[i].TempMax {
			days[i].TempMax = s.Temp
		}
	}
	return days
}

// ForecastByDate indexes day summaries by their date string for grid
// lookups.
func ForecastByDate(days []model.DayForecast) map[string]model.DayForecast {
	byDate := make(map[string]model.DayForecast, len(days))
	for _, d := range days {
		byDate[d.Date] = d
	}
	return byDate
}
