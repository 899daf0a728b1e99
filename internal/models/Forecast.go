package models

import "fmt"

// ForecastDay is a single calendar day of the provider's weekly forecast.
// Temperatures and wind are kept as the provider sends them.
type ForecastDay struct {
	Date          string `json:"date" example:"2024-10-01"`
	Condition     string `json:"condition" example:"晴"`
	ConditionIcon string `json:"conditionIcon" example:"qing"`
	HighTemp      string `json:"highTemp" example:"30"`
	LowTemp       string `json:"lowTemp" example:"20"`
	WindDirection string `json:"windDirection" example:"西南风"`
	WindSpeed     string `json:"windSpeed" example:"3-4级"`
}

type ForecastResponse struct {
	City      string        `json:"city" example:"上海"`
	CityID    string        `json:"cityId" example:"101020100"`
	UpdatedAt string        `json:"updatedAt" example:"2024-10-01 08:00:00"`
	Days      []ForecastDay `json:"days"`
}

func (f *ForecastResponse) RequestParams() string {
	return fmt.Sprintf("city: %s id: %s days: %d", f.City, f.CityID, len(f.Days))
}
