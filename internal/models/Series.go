package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ChartSeries holds the chart projection of a forecast. The three slices are
// aligned by index with the forecast days they were built from.
type ChartSeries struct {
	Dates []string  `json:"dates" example:"10.1"`
	Highs []float64 `json:"highs" example:"30"`
	Lows  []float64 `json:"lows" example:"20"`
}

// Len returns the number of points. Slices of a valid series share one length.
func (s ChartSeries) Len() int {
	return len(s.Dates)
}

// Clone returns a deep copy of the series.
func (s ChartSeries) Clone() ChartSeries {
	return ChartSeries{
		Dates: append([]string(nil), s.Dates...),
		Highs: append([]float64(nil), s.Highs...),
		Lows:  append([]float64(nil), s.Lows...),
	}
}

// Equal reports whether both series carry the same points.
func (s ChartSeries) Equal(o ChartSeries) bool {
	if len(s.Dates) != len(o.Dates) || len(s.Highs) != len(o.Highs) || len(s.Lows) != len(o.Lows) {
		return false
	}
	for i := range s.Dates {
		if s.Dates[i] != o.Dates[i] {
			return false
		}
	}
	for i := range s.Highs {
		if s.Highs[i] != o.Highs[i] {
			return false
		}
	}
	for i := range s.Lows {
		if s.Lows[i] != o.Lows[i] {
			return false
		}
	}
	return true
}

// BuildSeries projects every day into its short date label, numeric high and
// numeric low, preserving order.
func BuildSeries(days []ForecastDay) (ChartSeries, error) {
	series := ChartSeries{
		Dates: make([]string, 0, len(days)),
		Highs: make([]float64, 0, len(days)),
		Lows:  make([]float64, 0, len(days)),
	}

	for _, day := range days {
		high, err := parseTemp(day.HighTemp)
		if err != nil {
			return ChartSeries{}, fmt.Errorf("invalid high temperature for %s: %w", day.Date, err)
		}
		low, err := parseTemp(day.LowTemp)
		if err != nil {
			return ChartSeries{}, fmt.Errorf("invalid low temperature for %s: %w", day.Date, err)
		}

		series.Dates = append(series.Dates, ShortDate(day.Date))
		series.Highs = append(series.Highs, high)
		series.Lows = append(series.Lows, low)
	}

	return series, nil
}

// ShortDate turns "2024-10-01" into "10.1". Dates without three dash
// separated segments are returned unchanged.
func ShortDate(date string) string {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return date
	}
	return trimZeros(parts[1]) + "." + trimZeros(parts[2])
}

func trimZeros(segment string) string {
	n, err := strconv.Atoi(segment)
	if err != nil {
		return segment
	}
	return strconv.Itoa(n)
}

func parseTemp(raw string) (float64, error) {
	// the provider occasionally suffixes the unit
	raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "℃"))
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	// ParseFloat accepts "NaN" and "Inf", which JSON cannot carry
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", raw)
	}
	return v, nil
}

// PlaceholderSeries is shown until the first successful refresh.
func PlaceholderSeries() ChartSeries {
	return ChartSeries{
		Dates: []string{"10.1", "10.2", "10.3", "10.4", "10.5", "10.6", "10.7"},
		Highs: []float64{30, 40, 30, 40, 30, 40, 30},
		Lows:  []float64{1, -2, 2, 5, 3, 2, 0},
	}
}

// PlaceholderDay is shown until the first successful refresh.
func PlaceholderDay() ForecastDay {
	return ForecastDay{
		Date:          "10.1",
		Condition:     "晴",
		HighTemp:      "30",
		LowTemp:       "20",
		WindDirection: "西南",
		WindSpeed:     "2",
	}
}
