// Package chart builds ECharts options for the weekly temperature chart and
// owns the lifecycle of the chart instance they are rendered into.
package chart

import "weather-dashboard/internal/models"

const (
	DefaultTitle = "一周天气"

	SeriesHighest = "Highest"
	SeriesLowest  = "Lowest"
)

// Option is the subset of the ECharts option object the dashboard uses.
type Option struct {
	Title   Title    `json:"title"`
	Tooltip Tooltip  `json:"tooltip"`
	Legend  struct{} `json:"legend"`
	Toolbox Toolbox  `json:"toolbox"`
	XAxis   Axis     `json:"xAxis"`
	YAxis   Axis     `json:"yAxis"`
	Series  []Series `json:"series"`
}

type Title struct {
	Text      string    `json:"text"`
	TextStyle TextStyle `json:"textStyle"`
}

type TextStyle struct {
	Color    string `json:"color,omitempty"`
	FontSize int    `json:"fontSize,omitempty"`
}

type Tooltip struct {
	Trigger string `json:"trigger"`
}

type Toolbox struct {
	Show    bool           `json:"show"`
	Feature ToolboxFeature `json:"feature"`
}

type ToolboxFeature struct {
	DataZoom    DataZoom  `json:"dataZoom"`
	DataView    DataView  `json:"dataView"`
	MagicType   MagicType `json:"magicType"`
	Restore     struct{}  `json:"restore"`
	SaveAsImage struct{}  `json:"saveAsImage"`
}

type DataZoom struct {
	YAxisIndex string `json:"yAxisIndex"`
}

type DataView struct {
	ReadOnly bool `json:"readOnly"`
}

type MagicType struct {
	Type []string `json:"type"`
}

type Axis struct {
	Type        string     `json:"type"`
	BoundaryGap *bool      `json:"boundaryGap,omitempty"`
	Data        []string   `json:"data,omitempty"`
	AxisLabel   *AxisLabel `json:"axisLabel,omitempty"`
}

type AxisLabel struct {
	Formatter string `json:"formatter"`
}

type Series struct {
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Data      []float64 `json:"data"`
	MarkPoint Marks     `json:"markPoint"`
	MarkLine  Marks     `json:"markLine"`
}

// Marks holds markPoint or markLine data. An entry is either a MarkItem or,
// for a markLine segment, a [2]MarkItem pair.
type Marks struct {
	Data []any `json:"data"`
}

// MarkItem is one ECharts mark. Type marks ("max", "min", "average") are
// computed by the engine; coordinate marks are drawn where they say.
type MarkItem struct {
	Type   string     `json:"type,omitempty"`
	Name   string     `json:"name,omitempty"`
	Value  *float64   `json:"value,omitempty"`
	X      string     `json:"x,omitempty"`
	XAxis  any        `json:"xAxis,omitempty"`
	YAxis  any        `json:"yAxis,omitempty"`
	Symbol string     `json:"symbol,omitempty"`
	Label  *MarkLabel `json:"label,omitempty"`
}

type MarkLabel struct {
	Position  string `json:"position,omitempty"`
	Formatter string `json:"formatter,omitempty"`
}

// Decoration is the fixed annotation drawn on the Lowest series. It does not
// depend on the data.
type Decoration struct {
	Point MarkItem
	Line  [2]MarkItem
}

// DefaultDecoration returns the stock annotation: a "周最低" point at
// (1, -1.5) and a line from the right edge to the series maximum.
func DefaultDecoration() *Decoration {
	value := -2.0
	return &Decoration{
		Point: MarkItem{Name: "周最低", Value: &value, XAxis: 1, YAxis: -1.5},
		Line: [2]MarkItem{
			{Symbol: "none", X: "90%", YAxis: "max"},
			{
				Symbol: "circle",
				Label:  &MarkLabel{Position: "start", Formatter: "Max"},
				Type:   "max",
				Name:   "最高点",
			},
		},
	}
}

// BuildOption returns the full chart option for series. A nil decoration
// leaves the Lowest series with computed marks only.
func BuildOption(title string, series models.ChartSeries, decoration *Decoration) Option {
	if title == "" {
		title = DefaultTitle
	}
	series = series.Clone()
	boundaryGap := false

	highest := Series{
		Name: SeriesHighest,
		Type: "line",
		Data: series.Highs,
		MarkPoint: Marks{Data: []any{
			MarkItem{Type: "max", Name: "Max"},
			MarkItem{Type: "min", Name: "Min"},
		}},
		MarkLine: Marks{Data: []any{
			MarkItem{Type: "average", Name: "Avg"},
		}},
	}

	lowest := Series{
		Name: SeriesLowest,
		Type: "line",
		Data: series.Lows,
		MarkPoint: Marks{Data: []any{
			MarkItem{Type: "max", Name: "Max"},
			MarkItem{Type: "min", Name: "Min"},
		}},
		MarkLine: Marks{Data: []any{
			MarkItem{Type: "average", Name: "Avg"},
		}},
	}
	if decoration != nil {
		lowest.MarkPoint.Data = append(lowest.MarkPoint.Data, decoration.Point)
		lowest.MarkLine.Data = append(lowest.MarkLine.Data, decoration.Line)
	}

	return Option{
		Title: Title{
			Text:      title,
			TextStyle: TextStyle{Color: "#262626", FontSize: 20},
		},
		Tooltip: Tooltip{Trigger: "axis"},
		Toolbox: Toolbox{
			Show: true,
			Feature: ToolboxFeature{
				DataZoom:  DataZoom{YAxisIndex: "none"},
				DataView:  DataView{ReadOnly: false},
				MagicType: MagicType{Type: []string{"line", "bar"}},
			},
		},
		XAxis: Axis{
			Type:        "category",
			BoundaryGap: &boundaryGap,
			Data:        series.Dates,
		},
		YAxis: Axis{
			Type:      "value",
			AxisLabel: &AxisLabel{Formatter: "{value} °C"},
		},
		Series: []Series{highest, lowest},
	}
}
