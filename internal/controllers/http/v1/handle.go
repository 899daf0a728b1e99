package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"weather-dashboard/internal/models"
	"weather-dashboard/internal/services/dashboard"
)

// StateResponse is the dashboard as the page renders it
type StateResponse struct {
	City          models.City        `json:"city"`
	FilterResults []models.City      `json:"filterResults"`
	Today         models.ForecastDay `json:"today"`
	Series        models.ChartSeries `json:"series"`
	UpdatedAt     string             `json:"updatedAt" example:"2024-10-01 08:00:00"`
	LastError     string             `json:"lastError,omitempty" example:"failed to fetch forecast for 101020100: HTTP error (status 502)"`
	// SearchDebounceMs is the delay before a posted search shows up in FilterResults.
	SearchDebounceMs int64 `json:"searchDebounceMs" example:"700"`
}

type SearchRequest struct {
	Text string `json:"text" example:"北"`
}

type SelectRequest struct {
	ID string `json:"id" example:"101010100"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error" example:"Missing required field: id"`
}

func (r *routes) handleIndex(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.Send(indexHTML)
}

// GetCities godoc
// @Summary List cities
// @Tags Dashboard
// @Produce json
// @Success 200 {array} models.City
// @Router /api/cities [get]
func (r *routes) handleCities(c *fiber.Ctx) error {
	return c.JSON(r.dashboard.Cities())
}

// SearchCities godoc
// @Summary Filter cities by name
// @Description Case-sensitive substring match on the city name. An empty query matches nothing.
// @Tags Dashboard
// @Produce json
// @Param q query string false "Part of a city name"
// @Success 200 {array} models.City
// @Router /api/cities/search [get]
func (r *routes) handleCitySearch(c *fiber.Ctx) error {
	return c.JSON(nonNil(r.dashboard.FilterCities(c.Query("q"))))
}

// Search godoc
// @Summary Update the search box
// @Description Filter results are committed to the dashboard state once typing pauses.
// @Tags Dashboard
// @Accept json
// @Param request body SearchRequest true "Search text"
// @Success 202
// @Failure 400 {object} ErrorResponse
// @Router /api/search [post]
func (r *routes) handleSearch(c *fiber.Ctx) error {
	var req SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid request body",
		})
	}

	r.dashboard.Search(req.Text)

	return c.SendStatus(fiber.StatusAccepted)
}

// SelectCity godoc
// @Summary Select a city
// @Tags Dashboard
// @Accept json
// @Produce json
// @Param request body SelectRequest true "City id"
// @Success 200 {object} models.City
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/select [post]
func (r *routes) handleSelect(c *fiber.Ctx) error {
	var req SelectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid request body",
		})
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Missing required field: id",
		})
	}

	city, err := r.dashboard.Select(id)
	if errors.Is(err, dashboard.ErrUnknownCity) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error: "Unknown city: " + id,
		})
	}
	if errors.Is(err, dashboard.ErrClosed) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "Dashboard is shutting down",
		})
	}
	if err != nil {
		r.l.Error(err, map[string]any{"id": id})
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Failed to select city",
		})
	}

	return c.JSON(city)
}

// Refresh godoc
// @Summary Refresh the forecast of the selected city
// @Tags Dashboard
// @Success 202
// @Router /api/refresh [post]
func (r *routes) handleRefresh(c *fiber.Ctx) error {
	r.dashboard.Refresh()
	return c.SendStatus(fiber.StatusAccepted)
}

// GetState godoc
// @Summary Current dashboard state
// @Tags Dashboard
// @Produce json
// @Success 200 {object} StateResponse
// @Router /api/state [get]
func (r *routes) handleState(c *fiber.Ctx) error {
	s := r.dashboard.Snapshot()

	return c.JSON(StateResponse{
		City:          s.SelectedCity,
		FilterResults: nonNil(s.FilterResults),
		Today:         s.LatestDay,
		Series:        s.Series,
		UpdatedAt:     s.UpdatedAt,
		LastError:     s.LastError,

		SearchDebounceMs: r.dashboard.SearchDebounce().Milliseconds(),
	})
}

// GetChart godoc
// @Summary Current chart option
// @Description ECharts option of the weekly temperature chart, ready for setOption.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} chart.Option
// @Failure 404 {object} ErrorResponse
// @Router /api/chart [get]
func (r *routes) handleChart(c *fiber.Ctx) error {
	opt, ok := r.charts.Option(r.mount)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error: "Chart is not mounted",
		})
	}

	return c.JSON(opt)
}

func nonNil(cities []models.City) []models.City {
	if cities == nil {
		return []models.City{}
	}
	return cities
}
