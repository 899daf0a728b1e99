package http

import (
	_ "embed"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"weather-dashboard/internal/chart"
	"weather-dashboard/internal/services/dashboard"
	"weather-dashboard/pkg/observe"
)

//go:embed static/index.html
var indexHTML []byte

// ChartSource exposes the option currently rendered on a mount point.
type ChartSource interface {
	Option(mount string) (chart.Option, bool)
}

type routes struct {
	dashboard *dashboard.Controller
	charts    ChartSource
	mount     string
	l         *observe.Logger
}

func NewRouter(
	app *fiber.App,
	dash *dashboard.Controller,
	charts ChartSource,
	mount string,
	l *observe.Logger,
) {
	r := &routes{
		dashboard: dash,
		charts:    charts,
		mount:     mount,
		l:         l,
	}

	// Swagger documentation
	app.Get("/swagger/doc.json", func(c *fiber.Ctx) error {
		swaggerData, err := os.ReadFile("docs/swagger.json")
		if err != nil {
			return c.Status(fiber.ErrInternalServerError.Code).JSON(ErrorResponse{Error: "Failed to read Swagger documentation"})
		}

		c.Set("Content-Type", "application/json")
		return c.Send(swaggerData)
	})

	app.Get("/swagger/*", swagger.New(swagger.Config{
		URL:         "/swagger/doc.json",
		DeepLinking: true,
	}))

	app.Get("/", r.handleIndex)

	api := app.Group("/api")
	api.Get("/cities", r.handleCities)
	api.Get("/cities/search", r.handleCitySearch)
	api.Post("/search", r.handleSearch)
	api.Post("/select", r.handleSelect)
	api.Post("/refresh", r.handleRefresh)
	api.Get("/state", r.handleState)
	api.Get("/chart", r.handleChart)
}
