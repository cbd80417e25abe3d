package http

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"solar-resource-api/internal/repositories"
	"solar-resource-api/internal/services/solar"
	"solar-resource-api/pkg/logger"
	"solar-resource-api/pkg/observe"
)

type routes struct {
	service  *solar.SolarService
	geocoder repositories.GeocodeRepository
	metrics  *observe.Metrics
	l        *logger.Logger
}

func NewRouter(
	app *fiber.App,
	solarService *solar.SolarService,
	geocoder repositories.GeocodeRepository,
	metrics *observe.Metrics,
	l *logger.Logger,
) {
	r := &routes{
		service:  solarService,
		geocoder: geocoder,
		metrics:  metrics,
		l:        l,
	}

	// Swagger documentation
	app.Get("/swagger/doc.json", func(c *fiber.Ctx) error {
		// Read the generated swagger.json file
		swaggerData, err := os.ReadFile("docs/swagger.json")
		if err != nil {
			return c.Status(fiber.ErrInternalServerError.Code).JSON(fiber.Map{"error": "Failed to read Swagger documentation"})
		}

		c.Set("Content-Type", "application/json")
		return c.Send(swaggerData)
	})

	app.Get("/swagger/*", swagger.New(swagger.Config{
		URL:         "/swagger/doc.json",
		DeepLinking: true,
	}))

	// API routes
	app.Get("/solar", r.handleSolarCall)
	app.Get("/solar/compare", r.handleCompareCall)
	app.Get("/solar/report", r.handleReportCall)
	app.Get("/solar/export", r.handleExportCall)
	app.Get("/geocode", r.handleGeocodeCall)
	app.Get("/keys/validate", r.handleValidateKeyCall)
}
