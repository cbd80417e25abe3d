package http

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"solar-resource-api/internal/models"
)

var exportHeader = []string{"month", "month_num", "ghi", "dni", "dhi", "flux", "daylight_hours"}

// ExportSolarCSV godoc
// @Summary Export monthly solar data as CSV
// @Description Downloads one provider's monthly solar resource series as a CSV file
// @Tags Solar
// @Produce text/csv
// @Param lat query number true "Latitude coordinate (-90 to 90)" example(37.7749)
// @Param lon query number true "Longitude coordinate (-180 to 180)" example(-122.4194)
// @Param accuracy query string false "Dataset accuracy (low, medium, high; default: medium)" example(medium)
// @Param provider query string true "Provider name" example(nrel)
// @Success 200 {string} string "CSV payload"
// @Failure 400 {object} ErrorResponse "Bad request - invalid parameters"
// @Failure 404 {object} ErrorResponse "Provider returned no data"
// @Failure 502 {object} ErrorResponse "All providers failed"
// @Router /solar/export [get]
func (r *routes) handleExportCall(c *fiber.Ctx) error {
	loc, accuracy, ok := r.parseQueryParams(c)
	if !ok {
		return nil
	}

	provider := c.Query("provider")
	if provider == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Missing required parameter: provider",
		})
	}

	resources, failures, err := r.service.FetchResources(c.Context(), loc, accuracy)
	if err != nil {
		r.l.Error(err, map[string]any{"lat": loc.Lat, "lon": loc.Lon, "accuracy": accuracy})

		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Error: "Failed to fetch solar resource data",
		})
	}

	resource, found := resources[provider]
	if !found {
		msg := "No data available for provider: " + provider
		if reason, failed := failures[provider]; failed {
			msg = "Provider " + provider + " failed: " + reason
		}
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error: msg,
		})
	}

	payload, err := monthlyCSV(resource)
	if err != nil {
		r.l.Error(err, map[string]any{"provider": provider})
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Failed to encode CSV",
		})
	}

	if r.metrics != nil {
		r.metrics.ExportsServed.Inc()
	}

	filename := provider + "_solar_data_" + time.Now().UTC().Format("20060102_150405") + ".csv"
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)

	return c.Send(payload)
}

func monthlyCSV(resource models.SolarResource) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}

	for _, m := range resource.Monthly {
		record := []string{
			m.Month,
			strconv.Itoa(m.MonthNum),
			formatFloat(m.GHI),
			formatFloat(m.DNI),
			formatFloat(m.DHI),
			formatFloat(m.Flux),
			formatFloat(m.DaylightHours),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
