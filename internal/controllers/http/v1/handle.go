package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"solar-resource-api/internal/models"
	"solar-resource-api/internal/repositories"
	"solar-resource-api/internal/services/solar"
)

// SolarResponse represents the aggregated solar resource response
type SolarResponse struct {
	Latitude  float64                          `json:"latitude" example:"37.7749"`
	Longitude float64                          `json:"longitude" example:"-122.4194"`
	Accuracy  models.Accuracy                  `json:"accuracy" example:"medium"`
	Resources map[string]models.SolarResource  `json:"resources"`
	Estimates map[string]models.EnergyEstimate `json:"estimates,omitempty"`
	Errors    map[string]string                `json:"errors,omitempty"`
}

// CompareResponse represents the provider comparison response
type CompareResponse struct {
	Latitude  float64                 `json:"latitude" example:"37.7749"`
	Longitude float64                 `json:"longitude" example:"-122.4194"`
	Accuracy  models.Accuracy         `json:"accuracy" example:"medium"`
	Series    []solar.ComparisonPoint `json:"series"`
	Errors    map[string]string       `json:"errors,omitempty"`
}

// KeyValidationResponse reports whether a provider accepted its API key
type KeyValidationResponse struct {
	Provider string `json:"provider" example:"nrel"`
	Valid    bool   `json:"valid" example:"true"`
	Error    string `json:"error,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error" example:"Missing required parameter: lat"`
}

// GetSolarResource godoc
// @Summary Get solar resource data
// @Description Retrieves solar irradiance data for a location from all configured providers, with optional energy production estimates
// @Tags Solar
// @Accept json
// @Produce json
// @Param lat query number true "Latitude coordinate (-90 to 90)" minimum(-90) maximum(90) example(37.7749)
// @Param lon query number true "Longitude coordinate (-180 to 180)" minimum(-180) maximum(180) example(-122.4194)
// @Param accuracy query string false "Dataset accuracy (low, medium, high; default: medium)" example(medium)
// @Param area query number false "Panel area in m² for production estimates" minimum(0) example(50)
// @Success 200 {object} SolarResponse "Successful response"
// @Failure 400 {object} ErrorResponse "Bad request - invalid parameters"
// @Failure 502 {object} ErrorResponse "All providers failed"
// @Router /solar [get]
func (r *routes) handleSolarCall(c *fiber.Ctx) error {
	loc, accuracy, ok := r.parseQueryParams(c)
	if !ok {
		return nil
	}

	area, ok := r.parseArea(c)
	if !ok {
		return nil
	}

	report, err := r.service.BuildReport(c.Context(), loc, accuracy, area)
	if err != nil {
		r.l.Error(err, map[string]any{"lat": loc.Lat, "lon": loc.Lon, "accuracy": accuracy})

		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Error: "Failed to fetch solar resource data",
		})
	}

	return c.JSON(SolarResponse{
		Latitude:  loc.Lat,
		Longitude: loc.Lon,
		Accuracy:  accuracy,
		Resources: report.Results,
		Estimates: report.Estimates,
		Errors:    report.Errors,
	})
}

// CompareSolarProviders godoc
// @Summary Compare solar data providers
// @Description Aligns the monthly series of all providers on a common daily irradiance scale (kWh/m²/day)
// @Tags Solar
// @Produce json
// @Param lat query number true "Latitude coordinate (-90 to 90)" example(37.7749)
// @Param lon query number true "Longitude coordinate (-180 to 180)" example(-122.4194)
// @Param accuracy query string false "Dataset accuracy (low, medium, high; default: medium)" example(medium)
// @Success 200 {object} CompareResponse "Successful response"
// @Failure 400 {object} ErrorResponse "Bad request - invalid parameters"
// @Failure 502 {object} ErrorResponse "All providers failed"
// @Router /solar/compare [get]
func (r *routes) handleCompareCall(c *fiber.Ctx) error {
	loc, accuracy, ok := r.parseQueryParams(c)
	if !ok {
		return nil
	}

	resources, failures, err := r.service.FetchResources(c.Context(), loc, accuracy)
	if err != nil {
		r.l.Error(err, map[string]any{"lat": loc.Lat, "lon": loc.Lon, "accuracy": accuracy})

		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Error: "Failed to fetch solar resource data",
		})
	}

	return c.JSON(CompareResponse{
		Latitude:  loc.Lat,
		Longitude: loc.Lon,
		Accuracy:  accuracy,
		Series:    solar.Compare(resources),
		Errors:    failures,
	})
}

// GetSolarReport godoc
// @Summary Download a full analysis report
// @Description Produces the complete per-provider dataset with estimates as a downloadable JSON document
// @Tags Solar
// @Produce json
// @Param lat query number true "Latitude coordinate (-90 to 90)" example(37.7749)
// @Param lon query number true "Longitude coordinate (-180 to 180)" example(-122.4194)
// @Param accuracy query string false "Dataset accuracy (low, medium, high; default: medium)" example(medium)
// @Param area query number false "Panel area in m² for production estimates" example(50)
// @Success 200 {object} solar.Report "Successful response"
// @Failure 400 {object} ErrorResponse "Bad request - invalid parameters"
// @Failure 502 {object} ErrorResponse "All providers failed"
// @Router /solar/report [get]
func (r *routes) handleReportCall(c *fiber.Ctx) error {
	loc, accuracy, ok := r.parseQueryParams(c)
	if !ok {
		return nil
	}

	area, ok := r.parseArea(c)
	if !ok {
		return nil
	}

	report, err := r.service.BuildReport(c.Context(), loc, accuracy, area)
	if err != nil {
		r.l.Error(err, map[string]any{"lat": loc.Lat, "lon": loc.Lon, "accuracy": accuracy})

		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Error: "Failed to fetch solar resource data",
		})
	}

	filename := "solar_analysis_report_" + report.GeneratedAt.Format("20060102_150405") + ".json"
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)

	return c.JSON(report)
}

// GeocodeAddress godoc
// @Summary Geocode a street address
// @Description Resolves a free-form address to coordinates via OpenStreetMap Nominatim
// @Tags Geocoding
// @Produce json
// @Param q query string true "Address to resolve" example(123 Main St, Denver, CO)
// @Success 200 {object} models.GeocodeResult "Successful response"
// @Failure 400 {object} ErrorResponse "Bad request - missing address"
// @Failure 404 {object} ErrorResponse "Address could not be resolved"
// @Failure 503 {object} ErrorResponse "Geocoding disabled"
// @Router /geocode [get]
func (r *routes) handleGeocodeCall(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Missing required parameter: q",
		})
	}

	if r.geocoder == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "Geocoding is disabled",
		})
	}

	result, err := r.geocoder.Geocode(c.Context(), query)
	if err != nil {
		if errors.Is(err, repositories.ErrNoGeocodeResult) {
			r.countGeocode("empty")
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Error: "Could not geocode address",
			})
		}

		r.countGeocode("error")
		r.l.Error(err, map[string]any{"query": query})
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Error: "Geocoding request failed",
		})
	}

	r.countGeocode("success")
	return c.JSON(result)
}

// ValidateProviderKey godoc
// @Summary Validate a provider API key
// @Description Probes the upstream provider to check that the configured API key is accepted
// @Tags Providers
// @Produce json
// @Param provider query string true "Provider name" example(nrel)
// @Success 200 {object} KeyValidationResponse "Validation result"
// @Failure 400 {object} ErrorResponse "Bad request - missing provider"
// @Router /keys/validate [get]
func (r *routes) handleValidateKeyCall(c *fiber.Ctx) error {
	provider := c.Query("provider")
	if provider == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Missing required parameter: provider",
		})
	}

	if err := r.service.ValidateKey(c.Context(), provider); err != nil {
		r.l.Warning("key validation failed", map[string]any{"provider": provider, "err": err})
		return c.JSON(KeyValidationResponse{
			Provider: provider,
			Valid:    false,
			Error:    err.Error(),
		})
	}

	return c.JSON(KeyValidationResponse{
		Provider: provider,
		Valid:    true,
	})
}

// parseQueryParams validates lat, lon, and accuracy. When validation fails
// the 400 response has already been written and ok is false.
func (r *routes) parseQueryParams(c *fiber.Ctx) (loc models.Location, accuracy models.Accuracy, ok bool) {
	lat := c.Query("lat")
	lon := c.Query("lon")

	// Check for required parameters
	if lat == "" {
		_ = c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Missing required parameter: lat",
		})
		return loc, accuracy, false
	}

	if lon == "" {
		_ = c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Missing required parameter: lon",
		})
		return loc, accuracy, false
	}

	latFloat, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid latitude format",
		})
		return loc, accuracy, false
	}

	lonFloat, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid longitude format",
		})
		return loc, accuracy, false
	}

	loc = models.Location{Lat: latFloat, Lon: lonFloat}
	if err := loc.Validate(); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: err.Error(),
		})
		return loc, accuracy, false
	}

	accuracy, err = models.ParseAccuracy(c.Query("accuracy"))
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: err.Error(),
		})
		return loc, accuracy, false
	}

	return loc, accuracy, true
}

// parseArea reads the optional area parameter. Zero means "no estimates".
func (r *routes) parseArea(c *fiber.Ctx) (float64, bool) {
	raw := c.Query("area")
	if raw == "" {
		return 0, true
	}

	area, err := strconv.ParseFloat(raw, 64)
	if err != nil || area < 0 {
		_ = c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid area, must be a non-negative number",
		})
		return 0, false
	}

	return area, true
}

func (r *routes) countGeocode(outcome string) {
	if r.metrics != nil {
		r.metrics.GeocodeRequests.WithLabelValues(outcome).Inc()
	}
}
