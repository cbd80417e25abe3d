package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"solar-resource-api/internal/models"
	"solar-resource-api/pkg/logger"
)

const (
	GoogleSolarBaseURL = "https://solar.googleapis.com/v1"

	googleProbeLat = 37.4419
	googleProbeLon = -122.1419
)

// GoogleSolarRepository fetches building insights from the Google Solar API.
type GoogleSolarRepository struct {
	APIKey     string
	BaseURL    string
	httpClient HTTPClient
	l          *logger.Logger
}

func NewGoogleSolarRepository(apiKey, baseURL string, l *logger.Logger, httpClient HTTPClient) (*GoogleSolarRepository, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("API key cannot be empty")
	}
	if baseURL == "" {
		baseURL = GoogleSolarBaseURL
	}

	return &GoogleSolarRepository{
		APIKey:     apiKey,
		BaseURL:    baseURL,
		httpClient: httpClient,
		l:          l,
	}, nil
}

func (g *GoogleSolarRepository) Name() string {
	return "google-solar"
}

type googleSolarResponse struct {
	Center struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"center"`
	SolarPotential struct {
		MaxArrayPanelsCount     int     `json:"maxArrayPanelsCount"`
		MaxArrayAreaMeters2     float64 `json:"maxArrayAreaMeters2"`
		MaxSunshineHoursPerYear float64 `json:"maxSunshineHoursPerYear"`
		MonthlyFlux             []struct {
			Flux          float64 `json:"flux"`
			DaylightHours float64 `json:"daylightHours"`
		} `json:"monthlyFlux"`
		RoofSegmentStats []struct {
			PitchDegrees   float64 `json:"pitchDegrees"`
			AzimuthDegrees float64 `json:"azimuthDegrees"`
			Stats          struct {
				AreaMeters2 float64 `json:"areaMeters2"`
			} `json:"stats"`
		} `json:"roofSegmentStats"`
	} `json:"solarPotential"`
}

func (g *GoogleSolarRepository) FetchResource(ctx context.Context, loc models.Location, accuracy models.Accuracy) (models.SolarResource, error) {
	resource := models.SolarResource{
		ProviderName: g.Name(),
		Lat:          loc.Lat,
		Lon:          loc.Lon,
		Accuracy:     accuracy,
	}

	params := url.Values{
		"key":                {g.APIKey},
		"location.latitude":  {fmt.Sprintf("%f", loc.Lat)},
		"location.longitude": {fmt.Sprintf("%f", loc.Lon)},
		"requiredQuality":    {requiredQuality(accuracy)},
	}

	g.l.Info("making google solar API request", map[string]any{
		"params": resource.RequestParams(),
	})

	endpoint := g.BaseURL + "/buildingInsights:findClosest?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return resource, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return resource, fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	g.l.Info("received google solar API response", map[string]any{
		"status":     resp.StatusCode,
		"statusText": resp.Status,
	})

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resource, fmt.Errorf("failed to read response body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return resource, fmt.Errorf("no solar data available for this location")
	case http.StatusForbidden:
		return resource, fmt.Errorf("API key invalid or quota exceeded")
	default:
		return resource, fmt.Errorf("HTTP error (status %d): %s", resp.StatusCode, resp.Status)
	}

	var response googleSolarResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return resource, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if len(response.SolarPotential.MonthlyFlux) == 0 {
		return resource, fmt.Errorf("no solar resource data available")
	}

	resource.Monthly = monthlyFluxGoogle(response)

	var annualFlux float64
	for _, m := range resource.Monthly {
		annualFlux += m.Flux
	}
	resource.Annual = models.AnnualIrradiance{
		Flux:             annualFlux,
		MaxSunshineHours: response.SolarPotential.MaxSunshineHoursPerYear,
	}
	resource.Building = &models.BuildingInsights{
		MaxArrayPanels: response.SolarPotential.MaxArrayPanelsCount,
		MaxArrayAreaM2: response.SolarPotential.MaxArrayAreaMeters2,
	}
	for _, seg := range response.SolarPotential.RoofSegmentStats {
		resource.RoofSegments = append(resource.RoofSegments, models.RoofSegment{
			PitchDegrees:   seg.PitchDegrees,
			AzimuthDegrees: seg.AzimuthDegrees,
			AreaM2:         seg.Stats.AreaMeters2,
		})
	}
	resource.FetchedAt = time.Now().UTC()

	g.l.Info("parsed google solar API response", map[string]any{
		"months":      len(resource.Monthly),
		"annual_flux": resource.Annual.Flux,
	})

	return resource, nil
}

// ValidateKey probes the API with a known location. A 403 still proves the
// key exists (quota exceeded), so only other failures reject it.
func (g *GoogleSolarRepository) ValidateKey(ctx context.Context) error {
	params := url.Values{
		"key":                {g.APIKey},
		"location.latitude":  {fmt.Sprintf("%f", googleProbeLat)},
		"location.longitude": {fmt.Sprintf("%f", googleProbeLon)},
		"requiredQuality":    {"LOW"},
	}

	endpoint := g.BaseURL + "/buildingInsights:findClosest?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusForbidden {
		return fmt.Errorf("invalid Google Solar API key (status %d)", resp.StatusCode)
	}

	return nil
}

func requiredQuality(accuracy models.Accuracy) string {
	switch accuracy {
	case models.AccuracyLow:
		return "LOW"
	case models.AccuracyHigh:
		return "HIGH"
	default:
		return "MEDIUM"
	}
}

func monthlyFluxGoogle(response googleSolarResponse) []models.MonthlyIrradiance {
	monthly := make([]models.MonthlyIrradiance, 0, len(models.MonthNames))

	for i, month := range models.MonthNames {
		if i >= len(response.SolarPotential.MonthlyFlux) {
			break
		}
		flux := response.SolarPotential.MonthlyFlux[i]
		monthly = append(monthly, models.MonthlyIrradiance{
			Month:         strings.ToUpper(month[:1]) + month[1:],
			MonthNum:      i + 1,
			Flux:          flux.Flux,
			DaylightHours: flux.DaylightHours,
		})
	}

	return monthly
}
