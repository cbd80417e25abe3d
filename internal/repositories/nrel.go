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
	NRELBaseURL = "https://developer.nrel.gov/api/solar/solar_resource/v1.json"

	// Probe coordinates for key validation, always covered by the NSRDB.
	nrelProbeLat = 40.0
	nrelProbeLon = -105.0
)

// NRELRepository fetches average irradiance data from the NREL solar
// resource API, backed by the NSRDB.
type NRELRepository struct {
	APIKey     string
	BaseURL    string
	httpClient HTTPClient
	l          *logger.Logger
}

func NewNRELRepository(apiKey, baseURL string, l *logger.Logger, httpClient HTTPClient) (*NRELRepository, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("API key cannot be empty")
	}
	if baseURL == "" {
		baseURL = NRELBaseURL
	}

	return &NRELRepository{
		APIKey:     apiKey,
		BaseURL:    baseURL,
		httpClient: httpClient,
		l:          l,
	}, nil
}

func (n *NRELRepository) Name() string {
	return "nrel"
}

type nrelOutput struct {
	Annual  float64            `json:"annual"`
	Monthly map[string]float64 `json:"monthly"`
}

type nrelResponse struct {
	Errors  []string `json:"errors"`
	Outputs struct {
		AvgGHI nrelOutput `json:"avg_ghi"`
		AvgDNI nrelOutput `json:"avg_dni"`
		AvgDHI nrelOutput `json:"avg_dhi"`
	} `json:"outputs"`
}

func (n *NRELRepository) FetchResource(ctx context.Context, loc models.Location, accuracy models.Accuracy) (models.SolarResource, error) {
	resource := models.SolarResource{
		ProviderName: n.Name(),
		Lat:          loc.Lat,
		Lon:          loc.Lon,
		Accuracy:     accuracy,
	}

	// Higher accuracy selects the newer TMY dataset at hourly resolution.
	names, interval := "tmy-2020", "120"
	if accuracy == models.AccuracyHigh {
		names, interval = "tmy-2021", "60"
	}

	params := url.Values{
		"api_key":    {n.APIKey},
		"lat":        {fmt.Sprintf("%f", loc.Lat)},
		"lon":        {fmt.Sprintf("%f", loc.Lon)},
		"attributes": {"dni,dhi,ghi"},
		"names":      {names},
		"interval":   {interval},
		"utc":        {"false"},
	}

	n.l.Info("making nrel API request", map[string]any{
		"params": resource.RequestParams(),
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return resource, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := n.httpClient.Do(req)
	if err != nil {
		return resource, fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	n.l.Info("received nrel API response", map[string]any{
		"status":     resp.StatusCode,
		"statusText": resp.Status,
	})

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resource, fmt.Errorf("failed to read response body: %w", err)
	}

	var response nrelResponse
	if jsonErr := json.Unmarshal(body, &response); jsonErr == nil && len(response.Errors) > 0 {
		return resource, fmt.Errorf("API error (status %d): %s", resp.StatusCode, response.Errors[0])
	}

	if resp.StatusCode != http.StatusOK {
		return resource, fmt.Errorf("HTTP error (status %d): %s", resp.StatusCode, resp.Status)
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return resource, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if len(response.Outputs.AvgGHI.Monthly) == 0 {
		return resource, fmt.Errorf("no solar resource data available")
	}

	resource.Annual = models.AnnualIrradiance{
		GHI: response.Outputs.AvgGHI.Annual,
		DNI: response.Outputs.AvgDNI.Annual,
		DHI: response.Outputs.AvgDHI.Annual,
	}
	resource.Monthly = monthlyIrradianceNREL(response)
	resource.FetchedAt = time.Now().UTC()

	n.l.Info("parsed nrel API response", map[string]any{
		"months":     len(resource.Monthly),
		"annual_ghi": resource.Annual.GHI,
	})

	return resource, nil
}

// ValidateKey issues a probe request and reports whether the configured key
// is accepted upstream.
func (n *NRELRepository) ValidateKey(ctx context.Context) error {
	params := url.Values{
		"api_key": {n.APIKey},
		"lat":     {fmt.Sprintf("%f", nrelProbeLat)},
		"lon":     {fmt.Sprintf("%f", nrelProbeLon)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("invalid NREL API key (status %d)", resp.StatusCode)
	}

	return nil
}

func monthlyIrradianceNREL(response nrelResponse) []models.MonthlyIrradiance {
	monthly := make([]models.MonthlyIrradiance, 0, len(models.MonthNames))

	for i, month := range models.MonthNames {
		monthly = append(monthly, models.MonthlyIrradiance{
			Month:    strings.ToUpper(month[:1]) + month[1:],
			MonthNum: i + 1,
			GHI:      response.Outputs.AvgGHI.Monthly[month],
			DNI:      response.Outputs.AvgDNI.Monthly[month],
			DHI:      response.Outputs.AvgDHI.Monthly[month],
		})
	}

	return monthly
}
