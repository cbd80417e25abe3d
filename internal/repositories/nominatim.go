package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"solar-resource-api/internal/models"
	"solar-resource-api/pkg/logger"
)

const NominatimBaseURL = "https://nominatim.openstreetmap.org"

// ErrNoGeocodeResult means the address could not be resolved.
var ErrNoGeocodeResult = errors.New("no geocoding result found")

// NominatimRepository resolves street addresses through the OpenStreetMap
// Nominatim search API.
type NominatimRepository struct {
	BaseURL    string
	userAgent  string
	httpClient HTTPClient
	l          *logger.Logger
}

func NewNominatimRepository(baseURL, userAgent string, l *logger.Logger, httpClient HTTPClient) *NominatimRepository {
	if baseURL == "" {
		baseURL = NominatimBaseURL
	}

	return &NominatimRepository{
		BaseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: httpClient,
		l:          l,
	}
}

func (n *NominatimRepository) Name() string {
	return "nominatim"
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (n *NominatimRepository) Geocode(ctx context.Context, query string) (models.GeocodeResult, error) {
	params := url.Values{
		"q":      {query},
		"format": {"json"},
		"limit":  {"1"},
	}

	n.l.Info("making nominatim request", map[string]any{"query": query})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.BaseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return models.GeocodeResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	// Nominatim's usage policy requires an identifying User-Agent.
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return models.GeocodeResult{}, fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.GeocodeResult{}, fmt.Errorf("HTTP error (status %d): %s", resp.StatusCode, resp.Status)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return models.GeocodeResult{}, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if len(places) == 0 {
		return models.GeocodeResult{}, ErrNoGeocodeResult
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return models.GeocodeResult{}, fmt.Errorf("failed to parse latitude %q: %w", places[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return models.GeocodeResult{}, fmt.Errorf("failed to parse longitude %q: %w", places[0].Lon, err)
	}

	result := models.GeocodeResult{
		Location:    models.Location{Lat: lat, Lon: lon},
		DisplayName: places[0].DisplayName,
	}

	n.l.Info("geocoded address", map[string]any{
		"query": query,
		"lat":   result.Lat,
		"lon":   result.Lon,
	})

	return result, nil
}
