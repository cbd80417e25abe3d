package repositories

import (
	"context"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"

	"solar-resource-api/config"
	"solar-resource-api/internal/models"
	"solar-resource-api/pkg/logger"
	"solar-resource-api/pkg/observe"
)

const defaultProviderTimeout = 10 * time.Second

// HTTPClient lets tests swap the transport under the repositories.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// SolarRepository is an upstream solar resource data provider.
type SolarRepository interface {
	Name() string
	FetchResource(ctx context.Context, loc models.Location, accuracy models.Accuracy) (models.SolarResource, error)
	ValidateKey(ctx context.Context) error
}

// GeocodeRepository resolves free-form addresses to coordinates.
type GeocodeRepository interface {
	Name() string
	Geocode(ctx context.Context, query string) (models.GeocodeResult, error)
}

// InitSolarRepositories builds a repository per configured provider, each
// wrapped in a TTL cache.
func InitSolarRepositories(cfg *config.Config, l *logger.Logger, m *observe.Metrics) []SolarRepository {
	clock := clockwork.NewRealClock()
	ttl := time.Duration(cfg.Cache.TTLMinutes) * time.Minute

	var repos []SolarRepository
	for _, api := range cfg.SolarAPIs {
		client := &http.Client{Timeout: providerTimeout(api)}

		var repo SolarRepository
		switch api.Name {
		case "nrel":
			r, err := NewNRELRepository(api.APIKey, api.BaseURL, l, client)
			if err != nil {
				l.Warning("skipping provider", map[string]any{"provider": api.Name, "err": err})
				continue
			}
			repo = r
		case "google-solar":
			r, err := NewGoogleSolarRepository(api.APIKey, api.BaseURL, l, client)
			if err != nil {
				l.Warning("skipping provider", map[string]any{"provider": api.Name, "err": err})
				continue
			}
			repo = r
			// Add more cases for new providers to extend the app
		default:
			l.Warning("unknown solar provider in config", map[string]any{"provider": api.Name})
			continue
		}

		repos = append(repos, NewCachedSolarRepository(repo, cfg.Cache.Size, ttl, clock, m))
	}

	return repos
}

// InitGeocodeRepository builds the geocoder when enabled, nil otherwise.
func InitGeocodeRepository(cfg *config.Config, l *logger.Logger) GeocodeRepository {
	if !cfg.Geocoder.Enabled {
		return nil
	}

	client := &http.Client{Timeout: defaultProviderTimeout}
	nominatim := NewNominatimRepository(cfg.Geocoder.BaseURL, cfg.Geocoder.UserAgent, l, client)

	return NewCachedGeocodeRepository(nominatim, cfg.Geocoder.CacheSize)
}

func providerTimeout(api config.SolarAPIConfig) time.Duration {
	if api.Timeout > 0 {
		return time.Duration(api.Timeout) * time.Second
	}
	return defaultProviderTimeout
}
