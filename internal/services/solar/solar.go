package solar

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"solar-resource-api/internal/models"
	"solar-resource-api/internal/repositories"
	"solar-resource-api/pkg/logger"
	"solar-resource-api/pkg/observe"
)

// SolarService aggregates solar resource data from all configured providers.
type SolarService struct {
	repos   []repositories.SolarRepository
	l       *logger.Logger
	metrics *observe.Metrics
}

func NewSolarService(repos []repositories.SolarRepository, l *logger.Logger, m *observe.Metrics) *SolarService {
	return &SolarService{
		repos:   repos,
		l:       l,
		metrics: m,
	}
}

// FetchResources fetches solar resource data from all providers concurrently.
// Providers that fail are reported in the returned error map; the call as a
// whole fails only when every provider does.
func (s *SolarService) FetchResources(ctx context.Context, loc models.Location, accuracy models.Accuracy) (map[string]models.SolarResource, map[string]string, error) {
	s.l.Info("starting solar resource fetch", map[string]any{
		"lat":       loc.Lat,
		"lon":       loc.Lon,
		"accuracy":  accuracy,
		"providers": len(s.repos),
	})

	results := make(map[string]models.SolarResource)
	failures := make(map[string]string)
	var mu sync.Mutex

	wg := sync.WaitGroup{}

	for _, repo := range s.repos {
		wg.Add(1)

		go func(repo repositories.SolarRepository) {
			defer wg.Done()
			s.l.Debug("fetching solar resource", map[string]any{"repo": repo.Name(), "lat": loc.Lat, "lon": loc.Lon})

			start := time.Now()
			resource, err := repo.FetchResource(ctx, loc, accuracy)
			s.observeFetch(repo.Name(), start, err)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				s.l.Warning("failed to fetch solar resource", map[string]any{"repo": repo.Name(), "err": err})
				failures[repo.Name()] = err.Error()
				return
			}

			results[repo.Name()] = resource

			s.l.Info("successfully fetched solar resource", map[string]any{
				"repo":   repo.Name(),
				"months": len(resource.Monthly),
			})
		}(repo)
	}

	wg.Wait()

	s.l.Info("completed solar resource fetch", map[string]any{
		"successfulProviders": len(results),
		"failedProviders":     len(failures),
	})

	if len(results) == 0 {
		s.l.Error(errors.New("no solar data from any provider"), map[string]any{
			"lat":      loc.Lat,
			"lon":      loc.Lon,
			"accuracy": accuracy,
		})
		return nil, failures, errors.New("no solar data from any provider")
	}

	return results, failures, nil
}

// ValidateKey checks the configured API key of a single provider upstream.
func (s *SolarService) ValidateKey(ctx context.Context, provider string) error {
	for _, repo := range s.repos {
		if repo.Name() == provider {
			return repo.ValidateKey(ctx)
		}
	}
	return errors.Errorf("unknown provider %q", provider)
}

// Providers lists the configured provider names.
func (s *SolarService) Providers() []string {
	names := make([]string, 0, len(s.repos))
	for _, repo := range s.repos {
		names = append(names, repo.Name())
	}
	return names
}

// Report bundles everything produced for one request, mirroring the
// downloadable analysis report.
type Report struct {
	GeneratedAt time.Time                        `json:"generated_at"`
	Location    models.Location                  `json:"location"`
	Accuracy    models.Accuracy                  `json:"accuracy"`
	AreaM2      float64                          `json:"area_m2,omitempty"`
	Results     map[string]models.SolarResource  `json:"results"`
	Estimates   map[string]models.EnergyEstimate `json:"estimates,omitempty"`
	Errors      map[string]string                `json:"errors,omitempty"`
}

// BuildReport fetches from all providers and derives energy estimates for
// the given panel area.
func (s *SolarService) BuildReport(ctx context.Context, loc models.Location, accuracy models.Accuracy, areaM2 float64) (*Report, error) {
	results, failures, err := s.FetchResources(ctx, loc, accuracy)
	if err != nil {
		return nil, err
	}

	report := &Report{
		GeneratedAt: time.Now().UTC(),
		Location:    loc,
		Accuracy:    accuracy,
		AreaM2:      areaM2,
		Results:     results,
		Errors:      failures,
	}

	if areaM2 > 0 {
		report.Estimates = make(map[string]models.EnergyEstimate)
		for name, resource := range results {
			if estimate, ok := Estimate(resource, areaM2); ok {
				report.Estimates[name] = estimate
			}
		}
	}

	return report, nil
}

func (s *SolarService) observeFetch(provider string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	s.metrics.FetchRequests.WithLabelValues(provider, outcome).Inc()
	s.metrics.FetchDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
}
