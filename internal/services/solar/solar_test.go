package solar_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-resource-api/internal/models"
	"solar-resource-api/internal/repositories"
	"solar-resource-api/internal/services/solar"
	"solar-resource-api/pkg/logger"
	"solar-resource-api/pkg/observe"
)

// MockRepository implements SolarRepository for testing
type MockRepository struct {
	name        string
	shouldFail  bool
	shouldDelay bool
	keyErr      error
	resource    models.SolarResource
	callCount   int
}

func (m *MockRepository) Name() string {
	return m.name
}

func (m *MockRepository) FetchResource(ctx context.Context, loc models.Location, accuracy models.Accuracy) (models.SolarResource, error) {
	m.callCount++

	if m.shouldDelay {
		select {
		case <-ctx.Done():
			return models.SolarResource{}, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}

	if m.shouldFail {
		return models.SolarResource{}, errors.New("mock repository error")
	}

	return m.resource, nil
}

func (m *MockRepository) ValidateKey(context.Context) error {
	return m.keyErr
}

func nrelResource(annualGHI float64) models.SolarResource {
	return models.SolarResource{
		ProviderName: "nrel",
		Accuracy:     models.AccuracyMedium,
		Annual:       models.AnnualIrradiance{GHI: annualGHI, DNI: 5.2, DHI: 1.6},
		Monthly: []models.MonthlyIrradiance{
			{Month: "Jan", MonthNum: 1, GHI: 2.5, DNI: 3.4, DHI: 1.1},
		},
	}
}

func newService(repos ...repositories.SolarRepository) *solar.SolarService {
	return solar.NewSolarService(repos, logger.NewZapLogger("test-app"), observe.NewMetricsForTesting())
}

func TestSolarService_FetchResources_Success(t *testing.T) {
	repos := []repositories.SolarRepository{
		&MockRepository{name: "repo-1", resource: nrelResource(4.7)},
		&MockRepository{name: "repo-2", resource: nrelResource(4.9)},
	}

	service := newService(repos...)

	loc := models.Location{Lat: 37.7749, Lon: -122.4194}
	results, failures, err := service.FetchResources(context.Background(), loc, models.AccuracyMedium)

	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Empty(t, failures)
	assert.Equal(t, 4.7, results["repo-1"].Annual.GHI)
	assert.Equal(t, 4.9, results["repo-2"].Annual.GHI)
}

func TestSolarService_FetchResources_PartialFailure(t *testing.T) {
	repos := []repositories.SolarRepository{
		&MockRepository{name: "success-repo", resource: nrelResource(4.7)},
		&MockRepository{name: "failure-repo", shouldFail: true},
	}

	service := newService(repos...)

	loc := models.Location{Lat: 37.7749, Lon: -122.4194}
	results, failures, err := service.FetchResources(context.Background(), loc, models.AccuracyMedium)

	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Contains(t, results, "success-repo")
	assert.Len(t, failures, 1)
	assert.Contains(t, failures["failure-repo"], "mock repository error")
}

func TestSolarService_FetchResources_AllFailures(t *testing.T) {
	repos := []repositories.SolarRepository{
		&MockRepository{name: "failure-repo-1", shouldFail: true},
		&MockRepository{name: "failure-repo-2", shouldFail: true},
	}

	service := newService(repos...)

	loc := models.Location{Lat: 37.7749, Lon: -122.4194}
	results, failures, err := service.FetchResources(context.Background(), loc, models.AccuracyMedium)

	assert.Error(t, err)
	assert.Nil(t, results)
	assert.Len(t, failures, 2)
}

func TestSolarService_FetchResources_EmptyRepositories(t *testing.T) {
	service := newService()

	loc := models.Location{Lat: 37.7749, Lon: -122.4194}
	_, _, err := service.FetchResources(context.Background(), loc, models.AccuracyMedium)

	assert.Error(t, err)
}

func TestSolarService_FetchResources_ContextCancellation(t *testing.T) {
	repos := []repositories.SolarRepository{
		&MockRepository{name: "delayed-repo", shouldDelay: true},
	}

	service := newService(repos...)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loc := models.Location{Lat: 37.7749, Lon: -122.4194}
	_, failures, err := service.FetchResources(ctx, loc, models.AccuracyMedium)

	assert.Error(t, err)
	assert.Contains(t, failures, "delayed-repo")
}

func TestSolarService_FetchResources_ConcurrentExecution(t *testing.T) {
	repos := []repositories.SolarRepository{
		&MockRepository{name: "repo-1", shouldDelay: true, resource: nrelResource(4.1)},
		&MockRepository{name: "repo-2", shouldDelay: true, resource: nrelResource(4.2)},
		&MockRepository{name: "repo-3", shouldDelay: true, resource: nrelResource(4.3)},
	}

	service := newService(repos...)

	loc := models.Location{Lat: 37.7749, Lon: -122.4194}

	start := time.Now()
	results, _, err := service.FetchResources(context.Background(), loc, models.AccuracyMedium)
	duration := time.Since(start)

	require.NoError(t, err)
	assert.Len(t, results, 3)

	// Verify all repositories were called exactly once
	for _, repo := range repos {
		assert.Equal(t, 1, repo.(*MockRepository).callCount)
	}

	// The fetches run concurrently, so three 100ms delays should complete
	// well under the sequential 300ms.
	assert.Less(t, duration, 250*time.Millisecond)
}

func TestSolarService_ValidateKey(t *testing.T) {
	repos := []repositories.SolarRepository{
		&MockRepository{name: "good-repo"},
		&MockRepository{name: "bad-repo", keyErr: errors.New("invalid key")},
	}

	service := newService(repos...)

	assert.NoError(t, service.ValidateKey(context.Background(), "good-repo"))
	assert.Error(t, service.ValidateKey(context.Background(), "bad-repo"))

	err := service.ValidateKey(context.Background(), "unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestSolarService_Providers(t *testing.T) {
	service := newService(
		&MockRepository{name: "repo-1"},
		&MockRepository{name: "repo-2"},
	)

	assert.Equal(t, []string{"repo-1", "repo-2"}, service.Providers())
}

func TestSolarService_BuildReport(t *testing.T) {
	repos := []repositories.SolarRepository{
		&MockRepository{name: "nrel", resource: nrelResource(4.7)},
		&MockRepository{name: "failure-repo", shouldFail: true},
	}

	service := newService(repos...)

	loc := models.Location{Lat: 37.7749, Lon: -122.4194}
	report, err := service.BuildReport(context.Background(), loc, models.AccuracyMedium, 50)

	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, loc, report.Location)
	assert.Equal(t, models.AccuracyMedium, report.Accuracy)
	assert.Len(t, report.Results, 1)
	assert.Len(t, report.Errors, 1)
	assert.False(t, report.GeneratedAt.IsZero())

	// Estimate derived from annual GHI: 4.7 * 365 * 50 * 0.20
	require.Contains(t, report.Estimates, "nrel")
	estimate := report.Estimates["nrel"]
	assert.InDelta(t, 17155.0, estimate.AnnualProductionKWh, 0.001)
	assert.Equal(t, 10.0, estimate.SystemSizeKW)
	assert.Equal(t, 4.7, estimate.PeakSunHours)
}

func TestSolarService_BuildReport_NoAreaNoEstimates(t *testing.T) {
	service := newService(&MockRepository{name: "nrel", resource: nrelResource(4.7)})

	loc := models.Location{Lat: 37.7749, Lon: -122.4194}
	report, err := service.BuildReport(context.Background(), loc, models.AccuracyMedium, 0)

	require.NoError(t, err)
	assert.Empty(t, report.Estimates)
}
