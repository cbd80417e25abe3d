package solar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-resource-api/internal/models"
	"solar-resource-api/internal/services/solar"
)

func TestEnergyProduction(t *testing.T) {
	// 5 kWh/m²/day over a year, 50 m² of panels at 20% efficiency.
	got := solar.EnergyProduction(5*365, 50, solar.PanelEfficiency)
	assert.InDelta(t, 18250.0, got, 0.001)

	assert.Equal(t, 0.0, solar.EnergyProduction(0, 50, solar.PanelEfficiency))
}

func TestPeakSunHours(t *testing.T) {
	assert.Equal(t, 4.7, solar.PeakSunHours(4.7))
}

func TestSystemSizeKW(t *testing.T) {
	assert.Equal(t, 10.0, solar.SystemSizeKW(50))
	assert.Equal(t, 0.0, solar.SystemSizeKW(0))
}

func TestEstimate(t *testing.T) {
	resource := models.SolarResource{
		ProviderName: "nrel",
		Annual:       models.AnnualIrradiance{GHI: 4.7},
	}

	estimate, ok := solar.Estimate(resource, 50)
	require.True(t, ok)
	assert.Equal(t, 50.0, estimate.AreaM2)
	assert.InDelta(t, 17155.0, estimate.AnnualProductionKWh, 0.001)
	assert.Equal(t, 4.7, estimate.PeakSunHours)
	assert.Equal(t, 10.0, estimate.SystemSizeKW)
}

func TestEstimate_NoGHI(t *testing.T) {
	// Flux-only providers do not support a production estimate.
	resource := models.SolarResource{
		ProviderName: "google-solar",
		Annual:       models.AnnualIrradiance{Flux: 1648.4},
	}

	_, ok := solar.Estimate(resource, 50)
	assert.False(t, ok)
}

func TestEstimate_NoArea(t *testing.T) {
	resource := models.SolarResource{
		ProviderName: "nrel",
		Annual:       models.AnnualIrradiance{GHI: 4.7},
	}

	_, ok := solar.Estimate(resource, 0)
	assert.False(t, ok)
}
