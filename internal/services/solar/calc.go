package solar

import "solar-resource-api/internal/models"

const (
	// PanelEfficiency is the assumed module efficiency of modern panels.
	PanelEfficiency = 0.20
	// WattsPerSquareMeter is the assumed installable capacity density.
	WattsPerSquareMeter = 200.0
)

// EnergyProduction estimates annual output in kWh for irradiance in
// kWh/m² over the given panel area.
func EnergyProduction(irradiance, areaM2, efficiency float64) float64 {
	return irradiance * areaM2 * efficiency
}

// PeakSunHours converts daily irradiance to peak sun hours. One peak sun
// hour equals 1 kWh/m² of irradiance.
func PeakSunHours(dailyIrradiance float64) float64 {
	return dailyIrradiance
}

// SystemSizeKW estimates installable system capacity for a panel area.
func SystemSizeKW(areaM2 float64) float64 {
	return areaM2 * WattsPerSquareMeter / 1000
}

// Estimate derives the production estimate for a resource dataset. Only
// providers reporting annual GHI (kWh/m²/day) support an estimate.
func Estimate(resource models.SolarResource, areaM2 float64) (models.EnergyEstimate, bool) {
	if resource.Annual.GHI <= 0 || areaM2 <= 0 {
		return models.EnergyEstimate{}, false
	}

	return models.EnergyEstimate{
		AreaM2:              areaM2,
		AnnualProductionKWh: EnergyProduction(resource.Annual.GHI*365, areaM2, PanelEfficiency),
		PeakSunHours:        PeakSunHours(resource.Annual.GHI),
		SystemSizeKW:        SystemSizeKW(areaM2),
	}, true
}
