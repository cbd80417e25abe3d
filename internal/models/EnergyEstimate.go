package models

// EnergyEstimate is the derived production estimate for a panel area.
type EnergyEstimate struct {
	AreaM2              float64 `json:"area_m2" example:"50"`
	AnnualProductionKWh float64 `json:"annual_production_kwh" example:"17191.5"`
	PeakSunHours        float64 `json:"peak_sun_hours" example:"4.71"`
	SystemSizeKW        float64 `json:"system_size_kw" example:"10"`
}
