package models

import (
	"fmt"
	"time"
)

// MonthNames are the month keys used by the NREL monthly averages, in order.
var MonthNames = [12]string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}

// MonthlyIrradiance is one month of solar resource data. Irradiance values
// are kWh/m²/day; flux is kWh/m² for the whole month.
type MonthlyIrradiance struct {
	Month         string  `json:"month" example:"Jan"`
	MonthNum      int     `json:"month_num" example:"1"`
	GHI           float64 `json:"ghi,omitempty" example:"2.51"`
	DNI           float64 `json:"dni,omitempty" example:"3.42"`
	DHI           float64 `json:"dhi,omitempty" example:"1.17"`
	Flux          float64 `json:"flux,omitempty" example:"78.4"`
	DaylightHours float64 `json:"daylight_hours,omitempty" example:"9.8"`
}

// AnnualIrradiance summarizes a year of solar resource data.
type AnnualIrradiance struct {
	GHI              float64 `json:"ghi,omitempty" example:"4.71"`
	DNI              float64 `json:"dni,omitempty" example:"5.28"`
	DHI              float64 `json:"dhi,omitempty" example:"1.62"`
	Flux             float64 `json:"flux,omitempty" example:"1712.3"`
	MaxSunshineHours float64 `json:"max_sunshine_hours,omitempty" example:"2453.0"`
}

// BuildingInsights holds the roof-level potential reported by Google Solar.
type BuildingInsights struct {
	MaxArrayPanels int     `json:"max_array_panels" example:"42"`
	MaxArrayAreaM2 float64 `json:"max_array_area_m2" example:"83.5"`
}

// RoofSegment is a single roof plane from the building insights payload.
type RoofSegment struct {
	PitchDegrees   float64 `json:"pitch_degrees"`
	AzimuthDegrees float64 `json:"azimuth_degrees"`
	AreaM2         float64 `json:"area_m2"`
}

// SolarResource is the solar dataset one provider returned for a location.
type SolarResource struct {
	ProviderName string              `json:"provider_name" example:"nrel"`
	Lat          float64             `json:"lat" example:"37.7749"`
	Lon          float64             `json:"lon" example:"-122.4194"`
	Accuracy     Accuracy            `json:"accuracy" example:"medium"`
	Annual       AnnualIrradiance    `json:"annual"`
	Monthly      []MonthlyIrradiance `json:"monthly"`
	Building     *BuildingInsights   `json:"building,omitempty"`
	RoofSegments []RoofSegment       `json:"roof_segments,omitempty"`
	FetchedAt    time.Time           `json:"fetched_at"`
}

func (r *SolarResource) RequestParams() string {
	return fmt.Sprintf("lat: %.4f lon: %.4f accuracy: %s", r.Lat, r.Lon, r.Accuracy)
}
