package models

import "fmt"

type Location struct {
	Lat float64 `json:"lat" example:"37.7749"`
	Lon float64 `json:"lon" example:"-122.4194"`
}

// Validate checks coordinate ranges.
func (l Location) Validate() error {
	if l.Lat < -90 || l.Lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90, got %f", l.Lat)
	}
	if l.Lon < -180 || l.Lon > 180 {
		return fmt.Errorf("longitude must be between -180 and 180, got %f", l.Lon)
	}
	return nil
}

// GeocodeResult is a geocoded address with the resolved display name.
type GeocodeResult struct {
	Location
	DisplayName string `json:"display_name" example:"San Francisco, California, United States"`
}
