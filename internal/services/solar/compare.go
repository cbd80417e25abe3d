package solar

import (
	"sort"

	"solar-resource-api/internal/models"
)

// daysPerMonth approximates the conversion from monthly flux (kWh/m²) to a
// daily value comparable with GHI (kWh/m²/day).
const daysPerMonth = 30.0

// ComparisonPoint is one month of provider values normalized to
// kWh/m²/day.
type ComparisonPoint struct {
	Month    string             `json:"month"`
	MonthNum int                `json:"month_num"`
	Values   map[string]float64 `json:"values"`
}

// Compare aligns all providers' monthly series on a common daily-irradiance
// scale. NREL contributes GHI directly; flux-based providers are divided by
// an average month length.
func Compare(resources map[string]models.SolarResource) []ComparisonPoint {
	byMonth := make(map[int]*ComparisonPoint)

	for name, resource := range resources {
		for _, m := range resource.Monthly {
			point, ok := byMonth[m.MonthNum]
			if !ok {
				point = &ComparisonPoint{
					Month:    m.Month,
					MonthNum: m.MonthNum,
					Values:   make(map[string]float64),
				}
				byMonth[m.MonthNum] = point
			}

			switch {
			case m.GHI > 0:
				point.Values[name] = m.GHI
			case m.Flux > 0:
				point.Values[name] = m.Flux / daysPerMonth
			}
		}
	}

	points := make([]ComparisonPoint, 0, len(byMonth))
	for _, point := range byMonth {
		points = append(points, *point)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].MonthNum < points[j].MonthNum
	})

	return points
}
