package models

import "time"

// DemographicData holds the demographic breakdown for a density point.
// Age groups are percentages keyed by range label (e.g. "25-64"); economic
// indicators are keyed by name (e.g. "income").
type DemographicData struct {
	AgeGroups          map[string]float64 `json:"age_groups"`
	EconomicIndicators map[string]float64 `json:"economic_indicators"`
}

// DensityPoint is a single population density measurement
type DensityPoint struct {
	Coordinates     Coordinates     `json:"coordinates"`
	Population      int             `json:"population"`
	DemographicData DemographicData `json:"demographic_data"`
}

// PopulationDensityData is a complete population density dataset for a region
type PopulationDensityData struct {
	ID            string         `json:"id" db:"id"`
	Region        string         `json:"region" db:"region"`
	Bounds        GeoBounds      `json:"bounds"`
	DensityPoints []DensityPoint `json:"density_points"`
	DataSource    string         `json:"data_source" db:"data_source"`
	CollectedAt   time.Time      `json:"collected_at" db:"collected_at"`
}

// TotalPopulation sums the population over all density points
func (p PopulationDensityData) TotalPopulation() int {
	total := 0
	for _, pt := range p.DensityPoints {
		total += pt.Population
	}
	return total
}

// PopulationInBounds sums the population of points inside the given box
func (p PopulationDensityData) PopulationInBounds(b GeoBounds) int {
	total := 0
	for _, pt := range p.DensityPoints {
		if b.Contains(pt.Coordinates) {
			total += pt.Population
		}
	}
	return total
}
