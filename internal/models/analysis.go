package models

import "time"

// Bottleneck type identifiers
const (
	BottleneckHighDemandStop     = "high_demand_stop"
	BottleneckLargeGap           = "large_gap"
	BottleneckAccessibilityIssue = "accessibility_issue"
)

// Bottleneck severity labels
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
)

// Bottleneck describes a structural weakness found in a route.
// Only the fields relevant to the bottleneck type are populated.
type Bottleneck struct {
	Type           string  `json:"type"`
	Severity       string  `json:"severity"`
	Description    string  `json:"description"`
	StopIndex      int     `json:"stop_index,omitempty"`
	NextStopIndex  int     `json:"next_stop_index,omitempty"`
	StopName       string  `json:"stop_name,omitempty"`
	PassengerCount int     `json:"passenger_count,omitempty"`
	DistanceKm     float64 `json:"distance_km,omitempty"`
	AffectedStops  []int   `json:"affected_stops,omitempty"`
}

// RouteAnalysisResult holds the scores, findings and recommendations
// produced by analyzing a single route. All component scores are in [0,100].
type RouteAnalysisResult struct {
	RouteID              string       `json:"route_id"`
	EfficiencyScore      float64      `json:"efficiency_score"`
	CoverageScore        float64      `json:"coverage_score"`
	AccessibilityScore   float64      `json:"accessibility_score"`
	PassengerDemandScore float64      `json:"passenger_demand_score"`
	TravelTimeEstimate   int          `json:"travel_time_estimate"` // minutes
	Bottlenecks          []Bottleneck `json:"bottlenecks"`
	Recommendations      []string     `json:"recommendations"`
	AnalyzedAt           time.Time    `json:"analyzed_at"`
}

// OverallScore combines the component scores with fixed weights:
// efficiency 0.25, coverage 0.25, accessibility 0.20, demand 0.30.
func (r RouteAnalysisResult) OverallScore() float64 {
	return r.EfficiencyScore*0.25 +
		r.CoverageScore*0.25 +
		r.AccessibilityScore*0.20 +
		r.PassengerDemandScore*0.30
}

// HighDensityArea is a density point ranked among the densest in a region
type HighDensityArea struct {
	Coordinates        Coordinates        `json:"coordinates"`
	Population         int                `json:"population"`
	LocalDensity       float64            `json:"local_density"` // people per km² within 1 km
	DemographicProfile DemographicProfile `json:"demographic_profile"`
	PriorityScore      float64            `json:"priority_score"`
}

// DemographicProfile summarizes the demographics at a single point
type DemographicProfile struct {
	AgeGroups          map[string]float64 `json:"age_groups"`
	EconomicIndicators map[string]float64 `json:"economic_indicators"`
	DominantAgeGroup   string             `json:"dominant_age_group,omitempty"`
	DominantAgePercent float64            `json:"dominant_age_percentage,omitempty"`
}

// CoverageGap is a populated area not served by any candidate stop
type CoverageGap struct {
	Coordinates           Coordinates        `json:"coordinates"`
	Population            int                `json:"population"`
	DistanceToNearestStop float64            `json:"distance_to_nearest_stop_km"`
	Severity              string             `json:"severity"`
	DemographicProfile    DemographicProfile `json:"demographic_profile"`
}

// DemographicInsights aggregates demographic patterns across a region
type DemographicInsights struct {
	AverageAgeDistribution    map[string]float64 `json:"average_age_distribution"`
	AverageEconomicIndicators map[string]float64 `json:"average_economic_indicators"`
	DominantAgeGroup          string             `json:"dominant_age_group,omitempty"`
	DominantAgePercent        float64            `json:"dominant_age_percentage"`
	TotalDataPoints           int                `json:"total_data_points"`
	DemographicDiversity      float64            `json:"demographic_diversity"` // normalized Shannon entropy
	TransportDependency       string             `json:"transport_dependency,omitempty"`
	TransportNotes            string             `json:"transport_notes,omitempty"`
}

// PopulationAnalysisResult holds the output of analyzing a population
// density dataset
type PopulationAnalysisResult struct {
	Region               string              `json:"region"`
	TotalPopulation      int                 `json:"total_population"`
	PopulationDensity    float64             `json:"population_density"` // people per km²
	HighDensityAreas     []HighDensityArea   `json:"high_density_areas"`
	DemographicInsights  DemographicInsights `json:"demographic_insights"`
	OptimalStopLocations []Coordinates       `json:"optimal_stop_locations"`
	CoverageGaps         []CoverageGap       `json:"coverage_gaps"`
	AnalyzedAt           time.Time           `json:"analyzed_at"`
}

// RouteRecommendation suggests a new route or stop derived from
// population analysis
type RouteRecommendation struct {
	Type               string       `json:"type"` // "new_route" or "new_stop"
	Priority           string       `json:"priority"`
	Origin             *Coordinates `json:"origin,omitempty"`
	Destination        *Coordinates `json:"destination,omitempty"`
	Location           *Coordinates `json:"location,omitempty"`
	DistanceKm         float64      `json:"distance_km,omitempty"`
	CombinedPopulation int          `json:"combined_population,omitempty"`
	PopulationServed   int          `json:"population_served,omitempty"`
	Description        string       `json:"description"`
}
