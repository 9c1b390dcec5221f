package routescore

import (
	"fmt"
	"math"
	"time"

	"github.com/citycircuit/transit-backend-go/internal/models"
	"github.com/citycircuit/transit-backend-go/internal/spatial"
	"github.com/citycircuit/transit-backend-go/internal/stats"
	"github.com/citycircuit/transit-backend-go/pkg/logger"
)

const (
	// coverageRadiusKm is how far a stop is assumed to serve.
	coverageRadiusKm = 1.0

	// demandReference is the daily passenger count treated as a 100% demand
	// score.
	demandReference = 1000.0

	// neutralScore substitutes for a failed estimator so scoring never
	// aborts the pipeline.
	neutralScore = 50.0

	averageSpeedKmh  = 25.0
	dwellMinutesPer  = 2.0
	largeGapKm       = 5.0
	severeGapKm      = 10.0
	longRouteMinutes = 120
)

// Scorer analyzes routes against optional population density data and
// produces component scores, bottleneck findings and recommendations.
type Scorer struct {
	estimator EfficiencyEstimator
	log       logger.Logger
}

func NewScorer(estimator EfficiencyEstimator, log logger.Logger) *Scorer {
	return &Scorer{estimator: estimator, log: log}
}

// Analyze scores a route. Population data is optional; without it coverage
// and demand fall back to geometry-only heuristics. The result is fully
// determined by the inputs.
func (s *Scorer) Analyze(route models.Route, populationData *models.PopulationDensityData) (models.RouteAnalysisResult, error) {
	if err := models.ValidateRoute(route); err != nil {
		return models.RouteAnalysisResult{}, fmt.Errorf("analyze route %s: %w", route.ID, err)
	}

	s.log.Info("starting route analysis", "route_id", route.ID, "route_name", route.Name)

	efficiency := s.efficiencyScore(route)
	coverage := s.coverageScore(route, populationData)
	accessibility := accessibilityScore(route)
	demand := demandScore(route, populationData)
	travelTime := estimateTravelTime(route)

	result := models.RouteAnalysisResult{
		RouteID:              route.ID,
		EfficiencyScore:      efficiency,
		CoverageScore:        coverage,
		AccessibilityScore:   accessibility,
		PassengerDemandScore: demand,
		TravelTimeEstimate:   travelTime,
		Bottlenecks:          identifyBottlenecks(route),
		Recommendations:      generateRecommendations(route, efficiency, coverage, accessibility),
		AnalyzedAt:           time.Now().UTC(),
	}

	s.log.Info("route analysis completed",
		"route_id", route.ID, "overall_score", result.OverallScore())
	return result, nil
}

// BatchAnalyze scores routes sequentially, skipping any that fail
// validation so one bad route cannot abort the batch.
func (s *Scorer) BatchAnalyze(routes []models.Route, populationData *models.PopulationDensityData) []models.RouteAnalysisResult {
	s.log.Info("starting batch route analysis", "route_count", len(routes))

	results := make([]models.RouteAnalysisResult, 0, len(routes))
	for _, route := range routes {
		result, err := s.Analyze(route, populationData)
		if err != nil {
			s.log.Error("route analysis failed, skipping", "route_id", route.ID, "error", err)
			continue
		}
		results = append(results, result)
	}

	s.log.Info("batch route analysis completed",
		"analyzed", len(results), "requested", len(routes))
	return results
}

func (s *Scorer) efficiencyScore(route models.Route) float64 {
	score, err := s.estimator.Estimate(extractFeatures(route))
	if err != nil {
		s.log.Warn("efficiency estimator failed, using neutral score",
			"route_id", route.ID, "error", err)
		return neutralScore
	}
	return stats.Clamp(score, 0, 100)
}

func (s *Scorer) coverageScore(route models.Route, populationData *models.PopulationDensityData) float64 {
	if populationData == nil || len(populationData.DensityPoints) == 0 {
		return basicCoverageScore(route)
	}

	totalPopulation := populationData.TotalPopulation()
	if totalPopulation == 0 {
		return neutralScore
	}

	covered := 0
	for _, point := range populationData.DensityPoints {
		for _, stop := range route.Stops {
			if spatial.Haversine(stop.Coordinates, point.Coordinates) <= coverageRadiusKm {
				covered += point.Population
				break // count each point once
			}
		}
	}

	return math.Min(100, float64(covered)/float64(totalPopulation)*100)
}

// basicCoverageScore approximates coverage by geographic spread when no
// population data is available
func basicCoverageScore(route models.Route) float64 {
	if len(route.Stops) == 0 {
		return 0
	}

	minLat, maxLat := route.Stops[0].Coordinates.Latitude, route.Stops[0].Coordinates.Latitude
	minLon, maxLon := route.Stops[0].Coordinates.Longitude, route.Stops[0].Coordinates.Longitude
	for _, stop := range route.Stops[1:] {
		minLat = math.Min(minLat, stop.Coordinates.Latitude)
		maxLat = math.Max(maxLat, stop.Coordinates.Latitude)
		minLon = math.Min(minLon, stop.Coordinates.Longitude)
		maxLon = math.Max(maxLon, stop.Coordinates.Longitude)
	}

	coverage := math.Min(100, ((maxLat-minLat)+(maxLon-minLon))*1000)
	return math.Max(10, coverage)
}

func accessibilityScore(route models.Route) float64 {
	if len(route.Stops) == 0 {
		return 0
	}

	amenityTotal := 0
	for _, stop := range route.Stops {
		amenityTotal += len(stop.Amenities)
	}
	amenityScore := math.Min(20, float64(amenityTotal)/float64(len(route.Stops)))

	return route.AccessibleRatio()*80 + amenityScore
}

func demandScore(route models.Route, populationData *models.PopulationDensityData) float64 {
	if len(route.Stops) == 0 {
		return 0
	}

	avgPassengers := float64(route.TotalPassengers()) / float64(len(route.Stops))
	score := math.Min(100, avgPassengers/demandReference*100)

	if populationData != nil && len(populationData.DensityPoints) > 0 {
		score = math.Min(100, score+densityBonus(route, populationData))
	}
	return score
}

// densityBonus rewards stops surrounded by population, up to 10 points per
// stop averaged across the route, capped at 20
func densityBonus(route models.Route, populationData *models.PopulationDensityData) float64 {
	bonus := 0.0
	for _, stop := range route.Stops {
		nearby := 0
		for _, point := range populationData.DensityPoints {
			if spatial.Haversine(stop.Coordinates, point.Coordinates) <= coverageRadiusKm {
				nearby += point.Population
			}
		}
		bonus += math.Min(10, float64(nearby)/1000)
	}
	return math.Min(20, bonus/float64(len(route.Stops)))
}

// estimateTravelTime recomputes travel time from inter-stop distances at
// urban speed plus dwell time, and never revises the stated time downward.
func estimateTravelTime(route models.Route) int {
	if len(route.Stops) < 2 {
		return route.EstimatedTravelTime
	}

	totalDistance := 0.0
	for i := 0; i < len(route.Stops)-1; i++ {
		totalDistance += spatial.Haversine(route.Stops[i].Coordinates, route.Stops[i+1].Coordinates)
	}

	travelMinutes := int(totalDistance / averageSpeedKmh * 60)
	dwellMinutes := len(route.Stops) * int(dwellMinutesPer)

	estimated := travelMinutes + dwellMinutes
	if estimated < route.EstimatedTravelTime {
		return route.EstimatedTravelTime
	}
	return estimated
}

func identifyBottlenecks(route models.Route) []models.Bottleneck {
	var bottlenecks []models.Bottleneck
	if len(route.Stops) < 2 {
		return bottlenecks
	}

	avgPassengers := float64(route.TotalPassengers()) / float64(len(route.Stops))

	for i, stop := range route.Stops {
		if float64(stop.DailyPassengerCount) > avgPassengers*2 {
			severity := models.SeverityMedium
			if float64(stop.DailyPassengerCount) > avgPassengers*3 {
				severity = models.SeverityHigh
			}
			bottlenecks = append(bottlenecks, models.Bottleneck{
				Type:           models.BottleneckHighDemandStop,
				Severity:       severity,
				StopIndex:      i,
				StopName:       stop.Name,
				PassengerCount: stop.DailyPassengerCount,
				Description:    fmt.Sprintf("Stop '%s' has unusually high passenger demand", stop.Name),
			})
		}
	}

	for i := 0; i < len(route.Stops)-1; i++ {
		distance := spatial.Haversine(route.Stops[i].Coordinates, route.Stops[i+1].Coordinates)
		if distance > largeGapKm {
			severity := models.SeverityMedium
			if distance > severeGapKm {
				severity = models.SeverityHigh
			}
			bottlenecks = append(bottlenecks, models.Bottleneck{
				Type:          models.BottleneckLargeGap,
				Severity:      severity,
				StopIndex:     i,
				NextStopIndex: i + 1,
				DistanceKm:    math.Round(distance*100) / 100,
				Description: fmt.Sprintf("Large gap (%.1fkm) between '%s' and '%s'",
					distance, route.Stops[i].Name, route.Stops[i+1].Name),
			})
		}
	}

	var inaccessible []int
	for i, stop := range route.Stops {
		if !stop.IsAccessible {
			inaccessible = append(inaccessible, i)
		}
	}
	if float64(len(inaccessible)) > float64(len(route.Stops))*0.5 {
		bottlenecks = append(bottlenecks, models.Bottleneck{
			Type:          models.BottleneckAccessibilityIssue,
			Severity:      models.SeverityMedium,
			AffectedStops: inaccessible,
			Description: fmt.Sprintf("%d out of %d stops are not wheelchair accessible",
				len(inaccessible), len(route.Stops)),
		})
	}

	return bottlenecks
}

func generateRecommendations(route models.Route, efficiency, coverage, accessibility float64) []string {
	var recommendations []string

	if efficiency < 60 {
		if len(route.Stops) > 15 {
			recommendations = append(recommendations, "Consider reducing the number of stops to improve efficiency")
		} else if len(route.Stops) < 5 {
			recommendations = append(recommendations, "Consider adding more stops to better serve the area")
		}
		recommendations = append(recommendations, "Review stop spacing and timing to optimize travel efficiency")
	}

	if coverage < 50 {
		recommendations = append(recommendations,
			"Consider adjusting route path to cover higher population density areas",
			"Analyze population data to identify underserved areas")
	}

	if accessibility < 70 {
		recommendations = append(recommendations,
			"Improve wheelchair accessibility at more stops",
			"Add amenities like shelters and seating at stops")
	}

	if route.EstimatedTravelTime > longRouteMinutes {
		recommendations = append(recommendations, "Consider splitting this route into shorter segments")
	}

	if !route.IsActive {
		recommendations = append(recommendations, "Evaluate reactivating this route based on analysis results")
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations,
			"Route performance is good - consider minor optimizations for continuous improvement")
	}

	return recommendations
}
