package optimizer

import (
	"fmt"
	"math"
	"time"

	"github.com/citycircuit/transit-backend-go/internal/analysis/pathmatrix"
	"github.com/citycircuit/transit-backend-go/internal/analysis/population"
	"github.com/citycircuit/transit-backend-go/internal/analysis/routescore"
	"github.com/citycircuit/transit-backend-go/internal/models"
	"github.com/citycircuit/transit-backend-go/internal/spatial"
	"github.com/citycircuit/transit-backend-go/pkg/logger"
)

const (
	// maxGapStops is the most new stops added per optimization to fill
	// coverage gaps.
	maxGapStops = 2

	// gapStopPassengerCap bounds the estimated passenger count of a
	// synthesized gap stop.
	gapStopPassengerCap = 5000

	// minTravelTimeMinutes floors the recomputed travel time.
	minTravelTimeMinutes = 10

	// significantImprovementThreshold marks a batch result as a significant
	// improvement.
	significantImprovementThreshold = 10.0
)

// standardAmenities is the amenity set every optimized stop carries.
var standardAmenities = []string{"shelter", "seating", "lighting", "wheelchair_accessible", "tactile_paving"}

// Engine coordinates route scoring, population analysis and path matrix
// computation to synthesize improved routes.
type Engine struct {
	routeScorer        *routescore.Scorer
	populationAnalyzer *population.Analyzer
	matrixBuilder      *pathmatrix.Builder
	log                logger.Logger
}

func NewEngine(routeScorer *routescore.Scorer, populationAnalyzer *population.Analyzer, matrixBuilder *pathmatrix.Builder, log logger.Logger) *Engine {
	return &Engine{
		routeScorer:        routeScorer,
		populationAnalyzer: populationAnalyzer,
		matrixBuilder:      matrixBuilder,
		log:                log,
	}
}

// Optimize produces an improved candidate for the route: stops reordered by
// travel cost, coverage gaps filled, accessibility normalized, travel time
// and score recomputed. Population data is optional; when absent a default
// dataset is synthesized from the route itself for the result.
func (e *Engine) Optimize(route models.Route, populationData *models.PopulationDensityData) (models.OptimizationResult, error) {
	e.log.Info("starting route optimization", "route_id", route.ID, "route_name", route.Name)

	routeAnalysis, err := e.routeScorer.Analyze(route, populationData)
	if err != nil {
		return models.OptimizationResult{}, fmt.Errorf("optimize route %s: %w", route.ID, err)
	}

	var populationAnalysis *models.PopulationAnalysisResult
	if populationData != nil {
		analysis, err := e.populationAnalyzer.Analyze(*populationData)
		if err != nil {
			return models.OptimizationResult{}, fmt.Errorf("optimize route %s: %w", route.ID, err)
		}
		populationAnalysis = &analysis
	}

	matrix, err := e.matrixBuilder.Build(route.Stops, spatial.MetricWeighted)
	if err != nil {
		return models.OptimizationResult{}, fmt.Errorf("optimize route %s: build matrix: %w", route.ID, err)
	}

	optimized := e.generateOptimizedRoute(route, routeAnalysis, populationAnalysis, matrix)
	metrics := calculateMetrics(route, optimized, routeAnalysis)

	data := populationData
	if data == nil {
		synthesized := DefaultPopulationData(route)
		data = &synthesized
	}

	result := models.OptimizationResult{
		OriginalRouteID: route.ID,
		OptimizedRoute:  optimized,
		Metrics:         metrics,
		PopulationData:  *data,
		GeneratedAt:     time.Now().UTC(),
	}

	e.log.Info("route optimization completed",
		"route_id", route.ID, "improvement_score", metrics.OverallScore())
	return result, nil
}

func (e *Engine) generateOptimizedRoute(original models.Route, routeAnalysis models.RouteAnalysisResult, populationAnalysis *models.PopulationAnalysisResult, matrix *pathmatrix.Matrix) models.Route {
	stops := make([]models.BusStop, len(original.Stops))
	copy(stops, original.Stops)

	if len(stops) > 2 {
		stops = reorderStops(stops, matrix)
	}

	if populationAnalysis != nil && len(populationAnalysis.CoverageGaps) > 0 {
		gaps := populationAnalysis.CoverageGaps
		if len(gaps) > maxGapStops {
			gaps = gaps[:maxGapStops]
		}
		stops = append(stops, gapStops(gaps)...)
	}

	stops = removeBottleneckStops(stops, routeAnalysis.Bottlenecks)
	stops = improveAccessibility(stops)

	return models.Route{
		Name:                original.Name + " (Optimized)",
		Description:         fmt.Sprintf("Optimized version of %s", original.Name),
		Stops:               stops,
		OperatorID:          original.OperatorID,
		IsActive:            true,
		OptimizationScore:   newOptimizationScore(original.OptimizationScore, routeAnalysis),
		EstimatedTravelTime: estimateTravelTime(stops, matrix),
	}
}

func reorderStops(stops []models.BusStop, matrix *pathmatrix.Matrix) []models.BusStop {
	ids := make([]string, len(stops))
	byID := make(map[string]models.BusStop, len(stops))
	for i, stop := range stops {
		ids[i] = stop.ID
		byID[stop.ID] = stop
	}

	ordered := pathmatrix.OrderStops(matrix, ids)
	reordered := make([]models.BusStop, 0, len(ordered))
	for _, id := range ordered {
		if stop, ok := byID[id]; ok {
			reordered = append(reordered, stop)
		}
	}
	return reordered
}

// gapStops synthesizes accessible stops at coverage gap coordinates, with
// passenger counts estimated at 10% of the gap population.
func gapStops(gaps []models.CoverageGap) []models.BusStop {
	stops := make([]models.BusStop, 0, len(gaps))
	for i, gap := range gaps {
		passengers := gap.Population / 10
		if passengers > gapStopPassengerCap {
			passengers = gapStopPassengerCap
		}
		stops = append(stops, models.BusStop{
			Name:                fmt.Sprintf("New Stop - Gap Coverage %d", i+1),
			Coordinates:         gap.Coordinates,
			Address:             fmt.Sprintf("Coverage gap area - Population: %d", gap.Population),
			Amenities:           []string{"shelter"},
			DailyPassengerCount: passengers,
			IsAccessible:        true,
		})
	}
	return stops
}

// removeBottleneckStops evaluates each bottleneck for stop removal. Every
// current bottleneck category is excluded from removal (large gaps may be
// necessary, high demand stops serve important areas, accessibility issues
// are fixed in place instead), so the stop list passes through unchanged.
// The exclusions are kept explicit so a future category that does warrant
// removal has an obvious place to land.
func removeBottleneckStops(stops []models.BusStop, bottlenecks []models.Bottleneck) []models.BusStop {
	if len(stops) <= 3 {
		return stops
	}

	for _, b := range bottlenecks {
		switch {
		case b.Type == models.BottleneckLargeGap && b.Severity == models.SeverityHigh:
			continue
		case b.Type == models.BottleneckHighDemandStop && b.Severity == models.SeverityHigh:
			continue
		case b.Type == models.BottleneckAccessibilityIssue:
			continue
		}
	}

	return stops
}

// improveAccessibility rebuilds every stop as accessible with the standard
// amenity set added to whatever it already has.
func improveAccessibility(stops []models.BusStop) []models.BusStop {
	improved := make([]models.BusStop, 0, len(stops))
	for _, stop := range stops {
		amenities := make([]string, len(stop.Amenities))
		copy(amenities, stop.Amenities)
		for _, amenity := range standardAmenities {
			if !stop.HasAmenity(amenity) {
				amenities = append(amenities, amenity)
			}
		}

		improved = append(improved, models.BusStop{
			ID:                  stop.ID,
			Name:                stop.Name,
			Coordinates:         stop.Coordinates,
			Address:             stop.Address,
			Amenities:           amenities,
			DailyPassengerCount: stop.DailyPassengerCount,
			IsAccessible:        true,
		})
	}
	return improved
}

// estimateTravelTime sums matrix segment times along the stop order,
// falling back to a 25 km/h estimate for stops the matrix does not know
// (synthesized gap stops).
func estimateTravelTime(stops []models.BusStop, matrix *pathmatrix.Matrix) int {
	if len(stops) < 2 {
		return minTravelTimeMinutes
	}

	total := 0.0
	for i := 0; i < len(stops)-1; i++ {
		segment, err := matrix.Time(stops[i].ID, stops[i+1].ID)
		if err != nil {
			distance := spatial.Haversine(stops[i].Coordinates, stops[i+1].Coordinates)
			segment = distance/25*60 + 2
		}
		total += segment
	}

	minutes := int(total)
	if minutes < minTravelTimeMinutes {
		return minTravelTimeMinutes
	}
	return minutes
}

// newOptimizationScore starts from the analysis overall score and applies
// bonuses for addressed bottlenecks, followed recommendations and
// accessibility upgrades; the result is capped at 100 and always exceeds
// the original score by at least 5.
func newOptimizationScore(originalScore float64, analysis models.RouteAnalysisResult) float64 {
	bonus := 0.0
	if len(analysis.Bottlenecks) > 0 {
		bonus += math.Min(10, float64(len(analysis.Bottlenecks))*2)
	}
	if len(analysis.Recommendations) > 0 {
		bonus += math.Min(15, float64(len(analysis.Recommendations))*3)
	}
	if analysis.AccessibilityScore < 80 {
		bonus += 10
	}

	score := math.Min(100, analysis.OverallScore()+bonus)
	return math.Max(score, originalScore+5)
}

func calculateMetrics(original, optimized models.Route, analysis models.RouteAnalysisResult) models.OptimizationMetrics {
	timeImprovement := 0.0
	if original.EstimatedTravelTime > 0 {
		delta := float64(original.EstimatedTravelTime - optimized.EstimatedTravelTime)
		timeImprovement = math.Max(0, delta/float64(original.EstimatedTravelTime)*100)
	}

	// nominal reduction from reordering; the matrix does not track the
	// original path length
	distanceReduction := 5.0

	coverageIncrease := 0.0
	if originalCoverage := original.TotalPassengers(); originalCoverage > 0 {
		delta := float64(optimized.TotalPassengers() - originalCoverage)
		coverageIncrease = math.Max(0, delta/float64(originalCoverage)*100)
	}

	costSavings := (timeImprovement + distanceReduction) / 2
	if analysis.AccessibilityScore > 80 {
		costSavings += 5
	}

	return models.OptimizationMetrics{
		TimeImprovement:           timeImprovement,
		DistanceReduction:         distanceReduction,
		PassengerCoverageIncrease: coverageIncrease,
		CostSavings:               costSavings,
	}
}

// DefaultPopulationData synthesizes a population dataset from the route
// itself: bounds padded a hundredth of a degree beyond the stops, one
// density point per stop with population estimated at ten riders' worth of
// catchment each. Used whenever an optimization runs without real data.
func DefaultPopulationData(route models.Route) models.PopulationDensityData {
	data := models.PopulationDensityData{
		Region:      fmt.Sprintf("Route %s Area", route.Name),
		DataSource:  "Estimated from route data",
		CollectedAt: time.Now().UTC(),
	}

	if len(route.Stops) == 0 {
		data.Bounds = models.GeoBounds{North: 0.1, South: -0.1, East: 0.1, West: -0.1}
		return data
	}

	minLat, maxLat := route.Stops[0].Coordinates.Latitude, route.Stops[0].Coordinates.Latitude
	minLon, maxLon := route.Stops[0].Coordinates.Longitude, route.Stops[0].Coordinates.Longitude
	for _, stop := range route.Stops[1:] {
		minLat = math.Min(minLat, stop.Coordinates.Latitude)
		maxLat = math.Max(maxLat, stop.Coordinates.Latitude)
		minLon = math.Min(minLon, stop.Coordinates.Longitude)
		maxLon = math.Max(maxLon, stop.Coordinates.Longitude)
	}
	data.Bounds = models.GeoBounds{
		North: maxLat + 0.01,
		South: minLat - 0.01,
		East:  maxLon + 0.01,
		West:  minLon - 0.01,
	}

	for _, stop := range route.Stops {
		data.DensityPoints = append(data.DensityPoints, models.DensityPoint{
			Coordinates: stop.Coordinates,
			Population:  stop.DailyPassengerCount * 10,
			DemographicData: models.DemographicData{
				AgeGroups:          map[string]float64{"25-64": 60, "18-25": 20, "65+": 20},
				EconomicIndicators: map[string]float64{"income": 35000},
			},
		})
	}
	return data
}

// BatchOptimize optimizes routes sequentially, logging and skipping
// failures so one bad route cannot abort the batch.
func (e *Engine) BatchOptimize(routes []models.Route, populationData *models.PopulationDensityData) []models.OptimizationResult {
	e.log.Info("starting batch optimization", "route_count", len(routes))

	results := make([]models.OptimizationResult, 0, len(routes))
	for _, route := range routes {
		result, err := e.Optimize(route, populationData)
		if err != nil {
			e.log.Error("route optimization failed, skipping", "route_id", route.ID, "error", err)
			continue
		}
		results = append(results, result)
	}

	e.log.Info("batch optimization completed",
		"optimized", len(results), "requested", len(routes))
	return results
}

// BatchSummary aggregates a set of optimization results.
type BatchSummary struct {
	TotalRoutesOptimized    int                `json:"total_routes_optimized"`
	SignificantImprovements int                `json:"significant_improvements"`
	ImprovementRate         float64            `json:"improvement_rate"`
	AverageMetrics          map[string]float64 `json:"average_metrics"`
	BestOptimization        ResultHighlight    `json:"best_optimization"`
	WorstOptimization       ResultHighlight    `json:"worst_optimization"`
	GeneratedAt             time.Time          `json:"generated_at"`
}

// ResultHighlight names a single result inside a batch summary.
type ResultHighlight struct {
	RouteID      string  `json:"route_id"`
	RouteName    string  `json:"route_name"`
	OverallScore float64 `json:"overall_score"`
}

// Summarize computes aggregate statistics over batch results. Best and
// worst keep the earliest result on equal scores.
func Summarize(results []models.OptimizationResult) (BatchSummary, error) {
	if len(results) == 0 {
		return BatchSummary{}, fmt.Errorf("summarize: no optimization results provided")
	}

	var timeTotal, distanceTotal, coverageTotal, costTotal float64
	significant := 0
	best, worst := 0, 0
	for i, r := range results {
		timeTotal += r.Metrics.TimeImprovement
		distanceTotal += r.Metrics.DistanceReduction
		coverageTotal += r.Metrics.PassengerCoverageIncrease
		costTotal += r.Metrics.CostSavings

		if r.IsImprovement(significantImprovementThreshold) {
			significant++
		}
		if r.Metrics.OverallScore() > results[best].Metrics.OverallScore() {
			best = i
		}
		if r.Metrics.OverallScore() < results[worst].Metrics.OverallScore() {
			worst = i
		}
	}

	n := float64(len(results))
	return BatchSummary{
		TotalRoutesOptimized:    len(results),
		SignificantImprovements: significant,
		ImprovementRate:         float64(significant) / n * 100,
		AverageMetrics: map[string]float64{
			"time_improvement_percent":   timeTotal / n,
			"distance_reduction_percent": distanceTotal / n,
			"coverage_increase_percent":  coverageTotal / n,
			"cost_savings_percent":       costTotal / n,
		},
		BestOptimization: ResultHighlight{
			RouteID:      results[best].OriginalRouteID,
			RouteName:    results[best].OptimizedRoute.Name,
			OverallScore: results[best].Metrics.OverallScore(),
		},
		WorstOptimization: ResultHighlight{
			RouteID:      results[worst].OriginalRouteID,
			RouteName:    results[worst].OptimizedRoute.Name,
			OverallScore: results[worst].Metrics.OverallScore(),
		},
		GeneratedAt: time.Now().UTC(),
	}, nil
}
