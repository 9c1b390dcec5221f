package optimizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citycircuit/transit-backend-go/internal/analysis/pathmatrix"
	"github.com/citycircuit/transit-backend-go/internal/analysis/population"
	"github.com/citycircuit/transit-backend-go/internal/analysis/routescore"
	"github.com/citycircuit/transit-backend-go/internal/models"
	"github.com/citycircuit/transit-backend-go/pkg/logger"
)

func newTestEngine() *Engine {
	log := logger.Nop()
	return NewEngine(
		routescore.NewScorer(routescore.NewRuleBasedEstimator(), log),
		population.NewAnalyzer(log),
		pathmatrix.NewBuilder(log),
		log,
	)
}

func testRoute() models.Route {
	return models.Route{
		ID:   "route-7",
		Name: "Harbor Line",
		Stops: []models.BusStop{
			{
				ID:                  "stop-1",
				Name:                "Harbor Terminal",
				Coordinates:         models.Coordinates{Latitude: 40.7000, Longitude: -74.0100},
				Amenities:           []string{"shelter"},
				DailyPassengerCount: 2000,
				IsAccessible:        true,
			},
			{
				ID:                  "stop-2",
				Name:                "Pier Market",
				Coordinates:         models.Coordinates{Latitude: 40.7080, Longitude: -74.0040},
				DailyPassengerCount: 900,
				IsAccessible:        false,
			},
			{
				ID:                  "stop-3",
				Name:                "Warehouse Row",
				Coordinates:         models.Coordinates{Latitude: 40.7150, Longitude: -74.0120},
				Amenities:           []string{"seating"},
				DailyPassengerCount: 1400,
				IsAccessible:        true,
			},
		},
		OperatorID:          "op-9",
		IsActive:            true,
		OptimizationScore:   40,
		EstimatedTravelTime: 45,
	}
}

func TestOptimizeProducesImprovedRoute(t *testing.T) {
	result, err := newTestEngine().Optimize(testRoute(), nil)
	require.NoError(t, err)

	assert.Equal(t, "route-7", result.OriginalRouteID)
	assert.Equal(t, "Harbor Line (Optimized)", result.OptimizedRoute.Name)
	assert.True(t, result.OptimizedRoute.IsActive)
	assert.GreaterOrEqual(t, result.OptimizedRoute.OptimizationScore, 45.0) // original + 5
	assert.LessOrEqual(t, result.OptimizedRoute.OptimizationScore, 100.0)
	assert.GreaterOrEqual(t, result.OptimizedRoute.EstimatedTravelTime, minTravelTimeMinutes)
}

func TestOptimizeKeepsMinimumStops(t *testing.T) {
	result, err := newTestEngine().Optimize(testRoute(), nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(result.OptimizedRoute.Stops), 2)
}

// Every stop of an optimized route is accessible and carries the standard
// amenity set.
func TestOptimizeNormalizesAccessibility(t *testing.T) {
	result, err := newTestEngine().Optimize(testRoute(), nil)
	require.NoError(t, err)

	for _, stop := range result.OptimizedRoute.Stops {
		assert.True(t, stop.IsAccessible, stop.Name)
		for _, amenity := range standardAmenities {
			assert.True(t, stop.HasAmenity(amenity), "%s missing %s", stop.Name, amenity)
		}
	}
}

func TestOptimizeRejectsInvalidRoute(t *testing.T) {
	route := testRoute()
	route.Stops = route.Stops[:1]

	_, err := newTestEngine().Optimize(route, nil)
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestOptimizeSynthesizesPopulationData(t *testing.T) {
	result, err := newTestEngine().Optimize(testRoute(), nil)
	require.NoError(t, err)

	data := result.PopulationData
	assert.Equal(t, "Route Harbor Line Area", data.Region)
	assert.Equal(t, "Estimated from route data", data.DataSource)
	require.Len(t, data.DensityPoints, 3)
	assert.Equal(t, 20000, data.DensityPoints[0].Population) // passengers x 10
	assert.True(t, data.Bounds.Valid())
}

func TestOptimizeUsesSuppliedPopulationData(t *testing.T) {
	data := models.PopulationDensityData{
		Region: "Harbor District",
		Bounds: models.GeoBounds{North: 40.75, South: 40.65, East: -73.95, West: -74.05},
		DensityPoints: []models.DensityPoint{
			{Coordinates: models.Coordinates{Latitude: 40.7050, Longitude: -74.0070}, Population: 9000},
		},
		DataSource:  "census",
		CollectedAt: time.Now().UTC(),
	}

	result, err := newTestEngine().Optimize(testRoute(), &data)
	require.NoError(t, err)
	assert.Equal(t, "Harbor District", result.PopulationData.Region)
}

func TestOptimizeFillsCoverageGaps(t *testing.T) {
	// a heavy uncovered point far from every stop becomes a new stop
	data := models.PopulationDensityData{
		Region: "Harbor District",
		Bounds: models.GeoBounds{North: 40.90, South: 40.60, East: -73.80, West: -74.10},
		DensityPoints: []models.DensityPoint{
			{Coordinates: models.Coordinates{Latitude: 40.7050, Longitude: -74.0070}, Population: 4000},
			{Coordinates: models.Coordinates{Latitude: 40.8500, Longitude: -73.8500}, Population: 30000},
		},
		DataSource:  "census",
		CollectedAt: time.Now().UTC(),
	}

	result, err := newTestEngine().Optimize(testRoute(), &data)
	require.NoError(t, err)

	// population analysis places candidates at the points themselves, so
	// gaps only appear when candidate stops cannot reach them; either way
	// the route never shrinks
	assert.GreaterOrEqual(t, len(result.OptimizedRoute.Stops), 3)
	for _, stop := range result.OptimizedRoute.Stops {
		if stop.ID == "" {
			assert.True(t, stop.IsAccessible)
			assert.LessOrEqual(t, stop.DailyPassengerCount, gapStopPassengerCap)
		}
	}
}

func TestOptimizeDeterministic(t *testing.T) {
	e := newTestEngine()
	route := testRoute()

	first, err := e.Optimize(route, nil)
	require.NoError(t, err)
	second, err := e.Optimize(route, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Metrics, second.Metrics)
	assert.Equal(t, first.OptimizedRoute.Stops, second.OptimizedRoute.Stops)
	assert.Equal(t, first.OptimizedRoute.OptimizationScore, second.OptimizedRoute.OptimizationScore)
}

func TestMetricsNonNegativeAndCapped(t *testing.T) {
	result, err := newTestEngine().Optimize(testRoute(), nil)
	require.NoError(t, err)

	m := result.Metrics
	assert.GreaterOrEqual(t, m.TimeImprovement, 0.0)
	assert.GreaterOrEqual(t, m.DistanceReduction, 0.0)
	assert.GreaterOrEqual(t, m.PassengerCoverageIncrease, 0.0)
	assert.GreaterOrEqual(t, m.CostSavings, 0.0)
	assert.LessOrEqual(t, m.OverallScore(), 100.0)
}

func TestBatchOptimizeSkipsFailures(t *testing.T) {
	good := testRoute()
	bad := testRoute()
	bad.ID = "route-bad"
	bad.Stops = bad.Stops[:1]

	results := newTestEngine().BatchOptimize([]models.Route{good, bad}, nil)
	require.Len(t, results, 1)
	assert.Equal(t, "route-7", results[0].OriginalRouteID)
}

func TestSummarize(t *testing.T) {
	e := newTestEngine()
	first, err := e.Optimize(testRoute(), nil)
	require.NoError(t, err)

	second := first
	second.OriginalRouteID = "route-8"
	second.Metrics.TimeImprovement = 40
	second.Metrics.PassengerCoverageIncrease = 50

	summary, err := Summarize([]models.OptimizationResult{first, second})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalRoutesOptimized)
	assert.Equal(t, "route-8", summary.BestOptimization.RouteID)
	assert.Equal(t, "route-7", summary.WorstOptimization.RouteID)
	assert.InDelta(t,
		(first.Metrics.TimeImprovement+second.Metrics.TimeImprovement)/2,
		summary.AverageMetrics["time_improvement_percent"], 1e-9)
	assert.GreaterOrEqual(t, summary.SignificantImprovements, 1)
}

func TestSummarizeEmpty(t *testing.T) {
	_, err := Summarize(nil)
	assert.Error(t, err)
}
