package population

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citycircuit/transit-backend-go/internal/models"
	"github.com/citycircuit/transit-backend-go/pkg/logger"
)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(logger.Nop())
}

func testBounds() models.GeoBounds {
	return models.GeoBounds{North: 41.0, South: 40.0, East: -73.5, West: -74.5}
}

func demographics(income float64) models.DemographicData {
	return models.DemographicData{
		AgeGroups:          map[string]float64{"0-24": 25, "25-64": 55, "65+": 20},
		EconomicIndicators: map[string]float64{"income": income},
	}
}

func testData() models.PopulationDensityData {
	return models.PopulationDensityData{
		Region: "Metro North",
		Bounds: testBounds(),
		DensityPoints: []models.DensityPoint{
			{Coordinates: models.Coordinates{Latitude: 40.50, Longitude: -74.00}, Population: 12000, DemographicData: demographics(28000)},
			{Coordinates: models.Coordinates{Latitude: 40.52, Longitude: -74.02}, Population: 6000, DemographicData: demographics(45000)},
			{Coordinates: models.Coordinates{Latitude: 40.60, Longitude: -73.90}, Population: 3000, DemographicData: demographics(52000)},
			{Coordinates: models.Coordinates{Latitude: 40.70, Longitude: -73.80}, Population: 900, DemographicData: demographics(60000)},
			{Coordinates: models.Coordinates{Latitude: 40.80, Longitude: -73.70}, Population: 300, DemographicData: demographics(90000)},
		},
		DataSource:  "census",
		CollectedAt: time.Now().UTC(),
	}
}

func TestAnalyzeBasicMetrics(t *testing.T) {
	result, err := newTestAnalyzer().Analyze(testData())
	require.NoError(t, err)

	assert.Equal(t, "Metro North", result.Region)
	assert.Equal(t, 22200, result.TotalPopulation)
	assert.Greater(t, result.PopulationDensity, 0.0)
}

func TestAnalyzeRejectsInvalidBounds(t *testing.T) {
	data := testData()
	data.Bounds = models.GeoBounds{North: 40.0, South: 41.0, East: -73.5, West: -74.5}

	_, err := newTestAnalyzer().Analyze(data)
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestHighDensityAreasTopShare(t *testing.T) {
	result, err := newTestAnalyzer().Analyze(testData())
	require.NoError(t, err)

	// 5 points, top 20% means the single most populated point
	require.Len(t, result.HighDensityAreas, 1)
	assert.Equal(t, 12000, result.HighDensityAreas[0].Population)
	assert.Greater(t, result.HighDensityAreas[0].PriorityScore, 0.0)
	assert.LessOrEqual(t, result.HighDensityAreas[0].PriorityScore, 100.0)
}

func TestHighDensityAreasSortedByPriority(t *testing.T) {
	data := testData()
	// duplicate the dataset so several points pass the threshold
	data.DensityPoints = append(data.DensityPoints,
		models.DensityPoint{Coordinates: models.Coordinates{Latitude: 40.55, Longitude: -73.95}, Population: 11000, DemographicData: demographics(30000)},
		models.DensityPoint{Coordinates: models.Coordinates{Latitude: 40.58, Longitude: -73.92}, Population: 10000, DemographicData: demographics(30000)},
	)

	result, err := newTestAnalyzer().Analyze(data)
	require.NoError(t, err)
	require.NotEmpty(t, result.HighDensityAreas)
	for i := 1; i < len(result.HighDensityAreas); i++ {
		assert.GreaterOrEqual(t,
			result.HighDensityAreas[i-1].PriorityScore,
			result.HighDensityAreas[i].PriorityScore)
	}
}

func TestDemographicInsights(t *testing.T) {
	result, err := newTestAnalyzer().Analyze(testData())
	require.NoError(t, err)

	insights := result.DemographicInsights
	assert.Equal(t, "25-64", insights.DominantAgeGroup)
	assert.Equal(t, 5, insights.TotalDataPoints)
	assert.InDelta(t, 55.0, insights.AverageAgeDistribution["25-64"], 1e-9)
	assert.InDelta(t, 55000.0, insights.AverageEconomicIndicators["income"], 1e-9)
	assert.Equal(t, "moderate", insights.TransportDependency)
	assert.Greater(t, insights.DemographicDiversity, 0.0)
	assert.LessOrEqual(t, insights.DemographicDiversity, 1.0)
}

func TestTransportDependencyThresholds(t *testing.T) {
	a := newTestAnalyzer()

	low := testData()
	for i := range low.DensityPoints {
		low.DensityPoints[i].DemographicData = demographics(95000)
	}
	result, err := a.Analyze(low)
	require.NoError(t, err)
	assert.Equal(t, "low", result.DemographicInsights.TransportDependency)

	high := testData()
	for i := range high.DensityPoints {
		high.DensityPoints[i].DemographicData = demographics(22000)
	}
	result, err = a.Analyze(high)
	require.NoError(t, err)
	assert.Equal(t, "high", result.DemographicInsights.TransportDependency)
}

func TestOptimalStopsFewPoints(t *testing.T) {
	data := testData()
	// 5 points, all below the target, so every positive point is a candidate
	locations := newTestAnalyzer().OptimalStopLocations(data, defaultMaxStops)
	assert.Len(t, locations, 5)
}

func TestOptimalStopsGreedySpacing(t *testing.T) {
	data := testData()
	// grow beyond the target so the greedy path runs
	base := data.DensityPoints
	for i := 0; i < 5; i++ {
		for _, p := range base {
			shifted := p
			shifted.Coordinates.Latitude += float64(i+1) * 0.05
			data.DensityPoints = append(data.DensityPoints, shifted)
		}
	}
	require.Greater(t, len(data.DensityPoints), defaultMaxStops)

	locations := newTestAnalyzer().OptimalStopLocations(data, defaultMaxStops)
	require.NotEmpty(t, locations)
	assert.LessOrEqual(t, len(locations), defaultMaxStops)
}

func TestOptimalStopsDeterministic(t *testing.T) {
	data := testData()
	a := newTestAnalyzer()

	first := a.OptimalStopLocations(data, 3)
	second := a.OptimalStopLocations(data, 3)
	assert.Equal(t, first, second)
}

// A single high-population point with no candidate stop nearby is exactly
// one high severity coverage gap.
func TestSingleUncoveredPointIsHighSeverityGap(t *testing.T) {
	data := models.PopulationDensityData{
		Region: "Edge District",
		Bounds: testBounds(),
		DensityPoints: []models.DensityPoint{
			{Coordinates: models.Coordinates{Latitude: 40.5, Longitude: -74.0}, Population: 10000, DemographicData: demographics(30000)},
		},
		DataSource:  "census",
		CollectedAt: time.Now().UTC(),
	}
	farStop := []models.Coordinates{{Latitude: 40.9, Longitude: -73.6}}

	gaps := CoverageGaps(data, farStop)
	require.Len(t, gaps, 1)
	assert.Equal(t, models.SeverityHigh, gaps[0].Severity)
	assert.Equal(t, 10000, gaps[0].Population)
	assert.Greater(t, gaps[0].DistanceToNearestStop, coverageRadiusKm)
}

// Placing a candidate stop at an uncovered point removes its gap.
func TestGapCoverageMonotonicity(t *testing.T) {
	data := testData()
	farStops := []models.Coordinates{{Latitude: 40.95, Longitude: -73.55}}

	before := CoverageGaps(data, farStops)
	require.NotEmpty(t, before)
	target := before[0]

	after := CoverageGaps(data, append(farStops, target.Coordinates))
	for _, gap := range after {
		assert.NotEqual(t, target.Coordinates, gap.Coordinates)
	}
	assert.Less(t, len(after), len(before))
}

func TestCoverageGapsSortedByPopulation(t *testing.T) {
	data := testData()
	gaps := CoverageGaps(data, []models.Coordinates{{Latitude: 40.95, Longitude: -73.55}})
	for i := 1; i < len(gaps); i++ {
		assert.GreaterOrEqual(t, gaps[i-1].Population, gaps[i].Population)
	}
}

func TestRouteRecommendations(t *testing.T) {
	a := newTestAnalyzer()
	result, err := a.Analyze(testData())
	require.NoError(t, err)

	// force multiple high-density areas a few km apart
	result.HighDensityAreas = []models.HighDensityArea{
		{Coordinates: models.Coordinates{Latitude: 40.50, Longitude: -74.00}, Population: 12000, PriorityScore: 90},
		{Coordinates: models.Coordinates{Latitude: 40.55, Longitude: -74.00}, Population: 8000, PriorityScore: 80},
	}
	result.CoverageGaps = []models.CoverageGap{
		{Coordinates: models.Coordinates{Latitude: 40.70, Longitude: -73.80}, Population: 3000, Severity: models.SeverityHigh},
	}

	recommendations := a.RouteRecommendations(result)
	require.NotEmpty(t, recommendations)
	assert.LessOrEqual(t, len(recommendations), 10)

	var hasRoute, hasStop bool
	for _, r := range recommendations {
		switch r.Type {
		case "new_route":
			hasRoute = true
			require.NotNil(t, r.Origin)
			require.NotNil(t, r.Destination)
			assert.GreaterOrEqual(t, r.DistanceKm, 2.0)
			assert.LessOrEqual(t, r.DistanceKm, 15.0)
			assert.Equal(t, 20000, r.CombinedPopulation)
		case "new_stop":
			hasStop = true
			require.NotNil(t, r.Location)
			assert.Equal(t, 3000, r.PopulationServed)
		}
	}
	assert.True(t, hasRoute)
	assert.True(t, hasStop)

	// high priority route pair outranks the smaller gap at equal priority
	assert.Equal(t, "new_route", recommendations[0].Type)
}
