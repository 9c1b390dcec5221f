package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citycircuit/transit-backend-go/internal/models"
	"github.com/citycircuit/transit-backend-go/pkg/logger"
)

func resultWithScore(routeID string, overall float64) models.OptimizationResult {
	// OverallScore = time*0.3 + distance*0.2 + coverage*0.3 + cost*0.2,
	// so equal component values yield that value as the overall score
	return models.OptimizationResult{
		OriginalRouteID: routeID,
		OptimizedRoute: models.Route{
			ID:   routeID + "-opt",
			Name: "Route " + routeID,
			Stops: []models.BusStop{
				{ID: "a", Name: "A", Coordinates: models.Coordinates{Latitude: 40.70, Longitude: -74.00}, IsAccessible: true, Amenities: []string{"wheelchair_accessible"}, DailyPassengerCount: 1000},
				{ID: "b", Name: "B", Coordinates: models.Coordinates{Latitude: 40.72, Longitude: -74.01}, IsAccessible: true, DailyPassengerCount: 800},
			},
			IsActive:            true,
			EstimatedTravelTime: 30,
		},
		Metrics: models.OptimizationMetrics{
			TimeImprovement:           overall,
			DistanceReduction:         overall,
			PassengerCoverageIncrease: overall,
			CostSavings:               overall,
		},
	}
}

func TestRankByOverallScore(t *testing.T) {
	e := NewEngine(logger.Nop())
	results := []models.OptimizationResult{
		resultWithScore("r-40", 40),
		resultWithScore("r-80", 80),
		resultWithScore("r-60", 60),
	}

	ranked := e.Rank(results, CriteriaOverallScore)
	require.Len(t, ranked, 3)
	assert.Equal(t, "r-80", ranked[0].OriginalRouteID)
	assert.Equal(t, "r-60", ranked[1].OriginalRouteID)
	assert.Equal(t, "r-40", ranked[2].OriginalRouteID)
}

func TestRankInputOrderIndependent(t *testing.T) {
	e := NewEngine(logger.Nop())
	a := resultWithScore("r-a", 55)
	b := resultWithScore("r-b", 72)
	c := resultWithScore("r-c", 72) // ties with b, id breaks the tie
	d := resultWithScore("r-d", 13)

	orderings := [][]models.OptimizationResult{
		{a, b, c, d},
		{d, c, b, a},
		{c, a, d, b},
	}

	var want []string
	for i, input := range orderings {
		ranked := e.Rank(input, CriteriaOverallScore)
		got := make([]string, len(ranked))
		for j, r := range ranked {
			got[j] = r.OriginalRouteID
		}
		if i == 0 {
			want = got
			assert.Equal(t, []string{"r-b", "r-c", "r-a", "r-d"}, got)
		} else {
			assert.Equal(t, want, got)
		}
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	e := NewEngine(logger.Nop())
	results := []models.OptimizationResult{
		resultWithScore("r-low", 10),
		resultWithScore("r-high", 90),
	}

	e.Rank(results, CriteriaOverallScore)
	assert.Equal(t, "r-low", results[0].OriginalRouteID)
}

func TestRankByCriteria(t *testing.T) {
	e := NewEngine(logger.Nop())

	slow := resultWithScore("r-slow", 20)
	slow.Metrics.TimeImprovement = 5
	fast := resultWithScore("r-fast", 10)
	fast.Metrics.TimeImprovement = 45

	ranked := e.Rank([]models.OptimizationResult{slow, fast}, CriteriaTimeEfficiency)
	assert.Equal(t, "r-fast", ranked[0].OriginalRouteID)
}

func TestAccessibilityScore(t *testing.T) {
	route := models.Route{
		Stops: []models.BusStop{
			{IsAccessible: true, Amenities: []string{"wheelchair_accessible", "tactile_paving"}},
			{IsAccessible: true, Amenities: []string{"audio_announcements"}},
		},
	}

	// full accessibility ratio (70) plus 1.5 average amenities (15)
	assert.InDelta(t, 85.0, accessibilityScore(route), 1e-9)

	empty := models.Route{}
	assert.Zero(t, accessibilityScore(empty))
}

func TestWeightedScoreRenormalizes(t *testing.T) {
	e := NewEngine(logger.Nop())
	result := resultWithScore("r-1", 50)

	// weights summing to 2 must behave like the same weights summing to 1
	doubled := map[string]float64{"time_improvement": 1.0, "cost_savings": 1.0}
	halved := map[string]float64{"time_improvement": 0.5, "cost_savings": 0.5}
	assert.InDelta(t, e.WeightedScore(result, halved), e.WeightedScore(result, doubled), 1e-9)
}

func TestWeightedScoreDefaultTable(t *testing.T) {
	e := NewEngine(logger.Nop())
	result := resultWithScore("r-1", 60)

	score := e.WeightedScore(result, nil)
	assert.Greater(t, score, 0.0)
	assert.LessOrEqual(t, score, 100.0)
}

func TestRankWeightedStable(t *testing.T) {
	e := NewEngine(logger.Nop())
	a := resultWithScore("r-a", 30)
	b := resultWithScore("r-b", 30)

	first := e.RankWeighted([]models.OptimizationResult{b, a}, nil)
	second := e.RankWeighted([]models.OptimizationResult{a, b}, nil)
	assert.Equal(t, first[0].OriginalRouteID, second[0].OriginalRouteID)
	assert.Equal(t, "r-a", first[0].OriginalRouteID)
}

func TestGenerateReport(t *testing.T) {
	e := NewEngine(logger.Nop())
	results := []models.OptimizationResult{
		resultWithScore("r-1", 80),
		resultWithScore("r-2", 45),
		resultWithScore("r-3", 20),
	}

	report, err := e.GenerateReport(results, CriteriaOverallScore)
	require.NoError(t, err)

	assert.Equal(t, "overall_score", report.RankingCriteria)
	assert.Equal(t, 3, report.TotalRoutes)
	assert.InDelta(t, 80.0, report.Statistics.BestScore, 1e-9)
	assert.InDelta(t, 20.0, report.Statistics.WorstScore, 1e-9)
	assert.InDelta(t, 145.0/3, report.Statistics.AverageScore, 1e-9)
	assert.InDelta(t, 45.0, report.Statistics.MedianScore, 1e-9)

	require.Len(t, report.TopRoutes, 3)
	assert.Equal(t, 1, report.TopRoutes[0].Rank)
	assert.Equal(t, "r-1", report.TopRoutes[0].RouteID)

	assert.NotEmpty(t, report.Insights)
}

func TestGenerateReportEmpty(t *testing.T) {
	e := NewEngine(logger.Nop())
	_, err := e.GenerateReport(nil, CriteriaOverallScore)
	assert.Error(t, err)
}

func TestParseCriteria(t *testing.T) {
	assert.Equal(t, CriteriaAccessibility, ParseCriteria("accessibility"))
	assert.Equal(t, CriteriaOverallScore, ParseCriteria("bogus"))
}

func originalAndOptimized() (models.Route, models.Route) {
	original := models.Route{
		ID:   "route-1",
		Name: "Cross Town",
		Stops: []models.BusStop{
			{ID: "a", Name: "A", Coordinates: models.Coordinates{Latitude: 40.70, Longitude: -74.00}, DailyPassengerCount: 700},
			{ID: "b", Name: "B", Coordinates: models.Coordinates{Latitude: 40.78, Longitude: -74.06}, DailyPassengerCount: 900, IsAccessible: true},
			{ID: "c", Name: "C", Coordinates: models.Coordinates{Latitude: 40.74, Longitude: -74.03}, DailyPassengerCount: 500},
		},
		OperatorID:          "op-1",
		IsActive:            true,
		OptimizationScore:   30,
		EstimatedTravelTime: 60,
	}

	optimized := original
	optimized.ID = "route-1-opt"
	optimized.Name = "Cross Town (Optimized)"
	// visiting C between A and B shortens the path
	optimized.Stops = []models.BusStop{original.Stops[0], original.Stops[2], original.Stops[1]}
	for i := range optimized.Stops {
		optimized.Stops[i].IsAccessible = true
		optimized.Stops[i].Amenities = []string{"shelter", "seating", "wheelchair_accessible"}
	}
	optimized.EstimatedTravelTime = 40
	optimized.OptimizationScore = 60
	return original, optimized
}

func TestMetricsCalculator(t *testing.T) {
	c := NewMetricsCalculator(logger.Nop())
	original, optimized := originalAndOptimized()

	metrics := c.Calculate(original, optimized, nil)

	// 20 of 60 minutes saved is a 33% improvement, boosted 10% over the
	// 20% threshold
	assert.InDelta(t, 100.0/3*1.1, metrics.TimeImprovement, 1e-9)
	assert.Greater(t, metrics.DistanceReduction, 0.0)
	assert.LessOrEqual(t, metrics.DistanceReduction, 40.0)
	assert.GreaterOrEqual(t, metrics.CostSavings, 0.0)
	assert.LessOrEqual(t, metrics.CostSavings, 100.0)
	assert.LessOrEqual(t, metrics.OverallScore(), 100.0)
}

func TestMetricsCaps(t *testing.T) {
	c := NewMetricsCalculator(logger.Nop())
	original, optimized := originalAndOptimized()
	original.EstimatedTravelTime = 600 // force a huge time delta

	metrics := c.Calculate(original, optimized, nil)
	assert.LessOrEqual(t, metrics.TimeImprovement, 50.0)
}

func TestServiceQualityImprovement(t *testing.T) {
	c := NewMetricsCalculator(logger.Nop())
	original, optimized := originalAndOptimized()

	improvement := c.ServiceQualityImprovement(original, optimized)
	assert.Greater(t, improvement, 0.0)

	// reversing the pair floors at zero
	assert.Zero(t, c.ServiceQualityImprovement(optimized, original))
}

func TestGeneratorSynthesizesPopulationData(t *testing.T) {
	log := logger.Nop()
	g := NewGenerator(NewMetricsCalculator(log), NewEngine(log), log)
	original, optimized := originalAndOptimized()

	result := g.GenerateResult(original, optimized, nil)
	assert.Equal(t, "route-1", result.OriginalRouteID)
	assert.Equal(t, "Route Cross Town Area", result.PopulationData.Region)
	assert.Len(t, result.PopulationData.DensityPoints, 3)
}

func TestGenerateAndRank(t *testing.T) {
	log := logger.Nop()
	g := NewGenerator(NewMetricsCalculator(log), NewEngine(log), log)
	original, optimized := originalAndOptimized()

	worse := optimized
	worse.EstimatedTravelTime = original.EstimatedTravelTime // no time gain
	worseOriginal := original
	worseOriginal.ID = "route-2"

	ranked := g.GenerateAndRank([]RoutePair{
		{Original: worseOriginal, Optimized: worse},
		{Original: original, Optimized: optimized},
	}, nil, CriteriaTimeEfficiency)

	require.Len(t, ranked, 2)
	assert.Equal(t, "route-1", ranked[0].OriginalRouteID)
}

func TestRankingTransitive(t *testing.T) {
	e := NewEngine(logger.Nop())
	results := []models.OptimizationResult{
		resultWithScore("r-1", 90),
		resultWithScore("r-2", 50),
		resultWithScore("r-3", 10),
	}

	ranked := e.Rank(results, CriteriaOverallScore)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t,
			e.Score(ranked[i-1], CriteriaOverallScore),
			e.Score(ranked[i], CriteriaOverallScore))
	}
}
