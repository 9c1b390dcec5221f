package ranking

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/citycircuit/transit-backend-go/internal/models"
	"github.com/citycircuit/transit-backend-go/pkg/logger"
)

// Criteria selects which scalar score orders a ranking.
type Criteria string

const (
	CriteriaTimeEfficiency      Criteria = "time_efficiency"
	CriteriaCostEffectiveness   Criteria = "cost_effectiveness"
	CriteriaPassengerCoverage   Criteria = "passenger_coverage"
	CriteriaAccessibility       Criteria = "accessibility"
	CriteriaEnvironmentalImpact Criteria = "environmental_impact"
	CriteriaOverallScore        Criteria = "overall_score"
)

// ParseCriteria maps a string onto a known criteria value, defaulting to
// overall score.
func ParseCriteria(s string) Criteria {
	switch Criteria(s) {
	case CriteriaTimeEfficiency, CriteriaCostEffectiveness, CriteriaPassengerCoverage,
		CriteriaAccessibility, CriteriaEnvironmentalImpact, CriteriaOverallScore:
		return Criteria(s)
	default:
		return CriteriaOverallScore
	}
}

// accessibilityAmenities are the amenity tags that count toward the
// accessibility criterion.
var accessibilityAmenities = map[string]bool{
	"wheelchair_accessible": true,
	"tactile_paving":        true,
	"audio_announcements":   true,
}

// defaultWeights is the composite weight table used when the caller
// supplies none.
var defaultWeights = map[string]float64{
	"time_improvement":   0.25,
	"distance_reduction": 0.20,
	"passenger_coverage": 0.25,
	"cost_savings":       0.15,
	"accessibility":      0.10,
	"environmental":      0.05,
}

// Engine orders optimization results by a chosen criterion and produces
// ranking reports. Ranking is a total order: results sort by score
// descending with the original route id as ascending tie-break, so the
// output never depends on input order.
type Engine struct {
	log logger.Logger
}

func NewEngine(log logger.Logger) *Engine {
	return &Engine{log: log}
}

// Rank orders results best-first by the given criterion.
func (e *Engine) Rank(results []models.OptimizationResult, criteria Criteria) []models.OptimizationResult {
	e.log.Info("ranking optimization results", "count", len(results), "criteria", string(criteria))

	ranked := make([]models.OptimizationResult, len(results))
	copy(ranked, results)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].OriginalRouteID < ranked[j].OriginalRouteID
	})
	sort.SliceStable(ranked, func(i, j int) bool {
		return e.Score(ranked[i], criteria) > e.Score(ranked[j], criteria)
	})

	if len(ranked) > 0 {
		e.log.Info("ranking completed", "best_route", ranked[0].OptimizedRoute.Name)
	}
	return ranked
}

// Score computes the scalar ranking score of one result under a criterion.
func (e *Engine) Score(result models.OptimizationResult, criteria Criteria) float64 {
	switch criteria {
	case CriteriaTimeEfficiency:
		return result.Metrics.TimeImprovement
	case CriteriaCostEffectiveness:
		return result.Metrics.CostSavings
	case CriteriaPassengerCoverage:
		return result.Metrics.PassengerCoverageIncrease
	case CriteriaAccessibility:
		return accessibilityScore(result.OptimizedRoute)
	case CriteriaEnvironmentalImpact:
		return environmentalScore(result)
	default:
		return result.Metrics.OverallScore()
	}
}

// accessibilityScore weighs the accessible-stop ratio at 70% and adds up
// to 30 points for accessibility amenity density.
func accessibilityScore(route models.Route) float64 {
	if len(route.Stops) == 0 {
		return 0
	}

	amenityCount := 0
	for _, stop := range route.Stops {
		for _, amenity := range stop.Amenities {
			if accessibilityAmenities[amenity] {
				amenityCount++
			}
		}
	}
	avgAmenities := float64(amenityCount) / float64(len(route.Stops))

	score := route.AccessibleRatio()*70 + math.Min(avgAmenities, 3)*10
	return math.Min(score, 100)
}

// environmentalScore rewards distance reduction (60%), coverage gains (up
// to 20) and accessibility (10%).
func environmentalScore(result models.OptimizationResult) float64 {
	score := result.Metrics.DistanceReduction*0.6 +
		math.Min(result.Metrics.PassengerCoverageIncrease*0.3, 20) +
		accessibilityScore(result.OptimizedRoute)*0.1
	return math.Min(score, 100)
}

// WeightedScore computes a composite score from a caller-supplied weight
// map over time_improvement, distance_reduction, passenger_coverage,
// cost_savings, accessibility and environmental. Missing maps fall back to
// the default table; weights are renormalized to sum to 1 before use.
func (e *Engine) WeightedScore(result models.OptimizationResult, weights map[string]float64) float64 {
	if len(weights) == 0 {
		weights = defaultWeights
	}

	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return 0
	}

	score := 0.0
	if w, ok := weights["time_improvement"]; ok {
		score += result.Metrics.TimeImprovement * w / total
	}
	if w, ok := weights["distance_reduction"]; ok {
		score += result.Metrics.DistanceReduction * w / total
	}
	if w, ok := weights["passenger_coverage"]; ok {
		score += result.Metrics.PassengerCoverageIncrease * w / total
	}
	if w, ok := weights["cost_savings"]; ok {
		score += result.Metrics.CostSavings * w / total
	}
	if w, ok := weights["accessibility"]; ok {
		score += accessibilityScore(result.OptimizedRoute) * w / total
	}
	if w, ok := weights["environmental"]; ok {
		score += environmentalScore(result) * w / total
	}

	return math.Min(score, 100)
}

// RankWeighted orders results best-first by a weighted composite score,
// with the same route-id tie-break as Rank.
func (e *Engine) RankWeighted(results []models.OptimizationResult, weights map[string]float64) []models.OptimizationResult {
	ranked := make([]models.OptimizationResult, len(results))
	copy(ranked, results)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].OriginalRouteID < ranked[j].OriginalRouteID
	})
	sort.SliceStable(ranked, func(i, j int) bool {
		return e.WeightedScore(ranked[i], weights) > e.WeightedScore(ranked[j], weights)
	})
	return ranked
}

// Report summarizes a ranking run.
type Report struct {
	RankingCriteria string           `json:"ranking_criteria"`
	TotalRoutes     int              `json:"total_routes"`
	Statistics      ReportStatistics `json:"statistics"`
	TopRoutes       []RankedRoute    `json:"top_routes"`
	Insights        []string         `json:"insights"`
	GeneratedAt     time.Time        `json:"generated_at"`
}

// ReportStatistics holds the score distribution of a ranking.
type ReportStatistics struct {
	BestScore    float64 `json:"best_score"`
	WorstScore   float64 `json:"worst_score"`
	AverageScore float64 `json:"average_score"`
	MedianScore  float64 `json:"median_score"`
}

// RankedRoute is one annotated entry in a ranking report.
type RankedRoute struct {
	Rank      int                        `json:"rank"`
	RouteID   string                     `json:"route_id"`
	RouteName string                     `json:"route_name"`
	Score     float64                    `json:"score"`
	Metrics   models.OptimizationMetrics `json:"metrics"`
}

// GenerateReport ranks the results and derives summary statistics, the
// top ten entries and natural-language insights.
func (e *Engine) GenerateReport(results []models.OptimizationResult, criteria Criteria) (Report, error) {
	if len(results) == 0 {
		return Report{}, fmt.Errorf("generate ranking report: no optimization results provided")
	}

	ranked := e.Rank(results, criteria)
	scores := make([]float64, len(ranked))
	for i, r := range ranked {
		scores[i] = e.Score(r, criteria)
	}

	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Float64s(sorted)

	sum := 0.0
	for _, s := range scores {
		sum += s
	}

	top := ranked
	if len(top) > 10 {
		top = top[:10]
	}
	topRoutes := make([]RankedRoute, len(top))
	for i, r := range top {
		topRoutes[i] = RankedRoute{
			Rank:      i + 1,
			RouteID:   r.OriginalRouteID,
			RouteName: r.OptimizedRoute.Name,
			Score:     scores[i],
			Metrics:   r.Metrics,
		}
	}

	return Report{
		RankingCriteria: string(criteria),
		TotalRoutes:     len(ranked),
		Statistics: ReportStatistics{
			BestScore:    scores[0],
			WorstScore:   scores[len(scores)-1],
			AverageScore: sum / float64(len(scores)),
			MedianScore:  sorted[len(sorted)/2],
		},
		TopRoutes:   topRoutes,
		Insights:    e.insights(ranked, scores, criteria),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func (e *Engine) insights(ranked []models.OptimizationResult, scores []float64, criteria Criteria) []string {
	var insights []string
	if len(ranked) == 0 {
		return insights
	}

	high, medium, low := 0, 0, 0
	for _, s := range scores {
		switch {
		case s >= 70:
			high++
		case s >= 40:
			medium++
		default:
			low++
		}
	}
	insights = append(insights, fmt.Sprintf(
		"Performance distribution: %d high performers (>=70%%), %d medium performers (40-70%%), %d low performers (<40%%)",
		high, medium, low))

	insights = append(insights, fmt.Sprintf(
		"Best performing route: '%s' with %.1f%% score in %s",
		ranked[0].OptimizedRoute.Name, scores[0], string(criteria)))

	switch criteria {
	case CriteriaTimeEfficiency:
		avg := 0.0
		for _, r := range ranked {
			avg += r.Metrics.TimeImprovement
		}
		insights = append(insights, fmt.Sprintf(
			"Average time improvement across all routes: %.1f%%", avg/float64(len(ranked))))
	case CriteriaPassengerCoverage:
		avg := 0.0
		for _, r := range ranked {
			avg += r.Metrics.PassengerCoverageIncrease
		}
		insights = append(insights, fmt.Sprintf(
			"Average passenger coverage increase: %.1f%%", avg/float64(len(ranked))))
	case CriteriaCostEffectiveness:
		avg := 0.0
		for _, r := range ranked {
			avg += r.Metrics.CostSavings
		}
		insights = append(insights, fmt.Sprintf(
			"Average cost savings across all routes: %.1f%%", avg/float64(len(ranked))))
	}

	improved := 0
	for _, r := range ranked {
		if r.IsImprovement(10.0) {
			improved++
		}
	}
	insights = append(insights, fmt.Sprintf(
		"Routes showing significant improvement (>=10%%): %d (%.1f%% of total)",
		improved, float64(improved)/float64(len(ranked))*100))

	return insights
}
