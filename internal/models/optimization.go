package models

import "time"

// DefaultImprovementThreshold is the overall-score threshold above which an
// optimization counts as a significant improvement.
const DefaultImprovementThreshold = 5.0

// OptimizationMetrics quantifies the improvement between an original route
// and its optimized candidate. All fields are non-negative percentages.
type OptimizationMetrics struct {
	TimeImprovement           float64 `json:"time_improvement"`
	DistanceReduction         float64 `json:"distance_reduction"`
	PassengerCoverageIncrease float64 `json:"passenger_coverage_increase"`
	CostSavings               float64 `json:"cost_savings"`
}

// OverallScore combines the metrics with fixed weights:
// time 0.30, distance 0.20, coverage 0.30, cost 0.20. The cost term is
// capped at 100 before weighting; the result is capped at 100.
func (m OptimizationMetrics) OverallScore() float64 {
	cost := m.CostSavings
	if cost > 100 {
		cost = 100
	}
	score := m.TimeImprovement*0.3 +
		m.DistanceReduction*0.2 +
		m.PassengerCoverageIncrease*0.3 +
		cost*0.2
	if score > 100 {
		score = 100
	}
	return score
}

// OptimizationResult is the complete outcome of optimizing one route
type OptimizationResult struct {
	ID              string                `json:"id" db:"id"`
	OriginalRouteID string                `json:"original_route_id" db:"original_route_id"`
	OptimizedRoute  Route                 `json:"optimized_route"`
	Metrics         OptimizationMetrics   `json:"metrics"`
	PopulationData  PopulationDensityData `json:"population_data"`
	GeneratedAt     time.Time             `json:"generated_at" db:"generated_at"`
}

// IsImprovement reports whether the overall score meets the threshold
func (r OptimizationResult) IsImprovement(threshold float64) bool {
	return r.Metrics.OverallScore() >= threshold
}

// Summary returns a compact representation of the result for reports
func (r OptimizationResult) Summary() map[string]interface{} {
	return map[string]interface{}{
		"original_route_id":           r.OriginalRouteID,
		"optimized_route_name":        r.OptimizedRoute.Name,
		"overall_score":               r.Metrics.OverallScore(),
		"time_improvement":            r.Metrics.TimeImprovement,
		"distance_reduction":          r.Metrics.DistanceReduction,
		"passenger_coverage_increase": r.Metrics.PassengerCoverageIncrease,
		"cost_savings":                r.Metrics.CostSavings,
		"generated_at":                r.GeneratedAt.Format(time.RFC3339),
		"is_significant_improvement":  r.IsImprovement(DefaultImprovementThreshold),
	}
}
