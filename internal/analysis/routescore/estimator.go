package routescore

import (
	"github.com/citycircuit/transit-backend-go/internal/models"
	"github.com/citycircuit/transit-backend-go/internal/spatial"
	"github.com/citycircuit/transit-backend-go/internal/stats"
)

// featureCount is the fixed width of the efficiency feature vector.
const featureCount = 10

// EfficiencyEstimator scores route efficiency in [0,100] from a fixed-width
// feature vector. The rule-based implementation is the only variant today;
// a learned model can replace it behind the same contract.
type EfficiencyEstimator interface {
	Estimate(features []float64) (float64, error)
}

// RuleBasedEstimator applies a fixed bonus/penalty table over the route
// features.
type RuleBasedEstimator struct{}

func NewRuleBasedEstimator() *RuleBasedEstimator {
	return &RuleBasedEstimator{}
}

func (e *RuleBasedEstimator) Estimate(features []float64) (float64, error) {
	score := 50.0

	// route length, optimal around 8-12 stops
	stopCount := features[0]
	switch {
	case stopCount >= 8 && stopCount <= 12:
		score += 15
	case stopCount >= 5 && stopCount <= 15:
		score += 10
	default:
		score -= 10
	}

	// average spacing between consecutive stops
	avgDistance := features[1]
	if avgDistance >= 0.5 && avgDistance <= 2.0 {
		score += 10
	} else if avgDistance > 5.0 {
		score -= 15
	}

	// time per stop
	timePerStop := features[2]
	if timePerStop <= 5 {
		score += 10
	} else if timePerStop > 10 {
		score -= 10
	}

	// up to 15 points for full accessibility
	score += features[3] * 15

	return stats.Clamp(score, 0, 100), nil
}

// extractFeatures builds the fixed 10-element feature vector: stop count,
// average inter-stop distance, time per stop, accessibility ratio,
// normalized average passengers, active flag, normalized optimization
// score, latitude spread, longitude spread, zero padding.
func extractFeatures(route models.Route) []float64 {
	features := make([]float64, 0, featureCount)

	n := len(route.Stops)
	features = append(features, float64(n))

	avgDistance := 0.0
	if n > 1 {
		total := 0.0
		for i := 0; i < n-1; i++ {
			total += spatial.Haversine(route.Stops[i].Coordinates, route.Stops[i+1].Coordinates)
		}
		avgDistance = total / float64(n-1)
	}
	features = append(features, avgDistance)

	timePerStop := 0.0
	if n > 0 {
		timePerStop = float64(route.EstimatedTravelTime) / float64(n)
	}
	features = append(features, timePerStop)

	features = append(features, route.AccessibleRatio())

	avgPassengers := 0.0
	if n > 0 {
		avgPassengers = float64(route.TotalPassengers()) / float64(n)
	}
	features = append(features, avgPassengers/1000)

	if route.IsActive {
		features = append(features, 1.0)
	} else {
		features = append(features, 0.0)
	}

	features = append(features, route.OptimizationScore/100)

	latSpread, lonSpread := 0.0, 0.0
	if n > 1 {
		minLat, maxLat := route.Stops[0].Coordinates.Latitude, route.Stops[0].Coordinates.Latitude
		minLon, maxLon := route.Stops[0].Coordinates.Longitude, route.Stops[0].Coordinates.Longitude
		for _, stop := range route.Stops[1:] {
			if stop.Coordinates.Latitude < minLat {
				minLat = stop.Coordinates.Latitude
			}
			if stop.Coordinates.Latitude > maxLat {
				maxLat = stop.Coordinates.Latitude
			}
			if stop.Coordinates.Longitude < minLon {
				minLon = stop.Coordinates.Longitude
			}
			if stop.Coordinates.Longitude > maxLon {
				maxLon = stop.Coordinates.Longitude
			}
		}
		latSpread = maxLat - minLat
		lonSpread = maxLon - minLon
	}
	features = append(features, latSpread, lonSpread)

	for len(features) < featureCount {
		features = append(features, 0.0)
	}
	return features[:featureCount]
}
