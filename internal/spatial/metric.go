package spatial

import "github.com/citycircuit/transit-backend-go/internal/models"

// Metric selects the distance computation used between stops.
// The enumeration is closed: StopDistance dispatches explicitly and
// unknown values fall back to the canonical haversine metric.
type Metric string

const (
	MetricHaversine Metric = "haversine"
	MetricManhattan Metric = "manhattan"
	MetricEuclidean Metric = "euclidean"
	MetricWeighted  Metric = "weighted"
)

// ParseMetric maps a string to a Metric, defaulting to haversine
func ParseMetric(s string) Metric {
	switch Metric(s) {
	case MetricManhattan:
		return MetricManhattan
	case MetricEuclidean:
		return MetricEuclidean
	case MetricWeighted:
		return MetricWeighted
	default:
		return MetricHaversine
	}
}

// Symmetric reports whether the metric yields distance(i,j) == distance(j,i)
// for every pair. All four metrics here are symmetric in distance; time
// matrices built on top of them may still be asymmetric.
func (m Metric) Symmetric() bool {
	return true
}

// StopDistance calculates the distance in kilometers between two stops
// under the chosen metric
func StopDistance(a, b models.BusStop, m Metric) float64 {
	switch m {
	case MetricManhattan:
		return Manhattan(a.Coordinates, b.Coordinates)
	case MetricEuclidean:
		return Euclidean(a.Coordinates, b.Coordinates)
	case MetricWeighted:
		return Weighted(a, b)
	default:
		return Haversine(a.Coordinates, b.Coordinates)
	}
}

// Weighted calculates the haversine distance scaled by stop attributes:
// accessible pairs ×0.95, pairs with an inaccessible stop ×1.10;
// high-volume (>5000 avg) pairs ×0.90, low-volume (<1000 avg) pairs ×1.15;
// well-amenitized pairs (>4 combined amenities) ×0.95.
func Weighted(a, b models.BusStop) float64 {
	base := Haversine(a.Coordinates, b.Coordinates)
	factor := 1.0

	if a.IsAccessible && b.IsAccessible {
		factor *= 0.95
	} else if !a.IsAccessible || !b.IsAccessible {
		factor *= 1.10
	}

	avgPassengers := float64(a.DailyPassengerCount+b.DailyPassengerCount) / 2
	if avgPassengers > 5000 {
		factor *= 0.90
	} else if avgPassengers < 1000 {
		factor *= 1.15
	}

	if len(a.Amenities)+len(b.Amenities) > 4 {
		factor *= 0.95
	}

	return base * factor
}
