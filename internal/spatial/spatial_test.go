package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/citycircuit/transit-backend-go/internal/models"
)

var (
	downtown = models.Coordinates{Latitude: 40.7128, Longitude: -74.0060}
	midtown  = models.Coordinates{Latitude: 40.7549, Longitude: -73.9840}
)

func TestHaversineKnownDistance(t *testing.T) {
	// downtown to midtown Manhattan is roughly 5 km
	d := Haversine(downtown, midtown)
	assert.InDelta(t, 5.0, d, 0.5)
}

func TestHaversineZeroForSamePoint(t *testing.T) {
	assert.Equal(t, 0.0, Haversine(downtown, downtown))
}

func TestDistancesSymmetric(t *testing.T) {
	assert.InDelta(t, Haversine(downtown, midtown), Haversine(midtown, downtown), 1e-12)
	assert.InDelta(t, Manhattan(downtown, midtown), Manhattan(midtown, downtown), 1e-12)
	assert.InDelta(t, Euclidean(downtown, midtown), Euclidean(midtown, downtown), 1e-12)
}

func TestManhattanDominatesEuclidean(t *testing.T) {
	assert.GreaterOrEqual(t, Manhattan(downtown, midtown), Euclidean(downtown, midtown))
}

func TestBoundsAreaKm2(t *testing.T) {
	b := models.GeoBounds{North: 1, South: 0, East: 1, West: 0}
	// one degree square at the equator is about 111 x 111 km
	assert.InDelta(t, 111.0*111.0, BoundsAreaKm2(b), 200)
}

func TestParseMetric(t *testing.T) {
	assert.Equal(t, MetricManhattan, ParseMetric("manhattan"))
	assert.Equal(t, MetricEuclidean, ParseMetric("euclidean"))
	assert.Equal(t, MetricWeighted, ParseMetric("weighted"))
	assert.Equal(t, MetricHaversine, ParseMetric("haversine"))
	assert.Equal(t, MetricHaversine, ParseMetric(""))
	assert.Equal(t, MetricHaversine, ParseMetric("geodesic"))
}

func TestStopDistanceDispatch(t *testing.T) {
	a := models.BusStop{ID: "a", Coordinates: downtown}
	b := models.BusStop{ID: "b", Coordinates: midtown}

	assert.Equal(t, Haversine(downtown, midtown), StopDistance(a, b, MetricHaversine))
	assert.Equal(t, Manhattan(downtown, midtown), StopDistance(a, b, MetricManhattan))
	assert.Equal(t, Euclidean(downtown, midtown), StopDistance(a, b, MetricEuclidean))
	assert.Equal(t, Weighted(a, b), StopDistance(a, b, MetricWeighted))
}

func TestWeightedFactors(t *testing.T) {
	base := Haversine(downtown, midtown)

	// both accessible, low volume: 0.95 * 1.15
	a := models.BusStop{Coordinates: downtown, IsAccessible: true}
	b := models.BusStop{Coordinates: midtown, IsAccessible: true}
	assert.InDelta(t, base*0.95*1.15, Weighted(a, b), 1e-9)

	// one inaccessible, high volume
	a.IsAccessible = false
	a.DailyPassengerCount = 8000
	b.DailyPassengerCount = 6000
	assert.InDelta(t, base*1.10*0.90, Weighted(a, b), 1e-9)

	// amenity-rich pair earns a further 0.95
	a.Amenities = []string{"shelter", "seating", "lighting"}
	b.Amenities = []string{"shelter", "seating"}
	assert.InDelta(t, base*1.10*0.90*0.95, Weighted(a, b), 1e-9)
}

func TestWeightedMidVolumeNeutral(t *testing.T) {
	a := models.BusStop{Coordinates: downtown, IsAccessible: true, DailyPassengerCount: 3000}
	b := models.BusStop{Coordinates: midtown, IsAccessible: true, DailyPassengerCount: 3000}
	assert.InDelta(t, Haversine(downtown, midtown)*0.95, Weighted(a, b), 1e-9)
}
