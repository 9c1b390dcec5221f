package pathmatrix

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citycircuit/transit-backend-go/internal/models"
	"github.com/citycircuit/transit-backend-go/internal/spatial"
	"github.com/citycircuit/transit-backend-go/pkg/logger"
)

func testStops() []models.BusStop {
	return []models.BusStop{
		{
			ID:          "stop-1",
			Name:        "Central Station",
			Coordinates: models.Coordinates{Latitude: 40.7128, Longitude: -74.0060},
			Amenities:   []string{"shelter", "seating", "lighting"},

			DailyPassengerCount: 6000,
			IsAccessible:        true,
		},
		{
			ID:          "stop-2",
			Name:        "Market Square",
			Coordinates: models.Coordinates{Latitude: 40.7228, Longitude: -74.0160},
			Amenities:   []string{"shelter"},

			DailyPassengerCount: 1500,
			IsAccessible:        true,
		},
		{
			ID:          "stop-3",
			Name:        "Riverside",
			Coordinates: models.Coordinates{Latitude: 40.7328, Longitude: -73.9960},
			Amenities:   nil,

			DailyPassengerCount: 400,
			IsAccessible:        false,
		},
		{
			ID:          "stop-4",
			Name:        "Hilltop",
			Coordinates: models.Coordinates{Latitude: 40.7028, Longitude: -73.9860},
			Amenities:   []string{"seating"},

			DailyPassengerCount: 2500,
			IsAccessible:        true,
		},
	}
}

func buildTestMatrix(t *testing.T, metric spatial.Metric) *Matrix {
	t.Helper()
	b := NewBuilder(logger.Nop())
	m, err := b.Build(testStops(), metric)
	require.NoError(t, err)
	return m
}

func TestBuildZeroDiagonal(t *testing.T) {
	m := buildTestMatrix(t, spatial.MetricHaversine)

	for i := range m.StopIDs {
		assert.Zero(t, m.Distances[i][i])
		assert.Zero(t, m.Times[i][i])
	}
}

func TestBuildHaversineSymmetry(t *testing.T) {
	m := buildTestMatrix(t, spatial.MetricHaversine)

	n := len(m.StopIDs)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			assert.InDelta(t, m.Distances[i][j], m.Distances[j][i], 1e-12)
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	a := buildTestMatrix(t, spatial.MetricWeighted)
	b := buildTestMatrix(t, spatial.MetricWeighted)

	assert.Equal(t, a.StopIDs, b.StopIDs)
	assert.Equal(t, a.Distances, b.Distances)
	assert.Equal(t, a.Times, b.Times)
}

func TestBuildSegmentCount(t *testing.T) {
	m := buildTestMatrix(t, spatial.MetricHaversine)

	// n*(n-1) directed segments for 4 stops
	assert.Len(t, m.Segments, 12)
	for _, seg := range m.Segments {
		assert.NotEqual(t, seg.OriginStopID, seg.DestinationStopID)
		assert.Greater(t, seg.DistanceKm, 0.0)
		assert.Greater(t, seg.EstimatedTimeMinutes, 0)
		assert.GreaterOrEqual(t, seg.TrafficFactor, 1.0)
	}
}

func TestBuildTooFewStops(t *testing.T) {
	b := NewBuilder(logger.Nop())

	_, err := b.Build(testStops()[:1], spatial.MetricHaversine)
	assert.True(t, errors.Is(err, models.ErrTooFewStops))

	_, err = b.Build(nil, spatial.MetricHaversine)
	assert.True(t, errors.Is(err, models.ErrTooFewStops))
}

func TestMatrixLookups(t *testing.T) {
	m := buildTestMatrix(t, spatial.MetricHaversine)

	d, err := m.Distance("stop-1", "stop-2")
	require.NoError(t, err)
	assert.Greater(t, d, 0.0)

	_, err = m.Distance("stop-1", "missing")
	assert.ErrorIs(t, err, ErrStopNotInMatrix)
}

func TestShortestPathDirect(t *testing.T) {
	m := buildTestMatrix(t, spatial.MetricHaversine)

	// every pair is directly connected, and haversine obeys the triangle
	// inequality, so the direct hop is optimal
	path, err := ShortestPath(m, "stop-1", "stop-3")
	require.NoError(t, err)
	assert.Equal(t, []string{"stop-1", "stop-3"}, path)
}

func TestShortestPathSameStop(t *testing.T) {
	m := buildTestMatrix(t, spatial.MetricHaversine)

	path, err := ShortestPath(m, "stop-2", "stop-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"stop-2"}, path)
}

func TestShortestPathUnknownStop(t *testing.T) {
	m := buildTestMatrix(t, spatial.MetricHaversine)

	_, err := ShortestPath(m, "stop-1", "nowhere")
	assert.ErrorIs(t, err, ErrStopNotInMatrix)
}

func TestShortestPathMultiHop(t *testing.T) {
	m := buildTestMatrix(t, spatial.MetricHaversine)

	// sever the direct edge so the route must go through an intermediate
	i, _ := m.Index("stop-1")
	j, _ := m.Index("stop-3")
	m.Distances[i][j] = 0
	m.Distances[j][i] = 0

	path, err := ShortestPath(m, "stop-1", "stop-3")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(path), 3)
	assert.Equal(t, "stop-1", path[0])
	assert.Equal(t, "stop-3", path[len(path)-1])
}

func TestShortestPathNoRoute(t *testing.T) {
	m := buildTestMatrix(t, spatial.MetricHaversine)

	// isolate stop-4 entirely
	j, _ := m.Index("stop-4")
	for i := range m.StopIDs {
		m.Distances[i][j] = 0
		m.Distances[j][i] = 0
	}

	_, err := ShortestPath(m, "stop-1", "stop-4")
	assert.ErrorIs(t, err, ErrNoPath)
}

func TestOrderStopsPassThrough(t *testing.T) {
	m := buildTestMatrix(t, spatial.MetricHaversine)

	ids := []string{"stop-1", "stop-2"}
	assert.Equal(t, ids, OrderStops(m, ids))
}

func TestOrderStopsKeepsStart(t *testing.T) {
	m := buildTestMatrix(t, spatial.MetricHaversine)

	ids := []string{"stop-2", "stop-4", "stop-1", "stop-3"}
	ordered := OrderStops(m, ids)
	require.Len(t, ordered, 4)
	assert.Equal(t, "stop-2", ordered[0])
	assert.ElementsMatch(t, ids, ordered)
}

func TestOrderStopsExactIsOptimal(t *testing.T) {
	m := buildTestMatrix(t, spatial.MetricHaversine)

	ids := []string{"stop-1", "stop-2", "stop-3", "stop-4"}
	ordered := OrderStops(m, ids)

	indexOf := func(id string) int {
		idx, ok := m.Index(id)
		require.True(t, ok)
		return idx
	}
	orderedIdx := make([]int, len(ordered))
	for i, id := range ordered {
		orderedIdx[i] = indexOf(id)
	}
	got := tourDistance(m, orderedIdx)

	// check against every permutation of the tail
	perms := [][]string{
		{"stop-1", "stop-2", "stop-3", "stop-4"},
		{"stop-1", "stop-2", "stop-4", "stop-3"},
		{"stop-1", "stop-3", "stop-2", "stop-4"},
		{"stop-1", "stop-3", "stop-4", "stop-2"},
		{"stop-1", "stop-4", "stop-2", "stop-3"},
		{"stop-1", "stop-4", "stop-3", "stop-2"},
	}
	for _, perm := range perms {
		idx := make([]int, len(perm))
		for i, id := range perm {
			idx[i] = indexOf(id)
		}
		assert.LessOrEqual(t, got, tourDistance(m, idx)+1e-12)
	}
}

func TestOrderStopsUnknownIDFallsBack(t *testing.T) {
	m := buildTestMatrix(t, spatial.MetricHaversine)

	ids := []string{"stop-3", "stop-1", "ghost"}
	assert.Equal(t, ids, OrderStops(m, ids))
}

func TestGreedyOrderVisitsAll(t *testing.T) {
	m := buildTestMatrix(t, spatial.MetricHaversine)

	indices := []int{0, 1, 2, 3}
	order := greedyOrder(m, indices)
	assert.Len(t, order, 4)
	assert.Equal(t, 0, order[0])
	assert.ElementsMatch(t, indices, order)
}

func TestAnalyzeConnectivity(t *testing.T) {
	m := buildTestMatrix(t, spatial.MetricHaversine)

	summary := AnalyzeConnectivity(m)
	assert.Equal(t, 4, summary.StopCount)
	assert.Equal(t, 12, summary.SegmentCount)
	assert.Greater(t, summary.AverageDistanceKm, 0.0)
	assert.LessOrEqual(t, summary.MinDistanceKm, summary.AverageDistanceKm)
	assert.GreaterOrEqual(t, summary.MaxDistanceKm, summary.AverageDistanceKm)
	assert.Len(t, summary.HubStops, 3)
	assert.Len(t, summary.BottleneckStops, 3)
	assert.NotEqual(t, summary.HubStops[0], summary.BottleneckStops[0])
}

func TestAnalyzeConnectivityTinyMatrix(t *testing.T) {
	m := &Matrix{StopIDs: []string{"only"}}

	summary := AnalyzeConnectivity(m)
	assert.Equal(t, 1, summary.StopCount)
	assert.Zero(t, summary.SegmentCount)
	assert.Empty(t, summary.HubStops)
}
