package pathmatrix

import (
	"sort"

	"github.com/citycircuit/transit-backend-go/internal/stats"
)

// ConnectivitySummary describes how tightly a stop network is knit
// together, derived from the off-diagonal cells of a path matrix.
type ConnectivitySummary struct {
	StopCount          int      `json:"stop_count"`
	SegmentCount       int      `json:"segment_count"`
	AverageDistanceKm  float64  `json:"average_distance_km"`
	MinDistanceKm      float64  `json:"min_distance_km"`
	MaxDistanceKm      float64  `json:"max_distance_km"`
	AverageTimeMinutes float64  `json:"average_time_minutes"`
	MinTimeMinutes     float64  `json:"min_time_minutes"`
	MaxTimeMinutes     float64  `json:"max_time_minutes"`
	HubStops           []string `json:"hub_stops"`
	BottleneckStops    []string `json:"bottleneck_stops"`
}

// hubCount is how many best- and worst-connected stops are reported.
const hubCount = 3

// AnalyzeConnectivity aggregates pairwise distances and times across the
// matrix. Hubs are the stops with the lowest average distance to all
// others; bottlenecks are those with the highest.
func AnalyzeConnectivity(m *Matrix) ConnectivitySummary {
	n := len(m.StopIDs)
	summary := ConnectivitySummary{StopCount: n}
	if n < 2 {
		return summary
	}

	var distances, times []float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if d := m.Distances[i][j]; d > 0 {
				distances = append(distances, d)
			}
			if t := m.Times[i][j]; t > 0 {
				times = append(times, t)
			}
		}
	}

	summary.SegmentCount = len(distances)
	if len(distances) > 0 {
		summary.AverageDistanceKm = stats.Mean(distances)
		summary.MinDistanceKm = stats.Min(distances)
		summary.MaxDistanceKm = stats.Max(distances)
	}
	if len(times) > 0 {
		summary.AverageTimeMinutes = stats.Mean(times)
		summary.MinTimeMinutes = stats.Min(times)
		summary.MaxTimeMinutes = stats.Max(times)
	}

	type stopAvg struct {
		id  string
		avg float64
	}
	averages := make([]stopAvg, 0, n)
	for i := 0; i < n; i++ {
		total := 0.0
		for j := 0; j < n; j++ {
			if i != j {
				total += m.Distances[i][j]
			}
		}
		averages = append(averages, stopAvg{id: m.StopIDs[i], avg: total / float64(n-1)})
	}
	sort.SliceStable(averages, func(a, b int) bool {
		return averages[a].avg < averages[b].avg
	})

	count := hubCount
	if count > n {
		count = n
	}
	for i := 0; i < count; i++ {
		summary.HubStops = append(summary.HubStops, averages[i].id)
	}
	for i := 0; i < count; i++ {
		summary.BottleneckStops = append(summary.BottleneckStops, averages[n-1-i].id)
	}

	return summary
}
