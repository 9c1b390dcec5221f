// Package pathmatrix builds all-pairs distance/time matrices over a fixed
// stop set and runs path and ordering computations on top of them.
package pathmatrix

import (
	"errors"
	"time"

	"github.com/citycircuit/transit-backend-go/internal/spatial"
)

// Lookup failures resolved by callers
var (
	ErrStopNotInMatrix = errors.New("stop id not present in matrix")
	ErrNoPath          = errors.New("no path between stops")
)

// Segment records the computed cost of travelling between one ordered
// pair of stops
type Segment struct {
	OriginStopID         string  `json:"origin_stop_id"`
	DestinationStopID    string  `json:"destination_stop_id"`
	DistanceKm           float64 `json:"distance_km"`
	EstimatedTimeMinutes int     `json:"estimated_time_minutes"`
	TrafficFactor        float64 `json:"traffic_factor"`
	DifficultyScore      float64 `json:"difficulty_score"` // 0-100
}

// Matrix holds all-pairs distances (km) and travel times (minutes) for a
// stop set. Row/column indexes align with StopIDs. The matrix is never
// mutated after construction.
type Matrix struct {
	StopIDs    []string       `json:"stop_ids"`
	Distances  [][]float64    `json:"distances"`
	Times      [][]float64    `json:"times"`
	Segments   []Segment      `json:"segments"`
	Metric     spatial.Metric `json:"metric"`
	ComputedAt time.Time      `json:"computed_at"`

	index map[string]int
}

// Index returns the row/column index for a stop id
func (m *Matrix) Index(stopID string) (int, bool) {
	if m.index == nil {
		m.index = make(map[string]int, len(m.StopIDs))
		for i, id := range m.StopIDs {
			m.index[id] = i
		}
	}
	i, ok := m.index[stopID]
	return i, ok
}

// Distance returns the distance cell between two stop ids
func (m *Matrix) Distance(originID, destinationID string) (float64, error) {
	i, ok := m.Index(originID)
	if !ok {
		return 0, ErrStopNotInMatrix
	}
	j, ok := m.Index(destinationID)
	if !ok {
		return 0, ErrStopNotInMatrix
	}
	return m.Distances[i][j], nil
}

// Time returns the travel-time cell between two stop ids
func (m *Matrix) Time(originID, destinationID string) (float64, error) {
	i, ok := m.Index(originID)
	if !ok {
		return 0, ErrStopNotInMatrix
	}
	j, ok := m.Index(destinationID)
	if !ok {
		return 0, ErrStopNotInMatrix
	}
	return m.Times[i][j], nil
}
