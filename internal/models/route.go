package models

import "time"

// BusStop represents a single bus stop with location and amenity information.
// Stops are value objects: analysis code constructs new instances instead of
// mutating existing ones.
type BusStop struct {
	ID                  string      `json:"id" db:"id"`
	Name                string      `json:"name" db:"name"`
	Coordinates         Coordinates `json:"coordinates"`
	Address             string      `json:"address" db:"address"`
	Amenities           []string    `json:"amenities"`
	DailyPassengerCount int         `json:"daily_passenger_count" db:"daily_passenger_count"`
	IsAccessible        bool        `json:"is_accessible" db:"is_accessible"`
}

// HasAmenity reports whether the stop carries the named amenity
func (s BusStop) HasAmenity(name string) bool {
	for _, a := range s.Amenities {
		if a == name {
			return true
		}
	}
	return false
}

// Route represents a bus route as an ordered sequence of stops.
// The stop order defines the travel sequence.
type Route struct {
	ID                  string    `json:"id" db:"id"`
	Name                string    `json:"name" db:"name"`
	Description         string    `json:"description" db:"description"`
	Stops               []BusStop `json:"stops"`
	OperatorID          string    `json:"operator_id" db:"operator_id"`
	IsActive            bool      `json:"is_active" db:"is_active"`
	OptimizationScore   float64   `json:"optimization_score" db:"optimization_score"`
	EstimatedTravelTime int       `json:"estimated_travel_time" db:"estimated_travel_time"` // minutes
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// TotalPassengers sums the daily passenger counts over all stops
func (r Route) TotalPassengers() int {
	total := 0
	for _, s := range r.Stops {
		total += s.DailyPassengerCount
	}
	return total
}

// AccessibleRatio returns the fraction of stops that are wheelchair
// accessible, 0 for an empty route
func (r Route) AccessibleRatio() float64 {
	if len(r.Stops) == 0 {
		return 0
	}
	accessible := 0
	for _, s := range r.Stops {
		if s.IsAccessible {
			accessible++
		}
	}
	return float64(accessible) / float64(len(r.Stops))
}
