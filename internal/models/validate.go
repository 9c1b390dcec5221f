package models

import (
	"errors"
	"fmt"
)

// Validation sentinel causes. Services reject invalid input with a
// *ValidationError wrapping one of these before any scoring or
// optimization runs.
var (
	ErrTooFewStops         = errors.New("route must have at least 2 stops")
	ErrCoordinatesOutRange = errors.New("coordinates out of range")
	ErrNonPositiveTime     = errors.New("estimated travel time must be at least 1 minute")
	ErrInvalidBounds       = errors.New("bounds must satisfy north>south and east>west")
	ErrNegativeCount       = errors.New("count must be non-negative")
)

// ValidationError marks input that must be rejected before entering the
// analysis pipeline
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field string, cause error) error {
	return &ValidationError{Field: field, Err: cause}
}

// ValidateRoute checks the route invariants: at least 2 stops, in-range
// stop coordinates and a positive travel time
func ValidateRoute(r Route) error {
	if len(r.Stops) < 2 {
		return invalid("stops", ErrTooFewStops)
	}
	for i, s := range r.Stops {
		if !s.Coordinates.Valid() {
			return invalid(fmt.Sprintf("stops[%d].coordinates", i), ErrCoordinatesOutRange)
		}
		if s.DailyPassengerCount < 0 {
			return invalid(fmt.Sprintf("stops[%d].daily_passenger_count", i), ErrNegativeCount)
		}
	}
	if r.EstimatedTravelTime < 1 {
		return invalid("estimated_travel_time", ErrNonPositiveTime)
	}
	return nil
}

// ValidatePopulationData checks bounds and density point invariants
func ValidatePopulationData(p PopulationDensityData) error {
	if !p.Bounds.Valid() {
		return invalid("bounds", ErrInvalidBounds)
	}
	for i, pt := range p.DensityPoints {
		if !pt.Coordinates.Valid() {
			return invalid(fmt.Sprintf("density_points[%d].coordinates", i), ErrCoordinatesOutRange)
		}
		if pt.Population < 0 {
			return invalid(fmt.Sprintf("density_points[%d].population", i), ErrNegativeCount)
		}
	}
	return nil
}
