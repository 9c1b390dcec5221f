package spatial

import (
	"math"

	"github.com/golang/geo/s2"

	"github.com/citycircuit/transit-backend-go/internal/models"
)

// Constants
const (
	EarthRadiusKm = 6371.0 // Earth's mean radius in kilometers
	KmPerDegree   = 111.0  // approximate km per degree of latitude
)

// Haversine calculates the great-circle distance between two coordinates
// in kilometers using S2 spherical geometry
func Haversine(a, b models.Coordinates) float64 {
	p1 := s2.LatLngFromDegrees(a.Latitude, a.Longitude)
	p2 := s2.LatLngFromDegrees(b.Latitude, b.Longitude)
	return p1.Distance(p2).Radians() * EarthRadiusKm
}

// Manhattan calculates an L1 grid approximation of the distance in
// kilometers. Longitude degrees are scaled by the cosine of the average
// latitude.
func Manhattan(a, b models.Coordinates) float64 {
	latKm := math.Abs(b.Latitude-a.Latitude) * KmPerDegree
	avgLat := (a.Latitude + b.Latitude) / 2
	lonKm := math.Abs(b.Longitude-a.Longitude) * KmPerDegree * math.Cos(avgLat*math.Pi/180)
	return latKm + lonKm
}

// Euclidean calculates an L2 straight-line approximation of the distance
// in kilometers using the same per-axis degree conversion as Manhattan
func Euclidean(a, b models.Coordinates) float64 {
	latKm := (b.Latitude - a.Latitude) * KmPerDegree
	avgLat := (a.Latitude + b.Latitude) / 2
	lonKm := (b.Longitude - a.Longitude) * KmPerDegree * math.Cos(avgLat*math.Pi/180)
	return math.Sqrt(latKm*latKm + lonKm*lonKm)
}

// BoundsAreaKm2 calculates the approximate area of a bounding box in km²
func BoundsAreaKm2(b models.GeoBounds) float64 {
	latKm := (b.North - b.South) * KmPerDegree
	avgLat := (b.North + b.South) / 2
	lonKm := (b.East - b.West) * KmPerDegree * math.Cos(avgLat*math.Pi/180)
	return math.Abs(latKm * lonKm)
}
