package models

// Coordinates represents an immutable geographic position in decimal degrees
type Coordinates struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// Valid reports whether the coordinates lie inside the WGS84 value range
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// GeoBounds represents a geographic bounding box.
// North must be greater than south and east greater than west.
type GeoBounds struct {
	North float64 `json:"north" db:"north"`
	South float64 `json:"south" db:"south"`
	East  float64 `json:"east" db:"east"`
	West  float64 `json:"west" db:"west"`
}

// Valid reports whether the bounds form a non-degenerate box with
// in-range edges
func (b GeoBounds) Valid() bool {
	if b.North <= b.South || b.East <= b.West {
		return false
	}
	return b.North <= 90 && b.South >= -90 && b.East <= 180 && b.West >= -180
}

// Contains reports whether a coordinate lies inside the box (inclusive)
func (b GeoBounds) Contains(c Coordinates) bool {
	return c.Latitude >= b.South && c.Latitude <= b.North &&
		c.Longitude >= b.West && c.Longitude <= b.East
}
