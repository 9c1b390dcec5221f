package export

import (
	"encoding/json"
	"fmt"

	"github.com/citycircuit/transit-backend-go/internal/models"
)

// FeatureCollection is a GeoJSON feature collection (RFC 7946).
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single GeoJSON feature. Properties stay raw so route and
// stop features can carry different shapes through the same collection.
type Feature struct {
	Type       string          `json:"type"`
	Geometry   Geometry        `json:"geometry"`
	Properties json.RawMessage `json:"properties"`
}

// Geometry holds a GeoJSON geometry. Coordinates are raw because the
// shape depends on Type (Point vs LineString).
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// RouteProperties is the property payload of a route LineString feature.
// StopIDs preserves the visiting order so imports can rebuild the exact
// stop sequence.
type RouteProperties struct {
	RouteID             string   `json:"route_id"`
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	OperatorID          string   `json:"operator_id"`
	IsActive            bool     `json:"is_active"`
	OptimizationScore   float64  `json:"optimization_score"`
	EstimatedTravelTime int      `json:"estimated_travel_time"`
	StopCount           int      `json:"stop_count"`
	StopIDs             []string `json:"stop_ids"`
}

// StopProperties is the property payload of a stop Point feature.
type StopProperties struct {
	StopID              string   `json:"stop_id"`
	Name                string   `json:"name"`
	Address             string   `json:"address"`
	Amenities           []string `json:"amenities"`
	DailyPassengerCount int      `json:"daily_passenger_count"`
	IsAccessible        bool     `json:"is_accessible"`
}

// RoutesToGeoJSON exports routes as a feature collection: one LineString
// per route plus one Point per distinct stop. Stops shared between routes
// appear once; the first occurrence wins.
func RoutesToGeoJSON(routes []models.Route) (FeatureCollection, error) {
	fc := FeatureCollection{Type: "FeatureCollection"}

	for _, route := range routes {
		if len(route.Stops) < 2 {
			continue
		}

		line := make([][2]float64, len(route.Stops))
		stopIDs := make([]string, len(route.Stops))
		for i, stop := range route.Stops {
			line[i] = [2]float64{stop.Coordinates.Longitude, stop.Coordinates.Latitude}
			stopIDs[i] = stop.ID
		}

		coords, err := json.Marshal(line)
		if err != nil {
			return FeatureCollection{}, fmt.Errorf("export route %s: %w", route.ID, err)
		}
		props, err := json.Marshal(RouteProperties{
			RouteID:             route.ID,
			Name:                route.Name,
			Description:         route.Description,
			OperatorID:          route.OperatorID,
			IsActive:            route.IsActive,
			OptimizationScore:   route.OptimizationScore,
			EstimatedTravelTime: route.EstimatedTravelTime,
			StopCount:           len(route.Stops),
			StopIDs:             stopIDs,
		})
		if err != nil {
			return FeatureCollection{}, fmt.Errorf("export route %s: %w", route.ID, err)
		}

		fc.Features = append(fc.Features, Feature{
			Type:       "Feature",
			Geometry:   Geometry{Type: "LineString", Coordinates: coords},
			Properties: props,
		})
	}

	seen := make(map[string]bool)
	for _, route := range routes {
		if len(route.Stops) < 2 {
			continue
		}
		for _, stop := range route.Stops {
			if seen[stop.ID] {
				continue
			}
			seen[stop.ID] = true

			coords, err := json.Marshal([2]float64{stop.Coordinates.Longitude, stop.Coordinates.Latitude})
			if err != nil {
				return FeatureCollection{}, fmt.Errorf("export stop %s: %w", stop.ID, err)
			}
			props, err := json.Marshal(StopProperties{
				StopID:              stop.ID,
				Name:                stop.Name,
				Address:             stop.Address,
				Amenities:           stop.Amenities,
				DailyPassengerCount: stop.DailyPassengerCount,
				IsAccessible:        stop.IsAccessible,
			})
			if err != nil {
				return FeatureCollection{}, fmt.Errorf("export stop %s: %w", stop.ID, err)
			}

			fc.Features = append(fc.Features, Feature{
				Type:       "Feature",
				Geometry:   Geometry{Type: "Point", Coordinates: coords},
				Properties: props,
			})
		}
	}

	return fc, nil
}

// RoutesFromGeoJSON rebuilds routes from a feature collection produced by
// RoutesToGeoJSON. Point features are indexed first, then each LineString
// resolves its ordered stop ids against that index.
func RoutesFromGeoJSON(fc FeatureCollection) ([]models.Route, error) {
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("import geojson: unexpected type %q", fc.Type)
	}

	stops := make(map[string]models.BusStop)
	for _, feature := range fc.Features {
		if feature.Geometry.Type != "Point" {
			continue
		}

		var coords [2]float64
		if err := json.Unmarshal(feature.Geometry.Coordinates, &coords); err != nil {
			return nil, fmt.Errorf("import geojson: decode point coordinates: %w", err)
		}
		var props StopProperties
		if err := json.Unmarshal(feature.Properties, &props); err != nil {
			return nil, fmt.Errorf("import geojson: decode stop properties: %w", err)
		}

		stops[props.StopID] = models.BusStop{
			ID:                  props.StopID,
			Name:                props.Name,
			Coordinates:         models.Coordinates{Latitude: coords[1], Longitude: coords[0]},
			Address:             props.Address,
			Amenities:           props.Amenities,
			DailyPassengerCount: props.DailyPassengerCount,
			IsAccessible:        props.IsAccessible,
		}
	}

	var routes []models.Route
	for _, feature := range fc.Features {
		if feature.Geometry.Type != "LineString" {
			continue
		}

		var props RouteProperties
		if err := json.Unmarshal(feature.Properties, &props); err != nil {
			return nil, fmt.Errorf("import geojson: decode route properties: %w", err)
		}

		route := models.Route{
			ID:                  props.RouteID,
			Name:                props.Name,
			Description:         props.Description,
			OperatorID:          props.OperatorID,
			IsActive:            props.IsActive,
			OptimizationScore:   props.OptimizationScore,
			EstimatedTravelTime: props.EstimatedTravelTime,
		}
		for _, stopID := range props.StopIDs {
			stop, ok := stops[stopID]
			if !ok {
				return nil, fmt.Errorf("import geojson: route %s references unknown stop %s", props.RouteID, stopID)
			}
			route.Stops = append(route.Stops, stop)
		}
		routes = append(routes, route)
	}

	return routes, nil
}
