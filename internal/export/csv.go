package export

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/citycircuit/transit-backend-go/internal/models"
)

var routesHeader = []string{
	"route_id", "name", "description", "operator_id",
	"estimated_travel_time", "optimization_score", "stop_count",
}

var stopsHeader = []string{
	"stop_id", "route_id", "stop_name", "latitude", "longitude",
	"address", "amenities", "daily_passenger_count", "is_accessible",
	"stop_sequence",
}

var resultsHeader = []string{
	"original_route_id", "optimized_route_id", "time_improvement",
	"distance_reduction", "passenger_coverage_increase", "cost_savings",
	"overall_score", "generated_at", "is_improvement",
}

// RoutesToCSV renders routes as two CSV documents: one row per route and
// one row per stop with a 1-based stop_sequence. Amenities are joined
// with ";" so a stop stays on a single row.
func RoutesToCSV(routes []models.Route) (routesCSV, stopsCSV string, err error) {
	var routeRows [][]string
	var stopRows [][]string

	for _, route := range routes {
		routeRows = append(routeRows, []string{
			route.ID,
			route.Name,
			route.Description,
			route.OperatorID,
			strconv.Itoa(route.EstimatedTravelTime),
			formatFloat(route.OptimizationScore),
			strconv.Itoa(len(route.Stops)),
		})
		for i, stop := range route.Stops {
			stopRows = append(stopRows, []string{
				stop.ID,
				route.ID,
				stop.Name,
				formatFloat(stop.Coordinates.Latitude),
				formatFloat(stop.Coordinates.Longitude),
				stop.Address,
				strings.Join(stop.Amenities, ";"),
				strconv.Itoa(stop.DailyPassengerCount),
				strconv.FormatBool(stop.IsAccessible),
				strconv.Itoa(i + 1),
			})
		}
	}

	routesCSV, err = writeCSV(routesHeader, routeRows)
	if err != nil {
		return "", "", fmt.Errorf("export routes csv: %w", err)
	}
	stopsCSV, err = writeCSV(stopsHeader, stopRows)
	if err != nil {
		return "", "", fmt.Errorf("export stops csv: %w", err)
	}
	return routesCSV, stopsCSV, nil
}

// ResultsToCSV renders optimization results as CSV, one row per result.
func ResultsToCSV(results []models.OptimizationResult) (string, error) {
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		rows = append(rows, []string{
			result.OriginalRouteID,
			result.OptimizedRoute.ID,
			formatFloat(result.Metrics.TimeImprovement),
			formatFloat(result.Metrics.DistanceReduction),
			formatFloat(result.Metrics.PassengerCoverageIncrease),
			formatFloat(result.Metrics.CostSavings),
			formatFloat(result.Metrics.OverallScore()),
			result.GeneratedAt.Format(time.RFC3339),
			strconv.FormatBool(result.IsImprovement(10.0)),
		})
	}

	out, err := writeCSV(resultsHeader, rows)
	if err != nil {
		return "", fmt.Errorf("export results csv: %w", err)
	}
	return out, nil
}

func writeCSV(header []string, rows [][]string) (string, error) {
	var buf strings.Builder
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
