package service

import (
	"fmt"

	"github.com/citycircuit/transit-backend-go/internal/analysis/pathmatrix"
	"github.com/citycircuit/transit-backend-go/internal/analysis/routescore"
	"github.com/citycircuit/transit-backend-go/internal/models"
	"github.com/citycircuit/transit-backend-go/internal/repository"
	"github.com/citycircuit/transit-backend-go/internal/spatial"
	"github.com/citycircuit/transit-backend-go/pkg/logger"
)

// AnalysisService runs route scoring and path matrix operations against
// stored routes and population data
type AnalysisService struct {
	routes     *repository.RouteRepository
	population *repository.PopulationRepository
	scorer     *routescore.Scorer
	builder    *pathmatrix.Builder
	log        logger.Logger
}

func NewAnalysisService(routes *repository.RouteRepository, population *repository.PopulationRepository,
	scorer *routescore.Scorer, builder *pathmatrix.Builder, log logger.Logger) *AnalysisService {
	return &AnalysisService{
		routes:     routes,
		population: population,
		scorer:     scorer,
		builder:    builder,
		log:        log,
	}
}

// loadRoute fetches a stored route or reports it missing
func (s *AnalysisService) loadRoute(routeID string) (models.Route, error) {
	route, err := s.routes.GetByID(routeID)
	if err != nil {
		return models.Route{}, err
	}
	if route == nil {
		return models.Route{}, fmt.Errorf("route %s not found", routeID)
	}
	return *route, nil
}

// loadPopulation fetches an optional population dataset. An empty id
// means analyze without one.
func (s *AnalysisService) loadPopulation(dataID string) (*models.PopulationDensityData, error) {
	if dataID == "" {
		return nil, nil
	}
	data, err := s.population.GetByID(dataID)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("population data %s not found", dataID)
	}
	return data, nil
}

// AnalyzeRoute scores a stored route, optionally against a stored
// population dataset
func (s *AnalysisService) AnalyzeRoute(routeID, populationDataID string) (models.RouteAnalysisResult, error) {
	route, err := s.loadRoute(routeID)
	if err != nil {
		return models.RouteAnalysisResult{}, err
	}
	data, err := s.loadPopulation(populationDataID)
	if err != nil {
		return models.RouteAnalysisResult{}, err
	}
	return s.scorer.Analyze(route, data)
}

// BatchAnalyze scores every listed route, skipping the ones that fail
func (s *AnalysisService) BatchAnalyze(routeIDs []string, populationDataID string) ([]models.RouteAnalysisResult, error) {
	data, err := s.loadPopulation(populationDataID)
	if err != nil {
		return nil, err
	}

	routes := make([]models.Route, 0, len(routeIDs))
	for _, id := range routeIDs {
		route, err := s.routes.GetByID(id)
		if err != nil {
			return nil, err
		}
		if route == nil {
			s.log.Warn("skipping unknown route in batch analysis", "route_id", id)
			continue
		}
		routes = append(routes, *route)
	}

	return s.scorer.BatchAnalyze(routes, data), nil
}

// PathMatrix builds the pairwise distance and time matrix for a route's
// stops under the named metric
func (s *AnalysisService) PathMatrix(routeID string, metric spatial.Metric) (*pathmatrix.Matrix, error) {
	route, err := s.loadRoute(routeID)
	if err != nil {
		return nil, err
	}
	return s.builder.Build(route.Stops, metric)
}

// Connectivity summarizes a route's stop network
func (s *AnalysisService) Connectivity(routeID string, metric spatial.Metric) (pathmatrix.ConnectivitySummary, error) {
	matrix, err := s.PathMatrix(routeID, metric)
	if err != nil {
		return pathmatrix.ConnectivitySummary{}, err
	}
	return pathmatrix.AnalyzeConnectivity(matrix), nil
}

// ShortestPath finds the cheapest stop sequence between two stops of a route
func (s *AnalysisService) ShortestPath(routeID, originID, destinationID string, metric spatial.Metric) ([]string, error) {
	matrix, err := s.PathMatrix(routeID, metric)
	if err != nil {
		return nil, err
	}
	return pathmatrix.ShortestPath(matrix, originID, destinationID)
}

// OrderStops returns a visiting order over a route's stops that keeps the
// first stop fixed and shortens the total tour
func (s *AnalysisService) OrderStops(routeID string, metric spatial.Metric) ([]string, error) {
	route, err := s.loadRoute(routeID)
	if err != nil {
		return nil, err
	}

	matrix, err := s.builder.Build(route.Stops, metric)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(route.Stops))
	for i, stop := range route.Stops {
		ids[i] = stop.ID
	}
	return pathmatrix.OrderStops(matrix, ids), nil
}
