package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/citycircuit/transit-backend-go/internal/analysis/optimizer"
	"github.com/citycircuit/transit-backend-go/internal/analysis/ranking"
	"github.com/citycircuit/transit-backend-go/internal/models"
	"github.com/citycircuit/transit-backend-go/internal/repository"
	"github.com/citycircuit/transit-backend-go/pkg/logger"
)

// OptimizationService runs route optimization and ranking against stored
// routes, persisting the results
type OptimizationService struct {
	routes     *repository.RouteRepository
	population *repository.PopulationRepository
	results    *repository.ResultRepository
	engine     *optimizer.Engine
	generator  *ranking.Generator
	ranker     *ranking.Engine
	log        logger.Logger
}

func NewOptimizationService(routes *repository.RouteRepository, population *repository.PopulationRepository,
	results *repository.ResultRepository, engine *optimizer.Engine, generator *ranking.Generator,
	ranker *ranking.Engine, log logger.Logger) *OptimizationService {
	return &OptimizationService{
		routes:     routes,
		population: population,
		results:    results,
		engine:     engine,
		generator:  generator,
		ranker:     ranker,
		log:        log,
	}
}

func (s *OptimizationService) loadRoute(routeID string) (models.Route, error) {
	route, err := s.routes.GetByID(routeID)
	if err != nil {
		return models.Route{}, err
	}
	if route == nil {
		return models.Route{}, fmt.Errorf("route %s not found", routeID)
	}
	return *route, nil
}

func (s *OptimizationService) loadPopulation(dataID string) (*models.PopulationDensityData, error) {
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

// Optimize runs the optimization pipeline on a stored route and persists
// the result
func (s *OptimizationService) Optimize(routeID, populationDataID string) (models.OptimizationResult, error) {
	route, err := s.loadRoute(routeID)
	if err != nil {
		return models.OptimizationResult{}, err
	}
	data, err := s.loadPopulation(populationDataID)
	if err != nil {
		return models.OptimizationResult{}, err
	}

	result, err := s.engine.Optimize(route, data)
	if err != nil {
		return models.OptimizationResult{}, err
	}

	result.ID = uuid.NewString()
	if err := s.results.Create(result); err != nil {
		return models.OptimizationResult{}, err
	}
	s.log.Info("optimization result stored", "result_id", result.ID,
		"route_id", routeID, "overall_score", result.Metrics.OverallScore())
	return result, nil
}

// BatchOptimize optimizes every listed route, skipping failures, persists
// the results and returns them with a batch summary
func (s *OptimizationService) BatchOptimize(routeIDs []string, populationDataID string) ([]models.OptimizationResult, optimizer.BatchSummary, error) {
	data, err := s.loadPopulation(populationDataID)
	if err != nil {
		return nil, optimizer.BatchSummary{}, err
	}

	routes := make([]models.Route, 0, len(routeIDs))
	for _, id := range routeIDs {
		route, err := s.routes.GetByID(id)
		if err != nil {
			return nil, optimizer.BatchSummary{}, err
		}
		if route == nil {
			s.log.Warn("skipping unknown route in batch optimization", "route_id", id)
			continue
		}
		routes = append(routes, *route)
	}

	results := s.engine.BatchOptimize(routes, data)
	for i := range results {
		results[i].ID = uuid.NewString()
		if err := s.results.Create(results[i]); err != nil {
			return nil, optimizer.BatchSummary{}, err
		}
	}

	summary, err := optimizer.Summarize(results)
	if err != nil {
		return nil, optimizer.BatchSummary{}, err
	}
	return results, summary, nil
}

// Compare evaluates a proposed replacement for a stored route and
// persists the comparison result
func (s *OptimizationService) Compare(routeID string, optimized models.Route, populationDataID string) (models.OptimizationResult, error) {
	original, err := s.loadRoute(routeID)
	if err != nil {
		return models.OptimizationResult{}, err
	}
	if err := models.ValidateRoute(optimized); err != nil {
		return models.OptimizationResult{}, err
	}
	data, err := s.loadPopulation(populationDataID)
	if err != nil {
		return models.OptimizationResult{}, err
	}

	result := s.generator.GenerateResult(original, optimized, data)
	result.ID = uuid.NewString()
	if err := s.results.Create(result); err != nil {
		return models.OptimizationResult{}, err
	}
	return result, nil
}

func (s *OptimizationService) GetResult(id string) (*models.OptimizationResult, error) {
	return s.results.GetByID(id)
}

func (s *OptimizationService) ListResults(routeID string) ([]models.OptimizationResult, error) {
	return s.results.ListByRoute(routeID)
}

// Rank orders stored results under the named criteria. An empty routeID
// ranks every stored result.
func (s *OptimizationService) Rank(routeID string, criteria ranking.Criteria) ([]models.OptimizationResult, error) {
	results, err := s.results.ListByRoute(routeID)
	if err != nil {
		return nil, err
	}
	return s.ranker.Rank(results, criteria), nil
}

// RankWeighted orders stored results under a caller-supplied weight table
func (s *OptimizationService) RankWeighted(routeID string, weights map[string]float64) ([]models.OptimizationResult, error) {
	results, err := s.results.ListByRoute(routeID)
	if err != nil {
		return nil, err
	}
	return s.ranker.RankWeighted(results, weights), nil
}

// Report builds a ranking report over stored results
func (s *OptimizationService) Report(routeID string, criteria ranking.Criteria) (ranking.Report, error) {
	results, err := s.results.ListByRoute(routeID)
	if err != nil {
		return ranking.Report{}, err
	}
	return s.ranker.GenerateReport(results, criteria)
}
