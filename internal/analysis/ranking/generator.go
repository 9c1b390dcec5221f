package ranking

import (
	"time"

	"github.com/citycircuit/transit-backend-go/internal/analysis/optimizer"
	"github.com/citycircuit/transit-backend-go/internal/models"
	"github.com/citycircuit/transit-backend-go/pkg/logger"
)

// RoutePair couples an original route with an externally produced
// optimized candidate.
type RoutePair struct {
	Original  models.Route
	Optimized models.Route
}

// Generator builds optimization results with comprehensive metrics for
// route pairs and ranks them.
type Generator struct {
	calculator *MetricsCalculator
	engine     *Engine
	log        logger.Logger
}

func NewGenerator(calculator *MetricsCalculator, engine *Engine, log logger.Logger) *Generator {
	return &Generator{calculator: calculator, engine: engine, log: log}
}

// GenerateResult wraps an original/optimized pair into an
// OptimizationResult with comprehensive metrics. When no population data
// is given a default dataset is synthesized from the original route.
func (g *Generator) GenerateResult(original, optimized models.Route, populationData *models.PopulationDensityData) models.OptimizationResult {
	g.log.Info("generating optimization result", "route_id", original.ID, "route_name", original.Name)

	metrics := g.calculator.Calculate(original, optimized, populationData)

	data := populationData
	if data == nil {
		synthesized := optimizer.DefaultPopulationData(original)
		data = &synthesized
	}

	return models.OptimizationResult{
		OriginalRouteID: original.ID,
		OptimizedRoute:  optimized,
		Metrics:         metrics,
		PopulationData:  *data,
		GeneratedAt:     time.Now().UTC(),
	}
}

// GenerateAndRank generates results for every pair and returns them ranked
// best-first by the given criterion.
func (g *Generator) GenerateAndRank(pairs []RoutePair, populationData *models.PopulationDensityData, criteria Criteria) []models.OptimizationResult {
	g.log.Info("generating and ranking optimization results", "pairs", len(pairs))

	results := make([]models.OptimizationResult, 0, len(pairs))
	for _, pair := range pairs {
		results = append(results, g.GenerateResult(pair.Original, pair.Optimized, populationData))
	}

	return g.engine.Rank(results, criteria)
}
