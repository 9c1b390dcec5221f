package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/citycircuit/transit-backend-go/internal/analysis/population"
	"github.com/citycircuit/transit-backend-go/internal/models"
	"github.com/citycircuit/transit-backend-go/internal/repository"
	"github.com/citycircuit/transit-backend-go/pkg/logger"
)

// PopulationService manages population density datasets and runs the
// population analysis on them
type PopulationService struct {
	repo     *repository.PopulationRepository
	analyzer *population.Analyzer
	log      logger.Logger
}

func NewPopulationService(repo *repository.PopulationRepository, analyzer *population.Analyzer, log logger.Logger) *PopulationService {
	return &PopulationService{repo: repo, analyzer: analyzer, log: log}
}

// Create validates and stores a new dataset, assigning an id and
// collection time when absent
func (s *PopulationService) Create(data models.PopulationDensityData) (models.PopulationDensityData, error) {
	if err := models.ValidatePopulationData(data); err != nil {
		return models.PopulationDensityData{}, err
	}
	if data.ID == "" {
		data.ID = uuid.NewString()
	}
	if data.CollectedAt.IsZero() {
		data.CollectedAt = time.Now().UTC()
	}
	if err := s.repo.Create(data); err != nil {
		return models.PopulationDensityData{}, err
	}
	s.log.Info("population data created", "id", data.ID, "region", data.Region,
		"points", len(data.DensityPoints))
	return data, nil
}

func (s *PopulationService) Get(id string) (*models.PopulationDensityData, error) {
	return s.repo.GetByID(id)
}

func (s *PopulationService) ListByRegion(region string) ([]models.PopulationDensityData, error) {
	return s.repo.ListByRegion(region)
}

func (s *PopulationService) Delete(id string) error {
	return s.repo.Delete(id)
}

// Analyze runs the population analysis on a stored dataset
func (s *PopulationService) Analyze(id string) (*models.PopulationAnalysisResult, error) {
	data, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	result, err := s.analyzer.Analyze(*data)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CoverageGaps finds populated areas of a stored dataset beyond walking
// distance of every candidate stop
func (s *PopulationService) CoverageGaps(id string, candidateStops []models.Coordinates) ([]models.CoverageGap, error) {
	data, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	if err := models.ValidatePopulationData(*data); err != nil {
		return nil, err
	}
	return population.CoverageGaps(*data, candidateStops), nil
}

// Recommendations derives route and stop suggestions from a stored
// dataset's analysis
func (s *PopulationService) Recommendations(id string) ([]models.RouteRecommendation, error) {
	data, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	result, err := s.analyzer.Analyze(*data)
	if err != nil {
		return nil, err
	}
	return s.analyzer.RouteRecommendations(result), nil
}
