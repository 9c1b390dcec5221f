package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/citycircuit/transit-backend-go/internal/models"
	"github.com/citycircuit/transit-backend-go/internal/repository"
	"github.com/citycircuit/transit-backend-go/pkg/logger"
)

// RouteService manages the route catalogue
type RouteService struct {
	repo *repository.RouteRepository
	log  logger.Logger
}

func NewRouteService(repo *repository.RouteRepository, log logger.Logger) *RouteService {
	return &RouteService{repo: repo, log: log}
}

// Create validates and stores a new route, assigning an id when absent
func (s *RouteService) Create(route models.Route) (models.Route, error) {
	if err := models.ValidateRoute(route); err != nil {
		return models.Route{}, err
	}
	if route.ID == "" {
		route.ID = uuid.NewString()
	}
	if err := s.repo.Create(route); err != nil {
		return models.Route{}, err
	}
	s.log.Info("route created", "route_id", route.ID, "stops", len(route.Stops))
	return route, nil
}

func (s *RouteService) Get(id string) (*models.Route, error) {
	return s.repo.GetByID(id)
}

func (s *RouteService) List(filter repository.RouteFilter) ([]models.Route, int, error) {
	return s.repo.List(filter)
}

func (s *RouteService) Update(route models.Route) error {
	if err := models.ValidateRoute(route); err != nil {
		return err
	}
	if route.ID == "" {
		return fmt.Errorf("route id is required")
	}
	return s.repo.Update(route)
}

func (s *RouteService) Delete(id string) error {
	return s.repo.Delete(id)
}
