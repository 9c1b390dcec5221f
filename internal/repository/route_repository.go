package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/citycircuit/transit-backend-go/internal/models"
)

// RouteFilter narrows List queries. Zero values mean no constraint.
type RouteFilter struct {
	OperatorID string
	ActiveOnly bool
	Page       int
	PageSize   int
}

// RouteRepository persists routes. Stops are stored as a JSON column
// because they are always read and written with their route.
type RouteRepository struct {
	db *sql.DB
}

func NewRouteRepository(db *sql.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

func (r *RouteRepository) Create(route models.Route) error {
	stops, err := json.Marshal(route.Stops)
	if err != nil {
		return fmt.Errorf("failed to encode stops: %w", err)
	}

	now := time.Now().UTC()
	if route.CreatedAt.IsZero() {
		route.CreatedAt = now
	}
	route.UpdatedAt = now

	_, err = r.db.Exec(`INSERT INTO routes
		(id, name, description, stops, operator_id, is_active, optimization_score, estimated_travel_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		route.ID, route.Name, route.Description, string(stops), route.OperatorID,
		route.IsActive, route.OptimizationScore, route.EstimatedTravelTime,
		route.CreatedAt, route.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create route: %w", err)
	}
	return nil
}

func (r *RouteRepository) GetByID(id string) (*models.Route, error) {
	row := r.db.QueryRow(`SELECT id, name, description, stops, operator_id, is_active,
		optimization_score, estimated_travel_time, created_at, updated_at
		FROM routes WHERE id = ?`, id)

	route, err := scanRoute(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get route: %w", err)
	}
	return route, nil
}

// List returns routes matching the filter plus the unfiltered-by-page
// total count
func (r *RouteRepository) List(filter RouteFilter) ([]models.Route, int, error) {
	conditions := []string{}
	args := []interface{}{}

	if filter.OperatorID != "" {
		conditions = append(conditions, "operator_id = ?")
		args = append(args, filter.OperatorID)
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "is_active = 1")
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM routes"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count routes: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(`SELECT id, name, description, stops, operator_id, is_active,
		optimization_score, estimated_travel_time, created_at, updated_at
		FROM routes`+where+` ORDER BY created_at DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list routes: %w", err)
	}
	defer rows.Close()

	var routes []models.Route
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan route: %w", err)
		}
		routes = append(routes, *route)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate routes: %w", err)
	}
	return routes, total, nil
}

func (r *RouteRepository) Update(route models.Route) error {
	stops, err := json.Marshal(route.Stops)
	if err != nil {
		return fmt.Errorf("failed to encode stops: %w", err)
	}

	result, err := r.db.Exec(`UPDATE routes SET name = ?, description = ?, stops = ?,
		operator_id = ?, is_active = ?, optimization_score = ?, estimated_travel_time = ?,
		updated_at = ? WHERE id = ?`,
		route.Name, route.Description, string(stops), route.OperatorID, route.IsActive,
		route.OptimizationScore, route.EstimatedTravelTime, time.Now().UTC(), route.ID)
	if err != nil {
		return fmt.Errorf("failed to update route: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("route %s not found", route.ID)
	}
	return nil
}

func (r *RouteRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM routes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete route: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("route %s not found", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRoute(row rowScanner) (*models.Route, error) {
	var route models.Route
	var stops string
	err := row.Scan(&route.ID, &route.Name, &route.Description, &stops,
		&route.OperatorID, &route.IsActive, &route.OptimizationScore,
		&route.EstimatedTravelTime, &route.CreatedAt, &route.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(stops), &route.Stops); err != nil {
		return nil, fmt.Errorf("failed to decode stops: %w", err)
	}
	return &route, nil
}
