package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/citycircuit/transit-backend-go/internal/models"
)

// ResultRepository persists optimization results. The optimized route,
// metrics and population data are stored as JSON columns because results
// are immutable once written.
type ResultRepository struct {
	db *sql.DB
}

func NewResultRepository(db *sql.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

func (r *ResultRepository) Create(result models.OptimizationResult) error {
	route, err := json.Marshal(result.OptimizedRoute)
	if err != nil {
		return fmt.Errorf("failed to encode optimized route: %w", err)
	}
	metrics, err := json.Marshal(result.Metrics)
	if err != nil {
		return fmt.Errorf("failed to encode metrics: %w", err)
	}
	population, err := json.Marshal(result.PopulationData)
	if err != nil {
		return fmt.Errorf("failed to encode population data: %w", err)
	}

	_, err = r.db.Exec(`INSERT INTO optimization_results
		(id, original_route_id, optimized_route, metrics, population_data, generated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		result.ID, result.OriginalRouteID, string(route), string(metrics),
		string(population), result.GeneratedAt)
	if err != nil {
		return fmt.Errorf("failed to create optimization result: %w", err)
	}
	return nil
}

func (r *ResultRepository) GetByID(id string) (*models.OptimizationResult, error) {
	row := r.db.QueryRow(`SELECT id, original_route_id, optimized_route, metrics, population_data, generated_at
		FROM optimization_results WHERE id = ?`, id)

	result, err := scanResult(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get optimization result: %w", err)
	}
	return result, nil
}

// ListByRoute returns all results for an original route, newest first.
// An empty route id returns everything.
func (r *ResultRepository) ListByRoute(routeID string) ([]models.OptimizationResult, error) {
	query := `SELECT id, original_route_id, optimized_route, metrics, population_data, generated_at
		FROM optimization_results`
	args := []interface{}{}
	if routeID != "" {
		query += " WHERE original_route_id = ?"
		args = append(args, routeID)
	}
	query += " ORDER BY generated_at DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list optimization results: %w", err)
	}
	defer rows.Close()

	var results []models.OptimizationResult
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan optimization result: %w", err)
		}
		results = append(results, *result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate optimization results: %w", err)
	}
	return results, nil
}

func (r *ResultRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM optimization_results WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete optimization result: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("optimization result %s not found", id)
	}
	return nil
}

func scanResult(row rowScanner) (*models.OptimizationResult, error) {
	var result models.OptimizationResult
	var route, metrics, population string
	err := row.Scan(&result.ID, &result.OriginalRouteID, &route, &metrics,
		&population, &result.GeneratedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(route), &result.OptimizedRoute); err != nil {
		return nil, fmt.Errorf("failed to decode optimized route: %w", err)
	}
	if err := json.Unmarshal([]byte(metrics), &result.Metrics); err != nil {
		return nil, fmt.Errorf("failed to decode metrics: %w", err)
	}
	if err := json.Unmarshal([]byte(population), &result.PopulationData); err != nil {
		return nil, fmt.Errorf("failed to decode population data: %w", err)
	}
	return &result, nil
}
