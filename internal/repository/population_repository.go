package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/citycircuit/transit-backend-go/internal/models"
)

// PopulationRepository persists population density datasets. Density
// points are stored as a JSON column.
type PopulationRepository struct {
	db *sql.DB
}

func NewPopulationRepository(db *sql.DB) *PopulationRepository {
	return &PopulationRepository{db: db}
}

func (r *PopulationRepository) Create(data models.PopulationDensityData) error {
	points, err := json.Marshal(data.DensityPoints)
	if err != nil {
		return fmt.Errorf("failed to encode density points: %w", err)
	}

	_, err = r.db.Exec(`INSERT INTO population_data
		(id, region, north, south, east, west, density_points, data_source, collected_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		data.ID, data.Region, data.Bounds.North, data.Bounds.South,
		data.Bounds.East, data.Bounds.West, string(points), data.DataSource, data.CollectedAt)
	if err != nil {
		return fmt.Errorf("failed to create population data: %w", err)
	}
	return nil
}

func (r *PopulationRepository) GetByID(id string) (*models.PopulationDensityData, error) {
	row := r.db.QueryRow(`SELECT id, region, north, south, east, west, density_points, data_source, collected_at
		FROM population_data WHERE id = ?`, id)

	data, err := scanPopulationData(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get population data: %w", err)
	}
	return data, nil
}

// ListByRegion returns all datasets for a region, newest first.
// An empty region returns everything.
func (r *PopulationRepository) ListByRegion(region string) ([]models.PopulationDensityData, error) {
	query := `SELECT id, region, north, south, east, west, density_points, data_source, collected_at
		FROM population_data`
	args := []interface{}{}
	if region != "" {
		query += " WHERE region = ?"
		args = append(args, region)
	}
	query += " ORDER BY collected_at DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list population data: %w", err)
	}
	defer rows.Close()

	var datasets []models.PopulationDensityData
	for rows.Next() {
		data, err := scanPopulationData(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan population data: %w", err)
		}
		datasets = append(datasets, *data)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate population data: %w", err)
	}
	return datasets, nil
}

func (r *PopulationRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM population_data WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete population data: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("population data %s not found", id)
	}
	return nil
}

func scanPopulationData(row rowScanner) (*models.PopulationDensityData, error) {
	var data models.PopulationDensityData
	var points string
	err := row.Scan(&data.ID, &data.Region, &data.Bounds.North, &data.Bounds.South,
		&data.Bounds.East, &data.Bounds.West, &points, &data.DataSource, &data.CollectedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(points), &data.DensityPoints); err != nil {
		return nil, fmt.Errorf("failed to decode density points: %w", err)
	}
	return &data, nil
}
