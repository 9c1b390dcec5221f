package database

import (
	"database/sql"
	"fmt"
)

// Migration is a single schema change applied in version order
type Migration struct {
	Version int
	Name    string
	SQL     string
}

var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_routes",
		SQL: `CREATE TABLE IF NOT EXISTS routes (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			stops TEXT NOT NULL,
			operator_id TEXT NOT NULL DEFAULT '',
			is_active INTEGER NOT NULL DEFAULT 1,
			optimization_score REAL NOT NULL DEFAULT 0,
			estimated_travel_time INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_routes_operator ON routes(operator_id);
		CREATE INDEX IF NOT EXISTS idx_routes_active ON routes(is_active);`,
	},
	{
		Version: 2,
		Name:    "create_population_data",
		SQL: `CREATE TABLE IF NOT EXISTS population_data (
			id TEXT PRIMARY KEY,
			region TEXT NOT NULL,
			north REAL NOT NULL,
			south REAL NOT NULL,
			east REAL NOT NULL,
			west REAL NOT NULL,
			density_points TEXT NOT NULL,
			data_source TEXT NOT NULL DEFAULT '',
			collected_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_population_region ON population_data(region);`,
	},
	{
		Version: 3,
		Name:    "create_optimization_results",
		SQL: `CREATE TABLE IF NOT EXISTS optimization_results (
			id TEXT PRIMARY KEY,
			original_route_id TEXT NOT NULL,
			optimized_route TEXT NOT NULL,
			metrics TEXT NOT NULL,
			population_data TEXT NOT NULL,
			generated_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_results_original_route ON optimization_results(original_route_id);`,
	},
}

// RunMigrations applies all pending migrations in version order.
// Applied versions are tracked in the migrations table.
func RunMigrations(conn *sql.DB) error {
	if _, err := conn.Exec(`CREATE TABLE IF NOT EXISTS migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, m := range migrations {
		var count int
		if err := conn.QueryRow("SELECT COUNT(*) FROM migrations WHERE version = ?", m.Version).Scan(&count); err != nil {
			return fmt.Errorf("failed to check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := conn.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
		}
		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
		}
		if _, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}
