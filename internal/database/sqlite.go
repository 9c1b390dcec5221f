package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

var (
	db   *sql.DB
	once sync.Once
)

// Initialize opens the SQLite database at the given path, creating the
// parent directory if needed, and applies the connection pragmas.
// Safe to call more than once; only the first call opens.
func Initialize(dbPath string) error {
	var initErr error
	once.Do(func() {
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				initErr = fmt.Errorf("failed to create database directory: %w", err)
				return
			}
		}

		conn, err := sql.Open("sqlite", dbPath)
		if err != nil {
			initErr = fmt.Errorf("failed to open database: %w", err)
			return
		}

		if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
			initErr = fmt.Errorf("failed to enable WAL mode: %w", err)
			return
		}
		if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
			initErr = fmt.Errorf("failed to enable foreign keys: %w", err)
			return
		}

		conn.SetMaxOpenConns(10)
		conn.SetMaxIdleConns(5)

		if err := conn.Ping(); err != nil {
			initErr = fmt.Errorf("failed to ping database: %w", err)
			return
		}

		db = conn
	})
	return initErr
}

// GetDB returns the shared database handle. Initialize must have been
// called first.
func GetDB() *sql.DB {
	return db
}

// Close closes the shared database handle
func Close() error {
	if db == nil {
		return nil
	}
	return db.Close()
}

// Transaction runs fn inside a transaction, rolling back on error or panic
func Transaction(fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("failed to rollback after %v: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
