// Package sqlite provides a SQLite-backed implementation of storage.TodoRepository.
package sqlite

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/todo/internal/storage/sqlstore"
)

// busyTimeout makes concurrent writers wait for the database lock instead of
// failing immediately with SQLITE_BUSY.
const busyTimeout = "_pragma=busy_timeout(5000)"

// New opens the SQLite database at dbPath and returns a todo store.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*sqlstore.Store, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sqlx.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return sqlstore.New(db, squirrel.Question), nil
}

func dsn(dbPath string) string {
	return dbPath + "?" + busyTimeout
}
