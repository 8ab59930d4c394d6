// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/todo/internal/models"
)

// ErrNotFound is returned when an operation targets a todo that does not exist.
var ErrNotFound = errors.New("todo not found")

// TodoRepository defines the persistence boundary for todos.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type TodoRepository interface {
	// Save inserts the todo when it has no ID and returns it with the
	// store-assigned ID. A todo that already has an ID replaces the stored
	// record; ErrNotFound is returned if there is none.
	Save(ctx context.Context, todo models.Todo) (models.Todo, error)

	// SaveAll saves every todo in a single transaction.
	SaveAll(ctx context.Context, todos []models.Todo) ([]models.Todo, error)

	// FindAll returns every todo in insertion order.
	FindAll(ctx context.Context) ([]models.Todo, error)

	// FindByID returns the todo with the given ID. The boolean is false,
	// with a nil error, when no such todo exists.
	FindByID(ctx context.Context, id int64) (models.Todo, bool, error)

	// ExistsByID reports whether a todo with the given ID exists.
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// DeleteByID removes the todo with the given ID. Callers check
	// existence first; deleting a missing ID is not an error here.
	DeleteByID(ctx context.Context, id int64) error

	// DeleteAll removes every todo.
	DeleteAll(ctx context.Context) error

	// Count returns the number of stored todos.
	Count(ctx context.Context) (int64, error)

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
