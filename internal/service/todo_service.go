package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/todo/internal/metrics"
	"github.com/mmynk/todo/internal/models"
	"github.com/mmynk/todo/internal/storage"
)

// TodoService implements the todo use cases on top of a repository.
type TodoService struct {
	store   storage.TodoRepository
	metrics *metrics.Metrics
}

// NewTodoService creates a new TodoService with the given storage backend.
func NewTodoService(store storage.TodoRepository, m *metrics.Metrics) *TodoService {
	return &TodoService{store: store, metrics: m}
}

// Create stores a new todo. Any ID set by the caller is discarded; the store
// assigns one.
func (s *TodoService) Create(ctx context.Context, todo models.Todo) (models.Todo, error) {
	todo.ID = nil

	saved, err := s.store.Save(ctx, todo)
	if err != nil {
		slog.Error("Create todo failed", "error", err)
		return models.Todo{}, err
	}

	s.metrics.TodosCreated.Inc()
	slog.Info("Created new todo", "id", *saved.ID)

	return saved, nil
}

// List returns every todo.
func (s *TodoService) List(ctx context.Context) ([]models.Todo, error) {
	slog.Info("Querying all todos")

	todos, err := s.store.FindAll(ctx)
	if err != nil {
		slog.Error("List todos failed", "error", err)
		return nil, err
	}

	return todos, nil
}

// Get returns the todo with the given ID, or storage.ErrNotFound.
func (s *TodoService) Get(ctx context.Context, id int64) (models.Todo, error) {
	slog.Info("Querying todo", "id", id)

	todo, ok, err := s.store.FindByID(ctx, id)
	if err != nil {
		slog.Error("Get todo failed", "id", id, "error", err)
		return models.Todo{}, err
	}
	if !ok {
		slog.Info("Todo not found", "id", id)
		return models.Todo{}, fmt.Errorf("get todo %d: %w", id, storage.ErrNotFound)
	}

	return todo, nil
}

// Delete removes the todo with the given ID, or returns storage.ErrNotFound.
func (s *TodoService) Delete(ctx context.Context, id int64) error {
	exists, err := s.store.ExistsByID(ctx, id)
	if err != nil {
		slog.Error("Delete todo failed", "id", id, "error", err)
		return err
	}
	if !exists {
		slog.Info("Todo not found", "id", id)
		return fmt.Errorf("delete todo %d: %w", id, storage.ErrNotFound)
	}

	slog.Info("Deleting todo", "id", id)
	if err := s.store.DeleteByID(ctx, id); err != nil {
		slog.Error("Delete todo failed", "id", id, "error", err)
		return err
	}

	s.metrics.TodosDeleted.Inc()
	return nil
}

// Ready reports whether the backing store is reachable.
func (s *TodoService) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}
