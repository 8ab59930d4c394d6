// Package sqlstore implements storage.TodoRepository on top of sqlx and
// squirrel. The same implementation serves every supported SQL dialect; the
// dialect only decides the placeholder format.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/mmynk/todo/internal/models"
	"github.com/mmynk/todo/internal/storage"
)

// Ensure Store implements storage.TodoRepository
var _ storage.TodoRepository = (*Store)(nil)

// TableName is the table holding todos.
const TableName = "todo"

var columns = []string{"id", "description", "details", "done"}

// Store implements storage.TodoRepository over a *sqlx.DB.
type Store struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// New wraps an open database. Use squirrel.Question for SQLite and
// squirrel.Dollar for PostgreSQL.
func New(db *sqlx.DB, placeholder squirrel.PlaceholderFormat) *Store {
	return &Store{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(placeholder),
	}
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Save inserts or replaces a todo.
func (s *Store) Save(ctx context.Context, todo models.Todo) (models.Todo, error) {
	return s.save(ctx, s.db, todo)
}

// SaveAll saves the todos inside one transaction. Either all of them are
// stored or none is.
func (s *Store) SaveAll(ctx context.Context, todos []models.Todo) ([]models.Todo, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	saved := make([]models.Todo, 0, len(todos))
	for _, todo := range todos {
		t, err := s.save(ctx, tx, todo)
		if err != nil {
			return nil, err
		}
		saved = append(saved, t)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return saved, nil
}

func (s *Store) save(ctx context.Context, ext sqlx.ExtContext, todo models.Todo) (models.Todo, error) {
	if todo.ID == nil {
		return s.insert(ctx, ext, todo)
	}
	return s.update(ctx, ext, todo)
}

func (s *Store) insert(ctx context.Context, ext sqlx.ExtContext, todo models.Todo) (models.Todo, error) {
	query, args, err := s.sb.Insert(TableName).
		Columns("description", "details", "done").
		Values(todo.Description, todo.Details, todo.Done).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return todo, fmt.Errorf("failed to build insert: %w", err)
	}

	var id int64
	if err := ext.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return todo, fmt.Errorf("failed to insert todo: %w", err)
	}

	return todo.WithID(id), nil
}

func (s *Store) update(ctx context.Context, ext sqlx.ExtContext, todo models.Todo) (models.Todo, error) {
	query, args, err := s.sb.Update(TableName).
		Set("description", todo.Description).
		Set("details", todo.Details).
		Set("done", todo.Done).
		Where(squirrel.Eq{"id": *todo.ID}).
		ToSql()
	if err != nil {
		return todo, fmt.Errorf("failed to build update: %w", err)
	}

	result, err := ext.ExecContext(ctx, query, args...)
	if err != nil {
		return todo, fmt.Errorf("failed to update todo: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return todo, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return todo, storage.ErrNotFound
	}

	return todo, nil
}

// FindAll returns every todo ordered by ID.
func (s *Store) FindAll(ctx context.Context) ([]models.Todo, error) {
	query, args, err := s.sb.Select(columns...).From(TableName).OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	todos := []models.Todo{}
	if err := sqlx.SelectContext(ctx, s.db, &todos, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	return todos, nil
}

// FindByID retrieves a todo by ID.
func (s *Store) FindByID(ctx context.Context, id int64) (models.Todo, bool, error) {
	query, args, err := s.sb.Select(columns...).From(TableName).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return models.Todo{}, false, fmt.Errorf("failed to build select: %w", err)
	}

	var todo models.Todo
	err = sqlx.GetContext(ctx, s.db, &todo, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Todo{}, false, nil
	}
	if err != nil {
		return models.Todo{}, false, fmt.Errorf("failed to get todo: %w", err)
	}

	return todo, true, nil
}

// ExistsByID checks for a todo without loading it.
func (s *Store) ExistsByID(ctx context.Context, id int64) (bool, error) {
	query, args, err := s.sb.Select("1").
		From(TableName).
		Where(squirrel.Eq{"id": id}).
		Prefix("SELECT EXISTS(").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build exists: %w", err)
	}

	var exists bool
	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check todo: %w", err)
	}

	return exists, nil
}

// DeleteByID removes a todo by ID.
func (s *Store) DeleteByID(ctx context.Context, id int64) error {
	query, args, err := s.sb.Delete(TableName).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	return nil
}

// DeleteAll removes every todo.
func (s *Store) DeleteAll(ctx context.Context) error {
	query, args, err := s.sb.Delete(TableName).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete todos: %w", err)
	}

	return nil
}

// Count returns the number of todos.
func (s *Store) Count(ctx context.Context) (int64, error) {
	query, args, err := s.sb.Select("COUNT(*)").From(TableName).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count: %w", err)
	}

	var n int64
	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count todos: %w", err)
	}

	return n, nil
}
