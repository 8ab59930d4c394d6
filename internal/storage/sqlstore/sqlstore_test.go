package sqlstore

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/todo/internal/models"
	"github.com/mmynk/todo/internal/storage"
)

// newMockStore returns a Store speaking the PostgreSQL dialect against sqlmock.
func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return New(sqlx.NewDb(db, "postgres"), squirrel.Dollar), mock
}

var todoColumns = []string{"id", "description", "details", "done"}

func TestSave(t *testing.T) {
	ctx := context.Background()

	t.Run("Save inserts and assigns id", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectQuery(`INSERT INTO todo .* RETURNING id`).
			WithArgs("test", "d", false).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

		saved, err := store.Save(ctx, models.NewTodo("test", "d", false))
		require.NoError(t, err)
		require.NotNil(t, saved.ID)
		assert.Equal(t, int64(11), *saved.ID)
		assert.Equal(t, "test", saved.Description)
		assert.Equal(t, "d", saved.Details)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Save with id overwrites record", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectExec(`UPDATE todo SET .* WHERE id = \$4`).
			WithArgs("new", "details", true, int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		saved, err := store.Save(ctx, models.NewTodo("new", "details", true).WithID(3))
		require.NoError(t, err)
		assert.Equal(t, int64(3), *saved.ID)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Save with unknown id returns ErrNotFound", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectExec(`UPDATE todo SET .* WHERE id = \$4`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := store.Save(ctx, models.NewTodo("x", "", false).WithID(404))
		assert.ErrorIs(t, err, storage.ErrNotFound)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Save wraps driver errors", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectQuery(`INSERT INTO todo`).WillReturnError(errors.New("connection refused"))

		_, err := store.Save(ctx, models.NewTodo("x", "", false))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to insert todo")
		assert.Contains(t, err.Error(), "connection refused")

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSaveAll(t *testing.T) {
	ctx := context.Background()

	t.Run("SaveAll commits every todo", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO todo`).
			WithArgs("a", "", false).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
		mock.ExpectQuery(`INSERT INTO todo`).
			WithArgs("b", "", false).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))
		mock.ExpectCommit()

		saved, err := store.SaveAll(ctx, []models.Todo{
			models.NewTodo("a", "", false),
			models.NewTodo("b", "", false),
		})
		require.NoError(t, err)
		require.Len(t, saved, 2)
		assert.Equal(t, int64(1), *saved[0].ID)
		assert.Equal(t, int64(2), *saved[1].ID)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SaveAll rolls back on failure", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO todo`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
		mock.ExpectQuery(`INSERT INTO todo`).
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		saved, err := store.SaveAll(ctx, []models.Todo{
			models.NewTodo("a", "", false),
			models.NewTodo("b", "", false),
		})
		assert.Error(t, err)
		assert.Nil(t, saved)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFindByID(t *testing.T) {
	ctx := context.Background()

	t.Run("FindByID with existing record", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectQuery(`SELECT .* FROM todo WHERE id = \$1`).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows(todoColumns).AddRow(int64(5), "demo", "show", true))

		todo, ok, err := store.FindByID(ctx, 5)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, int64(5), *todo.ID)
		assert.Equal(t, "demo", todo.Description)
		assert.Equal(t, "show", todo.Details)
		assert.True(t, todo.Done)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("FindByID with non-existing record", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectQuery(`SELECT .* FROM todo WHERE id = \$1`).
			WithArgs(int64(999999)).
			WillReturnRows(sqlmock.NewRows(todoColumns))

		_, ok, err := store.FindByID(ctx, 999999)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFindAll(t *testing.T) {
	ctx := context.Background()

	t.Run("FindAll orders by id", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectQuery(`SELECT id, description, details, done FROM todo ORDER BY id`).
			WillReturnRows(sqlmock.NewRows(todoColumns).
				AddRow(int64(1), "configuration", "c", false).
				AddRow(int64(2), "test", "t", false))

		todos, err := store.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, todos, 2)
		assert.Equal(t, "configuration", todos[0].Description)
		assert.Equal(t, "test", todos[1].Description)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("FindAll on empty table returns empty slice", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectQuery(`SELECT .* FROM todo`).WillReturnRows(sqlmock.NewRows(todoColumns))

		todos, err := store.FindAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, todos)
		assert.Empty(t, todos)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestExistsDeleteCount(t *testing.T) {
	ctx := context.Background()
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT EXISTS\(.*FROM todo WHERE id = \$1.*\)`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(`DELETE FROM todo WHERE id = \$1`).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM todo`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))
	mock.ExpectExec(`DELETE FROM todo`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	exists, err := store.ExistsByID(ctx, 2)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.DeleteByID(ctx, 2))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, store.DeleteAll(ctx))

	require.NoError(t, mock.ExpectationsWereMet())
}
