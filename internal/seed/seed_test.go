package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/todo/internal/models"
	"github.com/mmynk/todo/internal/storage/sqlite"
	"github.com/mmynk/todo/internal/storage/sqlstore"
)

func newStore(t *testing.T) *sqlstore.Store {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func descriptions(t *testing.T, store *sqlstore.Store) []string {
	t.Helper()

	todos, err := store.FindAll(context.Background())
	require.NoError(t, err)

	out := make([]string, len(todos))
	for i, todo := range todos {
		out[i] = todo.Description
	}
	return out
}

func TestIfEmpty(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	runner := NewRunner(store)

	n, err := runner.Run(ctx, IfEmpty)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"configuration", "test", "demo"}, descriptions(t, store))

	// second run sees a non-empty store
	n, err = runner.Run(ctx, IfEmpty)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestIfEmptyKeepsExistingData(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	_, err := store.Save(ctx, models.NewTodo("mine", "", false))
	require.NoError(t, err)

	n, err := NewRunner(store).Run(ctx, IfEmpty)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, []string{"mine"}, descriptions(t, store))
}

func TestReseed(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	_, err := store.SaveAll(ctx, []models.Todo{
		models.NewTodo("old", "", true),
		models.NewTodo("older", "", false),
	})
	require.NoError(t, err)

	var seeded int
	runner := NewRunner(store)
	runner.OnSeeded = func(n int) { seeded += n }

	n, err := runner.Run(ctx, Reseed)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, seeded)
	assert.Equal(t, []string{"configuration", "test", "demo"}, descriptions(t, store))

	// reseeding again still leaves exactly the samples
	_, err = runner.Run(ctx, Reseed)
	require.NoError(t, err)
	assert.Equal(t, []string{"configuration", "test", "demo"}, descriptions(t, store))
	assert.Equal(t, 6, seeded)
}

func TestNone(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	n, err := NewRunner(store).Run(ctx, None)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, descriptions(t, store))
}

func TestForProfile(t *testing.T) {
	assert.Equal(t, None, ForProfile("prod"))
	assert.Equal(t, Reseed, ForProfile("dev"))
	assert.Equal(t, IfEmpty, ForProfile("default"))
	assert.Equal(t, IfEmpty, ForProfile("staging"))
	assert.Equal(t, IfEmpty, ForProfile(""))
}

func TestResolve(t *testing.T) {
	s, err := Resolve("prod", "")
	require.NoError(t, err)
	assert.Equal(t, None, s)

	s, err = Resolve("prod", "reseed")
	require.NoError(t, err)
	assert.Equal(t, Reseed, s)

	_, err = Resolve("dev", "sometimes")
	assert.EqualError(t, err, `unknown seed strategy "sometimes"`)
}

func TestStrategyRoundTrip(t *testing.T) {
	for _, s := range []Strategy{None, IfEmpty, Reseed} {
		parsed, err := ParseStrategy(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	assert.Equal(t, "Strategy(9)", Strategy(9).String())
}

func TestSamples(t *testing.T) {
	samples := Samples()
	require.Len(t, samples, 3)
	for _, s := range samples {
		assert.False(t, s.Persisted())
		assert.False(t, s.Done)
	}
	assert.Equal(t, "check if this is working", samples[1].Details)
}
