// Package seed pre-populates the todo store with sample records at startup.
//
// Which strategy runs depends on the deployment profile: production never
// seeds, the dev profile wipes the store and reseeds it, every other profile
// seeds only an empty store.
//
// Seeding is best effort. When several replicas start at the same time
// against an empty store, each may see a count of zero and insert the
// samples, leaving duplicates. Disable seeding with the prod profile (or the
// none strategy) when running more than one replica.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/todo/internal/models"
	"github.com/mmynk/todo/internal/storage"
)

// Strategy selects what the seed runner does.
type Strategy int

const (
	// None leaves the store untouched.
	None Strategy = iota
	// IfEmpty inserts the samples only when the store holds no todos.
	IfEmpty
	// Reseed deletes every todo and inserts the samples.
	Reseed
)

func (s Strategy) String() string {
	switch s {
	case None:
		return "none"
	case IfEmpty:
		return "if-empty"
	case Reseed:
		return "reseed"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy parses the configuration name of a strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "none":
		return None, nil
	case "if-empty":
		return IfEmpty, nil
	case "reseed":
		return Reseed, nil
	default:
		return None, fmt.Errorf("unknown seed strategy %q", name)
	}
}

// ForProfile returns the strategy of a deployment profile.
func ForProfile(profile string) Strategy {
	switch profile {
	case "prod":
		return None
	case "dev":
		return Reseed
	default:
		return IfEmpty
	}
}

// Resolve picks the strategy: an explicit name wins, otherwise the profile
// decides.
func Resolve(profile, name string) (Strategy, error) {
	if name == "" {
		return ForProfile(profile), nil
	}
	return ParseStrategy(name)
}

// Samples returns the fixed sample todos, unsaved.
func Samples() []models.Todo {
	return []models.Todo{
		models.NewTodo("configuration", "congratulations, you have set up your Azure Container App correctly!", false),
		models.NewTodo("test", "check if this is working", false),
		models.NewTodo("demo", "show to friends and family", false),
	}
}

// Runner applies a seed strategy to a repository.
type Runner struct {
	repo storage.TodoRepository

	// OnSeeded, when set, is called with the number of inserted samples.
	OnSeeded func(n int)
}

// NewRunner creates a Runner.
func NewRunner(repo storage.TodoRepository) *Runner {
	return &Runner{repo: repo}
}

// Run applies the strategy and returns the number of todos it inserted.
func (r *Runner) Run(ctx context.Context, strategy Strategy) (int, error) {
	switch strategy {
	case None:
		slog.Info("Seeding disabled")
		return 0, nil

	case IfEmpty:
		n, err := r.repo.Count(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to count todos: %w", err)
		}
		if n > 0 {
			slog.Info("Database already seeded", "count", n)
			return 0, nil
		}
		slog.Info("Seeding database")
		return r.insert(ctx)

	case Reseed:
		slog.Info("Reseeding database")
		if err := r.repo.DeleteAll(ctx); err != nil {
			return 0, fmt.Errorf("failed to clear todos: %w", err)
		}
		return r.insert(ctx)

	default:
		return 0, fmt.Errorf("unknown seed strategy %v", strategy)
	}
}

func (r *Runner) insert(ctx context.Context) (int, error) {
	saved, err := r.repo.SaveAll(ctx, Samples())
	if err != nil {
		return 0, fmt.Errorf("failed to save samples: %w", err)
	}

	if r.OnSeeded != nil {
		r.OnSeeded(len(saved))
	}
	slog.Info("Seeded database", "count", len(saved))

	return len(saved), nil
}
