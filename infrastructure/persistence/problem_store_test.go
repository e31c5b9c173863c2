package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/problem"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/repository"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/persistence"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/internal/database"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/internal/testdb"
)

func mustProblem(t *testing.T, row int, name, difficulty string) problem.Problem {
	t.Helper()
	p, err := problem.NewProblem(row, problem.Fields{
		Name:            name,
		Type:            "Arrays",
		DifficultyLevel: difficulty,
	})
	require.NoError(t, err)
	return p
}

func TestProblemStore_Upsert(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewProblemStore(testdb.New(t))

	n, err := store.Upsert(ctx, []problem.Problem{
		mustProblem(t, 2, "Two Sum", "easy"),
		mustProblem(t, 3, "LRU Cache", "medium"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = store.Upsert(ctx, []problem.Problem{
		mustProblem(t, 3, "LRU Cache", "hard"),
		mustProblem(t, 4, "Word Ladder", "hard"),
		mustProblem(t, 4, "Word Ladder II", "hard"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	lru, err := store.FindOne(ctx, problem.WithRowID(3))
	require.NoError(t, err)
	assert.Equal(t, "hard", lru.DifficultyLevel())
	assert.False(t, lru.CreatedAt().IsZero())

	ladder, err := store.FindOne(ctx, problem.WithRowID(4))
	require.NoError(t, err)
	assert.Equal(t, "Word Ladder II", ladder.Name())
}

func TestProblemStore_UpsertEmpty(t *testing.T) {
	store := persistence.NewProblemStore(testdb.New(t))

	n, err := store.Upsert(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestProblemStore_SaveAndFilter(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewProblemStore(testdb.New(t))

	saved, err := store.Save(ctx, mustProblem(t, 2, "Two Sum", "easy"))
	require.NoError(t, err)
	assert.NotZero(t, saved.ID())

	_, err = store.Save(ctx, mustProblem(t, 3, "Three Sum", "medium"))
	require.NoError(t, err)

	easy, err := store.Find(ctx, problem.WithDifficultyLevel("easy"))
	require.NoError(t, err)
	require.Len(t, easy, 1)
	assert.Equal(t, "Two Sum", easy[0].Name())

	matches, err := store.Find(ctx, problem.WithNameContains("SUM"), repository.WithOrderAsc("spreadsheet_row_id"))
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	_, err = store.FindOne(ctx, repository.WithID(999))
	assert.ErrorIs(t, err, database.ErrNotFound)
}
