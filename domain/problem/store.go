package problem

import (
	"context"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/repository"
)

// Store persists problems.
type Store interface {
	Find(ctx context.Context, options ...repository.Option) ([]Problem, error)
	FindOne(ctx context.Context, options ...repository.Option) (Problem, error)
	Count(ctx context.Context, options ...repository.Option) (int64, error)
	Save(ctx context.Context, p Problem) (Problem, error)
	// Upsert inserts or updates problems keyed by spreadsheet row and
	// returns the number of rows written.
	Upsert(ctx context.Context, problems []Problem) (int, error)
}

// WithRowID filters by the "spreadsheet_row_id" column.
func WithRowID(rowID int) repository.Option {
	return repository.WithEqual("spreadsheet_row_id", rowID)
}

// WithDifficultyLevel filters by the "difficulty_level" column.
func WithDifficultyLevel(level string) repository.Option {
	return repository.WithEqual("difficulty_level", level)
}

// WithType filters by the "problem_type" column.
func WithType(t string) repository.Option {
	return repository.WithEqual("problem_type", t)
}

// WithNameContains filters by a case-insensitive substring of the name.
func WithNameContains(s string) repository.Option {
	return repository.WithContainsFold("problem_name", s)
}
