package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/problem"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/repository"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/internal/database"
)

// ProblemFilter narrows a problem listing. Empty fields match everything.
type ProblemFilter struct {
	DifficultyLevel string
	Type            string
}

// Problem provides queries over the synced problems.
type Problem struct {
	store problem.Store
}

// NewProblem creates a new Problem service.
func NewProblem(store problem.Store) *Problem {
	return &Problem{store: store}
}

// Create stores a new problem. It fails with ErrProblemExists when the
// spreadsheet row is already stored.
func (s *Problem) Create(ctx context.Context, p problem.Problem) (problem.Problem, error) {
	n, err := s.store.Count(ctx, problem.WithRowID(p.RowID()))
	if err != nil {
		return problem.Problem{}, fmt.Errorf("check existing problem: %w", err)
	}
	if n > 0 {
		return problem.Problem{}, fmt.Errorf("%w: %d", ErrProblemExists, p.RowID())
	}
	return s.store.Save(ctx, p)
}

// List returns problems matching filter ordered by spreadsheet row.
func (s *Problem) List(ctx context.Context, filter ProblemFilter, options ...repository.Option) ([]problem.Problem, error) {
	return s.store.Find(ctx, s.listOptions(filter, options...)...)
}

// Count returns the number of problems matching filter.
func (s *Problem) Count(ctx context.Context, filter ProblemFilter) (int64, error) {
	return s.store.Count(ctx, s.listOptions(filter)...)
}

func (s *Problem) listOptions(filter ProblemFilter, extra ...repository.Option) []repository.Option {
	var options []repository.Option
	if filter.DifficultyLevel != "" {
		options = append(options, problem.WithDifficultyLevel(filter.DifficultyLevel))
	}
	if filter.Type != "" {
		options = append(options, problem.WithType(filter.Type))
	}
	options = append(options, extra...)
	return append(options, repository.WithOrderAsc("spreadsheet_row_id"))
}

// Get returns a problem by ID.
func (s *Problem) Get(ctx context.Context, id int64) (problem.Problem, error) {
	p, err := s.store.FindOne(ctx, repository.WithID(id))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return problem.Problem{}, fmt.Errorf("%w: %d", ErrProblemNotFound, id)
		}
		return problem.Problem{}, err
	}
	return p, nil
}

// Search returns problems whose name contains name, ignoring case. It
// returns ErrProblemNotFound when nothing matches.
func (s *Problem) Search(ctx context.Context, name string) ([]problem.Problem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty search", ErrProblemNotFound)
	}
	problems, err := s.store.Find(ctx,
		problem.WithNameContains(name),
		repository.WithOrderAsc("spreadsheet_row_id"),
	)
	if err != nil {
		return nil, err
	}
	if len(problems) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrProblemNotFound, name)
	}
	return problems, nil
}
