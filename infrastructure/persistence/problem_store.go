package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/problem"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/internal/database"
)

// upsertBatchSize bounds the number of rows per INSERT statement.
const upsertBatchSize = 200

// problemUpdateColumns are overwritten when a spreadsheet row is synced again.
var problemUpdateColumns = []string{
	"problem_name",
	"problem_type",
	"difficulty_level",
	"problem_link",
	"problem_html_link",
	"completion_time_minutes",
	"solution_link",
	"solution_runtime_complexity",
	"solution_space_complexity",
	"complexity_explanation",
	"found_optimal_solution",
	"updated_at",
}

// ProblemStore implements problem.Store using GORM.
type ProblemStore struct {
	database.Repository[problem.Problem, ProblemModel]
}

// NewProblemStore creates a new ProblemStore.
func NewProblemStore(db database.Database) ProblemStore {
	return ProblemStore{
		Repository: database.NewRepository[problem.Problem, ProblemModel](db, ProblemMapper{}, "problem"),
	}
}

// Save creates or updates a problem.
func (s ProblemStore) Save(ctx context.Context, p problem.Problem) (problem.Problem, error) {
	model := s.Mapper().ToModel(p)

	var result *gorm.DB
	if p.ID() == 0 {
		result = s.DB(ctx).Create(&model)
	} else {
		result = s.DB(ctx).Save(&model)
	}

	if result.Error != nil {
		return problem.Problem{}, fmt.Errorf("save problem: %w", result.Error)
	}
	return s.Mapper().ToDomain(model), nil
}

// Upsert inserts or updates problems keyed by spreadsheet_row_id in a single
// transaction. It returns the number of problems written.
func (s ProblemStore) Upsert(ctx context.Context, problems []problem.Problem) (int, error) {
	if len(problems) == 0 {
		return 0, nil
	}

	// A single statement may not update the same row twice; the last
	// problem for a row wins.
	position := make(map[int]int, len(problems))
	models := make([]ProblemModel, 0, len(problems))
	for _, p := range problems {
		model := s.Mapper().ToModel(p)
		model.ID = 0
		if i, ok := position[model.SpreadsheetRowID]; ok {
			models[i] = model
			continue
		}
		position[model.SpreadsheetRowID] = len(models)
		models = append(models, model)
	}

	err := database.WithTransaction(ctx, s.Database(), func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "spreadsheet_row_id"}},
			DoUpdates: clause.AssignmentColumns(problemUpdateColumns),
		}).CreateInBatches(&models, upsertBatchSize).Error
	})
	if err != nil {
		return 0, fmt.Errorf("upsert problems: %w", err)
	}
	return len(models), nil
}
