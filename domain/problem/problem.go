// Package problem provides the problem domain: one row of the watched sheet
// as it is stored in the relational database.
package problem

import (
	"errors"
	"time"
)

// ErrInvalidProblem indicates a problem failed validation.
var ErrInvalidProblem = errors.New("invalid problem")

// Fields holds the user-editable attributes of a problem.
type Fields struct {
	Name                  string
	Type                  string
	DifficultyLevel       string
	Link                  string
	HTMLLink              string
	CompletionTimeMinutes int
	SolutionLink          string
	RuntimeComplexity     string
	SpaceComplexity       string
	ComplexityExplanation string
	FoundOptimalSolution  bool
}

// Problem is a practice problem keyed by its spreadsheet row.
type Problem struct {
	id        int64
	rowID     int
	fields    Fields
	createdAt time.Time
	updatedAt time.Time
}

// NewProblem creates a Problem for a spreadsheet row.
func NewProblem(rowID int, fields Fields) (Problem, error) {
	if rowID < 1 {
		return Problem{}, errors.Join(ErrInvalidProblem, errors.New("spreadsheet row id must be a positive integer"))
	}
	if fields.CompletionTimeMinutes < 0 {
		return Problem{}, errors.Join(ErrInvalidProblem, errors.New("completion time must be non-negative"))
	}
	if fields.Name == "" {
		return Problem{}, errors.Join(ErrInvalidProblem, errors.New("problem name is required"))
	}
	return Problem{rowID: rowID, fields: fields}, nil
}

// ReconstructProblem recreates a Problem from persistence.
func ReconstructProblem(id int64, rowID int, fields Fields, createdAt, updatedAt time.Time) Problem {
	return Problem{
		id:        id,
		rowID:     rowID,
		fields:    fields,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ID returns the database ID.
func (p Problem) ID() int64 { return p.id }

// RowID returns the spreadsheet row the problem was read from.
func (p Problem) RowID() int { return p.rowID }

// Fields returns the problem attributes.
func (p Problem) Fields() Fields { return p.fields }

// Name returns the problem name.
func (p Problem) Name() string { return p.fields.Name }

// Type returns the problem type.
func (p Problem) Type() string { return p.fields.Type }

// DifficultyLevel returns the difficulty level.
func (p Problem) DifficultyLevel() string { return p.fields.DifficultyLevel }

// CreatedAt returns the creation timestamp.
func (p Problem) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns the last update timestamp.
func (p Problem) UpdatedAt() time.Time { return p.updatedAt }

// WithID returns a copy with the given ID.
func (p Problem) WithID(id int64) Problem {
	p.id = id
	return p
}
