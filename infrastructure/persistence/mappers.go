package persistence

import "github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/problem"

// ProblemMapper maps between domain Problem and persistence ProblemModel.
type ProblemMapper struct{}

// ToDomain converts a ProblemModel to a domain Problem.
func (m ProblemMapper) ToDomain(e ProblemModel) problem.Problem {
	return problem.ReconstructProblem(
		e.ID,
		e.SpreadsheetRowID,
		problem.Fields{
			Name:                  e.ProblemName,
			Type:                  e.ProblemType,
			DifficultyLevel:       e.DifficultyLevel,
			Link:                  e.ProblemLink,
			HTMLLink:              e.ProblemHTMLLink,
			CompletionTimeMinutes: e.CompletionTimeMinutes,
			SolutionLink:          e.SolutionLink,
			RuntimeComplexity:     e.SolutionRuntimeComplexity,
			SpaceComplexity:       e.SolutionSpaceComplexity,
			ComplexityExplanation: e.ComplexityExplanation,
			FoundOptimalSolution:  e.FoundOptimalSolution,
		},
		e.CreatedAt,
		e.UpdatedAt,
	)
}

// ToModel converts a domain Problem to a ProblemModel.
func (m ProblemMapper) ToModel(p problem.Problem) ProblemModel {
	f := p.Fields()
	return ProblemModel{
		ID:                        p.ID(),
		SpreadsheetRowID:          p.RowID(),
		ProblemName:               f.Name,
		ProblemType:               f.Type,
		DifficultyLevel:           f.DifficultyLevel,
		ProblemLink:               f.Link,
		ProblemHTMLLink:           f.HTMLLink,
		CompletionTimeMinutes:     f.CompletionTimeMinutes,
		SolutionLink:              f.SolutionLink,
		SolutionRuntimeComplexity: f.RuntimeComplexity,
		SolutionSpaceComplexity:   f.SpaceComplexity,
		ComplexityExplanation:     f.ComplexityExplanation,
		FoundOptimalSolution:      f.FoundOptimalSolution,
		CreatedAt:                 p.CreatedAt(),
		UpdatedAt:                 p.UpdatedAt(),
	}
}
