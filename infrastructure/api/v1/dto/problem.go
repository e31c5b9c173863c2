package dto

import (
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/api/jsonapi"
)

// ProblemData represents problem data in JSON:API format.
type ProblemData struct {
	Type       string                    `json:"type"`
	ID         string                    `json:"id"`
	Attributes jsonapi.ProblemAttributes `json:"attributes"`
}

// ProblemResponse represents a single problem in JSON:API format.
type ProblemResponse struct {
	Data ProblemData `json:"data"`
}

// ProblemListResponse represents a list of problems in JSON:API format.
type ProblemListResponse struct {
	Data  []ProblemData  `json:"data"`
	Meta  jsonapi.Meta   `json:"meta,omitempty"`
	Links *jsonapi.Links `json:"links,omitempty"`
}

// ProblemCreateRequest is the body of POST /problems. CompletionTimeMinutes
// defaults to 0 and FoundOptimalSolution to false.
type ProblemCreateRequest struct {
	SpreadsheetRowID          int    `json:"spreadsheet_row_id"`
	ProblemName               string `json:"problem_name"`
	ProblemType               string `json:"problem_type"`
	DifficultyLevel           string `json:"difficulty_level"`
	ProblemLink               string `json:"problem_link"`
	ProblemHTMLLink           string `json:"problem_html_link"`
	CompletionTimeMinutes     int    `json:"completion_time_minutes"`
	SolutionLink              string `json:"solution_link"`
	SolutionRuntimeComplexity string `json:"solution_runtime_complexity"`
	SolutionSpaceComplexity   string `json:"solution_space_complexity"`
	ComplexityExplanation     string `json:"complexity_explanation"`
	FoundOptimalSolution      bool   `json:"found_optimal_solution"`
}

// Missing returns the names of required fields left empty.
func (r ProblemCreateRequest) Missing() []string {
	var missing []string
	if r.ProblemName == "" {
		missing = append(missing, "problem_name")
	}
	if r.ProblemType == "" {
		missing = append(missing, "problem_type")
	}
	if r.DifficultyLevel == "" {
		missing = append(missing, "difficulty_level")
	}
	if r.ProblemLink == "" {
		missing = append(missing, "problem_link")
	}
	return missing
}
