package jsonapi

import (
	"strconv"
	"time"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/problem"
)

// Resource type names.
const (
	TypeProblem = "problem"
	TypeSheet   = "sheet"
	TypeRow     = "row"
	TypeTracker = "tracker_log"
	TypeSync    = "sync"
	TypeEdit    = "edit_event"
)

// ProblemAttributes represents problem attributes in JSON:API format.
type ProblemAttributes struct {
	SpreadsheetRowID          int        `json:"spreadsheet_row_id"`
	ProblemName               string     `json:"problem_name"`
	ProblemType               string     `json:"problem_type"`
	DifficultyLevel           string     `json:"difficulty_level"`
	ProblemLink               string     `json:"problem_link"`
	ProblemHTMLLink           string     `json:"problem_html_link"`
	CompletionTimeMinutes     int        `json:"completion_time_minutes"`
	SolutionLink              string     `json:"solution_link"`
	SolutionRuntimeComplexity string     `json:"solution_runtime_complexity"`
	SolutionSpaceComplexity   string     `json:"solution_space_complexity"`
	ComplexityExplanation     string     `json:"complexity_explanation"`
	FoundOptimalSolution      bool       `json:"found_optimal_solution"`
	CreatedAt                 *time.Time `json:"created_at,omitempty"`
	UpdatedAt                 *time.Time `json:"updated_at,omitempty"`
}

// SheetAttributes represents sheet attributes in JSON:API format.
type SheetAttributes struct {
	Name    string `json:"name"`
	LastRow int    `json:"last_row"`
}

// RowAttributes represents one sheet row in JSON:API format.
type RowAttributes struct {
	Sheet string   `json:"sheet"`
	Index int      `json:"index"`
	Cells []string `json:"cells"`
}

// TrackerAttributes represents the tracker log in JSON:API format.
type TrackerAttributes struct {
	Sheet   string `json:"sheet"`
	Entries []int  `json:"entries"`
	Count   int    `json:"count"`
}

// EditAttributes represents an accepted edit event.
type EditAttributes struct {
	SheetName string `json:"sheet_name"`
	RowIndex  int    `json:"row_index"`
}

// Serializer converts domain objects to JSON:API resources.
type Serializer struct{}

// NewSerializer creates a new Serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// ProblemResource converts a problem to a JSON:API resource.
func (s *Serializer) ProblemResource(p problem.Problem) *Resource {
	f := p.Fields()
	attrs := &ProblemAttributes{
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
	}
	if t := p.CreatedAt(); !t.IsZero() {
		attrs.CreatedAt = &t
	}
	if t := p.UpdatedAt(); !t.IsZero() {
		attrs.UpdatedAt = &t
	}
	return NewResource(TypeProblem, strconv.FormatInt(p.ID(), 10), attrs)
}

// ProblemResources converts multiple problems to JSON:API resources.
func (s *Serializer) ProblemResources(problems []problem.Problem) []*Resource {
	resources := make([]*Resource, len(problems))
	for i, p := range problems {
		resources[i] = s.ProblemResource(p)
	}
	return resources
}

// SheetResource converts a sheet summary to a JSON:API resource.
func (s *Serializer) SheetResource(name string, lastRow int) *Resource {
	return NewResource(TypeSheet, name, &SheetAttributes{Name: name, LastRow: lastRow})
}

// RowResources converts consecutive rows starting at start to JSON:API resources.
func (s *Serializer) RowResources(sheet string, start int, rows [][]string) []*Resource {
	resources := make([]*Resource, len(rows))
	for i, cells := range rows {
		if cells == nil {
			cells = []string{}
		}
		index := start + i
		resources[i] = NewResource(TypeRow, sheet+":"+strconv.Itoa(index), &RowAttributes{
			Sheet: sheet,
			Index: index,
			Cells: cells,
		})
	}
	return resources
}

// TrackerResource converts tracker log entries to a JSON:API resource.
func (s *Serializer) TrackerResource(sheet string, entries []int) *Resource {
	if entries == nil {
		entries = []int{}
	}
	return NewResource(TypeTracker, sheet, &TrackerAttributes{
		Sheet:   sheet,
		Entries: entries,
		Count:   len(entries),
	})
}
