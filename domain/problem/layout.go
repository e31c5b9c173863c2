package problem

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/workbook"
)

// Field names a column of the watched sheet.
type Field string

// Field values, in the default column order A..K.
const (
	FieldName                  Field = "problem_name"
	FieldType                  Field = "problem_type"
	FieldDifficultyLevel       Field = "difficulty_level"
	FieldLink                  Field = "problem_link"
	FieldHTMLLink              Field = "problem_html_link"
	FieldCompletionTime        Field = "completion_time_minutes"
	FieldSolutionLink          Field = "solution_link"
	FieldRuntimeComplexity     Field = "solution_runtime_complexity"
	FieldSpaceComplexity       Field = "solution_space_complexity"
	FieldComplexityExplanation Field = "complexity_explanation"
	FieldFoundOptimalSolution  Field = "found_optimal_solution"
)

// DefaultColumns returns the column order of the watched sheet.
func DefaultColumns() []Field {
	return []Field{
		FieldName,
		FieldType,
		FieldDifficultyLevel,
		FieldLink,
		FieldHTMLLink,
		FieldCompletionTime,
		FieldSolutionLink,
		FieldRuntimeComplexity,
		FieldSpaceComplexity,
		FieldComplexityExplanation,
		FieldFoundOptimalSolution,
	}
}

// DefaultValues returns the values substituted for empty cells.
func DefaultValues() map[Field]string {
	return map[Field]string{
		FieldName:                  "Unknown Problem",
		FieldType:                  "General",
		FieldDifficultyLevel:       "medium",
		FieldLink:                  "https://www.google.com",
		FieldHTMLLink:              "https://www.google.com",
		FieldCompletionTime:        "0",
		FieldSolutionLink:          "https://www.google.com",
		FieldRuntimeComplexity:     "Unknown",
		FieldSpaceComplexity:       "Unknown",
		FieldComplexityExplanation: "No explanation provided",
		FieldFoundOptimalSolution:  "false",
	}
}

// Layout maps sheet columns to problem fields.
type Layout struct {
	columns  []Field
	defaults map[Field]string
}

// DefaultLayout returns the built-in A..K layout.
func DefaultLayout() Layout {
	return Layout{columns: DefaultColumns(), defaults: DefaultValues()}
}

// NewLayout creates a Layout. Unknown or repeated fields are rejected.
// Defaults not supplied fall back to DefaultValues.
func NewLayout(columns []Field, defaults map[Field]string) (Layout, error) {
	if len(columns) == 0 {
		columns = DefaultColumns()
	}
	known := DefaultColumns()
	seen := make(map[Field]bool, len(columns))
	for _, c := range columns {
		if !slices.Contains(known, c) {
			return Layout{}, fmt.Errorf("unknown column %q", c)
		}
		if seen[c] {
			return Layout{}, fmt.Errorf("duplicate column %q", c)
		}
		seen[c] = true
	}

	merged := DefaultValues()
	for f, v := range defaults {
		if !slices.Contains(known, f) {
			return Layout{}, fmt.Errorf("unknown default %q", f)
		}
		merged[f] = v
	}
	return Layout{columns: slices.Clone(columns), defaults: merged}, nil
}

// Columns returns the field for each column, left to right.
func (l Layout) Columns() []Field { return slices.Clone(l.columns) }

// Width returns the number of columns.
func (l Layout) Width() int { return len(l.columns) }

// LastColumn returns the letter of the last column, e.g. "K".
func (l Layout) LastColumn() string { return ColumnLetter(len(l.columns)) }

// Default returns the fallback value for a field.
func (l Layout) Default(f Field) string { return l.defaults[f] }

// FromRow builds a Problem from the cells of a sheet row. It returns
// ok=false for the header row and for blank rows.
func FromRow(rowIndex int, cells []string, layout Layout) (p Problem, ok bool, err error) {
	if rowIndex == 1 || workbook.IsBlank(cells) {
		return Problem{}, false, nil
	}

	value := func(f Field) string {
		idx := slices.Index(layout.columns, f)
		if idx >= 0 && idx < len(cells) {
			// Whitespace-only cells count as empty and take the default.
			if v := strings.TrimSpace(cells[idx]); v != "" {
				return v
			}
		}
		return layout.Default(f)
	}

	fields := Fields{
		Name:                  value(FieldName),
		Type:                  value(FieldType),
		DifficultyLevel:       value(FieldDifficultyLevel),
		Link:                  value(FieldLink),
		HTMLLink:              value(FieldHTMLLink),
		CompletionTimeMinutes: parseMinutes(value(FieldCompletionTime)),
		SolutionLink:          value(FieldSolutionLink),
		RuntimeComplexity:     value(FieldRuntimeComplexity),
		SpaceComplexity:       value(FieldSpaceComplexity),
		ComplexityExplanation: value(FieldComplexityExplanation),
		FoundOptimalSolution:  parseFlag(value(FieldFoundOptimalSolution)),
	}

	p, err = NewProblem(rowIndex, fields)
	if err != nil {
		return Problem{}, false, err
	}
	return p, true, nil
}

// ToRow renders a problem as sheet cells in layout order.
func ToRow(p Problem, layout Layout) []string {
	f := p.Fields()
	row := make([]string, len(layout.columns))
	for i, c := range layout.columns {
		switch c {
		case FieldName:
			row[i] = f.Name
		case FieldType:
			row[i] = f.Type
		case FieldDifficultyLevel:
			row[i] = f.DifficultyLevel
		case FieldLink:
			row[i] = f.Link
		case FieldHTMLLink:
			row[i] = f.HTMLLink
		case FieldCompletionTime:
			row[i] = strconv.Itoa(f.CompletionTimeMinutes)
		case FieldSolutionLink:
			row[i] = f.SolutionLink
		case FieldRuntimeComplexity:
			row[i] = f.RuntimeComplexity
		case FieldSpaceComplexity:
			row[i] = f.SpaceComplexity
		case FieldComplexityExplanation:
			row[i] = f.ComplexityExplanation
		case FieldFoundOptimalSolution:
			row[i] = strconv.FormatBool(f.FoundOptimalSolution)
		}
	}
	return row
}

// ColumnLetter converts a 1-based column number to its letter name.
func ColumnLetter(n int) string {
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

// parseMinutes accepts only plain digit strings; anything else is 0.
func parseMinutes(s string) int {
	if s == "" {
		return 0
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func parseFlag(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y", "x", "✓":
		return true
	default:
		return false
	}
}
