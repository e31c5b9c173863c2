package persistence

import "time"

// SheetModel represents a sheet of the workbook.
type SheetModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;uniqueIndex;size:255"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (SheetModel) TableName() string {
	return "sheets"
}

// SheetRowModel represents one populated row of a sheet.
// RowIndex is unique per sheet but not constrained, because deleting rows
// shifts the indexes of the rows below in a single UPDATE.
type SheetRowModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	SheetID   int64     `gorm:"column:sheet_id;index:idx_sheet_rows_position,priority:1"`
	RowIndex  int       `gorm:"column:row_index;index:idx_sheet_rows_position,priority:2"`
	Cells     []string  `gorm:"column:cells;serializer:json;type:text"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (SheetRowModel) TableName() string {
	return "sheet_rows"
}

// ProblemModel represents a practice problem synced from the watched sheet.
type ProblemModel struct {
	ID                        int64     `gorm:"primaryKey;autoIncrement"`
	SpreadsheetRowID          int       `gorm:"column:spreadsheet_row_id;uniqueIndex;not null"`
	ProblemName               string    `gorm:"column:problem_name;size:255;not null"`
	ProblemType               string    `gorm:"column:problem_type;index;size:100"`
	DifficultyLevel           string    `gorm:"column:difficulty_level;index;size:50"`
	ProblemLink               string    `gorm:"column:problem_link;type:text"`
	ProblemHTMLLink           string    `gorm:"column:problem_html_link;type:text"`
	CompletionTimeMinutes     int       `gorm:"column:completion_time_minutes;default:0"`
	SolutionLink              string    `gorm:"column:solution_link;type:text"`
	SolutionRuntimeComplexity string    `gorm:"column:solution_runtime_complexity;size:50"`
	SolutionSpaceComplexity   string    `gorm:"column:solution_space_complexity;size:50"`
	ComplexityExplanation     string    `gorm:"column:complexity_explanation;type:text"`
	FoundOptimalSolution      bool      `gorm:"column:found_optimal_solution;default:false"`
	CreatedAt                 time.Time `gorm:"column:created_at"`
	UpdatedAt                 time.Time `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (ProblemModel) TableName() string {
	return "problems"
}
