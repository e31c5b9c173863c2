// Package workbook defines the document model the change tracker operates on:
// a workbook of named sheets, each an ordered list of rows of string cells.
//
// Rows are 1-indexed, matching spreadsheet conventions. Row 1 is typically a
// header.
package workbook

import (
	"context"
	"errors"
)

// ErrSheetNotFound indicates the named sheet does not exist in the workbook.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrInvalidRow indicates a row index outside the valid range.
var ErrInvalidRow = errors.New("invalid row index")

// Workbook is a handle to an owning document. Implementations are passed
// explicitly to the components that need them.
type Workbook interface {
	// SheetByName returns the named sheet, or ErrSheetNotFound.
	SheetByName(ctx context.Context, name string) (Sheet, error)
	// InsertSheet creates an empty sheet. Inserting an existing name returns
	// the existing sheet.
	InsertSheet(ctx context.Context, name string) (Sheet, error)
	// SheetNames lists the sheets in creation order.
	SheetNames(ctx context.Context) ([]string, error)
}

// Sheet is a single tabular sheet.
type Sheet interface {
	Name() string
	// LastRow returns the index of the last populated row, 0 when empty.
	LastRow(ctx context.Context) (int, error)
	// AppendRow writes values to the row after LastRow and returns its index.
	AppendRow(ctx context.Context, values []string) (int, error)
	// Row returns the cells of a single row. Missing rows are empty.
	Row(ctx context.Context, index int) ([]string, error)
	// Rows returns rows start..end inclusive. Missing rows are empty slices.
	Rows(ctx context.Context, start, end int) ([][]string, error)
	// SetRow replaces the cells of a row, extending the sheet if needed.
	SetRow(ctx context.Context, index int, values []string) error
	// DeleteRows removes count rows starting at start and shifts later rows up.
	DeleteRows(ctx context.Context, start, count int) error
}

// IsBlank reports whether every cell of a row is empty or whitespace.
func IsBlank(row []string) bool {
	for _, cell := range row {
		for _, r := range cell {
			if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
				return false
			}
		}
	}
	return true
}

// Equal reports whether two rows hold the same cells, ignoring trailing
// empty cells.
func Equal(a, b []string) bool {
	a, b = trimTrailing(a), trimTrailing(b)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func trimTrailing(row []string) []string {
	n := len(row)
	for n > 0 && row[n-1] == "" {
		n--
	}
	return row[:n]
}
