// Package changelog provides the tracker log domain: the append-only list of
// edited row indices that accumulates between batch syncs.
package changelog

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Default sheet names and header literal.
const (
	DefaultWatchedSheet = "problems"
	DefaultTrackerSheet = "change_tracker"
	Header              = "EditedRow"
)

// Errors raised by tracker log operations.
var (
	// ErrHostUnavailable indicates the owning workbook could not be reached
	// or a sheet lookup failed.
	ErrHostUnavailable = errors.New("host unavailable")
	// ErrLogNotFound indicates the tracker log sheet does not exist.
	ErrLogNotFound = errors.New("tracker log not found")
	// ErrInvalidEvent indicates an edit event with a non-positive row index.
	ErrInvalidEvent = errors.New("invalid edit event")
	// ErrInvalidEntry indicates a tracker log row that is not an integer.
	ErrInvalidEntry = errors.New("tracker log contains non-integer row index")
)

// HeaderRow returns the cells written as row 1 of a new tracker log.
func HeaderRow() []string {
	return []string{Header}
}

// EntryRow returns the cells of a tracker log row for rowIndex.
func EntryRow(rowIndex int) []string {
	return []string{strconv.Itoa(rowIndex)}
}

// ParseEntries converts tracker log rows (header excluded) to row indices.
// Blank rows are skipped.
func ParseEntries(rows [][]string) ([]int, error) {
	entries := make([]int, 0, len(rows))
	for i, row := range rows {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: row %d: %q", ErrInvalidEntry, i+2, row[0])
		}
		entries = append(entries, n)
	}
	return entries, nil
}

// Unique returns the distinct entries in ascending order.
func Unique(entries []int) []int {
	out := slices.Clone(entries)
	slices.Sort(out)
	return slices.Compact(out)
}

// Range is an inclusive span of consecutive row indices.
type Range struct {
	start int
	end   int
}

// NewRange creates a Range.
func NewRange(start, end int) Range {
	return Range{start: start, end: end}
}

// Start returns the first row of the range.
func (r Range) Start() int { return r.start }

// End returns the last row of the range.
func (r Range) End() int { return r.end }

// Len returns the number of rows in the range.
func (r Range) Len() int { return r.end - r.start + 1 }

// A1 renders the range in A1 notation across the given columns, e.g. "A3:K7".
func (r Range) A1(firstColumn, lastColumn string) string {
	return fmt.Sprintf("%s%d:%s%d", firstColumn, r.start, lastColumn, r.end)
}

// GroupConsecutive groups row indices into consecutive ranges. The input need
// not be sorted; duplicates collapse.
func GroupConsecutive(entries []int) []Range {
	sorted := Unique(entries)
	if len(sorted) == 0 {
		return nil
	}

	var ranges []Range
	start, prev := sorted[0], sorted[0]
	for _, n := range sorted[1:] {
		if n == prev+1 {
			prev = n
			continue
		}
		ranges = append(ranges, NewRange(start, prev))
		start, prev = n, n
	}
	return append(ranges, NewRange(start, prev))
}
