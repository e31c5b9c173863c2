package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/changelog"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/workbook"
)

// TrackerLog is the shared handle to the change tracker sheet. Appends,
// truncations and resets through the same TrackerLog never interleave.
type TrackerLog struct {
	mu       sync.Mutex
	workbook workbook.Workbook
	name     string
}

// NewTrackerLog creates a TrackerLog for the named sheet of wb.
func NewTrackerLog(wb workbook.Workbook, name string) *TrackerLog {
	if name == "" {
		name = changelog.DefaultTrackerSheet
	}
	return &TrackerLog{workbook: wb, name: name}
}

// Name returns the tracker sheet name.
func (l *TrackerLog) Name() string { return l.name }

// Snapshot is the content of the tracker log at one point in time.
type Snapshot struct {
	// Entries are the recorded row indexes in append order, duplicates kept.
	Entries []int
	// Rows is the number of data rows below the header the entries were read from.
	Rows int

	raw [][]string
}

// Entries returns the recorded row indexes in append order.
func (l *TrackerLog) Entries(ctx context.Context) ([]int, error) {
	snap, err := l.Read(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Entries, nil
}

// Read returns the current entries along with the number of rows they span.
func (l *TrackerLog) Read(ctx context.Context) (Snapshot, error) {
	sheet, err := l.sheet(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	last, err := sheet.LastRow(ctx)
	if err != nil {
		return Snapshot{}, hostUnavailable(err)
	}
	if last < 2 {
		return Snapshot{Entries: []int{}}, nil
	}
	rows, err := sheet.Rows(ctx, 2, last)
	if err != nil {
		return Snapshot{}, hostUnavailable(err)
	}
	entries, err := changelog.ParseEntries(rows)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Entries: entries, Rows: last - 1, raw: rows}, nil
}

// Exists reports whether the tracker sheet has been created.
func (l *TrackerLog) Exists(ctx context.Context) (bool, error) {
	_, err := l.sheet(ctx)
	if errors.Is(err, changelog.ErrLogNotFound) {
		return false, nil
	}
	return err == nil, err
}

// append records row, creating the sheet with its header when absent.
// It returns the number of entries after the append.
func (l *TrackerLog) append(ctx context.Context, row int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sheet, err := l.sheet(ctx)
	if errors.Is(err, changelog.ErrLogNotFound) {
		sheet, err = l.workbook.InsertSheet(ctx, l.name)
		if err != nil {
			return 0, hostUnavailable(err)
		}
	} else if err != nil {
		return 0, err
	}

	last, err := sheet.LastRow(ctx)
	if err != nil {
		return 0, hostUnavailable(err)
	}
	if last == 0 {
		if _, err := sheet.AppendRow(ctx, changelog.HeaderRow()); err != nil {
			return 0, hostUnavailable(err)
		}
	}

	index, err := sheet.AppendRow(ctx, changelog.EntryRow(row))
	if err != nil {
		return 0, hostUnavailable(err)
	}
	return index - 1, nil
}

// truncate removes the first rows data rows below the header. rows larger
// than the log are clamped. Afterwards row 1 holds the header. It returns the
// number of rows removed and the number remaining.
func (l *TrackerLog) truncate(ctx context.Context, rows int) (removed, remaining int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sheet, err := l.sheet(ctx)
	if err != nil {
		return 0, 0, err
	}
	last, err := sheet.LastRow(ctx)
	if err != nil {
		return 0, 0, hostUnavailable(err)
	}
	return l.removeLeading(ctx, sheet, min(rows, max(last-1, 0)))
}

// consume removes the leading data rows that still match snap. Rows that
// changed since snap was read, and everything after them, stay in place.
func (l *TrackerLog) consume(ctx context.Context, snap Snapshot) (removed, remaining int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sheet, err := l.sheet(ctx)
	if err != nil {
		return 0, 0, err
	}
	last, err := sheet.LastRow(ctx)
	if err != nil {
		return 0, 0, hostUnavailable(err)
	}

	n := min(len(snap.raw), max(last-1, 0))
	matched := 0
	if n > 0 {
		current, err := sheet.Rows(ctx, 2, n+1)
		if err != nil {
			return 0, 0, hostUnavailable(err)
		}
		for matched < n && workbook.Equal(current[matched], snap.raw[matched]) {
			matched++
		}
	}
	return l.removeLeading(ctx, sheet, matched)
}

// removeLeading deletes rows data rows below the header and restores the
// header. Callers hold l.mu.
func (l *TrackerLog) removeLeading(ctx context.Context, sheet workbook.Sheet, rows int) (removed, remaining int, err error) {
	if rows > 0 {
		if err := sheet.DeleteRows(ctx, 2, rows); err != nil {
			return 0, 0, hostUnavailable(err)
		}
	}

	header, err := sheet.Row(ctx, 1)
	if err != nil {
		return 0, 0, hostUnavailable(err)
	}
	// Row 1 is never read as an entry, so a missing or damaged header is
	// simply rewritten.
	if !workbook.Equal(header, changelog.HeaderRow()) {
		if err := sheet.SetRow(ctx, 1, changelog.HeaderRow()); err != nil {
			return 0, 0, hostUnavailable(err)
		}
	}

	after, err := sheet.LastRow(ctx)
	if err != nil {
		return 0, 0, hostUnavailable(err)
	}
	return max(rows, 0), max(after-1, 0), nil
}

func (l *TrackerLog) sheet(ctx context.Context) (workbook.Sheet, error) {
	sheet, err := l.workbook.SheetByName(ctx, l.name)
	if err != nil {
		if errors.Is(err, workbook.ErrSheetNotFound) {
			return nil, fmt.Errorf("%w: %s", changelog.ErrLogNotFound, l.name)
		}
		return nil, hostUnavailable(err)
	}
	return sheet, nil
}

func hostUnavailable(err error) error {
	if errors.Is(err, changelog.ErrHostUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", changelog.ErrHostUnavailable, err)
}
