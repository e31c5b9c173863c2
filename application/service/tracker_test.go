package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/changelog"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/workbook"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/host"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/internal/testdb"
)

type trackerFixture struct {
	workbook workbook.Workbook
	log      *TrackerLog
	observer *EditObserver
	reset    *TrackerReset
}

func newTrackerFixture(t *testing.T) trackerFixture {
	t.Helper()
	_, wb := testdb.NewWorkbook(t)
	log := NewTrackerLog(wb, changelog.DefaultTrackerSheet)
	return trackerFixture{
		workbook: wb,
		log:      log,
		observer: NewEditObserver(log, changelog.DefaultWatchedSheet, quietLogger(), nil),
		reset:    NewTrackerReset(log, quietLogger(), nil),
	}
}

func (f trackerFixture) rows(t *testing.T) [][]string {
	t.Helper()
	ctx := context.Background()
	sheet, err := f.workbook.SheetByName(ctx, changelog.DefaultTrackerSheet)
	require.NoError(t, err)
	last, err := sheet.LastRow(ctx)
	require.NoError(t, err)
	if last == 0 {
		return nil
	}
	rows, err := sheet.Rows(ctx, 1, last)
	require.NoError(t, err)
	return rows
}

func (f trackerFixture) edit(t *testing.T, sheet string, row int) {
	t.Helper()
	require.NoError(t, f.observer.Handle(context.Background(), workbook.NewEditEvent(sheet, row)))
}

func TestEditObserver_IgnoresOtherSheets(t *testing.T) {
	f := newTrackerFixture(t)

	f.edit(t, "Sheet1", 5)
	f.edit(t, changelog.DefaultTrackerSheet, 2)

	exists, err := f.log.Exists(context.Background())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestEditObserver_CreatesLogLazily(t *testing.T) {
	f := newTrackerFixture(t)

	f.edit(t, "problems", 5)

	assert.Equal(t, [][]string{{"EditedRow"}, {"5"}}, f.rows(t))
}

func TestEditObserver_KeepsDuplicatesInOrder(t *testing.T) {
	ctx := context.Background()
	f := newTrackerFixture(t)

	for _, row := range []int{3, 7, 3, 9} {
		f.edit(t, "problems", row)
	}

	entries, err := f.log.Entries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 7, 3, 9}, entries)
}

func TestEditObserver_RecordsHeaderRowEdits(t *testing.T) {
	ctx := context.Background()
	f := newTrackerFixture(t)

	f.edit(t, "problems", 1)

	entries, err := f.log.Entries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, entries)
}

func TestEditObserver_InvalidRow(t *testing.T) {
	ctx := context.Background()
	f := newTrackerFixture(t)

	err := f.observer.Handle(ctx, workbook.NewEditEvent("problems", 0))
	assert.ErrorIs(t, err, changelog.ErrInvalidEvent)

	exists, err := f.log.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestEditObserver_Register(t *testing.T) {
	ctx := context.Background()
	f := newTrackerFixture(t)
	h := host.New(f.workbook, host.NewDispatcher(quietLogger()))

	unsubscribe := f.observer.Register(h)
	require.NoError(t, h.SetRow(ctx, "problems", 4, []string{"Two Sum"}))
	unsubscribe()
	require.NoError(t, h.SetRow(ctx, "problems", 6, []string{"LRU Cache"}))

	entries, err := f.log.Entries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, entries)
}

func TestEditObserver_ConcurrentEdits(t *testing.T) {
	ctx := context.Background()
	f := newTrackerFixture(t)

	const edits = 25
	var wg sync.WaitGroup
	for i := range edits {
		wg.Go(func() {
			assert.NoError(t, f.observer.Handle(ctx, workbook.NewEditEvent("problems", i+2)))
		})
	}
	wg.Wait()

	entries, err := f.log.Entries(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, edits)
	assert.Equal(t, "EditedRow", f.rows(t)[0][0])
}

func TestTrackerReset_RoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newTrackerFixture(t)

	for _, row := range []int{3, 7, 3, 9} {
		f.edit(t, "problems", row)
	}
	require.NoError(t, f.reset.Reset(ctx))

	assert.Equal(t, [][]string{{"EditedRow"}}, f.rows(t))

	require.NoError(t, f.reset.Reset(ctx))
	assert.Equal(t, [][]string{{"EditedRow"}}, f.rows(t))

	f.edit(t, "problems", 11)
	assert.Equal(t, [][]string{{"EditedRow"}, {"11"}}, f.rows(t))
}

func TestTrackerReset_AbsentLog(t *testing.T) {
	f := newTrackerFixture(t)

	err := f.reset.Reset(context.Background())
	assert.ErrorIs(t, err, changelog.ErrLogNotFound)
}

func TestTrackerReset_RestoresHeader(t *testing.T) {
	ctx := context.Background()
	f := newTrackerFixture(t)

	sheet, err := f.workbook.InsertSheet(ctx, changelog.DefaultTrackerSheet)
	require.NoError(t, err)
	require.NoError(t, sheet.SetRow(ctx, 2, []string{"4"}))

	require.NoError(t, f.reset.Reset(ctx))
	assert.Equal(t, [][]string{{"EditedRow"}}, f.rows(t))
}

func TestTrackerReset_TruncateKeepsLaterEntries(t *testing.T) {
	ctx := context.Background()
	f := newTrackerFixture(t)

	for _, row := range []int{3, 7, 9} {
		f.edit(t, "problems", row)
	}
	require.NoError(t, f.reset.Truncate(ctx, 2))

	entries, err := f.log.Entries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{9}, entries)

	require.NoError(t, f.reset.Truncate(ctx, 10))
	assert.Equal(t, [][]string{{"EditedRow"}}, f.rows(t))

	assert.Error(t, f.reset.Truncate(ctx, -1))
}

func TestTrackerReset_ConsumeStopsAtChangedRow(t *testing.T) {
	ctx := context.Background()
	f := newTrackerFixture(t)

	for _, row := range []int{3, 7, 9} {
		f.edit(t, "problems", row)
	}
	snap, err := f.log.Read(ctx)
	require.NoError(t, err)

	sheet, err := f.workbook.SheetByName(ctx, changelog.DefaultTrackerSheet)
	require.NoError(t, err)
	require.NoError(t, sheet.SetRow(ctx, 3, []string{"11"}))
	f.edit(t, "problems", 12)

	require.NoError(t, f.reset.Consume(ctx, snap))

	entries, err := f.log.Entries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{11, 9, 12}, entries)
}

func TestTrackerLog_InvalidEntry(t *testing.T) {
	ctx := context.Background()
	f := newTrackerFixture(t)

	f.edit(t, "problems", 3)
	sheet, err := f.workbook.SheetByName(ctx, changelog.DefaultTrackerSheet)
	require.NoError(t, err)
	_, err = sheet.AppendRow(ctx, []string{"three"})
	require.NoError(t, err)

	_, err = f.log.Entries(ctx)
	assert.ErrorIs(t, err, changelog.ErrInvalidEntry)

	require.NoError(t, f.reset.Reset(ctx))
	assert.Equal(t, [][]string{{"EditedRow"}}, f.rows(t))
}

// failingWorkbook simulates a host whose document service is down.
type failingWorkbook struct {
	err error
}

func (w failingWorkbook) SheetByName(context.Context, string) (workbook.Sheet, error) {
	return nil, w.err
}

func (w failingWorkbook) InsertSheet(context.Context, string) (workbook.Sheet, error) {
	return nil, w.err
}

func (w failingWorkbook) SheetNames(context.Context) ([]string, error) {
	return nil, w.err
}

func TestTracker_HostUnavailable(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("connection refused")
	log := NewTrackerLog(failingWorkbook{err: cause}, "")
	observer := NewEditObserver(log, "", quietLogger(), nil)
	reset := NewTrackerReset(log, quietLogger(), nil)

	err := observer.Handle(ctx, workbook.NewEditEvent("problems", 2))
	assert.ErrorIs(t, err, changelog.ErrHostUnavailable)
	assert.ErrorIs(t, err, cause)

	err = reset.Reset(ctx)
	assert.ErrorIs(t, err, changelog.ErrHostUnavailable)

	_, err = log.Entries(ctx)
	assert.ErrorIs(t, err, changelog.ErrHostUnavailable)
}
