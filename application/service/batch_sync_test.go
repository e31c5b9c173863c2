package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/changelog"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/problem"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/host"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/persistence"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/internal/testdb"
)

type syncFixture struct {
	host     *host.Host
	log      *TrackerLog
	reset    *TrackerReset
	store    persistence.ProblemStore
	sync     *BatchSync
	observer *EditObserver
}

func newSyncFixture(t *testing.T) syncFixture {
	t.Helper()
	db, wb := testdb.NewWorkbook(t)
	h := host.New(wb, host.NewDispatcher(quietLogger()))
	log := NewTrackerLog(wb, "")
	reset := NewTrackerReset(log, quietLogger(), nil)
	store := persistence.NewProblemStore(db)
	observer := NewEditObserver(log, "", quietLogger(), nil)
	observer.Register(h)

	return syncFixture{
		host:     h,
		log:      log,
		reset:    reset,
		store:    store,
		sync:     NewBatchSync(wb, "", log, reset, store, problem.DefaultLayout(), quietLogger(), nil),
		observer: observer,
	}
}

func headerRow() []string {
	cols := problem.DefaultColumns()
	row := make([]string, len(cols))
	for i, c := range cols {
		row[i] = string(c)
	}
	return row
}

func TestBatchSync_NoLog(t *testing.T) {
	f := newSyncFixture(t)

	result, err := f.sync.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SyncResult{}, result)
}

func TestBatchSync_NoChanges(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(t)

	require.NoError(t, f.host.SetRow(ctx, "problems", 2, []string{"Two Sum"}))
	require.NoError(t, NewTrackerReset(f.log, quietLogger(), nil).Reset(ctx))

	result, err := f.sync.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.Problems)

	count, err := f.store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestBatchSync_UpsertsEditedRows(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(t)

	require.NoError(t, f.host.SetRow(ctx, "problems", 1, headerRow()))
	require.NoError(t, f.host.SetRow(ctx, "problems", 2, []string{"Two Sum", "Arrays", "easy", "", "", "15"}))
	require.NoError(t, f.host.SetRow(ctx, "problems", 3, []string{"LRU Cache", "Design", "medium", "", "", "45 min"}))
	require.NoError(t, f.host.SetRow(ctx, "problems", 2, []string{"Two Sum", "Hashing", "easy", "", "", "12"}))
	require.NoError(t, f.host.SetRow(ctx, "problems", 7, []string{"Word Ladder", "Graphs", "hard"}))
	require.NoError(t, f.host.SetRow(ctx, "problems", 9, []string{"", ""}))

	result, err := f.sync.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 6, result.Entries)
	assert.Equal(t, 5, result.Rows)
	assert.Equal(t, 3, result.Ranges)
	assert.Equal(t, 3, result.Problems)
	assert.Equal(t, 2, result.Skipped)

	twoSum, err := f.store.FindOne(ctx, problem.WithRowID(2))
	require.NoError(t, err)
	assert.Equal(t, "Hashing", twoSum.Type())
	assert.Equal(t, 12, twoSum.Fields().CompletionTimeMinutes)

	lru, err := f.store.FindOne(ctx, problem.WithRowID(3))
	require.NoError(t, err)
	assert.Equal(t, 0, lru.Fields().CompletionTimeMinutes)
	assert.Equal(t, "https://www.google.com", lru.Fields().Link)

	entries, err := f.log.Entries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBatchSync_SecondRunUpdates(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(t)

	require.NoError(t, f.host.SetRow(ctx, "problems", 2, []string{"Two Sum", "Arrays", "easy"}))
	_, err := f.sync.Run(ctx)
	require.NoError(t, err)

	require.NoError(t, f.host.SetRow(ctx, "problems", 2, []string{"Two Sum", "Arrays", "hard"}))
	result, err := f.sync.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Problems)

	count, err := f.store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	p, err := f.store.FindOne(ctx, problem.WithRowID(2))
	require.NoError(t, err)
	assert.Equal(t, "hard", p.DifficultyLevel())
}

func TestBatchSync_InvalidEntryLeavesLog(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(t)

	require.NoError(t, f.host.SetRow(ctx, "problems", 2, []string{"Two Sum"}))
	sheet, err := f.host.Workbook().SheetByName(ctx, changelog.DefaultTrackerSheet)
	require.NoError(t, err)
	_, err = sheet.AppendRow(ctx, []string{"oops"})
	require.NoError(t, err)

	_, err = f.sync.Run(ctx)
	assert.ErrorIs(t, err, changelog.ErrInvalidEntry)

	last, err := sheet.LastRow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, last)
}

type gatedStore struct {
	problem.Store
	entered chan struct{}
	release chan struct{}
}

func (s gatedStore) Upsert(ctx context.Context, problems []problem.Problem) (int, error) {
	close(s.entered)
	<-s.release
	return s.Store.Upsert(ctx, problems)
}

func TestBatchSync_OverlappingRunsKeepLaterEdits(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(t)

	for _, row := range []int{2, 3, 4} {
		require.NoError(t, f.host.SetRow(ctx, "problems", row, []string{"Problem", "Arrays", "easy"}))
	}

	gated := gatedStore{Store: f.store, entered: make(chan struct{}), release: make(chan struct{})}
	slow := NewBatchSync(f.host.Workbook(), "", f.log, f.reset, gated, problem.DefaultLayout(), quietLogger(), nil)

	done := make(chan error, 1)
	go func() {
		_, err := slow.Run(ctx)
		done <- err
	}()
	select {
	case <-gated.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("slow sync never reached upsert")
	}

	result, err := f.sync.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Problems)

	require.NoError(t, f.host.SetRow(ctx, "problems", 9, []string{"Word Ladder", "Graphs", "hard"}))
	close(gated.release)
	require.NoError(t, <-done)

	entries, err := f.log.Entries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{9}, entries)
}

func TestBatchSync_RunsAreSerialized(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(t)

	require.NoError(t, f.host.SetRow(ctx, "problems", 2, []string{"Two Sum", "Arrays", "easy"}))

	gated := gatedStore{Store: f.store, entered: make(chan struct{}), release: make(chan struct{})}
	sync := NewBatchSync(f.host.Workbook(), "", f.log, f.reset, gated, problem.DefaultLayout(), quietLogger(), nil)

	first := make(chan error, 1)
	go func() {
		_, err := sync.Run(ctx)
		first <- err
	}()
	<-gated.entered

	second := make(chan SyncResult, 1)
	go func() {
		result, _ := sync.Run(ctx)
		second <- result
	}()

	select {
	case <-second:
		t.Fatal("second run finished while the first was still upserting")
	case <-time.After(100 * time.Millisecond):
	}

	close(gated.release)
	require.NoError(t, <-first)
	assert.Equal(t, SyncResult{Entries: 0}, <-second)
}
