package xlsx_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/workbook"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/host"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/xlsx"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/internal/testdb"
)

type recorder struct {
	mu     sync.Mutex
	events []workbook.EditEvent
}

func (r *recorder) handle(_ context.Context, e workbook.EditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) rows() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.events))
	for i, e := range r.events {
		out[i] = e.RowIndex
	}
	return out
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newImporter(t *testing.T) (*xlsx.Importer, *host.Host, *recorder) {
	t.Helper()
	_, wb := testdb.NewWorkbook(t)
	h := host.New(wb, host.NewDispatcher(quietLogger()))
	rec := &recorder{}
	h.Subscribe(rec.handle)
	return xlsx.NewImporter(h, "problems", quietLogger()), h, rec
}

func TestImporter_FirstImportEmitsEveryRow(t *testing.T) {
	ctx := context.Background()
	imp, h, rec := newImporter(t)
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, xlsx.WriteSheet(path, "problems", [][]string{
		{"problem_name"},
		{"Two Sum"},
		{"LRU Cache"},
	}))

	result, err := imp.Import(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, xlsx.ImportResult{Rows: 3, Changed: 3}, result)
	assert.Equal(t, []int{1, 2, 3}, rec.rows())

	sheet, err := h.Workbook().SheetByName(ctx, "problems")
	require.NoError(t, err)
	row, err := sheet.Row(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"LRU Cache"}, row)
}

func TestImporter_OnlyChangedRows(t *testing.T) {
	ctx := context.Background()
	imp, h, rec := newImporter(t)
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, xlsx.WriteSheet(path, "problems", [][]string{
		{"problem_name"}, {"Two Sum"}, {"LRU Cache"}, {"Word Ladder"},
	}))
	_, err := imp.Import(ctx, path)
	require.NoError(t, err)

	require.NoError(t, xlsx.WriteSheet(path, "problems", [][]string{
		{"problem_name"}, {"Two Sum"}, {"LFU Cache"},
	}))
	result, err := imp.Import(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, xlsx.ImportResult{Rows: 3, Changed: 1, Cleared: 1}, result)
	assert.Equal(t, []int{1, 2, 3, 4, 3, 4}, rec.rows())

	sheet, err := h.Workbook().SheetByName(ctx, "problems")
	require.NoError(t, err)
	last, err := sheet.LastRow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, last)
}

func TestImporter_UnchangedFileIsQuiet(t *testing.T) {
	ctx := context.Background()
	imp, _, rec := newImporter(t)
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, xlsx.WriteSheet(path, "problems", [][]string{{"problem_name"}, {"Two Sum"}}))

	_, err := imp.Import(ctx, path)
	require.NoError(t, err)
	result, err := imp.Import(ctx, path)
	require.NoError(t, err)
	assert.Zero(t, result.Changed)
	assert.Len(t, rec.rows(), 2)
}

func TestWatcher_ReimportsOnWrite(t *testing.T) {
	imp, h, rec := newImporter(t)
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, xlsx.WriteSheet(path, "problems", [][]string{{"problem_name"}}))

	w, err := xlsx.NewWatcher(imp, path, quietLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, xlsx.WriteSheet(path, "problems", [][]string{{"problem_name"}, {"Two Sum"}}))

	require.Eventually(t, func() bool {
		sheet, err := h.Workbook().SheetByName(context.Background(), "problems")
		if err != nil {
			return false
		}
		row, err := sheet.Row(context.Background(), 2)
		return err == nil && len(row) == 1 && row[0] == "Two Sum"
	}, 5*time.Second, 20*time.Millisecond)
	assert.Contains(t, rec.rows(), 2)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_ReimportsOnReplace(t *testing.T) {
	imp, h, _ := newImporter(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "book.xlsx")
	require.NoError(t, xlsx.WriteSheet(path, "problems", [][]string{{"problem_name"}}))

	w, err := xlsx.NewWatcher(imp, path, quietLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	replace := func(rows [][]string) {
		tmp := filepath.Join(dir, "book-saving.xlsx")
		require.NoError(t, xlsx.WriteSheet(tmp, "problems", rows))
		require.NoError(t, os.Rename(tmp, path))
	}
	hasRow := func(index int, name string) func() bool {
		return func() bool {
			sheet, err := h.Workbook().SheetByName(context.Background(), "problems")
			if err != nil {
				return false
			}
			row, err := sheet.Row(context.Background(), index)
			return err == nil && len(row) == 1 && row[0] == name
		}
	}

	replace([][]string{{"problem_name"}, {"Two Sum"}})
	require.Eventually(t, hasRow(2, "Two Sum"), 5*time.Second, 20*time.Millisecond)

	replace([][]string{{"problem_name"}, {"Two Sum"}, {"LRU Cache"}})
	require.Eventually(t, hasRow(3, "LRU Cache"), 5*time.Second, 20*time.Millisecond)
}

func TestNewWatcher_MissingFile(t *testing.T) {
	imp, _, _ := newImporter(t)
	_, err := xlsx.NewWatcher(imp, filepath.Join(t.TempDir(), "none.xlsx"), nil)
	assert.Error(t, err)
}
