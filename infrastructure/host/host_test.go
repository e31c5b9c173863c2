package host_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/workbook"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/host"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/internal/testdb"
)

func newHost(t *testing.T) (*host.Host, *[]workbook.EditEvent) {
	t.Helper()
	_, wb := testdb.NewWorkbook(t)
	h := host.New(wb, host.NewDispatcher(nil))

	var events []workbook.EditEvent
	h.Subscribe(func(_ context.Context, e workbook.EditEvent) error {
		events = append(events, e)
		return nil
	})
	return h, &events
}

func TestHost_SetRowNotifies(t *testing.T) {
	ctx := context.Background()
	h, events := newHost(t)

	require.NoError(t, h.SetRow(ctx, "problems", 4, []string{"Two Sum"}))

	assert.Equal(t, []workbook.EditEvent{{SheetName: "problems", RowIndex: 4}}, *events)

	sheet, err := h.Workbook().SheetByName(ctx, "problems")
	require.NoError(t, err)
	row, err := sheet.Row(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"Two Sum"}, row)
}

func TestHost_SetRowsNotifiesTopRow(t *testing.T) {
	ctx := context.Background()
	h, events := newHost(t)

	require.NoError(t, h.SetRows(ctx, "problems", 5, [][]string{{"a"}, {"b"}, {"c"}}))

	assert.Equal(t, []workbook.EditEvent{{SheetName: "problems", RowIndex: 5}}, *events)
}

func TestHost_AppendRow(t *testing.T) {
	ctx := context.Background()
	h, events := newHost(t)

	idx, err := h.AppendRow(ctx, "problems", []string{"header"})
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	idx, err = h.AppendRow(ctx, "problems", []string{"Two Sum"})
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	require.Len(t, *events, 2)
	assert.Equal(t, 2, (*events)[1].RowIndex)
}
