package host

import (
	"context"
	"fmt"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/workbook"
)

// Host applies edits to a workbook and raises an edit notification for each,
// the way a spreadsheet application fires its edit trigger.
type Host struct {
	workbook   workbook.Workbook
	dispatcher *Dispatcher
}

// New creates a Host.
func New(wb workbook.Workbook, dispatcher *Dispatcher) *Host {
	return &Host{workbook: wb, dispatcher: dispatcher}
}

// Workbook returns the hosted workbook.
func (h *Host) Workbook() workbook.Workbook { return h.workbook }

// Dispatcher returns the edit notification channel.
func (h *Host) Dispatcher() *Dispatcher { return h.dispatcher }

// Subscribe implements workbook.EditSource.
func (h *Host) Subscribe(handler workbook.EditHandler) func() {
	return h.dispatcher.Subscribe(handler)
}

// SetRow replaces a row of the named sheet, creating the sheet if needed,
// and notifies subscribers. The returned error carries handler failures; the
// edit itself is not rolled back.
func (h *Host) SetRow(ctx context.Context, sheetName string, index int, values []string) error {
	sheet, err := h.workbook.InsertSheet(ctx, sheetName)
	if err != nil {
		return fmt.Errorf("open sheet: %w", err)
	}
	if err := sheet.SetRow(ctx, index, values); err != nil {
		return err
	}
	return h.Notify(ctx, workbook.NewEditEvent(sheetName, index))
}

// SetRows writes consecutive rows starting at start as a single range edit.
// Subscribers receive one event for the top row of the range.
func (h *Host) SetRows(ctx context.Context, sheetName string, start int, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	sheet, err := h.workbook.InsertSheet(ctx, sheetName)
	if err != nil {
		return fmt.Errorf("open sheet: %w", err)
	}
	for i, row := range rows {
		if err := sheet.SetRow(ctx, start+i, row); err != nil {
			return err
		}
	}
	return h.Notify(ctx, workbook.NewEditEvent(sheetName, start))
}

// AppendRow appends a row to the named sheet and notifies subscribers.
// It returns the index of the new row.
func (h *Host) AppendRow(ctx context.Context, sheetName string, values []string) (int, error) {
	sheet, err := h.workbook.InsertSheet(ctx, sheetName)
	if err != nil {
		return 0, fmt.Errorf("open sheet: %w", err)
	}
	index, err := sheet.AppendRow(ctx, values)
	if err != nil {
		return 0, err
	}
	return index, h.Notify(ctx, workbook.NewEditEvent(sheetName, index))
}

// Notify raises an edit notification without changing the workbook.
func (h *Host) Notify(ctx context.Context, event workbook.EditEvent) error {
	return h.dispatcher.Dispatch(ctx, event)
}
