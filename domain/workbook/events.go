package workbook

import "context"

// EditEvent is a transient notification that a sheet was mutated. For range
// edits RowIndex is the top row of the affected range.
type EditEvent struct {
	SheetName string
	RowIndex  int
}

// NewEditEvent creates an EditEvent.
func NewEditEvent(sheetName string, rowIndex int) EditEvent {
	return EditEvent{SheetName: sheetName, RowIndex: rowIndex}
}

// EditHandler handles a single edit notification.
type EditHandler func(ctx context.Context, event EditEvent) error

// EditSource delivers edit notifications to subscribed handlers.
type EditSource interface {
	// Subscribe registers a handler and returns a function that removes it.
	Subscribe(handler EditHandler) (unsubscribe func())
}
