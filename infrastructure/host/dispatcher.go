// Package host simulates the spreadsheet host: it owns the workbook, applies
// edits to it and notifies subscribers of each edit.
package host

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/workbook"
)

// Dispatcher delivers edit events to subscribed handlers. Events are
// delivered one at a time in arrival order; a second Dispatch blocks until
// every handler has returned for the first.
type Dispatcher struct {
	deliver sync.Mutex

	mu          sync.RWMutex
	nextID      int
	subscribers []subscription
	logger      *slog.Logger
}

type subscription struct {
	id      int
	handler workbook.EditHandler
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{logger: logger}
}

// Subscribe registers a handler and returns a function that removes it.
// Calling the returned function more than once is a no-op.
func (d *Dispatcher) Subscribe(handler workbook.EditHandler) func() {
	d.mu.Lock()
	d.nextID++
	id := d.nextID
	d.subscribers = append(d.subscribers, subscription{id: id, handler: handler})
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			for i, s := range d.subscribers {
				if s.id == id {
					d.subscribers = append(d.subscribers[:i:i], d.subscribers[i+1:]...)
					return
				}
			}
		})
	}
}

// Subscribers returns the number of registered handlers.
func (d *Dispatcher) Subscribers() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subscribers)
}

// Dispatch delivers event to every subscriber in registration order. Handler
// errors are logged and returned joined; one failing handler does not stop
// delivery to the others.
func (d *Dispatcher) Dispatch(ctx context.Context, event workbook.EditEvent) error {
	d.deliver.Lock()
	defer d.deliver.Unlock()

	d.mu.RLock()
	subscribers := make([]subscription, len(d.subscribers))
	copy(subscribers, d.subscribers)
	d.mu.RUnlock()

	var errs []error
	for _, s := range subscribers {
		if err := s.handler(ctx, event); err != nil {
			d.logger.ErrorContext(ctx, "edit handler failed",
				slog.String("sheet", event.SheetName),
				slog.Int("row", event.RowIndex),
				slog.String("error", err.Error()),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
