package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/changelog"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/workbook"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/metrics"
)

// EditObserver records edits of the watched sheet in the tracker log.
type EditObserver struct {
	log     *TrackerLog
	watched string
	logger  *slog.Logger
	metrics metrics.Collector
}

// NewEditObserver creates an EditObserver that records edits of the
// watched sheet into log.
func NewEditObserver(log *TrackerLog, watchedSheet string, logger *slog.Logger, collector metrics.Collector) *EditObserver {
	if watchedSheet == "" {
		watchedSheet = changelog.DefaultWatchedSheet
	}
	if logger == nil {
		logger = slog.Default()
	}
	if collector == nil {
		collector = metrics.Noop()
	}
	return &EditObserver{
		log:     log,
		watched: watchedSheet,
		logger:  logger,
		metrics: collector,
	}
}

// WatchedSheet returns the name of the observed sheet.
func (o *EditObserver) WatchedSheet() string { return o.watched }

// Handle records one edit. Edits of other sheets are ignored. The tracker
// log is created with its header on first use.
func (o *EditObserver) Handle(ctx context.Context, event workbook.EditEvent) error {
	if event.SheetName != o.watched {
		o.metrics.ObserveEdit(metrics.OutcomeIgnored)
		return nil
	}
	if event.RowIndex < 1 {
		o.metrics.ObserveEdit(metrics.OutcomeInvalid)
		return fmt.Errorf("%w: row %d", changelog.ErrInvalidEvent, event.RowIndex)
	}

	entries, err := o.log.append(ctx, event.RowIndex)
	if err != nil {
		o.metrics.ObserveEdit(metrics.OutcomeFailed)
		if !errors.Is(err, changelog.ErrHostUnavailable) {
			err = hostUnavailable(err)
		}
		return fmt.Errorf("record edit of row %d: %w", event.RowIndex, err)
	}

	o.metrics.ObserveEdit(metrics.OutcomeRecorded)
	o.metrics.SetTrackerEntries(entries)
	o.logger.DebugContext(ctx, "edit recorded",
		slog.String("sheet", event.SheetName),
		slog.Int("row", event.RowIndex),
		slog.Int("entries", entries),
	)
	return nil
}

// Register subscribes Handle to source and returns the unsubscribe function.
func (o *EditObserver) Register(source workbook.EditSource) func() {
	return source.Subscribe(o.Handle)
}
