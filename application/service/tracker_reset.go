package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/metrics"
)

// TrackerReset truncates the tracker log back to its header.
type TrackerReset struct {
	log     *TrackerLog
	logger  *slog.Logger
	metrics metrics.Collector
}

// NewTrackerReset creates a TrackerReset for log.
func NewTrackerReset(log *TrackerLog, logger *slog.Logger, collector metrics.Collector) *TrackerReset {
	if logger == nil {
		logger = slog.Default()
	}
	if collector == nil {
		collector = metrics.Noop()
	}
	return &TrackerReset{log: log, logger: logger, metrics: collector}
}

// Reset deletes every entry, leaving only the header row. It returns
// changelog.ErrLogNotFound when the log has never been created. Resetting a
// header-only log is a no-op.
func (r *TrackerReset) Reset(ctx context.Context) error {
	return r.truncate(ctx, math.MaxInt, "tracker log reset")
}

// Truncate deletes the first rows data rows of the log, leaving anything
// appended after them in place.
func (r *TrackerReset) Truncate(ctx context.Context, rows int) error {
	if rows < 0 {
		return fmt.Errorf("truncate tracker log: negative row count %d", rows)
	}
	return r.truncate(ctx, rows, "tracker log truncated")
}

// Consume deletes the entries read into snap, provided they are still at the
// head of the log. Entries appended or rewritten since the read are kept.
func (r *TrackerReset) Consume(ctx context.Context, snap Snapshot) error {
	removed, remaining, err := r.log.consume(ctx, snap)
	return r.report(ctx, removed, remaining, err, "tracker log consumed")
}

func (r *TrackerReset) truncate(ctx context.Context, rows int, msg string) error {
	removed, remaining, err := r.log.truncate(ctx, rows)
	return r.report(ctx, removed, remaining, err, msg)
}

func (r *TrackerReset) report(ctx context.Context, removed, remaining int, err error, msg string) error {
	if err != nil {
		r.metrics.ObserveReset(metrics.OutcomeFailed)
		return fmt.Errorf("truncate tracker log: %w", err)
	}
	r.metrics.ObserveReset(metrics.OutcomeSuccess)
	r.metrics.SetTrackerEntries(remaining)
	r.logger.InfoContext(ctx, msg,
		slog.String("sheet", r.log.Name()),
		slog.Int("removed", removed),
		slog.Int("remaining", remaining),
	)
	return nil
}
