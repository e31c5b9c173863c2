package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/changelog"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/problem"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/workbook"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/metrics"
)

// SyncResult summarises one batch sync run.
type SyncResult struct {
	Entries  int `json:"entries"`
	Rows     int `json:"rows"`
	Ranges   int `json:"ranges"`
	Problems int `json:"problems"`
	Skipped  int `json:"skipped"`
}

// BatchSync copies the rows named in the tracker log from the watched sheet
// into the problem store, then removes the entries it consumed.
type BatchSync struct {
	mu       sync.Mutex
	workbook workbook.Workbook
	watched  string
	log      *TrackerLog
	reset    *TrackerReset
	problems problem.Store
	layout   problem.Layout
	logger   *slog.Logger
	metrics  metrics.Collector
}

// NewBatchSync creates a BatchSync.
func NewBatchSync(
	wb workbook.Workbook,
	watchedSheet string,
	log *TrackerLog,
	reset *TrackerReset,
	problems problem.Store,
	layout problem.Layout,
	logger *slog.Logger,
	collector metrics.Collector,
) *BatchSync {
	if watchedSheet == "" {
		watchedSheet = changelog.DefaultWatchedSheet
	}
	if logger == nil {
		logger = slog.Default()
	}
	if collector == nil {
		collector = metrics.Noop()
	}
	return &BatchSync{
		workbook: wb,
		watched:  watchedSheet,
		log:      log,
		reset:    reset,
		problems: problems,
		layout:   layout,
		logger:   logger,
		metrics:  collector,
	}
}

// Run performs one sync. Entries appended while it runs are left in the log
// for the next run. A failed upsert leaves the log untouched. Runs on the
// same BatchSync are serialized.
func (s *BatchSync) Run(ctx context.Context) (SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	began := time.Now()
	result, err := s.run(ctx)
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeFailed
	}
	s.metrics.ObserveSync(outcome, result.Problems, time.Since(began))
	return result, err
}

func (s *BatchSync) run(ctx context.Context) (SyncResult, error) {
	snap, err := s.log.Read(ctx)
	if errors.Is(err, changelog.ErrLogNotFound) {
		s.logger.InfoContext(ctx, "no changes to sync", slog.String("reason", "tracker log absent"))
		return SyncResult{}, nil
	}
	if err != nil {
		return SyncResult{}, fmt.Errorf("read tracker log: %w", err)
	}

	result := SyncResult{Entries: len(snap.Entries)}
	if len(snap.Entries) == 0 {
		s.logger.InfoContext(ctx, "no changes to sync")
		return result, nil
	}

	rows := changelog.Unique(snap.Entries)
	ranges := changelog.GroupConsecutive(rows)
	result.Rows = len(rows)
	result.Ranges = len(ranges)

	sheet, err := s.workbook.SheetByName(ctx, s.watched)
	if err != nil {
		return result, fmt.Errorf("open watched sheet: %w", hostUnavailable(err))
	}

	problems := make([]problem.Problem, 0, len(rows))
	for _, r := range ranges {
		cells, err := sheet.Rows(ctx, r.Start(), r.End())
		if err != nil {
			return result, fmt.Errorf("read %s: %w", r.A1("A", s.layout.LastColumn()), hostUnavailable(err))
		}
		for i, row := range cells {
			index := r.Start() + i
			p, ok, err := problem.FromRow(index, row, s.layout)
			if err != nil {
				s.logger.WarnContext(ctx, "skipping invalid row",
					slog.Int("row", index),
					slog.String("error", err.Error()),
				)
			}
			if !ok {
				result.Skipped++
				continue
			}
			problems = append(problems, p)
		}
	}

	n, err := s.problems.Upsert(ctx, problems)
	if err != nil {
		return result, err
	}
	result.Problems = n

	if err := s.reset.Consume(ctx, snap); err != nil {
		return result, err
	}

	s.logger.InfoContext(ctx, "batch sync complete",
		slog.Int("entries", result.Entries),
		slog.Int("rows", result.Rows),
		slog.Int("ranges", result.Ranges),
		slog.Int("problems", result.Problems),
		slog.Int("skipped", result.Skipped),
	)
	return result, nil
}
