package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/internal/config"
)

// Syncer runs one batch sync.
type Syncer interface {
	Run(ctx context.Context) (SyncResult, error)
}

// DailySync runs the batch sync once a day at a fixed local time, or on a
// fixed interval when one is configured.
type DailySync struct {
	syncer   Syncer
	logger   *slog.Logger
	enabled  bool
	at       config.TimeOfDay
	interval time.Duration
	now      func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewDailySync creates a new DailySync from config and dependencies.
func NewDailySync(cfg config.SyncScheduleConfig, syncer Syncer, logger *slog.Logger) *DailySync {
	if logger == nil {
		logger = slog.Default()
	}
	return &DailySync{
		syncer:   syncer,
		logger:   logger,
		enabled:  cfg.Enabled(),
		at:       cfg.At(),
		interval: cfg.Interval(),
		now:      time.Now,
	}
}

// Start begins the schedule in a background goroutine.
// If disabled, this is a no-op.
func (d *DailySync) Start(ctx context.Context) {
	if !d.enabled {
		d.logger.Info("scheduled sync disabled")
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		return
	}

	ctx, d.cancel = context.WithCancel(ctx)
	d.wg.Go(func() {
		d.run(ctx)
	})

	if d.interval > 0 {
		d.logger.Info("scheduled sync started", slog.Duration("interval", d.interval))
		return
	}
	d.logger.Info("scheduled sync started",
		slog.String("at", d.at.String()),
		slog.Time("next_run", NextRun(d.now(), d.at)),
	)
}

// Stop cancels the background goroutine and waits for it to finish.
func (d *DailySync) Stop() {
	d.mu.Lock()
	cancel := d.cancel
	d.cancel = nil
	d.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	d.wg.Wait()
	d.logger.Info("scheduled sync stopped")
}

func (d *DailySync) run(ctx context.Context) {
	for {
		timer := time.NewTimer(d.delay(d.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			d.sync(ctx)
		}
	}
}

func (d *DailySync) delay(now time.Time) time.Duration {
	if d.interval > 0 {
		return d.interval
	}
	return NextRun(now, d.at).Sub(now)
}

func (d *DailySync) sync(ctx context.Context) {
	result, err := d.syncer.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		d.logger.Error("scheduled sync failed", slog.String("error", err.Error()))
		return
	}
	d.logger.Debug("scheduled sync finished", slog.Int("problems", result.Problems))
}

// NextRun returns the first instant strictly after now whose local wall
// clock reads at.
func NextRun(now time.Time, at config.TimeOfDay) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, now.Location())
	if !next.After(now) {
		next = time.Date(now.Year(), now.Month(), now.Day()+1, at.Hour(), at.Minute(), 0, 0, now.Location())
	}
	return next
}
