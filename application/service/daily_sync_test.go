package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/internal/config"
)

type fakeSyncer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeSyncer) Run(_ context.Context) (SyncResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return SyncResult{Problems: 1}, f.err
}

func (f *fakeSyncer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNextRun(t *testing.T) {
	midnight, err := config.ParseTimeOfDay("00:00")
	require.NoError(t, err)
	morning, err := config.ParseTimeOfDay("07:30")
	require.NoError(t, err)

	tests := []struct {
		name string
		now  time.Time
		at   config.TimeOfDay
		want time.Time
	}{
		{
			name: "later today",
			now:  time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC),
			at:   morning,
			want: time.Date(2026, 3, 1, 7, 30, 0, 0, time.UTC),
		},
		{
			name: "already passed",
			now:  time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
			at:   morning,
			want: time.Date(2026, 3, 2, 7, 30, 0, 0, time.UTC),
		},
		{
			name: "exactly now runs tomorrow",
			now:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			at:   midnight,
			want: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "month rollover",
			now:  time.Date(2026, 1, 31, 23, 59, 0, 0, time.UTC),
			at:   midnight,
			want: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextRun(tt.now, tt.at))
		})
	}
}

func TestDailySync_Interval(t *testing.T) {
	syncer := &fakeSyncer{}
	cfg := config.NewSyncScheduleConfig().WithInterval(10 * time.Millisecond)

	ds := NewDailySync(cfg, syncer, quietLogger())
	ds.Start(context.Background())

	require.Eventually(t, func() bool {
		return syncer.count() >= 2
	}, time.Second, 5*time.Millisecond)

	ds.Stop()
	calls := syncer.count()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, syncer.count())
}

func TestDailySync_KeepsRunningAfterFailure(t *testing.T) {
	syncer := &fakeSyncer{err: errors.New("boom")}
	cfg := config.NewSyncScheduleConfig().WithInterval(5 * time.Millisecond)

	ds := NewDailySync(cfg, syncer, quietLogger())
	ds.Start(context.Background())
	defer ds.Stop()

	require.Eventually(t, func() bool {
		return syncer.count() >= 3
	}, time.Second, 5*time.Millisecond)
}

func TestDailySync_Disabled(t *testing.T) {
	syncer := &fakeSyncer{}
	cfg := config.NewSyncScheduleConfig().WithEnabled(false).WithInterval(time.Millisecond)

	ds := NewDailySync(cfg, syncer, quietLogger())
	ds.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	ds.Stop()

	assert.Zero(t, syncer.count())
}

func TestDailySync_WaitsForTimeOfDay(t *testing.T) {
	at, err := config.ParseTimeOfDay("12:00")
	require.NoError(t, err)

	ds := NewDailySync(config.NewSyncScheduleConfig().WithAt(at), &fakeSyncer{}, quietLogger())
	ds.now = func() time.Time { return time.Date(2026, 3, 1, 11, 0, 0, 0, time.Local) }

	assert.Equal(t, time.Hour, ds.delay(ds.now()))
}
