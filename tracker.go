// Package tracker records which rows of a "problems" sheet were edited and
// periodically copies those rows into a relational problem store.
//
// Every edit to the watched sheet appends the edited row index to a
// "change_tracker" sheet. The batch sync reads that log, upserts the named
// rows as problems and truncates the entries it consumed.
//
// Basic usage:
//
//	client, err := tracker.New(
//	    tracker.WithSQLite(".problem-tracker/tracker.db"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Edit the watched sheet; the observer records row 2
//	err = client.Host.SetRow(ctx, "problems", 2, []string{"Two Sum", "Arrays", "easy"})
//
//	// Copy recorded rows into the problem store
//	result, err := client.Sync.Run(ctx)
package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/application/service"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/problem"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/host"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/metrics"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/persistence"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/xlsx"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/internal/config"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/internal/database"
)

// Client is the main entry point for the tracker library. The edit observer
// is subscribed to Host on creation, and the sync scheduler starts when
// enabled.
//
// Access components via struct fields:
//
//	client.Host.SetRow(ctx, "problems", 3, cells)
//	client.Log.Entries(ctx)
//	client.Reset.Reset(ctx)
type Client struct {
	Host     *host.Host
	Log      *service.TrackerLog
	Observer *service.EditObserver
	Reset    *service.TrackerReset
	Sync     *service.BatchSync
	Problems *service.Problem
	Importer *xlsx.Importer

	db          database.Database
	workbook    persistence.Workbook
	scheduler   *service.DailySync
	unsubscribe func()
	metrics     metrics.Collector
	layout      problem.Layout
	closers     []io.Closer

	logger  *slog.Logger
	dataDir string
	apiKeys []string
	closed  atomic.Bool
	mu      sync.Mutex
}

// New creates a new Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.database == databaseUnset {
		return nil, ErrNoDatabase
	}
	if cfg.watchedSheet == cfg.trackerSheet {
		return nil, fmt.Errorf("%w: %s", ErrSheetConflict, cfg.watchedSheet)
	}

	logger := cfg.logger
	if logger == nil {
		logger = config.DefaultLogger()
	}
	collector := cfg.metrics
	if collector == nil {
		collector = metrics.Noop()
	}

	dataDir, err := config.PrepareDataDir(cfg.dataDir)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	db, err := database.NewDatabase(ctx, buildDatabaseURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := persistence.AutoMigrate(db); err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("auto migrate: %w", err), errClose)
	}

	wb := persistence.NewWorkbook(db)
	problemStore := persistence.NewProblemStore(db)

	h := host.New(wb, host.NewDispatcher(logger))
	trackerLog := service.NewTrackerLog(wb, cfg.trackerSheet)
	observer := service.NewEditObserver(trackerLog, cfg.watchedSheet, logger, collector)
	reset := service.NewTrackerReset(trackerLog, logger, collector)
	batchSync := service.NewBatchSync(wb, cfg.watchedSheet, trackerLog, reset, problemStore, cfg.layout, logger, collector)

	client := &Client{
		Host:      h,
		Log:       trackerLog,
		Observer:  observer,
		Reset:     reset,
		Sync:      batchSync,
		Problems:  service.NewProblem(problemStore),
		Importer:  xlsx.NewImporter(h, cfg.watchedSheet, logger),
		db:        db,
		workbook:  wb,
		scheduler: service.NewDailySync(cfg.syncSchedule, batchSync, logger),
		metrics:   collector,
		layout:    cfg.layout,
		closers:   cfg.closers,
		logger:    logger,
		dataDir:   dataDir,
		apiKeys:   cfg.apiKeys,
	}

	client.unsubscribe = observer.Register(h)
	client.scheduler.Start(ctx)

	logger.Info("tracker client ready",
		slog.String("watched_sheet", cfg.watchedSheet),
		slog.String("tracker_sheet", cfg.trackerSheet),
		slog.String("sync", cfg.syncSchedule.Describe()),
	)
	return client, nil
}

// Close stops the scheduler, unsubscribes the observer and releases the
// database.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClientClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.scheduler.Stop()
	c.unsubscribe()

	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			c.logger.Error("failed to close resource", slog.Any("error", err))
		}
	}

	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	c.logger.Info("tracker client closed")
	return nil
}

// Closed reports whether Close has been called.
func (c *Client) Closed() bool {
	return c.closed.Load()
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// Metrics returns the collector the client reports to.
func (c *Client) Metrics() metrics.Collector {
	return c.metrics
}

// Layout returns the column layout of the watched sheet.
func (c *Client) Layout() problem.Layout {
	return c.layout
}

// APIKeys returns the keys accepted for write requests.
func (c *Client) APIKeys() []string {
	return append([]string(nil), c.apiKeys...)
}

// DataDir returns the data directory.
func (c *Client) DataDir() string {
	return c.dataDir
}

// Database returns the underlying database.
func (c *Client) Database() database.Database {
	return c.db
}

// SheetNames lists the sheets of the workbook.
func (c *Client) SheetNames(ctx context.Context) ([]string, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}
	return c.workbook.SheetNames(ctx)
}

func buildDatabaseURL(cfg *clientConfig) string {
	if cfg.database == databasePostgres {
		return cfg.dbDSN
	}
	return "sqlite:///" + cfg.dbPath
}

// sqlitePath extracts the file path from a sqlite URL.
func sqlitePath(url string) (string, bool) {
	if path, ok := strings.CutPrefix(url, "sqlite:///"); ok {
		return path, true
	}
	if path, ok := strings.CutPrefix(url, "sqlite:"); ok {
		return path, true
	}
	return "", false
}
