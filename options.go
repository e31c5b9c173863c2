package tracker

import (
	"io"
	"log/slog"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/problem"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/metrics"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/internal/config"
)

// databaseType identifies the database.
type databaseType int

const (
	databaseUnset databaseType = iota
	databaseSQLite
	databasePostgres
)

// clientConfig holds configuration for Client construction.
// Use newClientConfig() to create with defaults from internal/config.
type clientConfig struct {
	database     databaseType
	dbPath       string
	dbDSN        string
	dataDir      string
	logger       *slog.Logger
	apiKeys      []string
	watchedSheet string
	trackerSheet string
	layout       problem.Layout
	syncSchedule config.SyncScheduleConfig
	metrics      metrics.Collector
	closers      []io.Closer
}

func newClientConfig() *clientConfig {
	return &clientConfig{
		dataDir:      config.DefaultDataDir(),
		watchedSheet: config.DefaultWatchedSheet,
		trackerSheet: config.DefaultTrackerSheet,
		layout:       problem.DefaultLayout(),
		syncSchedule: config.NewSyncScheduleConfig().WithEnabled(false),
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithSQLite stores the workbook and problems in a SQLite file.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.database = databaseSQLite
		c.dbPath = path
	}
}

// WithPostgres stores the workbook and problems in PostgreSQL.
func WithPostgres(dsn string) Option {
	return func(c *clientConfig) {
		c.database = databasePostgres
		c.dbDSN = dsn
	}
}

// WithDatabaseURL selects the database from a URL of the form
// sqlite:///path or postgres://... .
func WithDatabaseURL(url string) Option {
	return func(c *clientConfig) {
		if path, ok := sqlitePath(url); ok {
			c.database = databaseSQLite
			c.dbPath = path
			return
		}
		c.database = databasePostgres
		c.dbDSN = url
	}
}

// WithDataDir sets the data directory.
func WithDataDir(dir string) Option {
	return func(c *clientConfig) {
		c.dataDir = dir
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

// WithAPIKeys sets the API keys for HTTP API authentication.
func WithAPIKeys(keys ...string) Option {
	return func(c *clientConfig) {
		c.apiKeys = keys
	}
}

// WithWatchedSheet sets the sheet whose edits are tracked.
func WithWatchedSheet(name string) Option {
	return func(c *clientConfig) {
		if name != "" {
			c.watchedSheet = name
		}
	}
}

// WithTrackerSheet sets the sheet edited row indexes are appended to.
func WithTrackerSheet(name string) Option {
	return func(c *clientConfig) {
		if name != "" {
			c.trackerSheet = name
		}
	}
}

// WithLayout sets the column layout of the watched sheet.
func WithLayout(l problem.Layout) Option {
	return func(c *clientConfig) {
		c.layout = l
	}
}

// WithSyncSchedule sets when the batch sync runs in the background.
// The schedule is disabled unless this option enables it.
func WithSyncSchedule(s config.SyncScheduleConfig) Option {
	return func(c *clientConfig) {
		c.syncSchedule = s
	}
}

// WithMetrics sets the collector edits, resets and syncs are reported to.
func WithMetrics(m metrics.Collector) Option {
	return func(c *clientConfig) {
		c.metrics = m
	}
}

// WithCloser registers a resource to be closed when the Client shuts down.
func WithCloser(closer io.Closer) Option {
	return func(c *clientConfig) {
		c.closers = append(c.closers, closer)
	}
}
