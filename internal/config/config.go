// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/changelog"
)

// Default configuration values.
const (
	DefaultHost         = "0.0.0.0"
	DefaultPort         = 8080
	DefaultLogLevel     = "INFO"
	DefaultSyncAt       = "00:00"
	DefaultDBFile       = "tracker.db"
	DefaultDataDirName  = ".problem-tracker"
	DefaultWatchedSheet = changelog.DefaultWatchedSheet
	DefaultTrackerSheet = changelog.DefaultTrackerSheet
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	hour   int
	minute int
}

// ParseTimeOfDay parses "HH:MM" in 24-hour format.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	return TimeOfDay{hour: t.Hour(), minute: t.Minute()}, nil
}

// Hour returns the hour (0-23).
func (t TimeOfDay) Hour() int { return t.hour }

// Minute returns the minute (0-59).
func (t TimeOfDay) Minute() int { return t.minute }

// String returns the HH:MM representation.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.hour, t.minute)
}

// SyncScheduleConfig configures the scheduled batch sync.
type SyncScheduleConfig struct {
	enabled  bool
	at       TimeOfDay
	interval time.Duration
}

// NewSyncScheduleConfig creates a SyncScheduleConfig with defaults:
// enabled, daily at midnight.
func NewSyncScheduleConfig() SyncScheduleConfig {
	return SyncScheduleConfig{enabled: true}
}

// Enabled returns whether the scheduled sync runs.
func (s SyncScheduleConfig) Enabled() bool { return s.enabled }

// At returns the daily run time.
func (s SyncScheduleConfig) At() TimeOfDay { return s.at }

// Interval returns the fixed interval between runs. Zero means daily at At.
func (s SyncScheduleConfig) Interval() time.Duration { return s.interval }

// WithEnabled returns a new config with the specified enabled state.
func (s SyncScheduleConfig) WithEnabled(enabled bool) SyncScheduleConfig {
	s.enabled = enabled
	return s
}

// WithAt returns a new config that runs daily at t.
func (s SyncScheduleConfig) WithAt(t TimeOfDay) SyncScheduleConfig {
	s.at = t
	return s
}

// WithInterval returns a new config that runs every d instead of daily.
func (s SyncScheduleConfig) WithInterval(d time.Duration) SyncScheduleConfig {
	s.interval = d
	return s
}

// Describe returns a human readable schedule.
func (s SyncScheduleConfig) Describe() string {
	if !s.enabled {
		return "disabled"
	}
	if s.interval > 0 {
		return "every " + s.interval.String()
	}
	return "daily at " + s.at.String()
}

// AppConfig holds the main application configuration.
type AppConfig struct {
	host         string
	port         int
	dataDir      string
	dbURL        string
	logLevel     string
	logFormat    LogFormat
	apiKeys      []string
	watchedSheet string
	trackerSheet string
	syncSchedule SyncScheduleConfig
	workbookFile string
	layoutFile   string
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDataDirName
	}
	return filepath.Join(home, DefaultDataDirName)
}

// DefaultLogger returns the default slog logger for library consumers.
func DefaultLogger() *slog.Logger {
	return slog.Default()
}

// PrepareDataDir creates the data directory if it does not exist and returns it.
func PrepareDataDir(dataDir string) (string, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return dataDir, nil
}

// NewAppConfig creates a new AppConfig with defaults.
func NewAppConfig() AppConfig {
	dataDir := DefaultDataDir()
	return AppConfig{
		host:         DefaultHost,
		port:         DefaultPort,
		dataDir:      dataDir,
		dbURL:        sqliteURL(dataDir),
		logLevel:     DefaultLogLevel,
		logFormat:    LogFormatPretty,
		apiKeys:      []string{},
		watchedSheet: DefaultWatchedSheet,
		trackerSheet: DefaultTrackerSheet,
		syncSchedule: NewSyncScheduleConfig(),
	}
}

func sqliteURL(dataDir string) string {
	return "sqlite:///" + filepath.Join(dataDir, DefaultDBFile)
}

// Host returns the server host to bind to.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port to listen on.
func (c AppConfig) Port() int { return c.port }

// Addr returns the combined host:port address.
func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// DataDir returns the data directory path.
func (c AppConfig) DataDir() string { return c.dataDir }

// DBURL returns the database connection URL.
func (c AppConfig) DBURL() string { return c.dbURL }

// LogLevel returns the log verbosity level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log output format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// APIKeys returns a copy of the configured API keys.
func (c AppConfig) APIKeys() []string {
	keys := make([]string, len(c.apiKeys))
	copy(keys, c.apiKeys)
	return keys
}

// WatchedSheet returns the name of the sheet whose edits are captured.
func (c AppConfig) WatchedSheet() string { return c.watchedSheet }

// TrackerSheet returns the name of the tracker log sheet.
func (c AppConfig) TrackerSheet() string { return c.trackerSheet }

// SyncSchedule returns the batch sync schedule.
func (c AppConfig) SyncSchedule() SyncScheduleConfig { return c.syncSchedule }

// WorkbookFile returns the xlsx file to watch, empty when disabled.
func (c AppConfig) WorkbookFile() string { return c.workbookFile }

// LayoutFile returns the YAML sheet layout path, empty for the built-in layout.
func (c AppConfig) LayoutFile() string { return c.layoutFile }

// EnsureDataDir creates the data directory if it doesn't exist.
func (c AppConfig) EnsureDataDir() error {
	return os.MkdirAll(c.dataDir, 0o755)
}

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithHost sets the server host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort sets the server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithDataDir sets the data directory. The default SQLite URL follows it
// unless a database URL was set explicitly.
func WithDataDir(dir string) AppConfigOption {
	return func(c *AppConfig) {
		if c.dbURL == sqliteURL(c.dataDir) {
			c.dbURL = sqliteURL(dir)
		}
		c.dataDir = dir
	}
}

// WithDBURL sets the database URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithAPIKeys sets the API keys.
func WithAPIKeys(keys []string) AppConfigOption {
	return func(c *AppConfig) {
		c.apiKeys = make([]string, len(keys))
		copy(c.apiKeys, keys)
	}
}

// WithWatchedSheet sets the watched sheet name.
func WithWatchedSheet(name string) AppConfigOption {
	return func(c *AppConfig) { c.watchedSheet = name }
}

// WithTrackerSheet sets the tracker log sheet name.
func WithTrackerSheet(name string) AppConfigOption {
	return func(c *AppConfig) { c.trackerSheet = name }
}

// WithSyncSchedule sets the batch sync schedule.
func WithSyncSchedule(s SyncScheduleConfig) AppConfigOption {
	return func(c *AppConfig) { c.syncSchedule = s }
}

// WithWorkbookFile sets the xlsx file to watch.
func WithWorkbookFile(path string) AppConfigOption {
	return func(c *AppConfig) { c.workbookFile = path }
}

// WithLayoutFile sets the YAML sheet layout path.
func WithLayoutFile(path string) AppConfigOption {
	return func(c *AppConfig) { c.layoutFile = path }
}

// NewAppConfigWithOptions creates an AppConfig with functional options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	return NewAppConfig().Apply(opts...)
}

// Apply returns a new AppConfig with the given options applied.
// Since AppConfig is a value type, this copies all fields automatically,
// making it safe to use when adding new fields to AppConfig.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogAttrs returns slog attributes for logging the configuration.
// Sensitive values like API keys are masked or shown as counts.
func (c AppConfig) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("data_dir", c.dataDir),
		slog.String("log_level", c.logLevel),
		slog.String("db_url", c.maskedDBURL()),
		slog.Int("api_keys_count", len(c.apiKeys)),
		slog.String("watched_sheet", c.watchedSheet),
		slog.String("tracker_sheet", c.trackerSheet),
		slog.String("sync_schedule", c.syncSchedule.Describe()),
		slog.String("workbook_file", c.workbookFile),
	}
}

func (c AppConfig) maskedDBURL() string {
	if c.dbURL == "" {
		return "(default)"
	}
	if strings.HasPrefix(c.dbURL, "sqlite:") {
		return c.dbURL
	}
	return "postgres://***@***"
}

// ParseAPIKeys parses a comma-separated string of API keys.
func ParseAPIKeys(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			keys = append(keys, trimmed)
		}
	}
	return keys
}
