package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
// Nested structs use underscore delimiter (e.g., SYNC_AT).
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// DataDir is the data directory path.
	// Env: DATA_DIR
	// Default: ~/.problem-tracker
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the database connection URL.
	// Env: DB_URL
	// Default: sqlite:///{data_dir}/tracker.db
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// APIKeys is a comma-separated list of valid API keys.
	// Env: API_KEYS
	APIKeys string `envconfig:"API_KEYS"`

	// WatchedSheet is the sheet whose edits are tracked.
	// Env: WATCHED_SHEET (default: problems)
	WatchedSheet string `envconfig:"WATCHED_SHEET" default:"problems"`

	// TrackerSheet is the tracker log sheet.
	// Env: TRACKER_SHEET (default: change_tracker)
	TrackerSheet string `envconfig:"TRACKER_SHEET" default:"change_tracker"`

	// WorkbookFile is an xlsx file to watch for edits.
	// Env: WORKBOOK_FILE
	WorkbookFile string `envconfig:"WORKBOOK_FILE"`

	// LayoutFile is a YAML file describing the watched sheet's columns.
	// Env: LAYOUT_FILE
	LayoutFile string `envconfig:"LAYOUT_FILE"`

	// Sync configures the scheduled batch sync.
	Sync SyncEnv `envconfig:"SYNC"`
}

// SyncEnv holds environment configuration for the scheduled batch sync.
type SyncEnv struct {
	// Enabled controls whether the scheduled sync runs.
	// Env: SYNC_ENABLED (default: true)
	Enabled bool `envconfig:"ENABLED" default:"true"`

	// At is the local time of day for the daily run.
	// Env: SYNC_AT (default: 00:00)
	At string `envconfig:"AT" default:"00:00"`

	// IntervalSeconds replaces the daily run with a fixed interval when > 0.
	// Env: SYNC_INTERVAL_SECONDS (default: 0)
	IntervalSeconds float64 `envconfig:"INTERVAL_SECONDS" default:"0"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// LoadFromEnvWithPrefix loads configuration with a custom prefix.
// For example, prefix "TRACKER" would require TRACKER_DB_URL instead of DB_URL.
func LoadFromEnvWithPrefix(prefix string) (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() (AppConfig, error) {
	cfg := NewAppConfig()

	if e.Host != "" {
		cfg = applyOption(cfg, WithHost(e.Host))
	}
	if e.Port != 0 {
		cfg = applyOption(cfg, WithPort(e.Port))
	}
	if e.DataDir != "" {
		cfg = applyOption(cfg, WithDataDir(e.DataDir))
	}
	if e.DBURL != "" {
		cfg = applyOption(cfg, WithDBURL(e.DBURL))
	}
	if e.LogLevel != "" {
		cfg = applyOption(cfg, WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		cfg = applyOption(cfg, WithLogFormat(parseLogFormat(e.LogFormat)))
	}
	if e.APIKeys != "" {
		cfg = applyOption(cfg, WithAPIKeys(ParseAPIKeys(e.APIKeys)))
	}
	if e.WatchedSheet != "" {
		cfg = applyOption(cfg, WithWatchedSheet(e.WatchedSheet))
	}
	if e.TrackerSheet != "" {
		cfg = applyOption(cfg, WithTrackerSheet(e.TrackerSheet))
	}
	if e.WatchedSheet != "" && e.WatchedSheet == e.TrackerSheet {
		return AppConfig{}, fmt.Errorf("watched sheet and tracker sheet must differ: %q", e.WatchedSheet)
	}
	if e.WorkbookFile != "" {
		cfg = applyOption(cfg, WithWorkbookFile(e.WorkbookFile))
	}
	if e.LayoutFile != "" {
		cfg = applyOption(cfg, WithLayoutFile(e.LayoutFile))
	}

	schedule, err := e.Sync.ToSyncScheduleConfig()
	if err != nil {
		return AppConfig{}, err
	}
	cfg = applyOption(cfg, WithSyncSchedule(schedule))

	return cfg, nil
}

// applyOption applies an option to the config.
func applyOption(cfg AppConfig, opt AppConfigOption) AppConfig {
	opt(&cfg)
	return cfg
}

// ToSyncScheduleConfig converts SyncEnv to SyncScheduleConfig.
func (s SyncEnv) ToSyncScheduleConfig() (SyncScheduleConfig, error) {
	at := DefaultSyncAt
	if s.At != "" {
		at = s.At
	}
	tod, err := ParseTimeOfDay(at)
	if err != nil {
		return SyncScheduleConfig{}, err
	}
	if s.IntervalSeconds < 0 {
		return SyncScheduleConfig{}, fmt.Errorf("sync interval must be non-negative: %v", s.IntervalSeconds)
	}
	return NewSyncScheduleConfig().
		WithEnabled(s.Enabled).
		WithAt(tod).
		WithInterval(time.Duration(s.IntervalSeconds * float64(time.Second))), nil
}

// parseLogFormat parses a log format string.
func parseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}
