package main

import (
	"fmt"
	"log/slog"

	tracker "github.com/Unobtainiumrock/toy-problem-performance-analysis"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/internal/config"
)

// clientOptions returns the tracker.Option slice derived from the shared
// parts of AppConfig. Callers append entrypoint-specific options (metrics,
// sync schedule) before passing the slice to tracker.New.
func clientOptions(cfg config.AppConfig, logger *slog.Logger) ([]tracker.Option, error) {
	opts := []tracker.Option{
		tracker.WithDatabaseURL(cfg.DBURL()),
		tracker.WithDataDir(cfg.DataDir()),
		tracker.WithLogger(logger),
		tracker.WithWatchedSheet(cfg.WatchedSheet()),
		tracker.WithTrackerSheet(cfg.TrackerSheet()),
	}

	if keys := cfg.APIKeys(); len(keys) > 0 {
		opts = append(opts, tracker.WithAPIKeys(keys...))
	}

	if path := cfg.LayoutFile(); path != "" {
		layout, err := config.LoadLayout(path)
		if err != nil {
			return nil, fmt.Errorf("layout config: %w", err)
		}
		opts = append(opts, tracker.WithLayout(layout))
	}

	return opts, nil
}

// openClient builds a client for one-shot commands.
func openClient(cfg config.AppConfig, logger *slog.Logger, extra ...tracker.Option) (*tracker.Client, error) {
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	opts, err := clientOptions(cfg, logger)
	if err != nil {
		return nil, err
	}
	client, err := tracker.New(append(opts, extra...)...)
	if err != nil {
		return nil, fmt.Errorf("create tracker client: %w", err)
	}
	return client, nil
}

func closeClient(client *tracker.Client, logger *slog.Logger) {
	if err := client.Close(); err != nil {
		logger.Error("failed to close tracker client", slog.Any("error", err))
	}
}
