package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	tracker "github.com/Unobtainiumrock/toy-problem-performance-analysis"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/api"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/metrics"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/xlsx"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/internal/config"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/internal/log"
)

const shutdownTimeout = 15 * time.Second

func serveCmd() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server, the daily sync scheduler and, when WORKBOOK_FILE is
set, the workbook file watcher.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  HOST                    Server host to bind to (default: 0.0.0.0)
  PORT                    Server port to listen on (default: 8080)
  DATA_DIR                Data directory (default: .problem-tracker)
  DB_URL                  Database URL (default: sqlite:///{data_dir}/tracker.db)
  LOG_LEVEL               Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT              Log format: pretty, json (default: pretty)
  API_KEYS                Comma-separated list of valid API keys
  WATCHED_SHEET           Sheet whose edits are tracked (default: problems)
  TRACKER_SHEET           Sheet holding the tracker log (default: change_tracker)
  SYNC_ENABLED            Run the batch sync on a schedule (default: true)
  SYNC_AT                 Daily sync time, HH:MM local (default: 00:00)
  SYNC_INTERVAL_SECONDS   Fixed sync interval; overrides SYNC_AT when set
  WORKBOOK_FILE           .xlsx file to import and watch
  LAYOUT_FILE             YAML file describing the problem sheet columns`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), applyServeOverrides(cfg, host, port))
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")

	return cmd
}

func runServe(parent context.Context, cfg config.AppConfig) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := log.NewLogger(cfg).Slog()

	collector, err := metrics.NewPrometheusCollector(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	attrs := append([]slog.Attr{slog.String("version", version)}, cfg.LogAttrs()...)
	logger.LogAttrs(ctx, slog.LevelInfo, "starting problem tracker", attrs...)

	client, err := openClient(cfg, logger,
		tracker.WithMetrics(collector),
		tracker.WithSyncSchedule(cfg.SyncSchedule()),
	)
	if err != nil {
		return err
	}
	defer closeClient(client, logger)

	var watcher *xlsx.Watcher
	if path := cfg.WorkbookFile(); path != "" {
		if _, err := client.Importer.Import(ctx, path); err != nil {
			return fmt.Errorf("initial import: %w", err)
		}
		watcher, err = xlsx.NewWatcher(client.Importer, path, logger)
		if err != nil {
			return err
		}
	}

	apiServer := api.NewAPIServer(client, cfg.APIKeys()).WithVersion(version)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return apiServer.ListenAndServe(cfg.Addr())
	})
	if watcher != nil {
		g.Go(func() error {
			return watcher.Run(ctx)
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return apiServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("problem tracker stopped")
	return nil
}

// applyServeOverrides applies command line flag overrides to the config.
func applyServeOverrides(cfg config.AppConfig, host string, port int) config.AppConfig {
	var opts []config.AppConfigOption

	if host != "" {
		opts = append(opts, config.WithHost(host))
	}
	if port != 0 {
		opts = append(opts, config.WithPort(port))
	}

	return cfg.Apply(opts...)
}
