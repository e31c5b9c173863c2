package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/changelog"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/internal/config"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/internal/log"
)

// cliLogger writes to stderr so command output on stdout stays clean.
func cliLogger(cfg config.AppConfig) *slog.Logger {
	return log.NewLoggerWithWriter(os.Stderr, cfg.LogFormat(), cfg.LogLevel()).Slog()
}

func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run the batch sync once",
		Long:  `Copy the rows named in the tracker log into the problem store and truncate the consumed entries.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := cliLogger(cfg)
			client, err := openClient(cfg, logger)
			if err != nil {
				return err
			}
			defer closeClient(client, logger)

			result, err := client.Sync.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("sync: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(),
				"entries=%d rows=%d ranges=%d problems=%d skipped=%d\n",
				result.Entries, result.Rows, result.Ranges, result.Problems, result.Skipped)
			return err
		},
	}
}

func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Truncate the tracker log to its header",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := cliLogger(cfg)
			client, err := openClient(cfg, logger)
			if err != nil {
				return err
			}
			defer closeClient(client, logger)

			if err := client.Reset.Reset(cmd.Context()); err != nil {
				return fmt.Errorf("reset: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "tracker log reset")
			return err
		},
	}
}

func logCmd() *cobra.Command {
	var unique bool

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Print the tracker log entries, one per line",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := cliLogger(cfg)
			client, err := openClient(cfg, logger)
			if err != nil {
				return err
			}
			defer closeClient(client, logger)

			entries, err := client.Log.Entries(cmd.Context())
			if err != nil {
				return fmt.Errorf("read tracker log: %w", err)
			}
			if unique {
				entries = changelog.Unique(entries)
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				if _, err := fmt.Fprintln(out, strconv.Itoa(e)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&unique, "unique", false, "Print each row once, in ascending order")

	return cmd
}
