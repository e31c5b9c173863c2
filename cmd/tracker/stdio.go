package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/internal/mcp"
)

func stdioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stdio",
		Short: "Start MCP server on stdio",
		Long: `Start the MCP (Model Context Protocol) server on stdio.

Assistants can list the rows edited since the last sync and look up synced
problems. Logs go to stderr.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := cliLogger(cfg)
			logger.Info("starting MCP server",
				slog.String("version", version),
				slog.String("data_dir", cfg.DataDir()),
			)

			client, err := openClient(cfg, logger)
			if err != nil {
				return err
			}
			defer closeClient(client, logger)

			return mcp.NewServer(client.Log, client.Problems, version, logger).ServeStdio()
		},
	}
}
