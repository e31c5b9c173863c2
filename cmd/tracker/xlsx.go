package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/workbook"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/xlsx"
)

func importCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load the watched sheet from an .xlsx file",
		Long: `Load the watched sheet from an .xlsx file. Every row whose cells differ from the
stored workbook is written as an edit, so it lands in the tracker log.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if file == "" {
				file = cfg.WorkbookFile()
			}
			if file == "" {
				return errors.New("--file or WORKBOOK_FILE is required")
			}

			logger := cliLogger(cfg)
			client, err := openClient(cfg, logger)
			if err != nil {
				return err
			}
			defer closeClient(client, logger)

			result, err := client.Importer.Import(cmd.Context(), file)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "rows=%d changed=%d cleared=%d\n",
				result.Rows, result.Changed, result.Cleared)
			return err
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to the .xlsx workbook (default: WORKBOOK_FILE)")

	return cmd
}

func exportCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the watched sheet to an .xlsx file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				return errors.New("--file is required")
			}
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

			ctx := cmd.Context()
			sheet, err := client.Host.Workbook().SheetByName(ctx, cfg.WatchedSheet())
			if err != nil {
				return fmt.Errorf("open %s: %w", cfg.WatchedSheet(), err)
			}
			last, err := sheet.LastRow(ctx)
			if err != nil {
				return err
			}
			var rows [][]string
			if last > 0 {
				if rows, err = sheet.Rows(ctx, 1, last); err != nil {
					return err
				}
			}
			if err := xlsx.WriteSheet(file, sheet.Name(), rows); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "rows=%d\n", countRows(rows))
			return err
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Destination .xlsx path")

	return cmd
}

func countRows(rows [][]string) int {
	n := 0
	for _, r := range rows {
		if !workbook.IsBlank(r) {
			n++
		}
	}
	return n
}
