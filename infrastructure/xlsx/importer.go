package xlsx

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/workbook"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/host"
)

// ImportResult summarises one import.
type ImportResult struct {
	Rows    int `json:"rows"`
	Changed int `json:"changed"`
	Cleared int `json:"cleared"`
}

// Importer copies a sheet of an .xlsx file into the host workbook. Each row
// whose cells differ becomes one host edit, so subscribed observers see the
// same notifications an interactive edit would raise.
type Importer struct {
	host   *host.Host
	sheet  string
	logger *slog.Logger
}

// NewImporter creates an Importer for the named sheet.
func NewImporter(h *host.Host, sheet string, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{host: h, sheet: sheet, logger: logger}
}

// Sheet returns the name of the imported sheet.
func (i *Importer) Sheet() string { return i.sheet }

// Import reads path and applies the differences to the host workbook. Rows
// present in the workbook but not in the file are cleared.
func (i *Importer) Import(ctx context.Context, path string) (ImportResult, error) {
	incoming, err := ReadSheet(path, i.sheet)
	if err != nil {
		return ImportResult{}, err
	}

	sheet, err := i.host.Workbook().InsertSheet(ctx, i.sheet)
	if err != nil {
		return ImportResult{}, fmt.Errorf("open sheet %s: %w", i.sheet, err)
	}
	last, err := sheet.LastRow(ctx)
	if err != nil {
		return ImportResult{}, fmt.Errorf("read sheet %s: %w", i.sheet, err)
	}
	var current [][]string
	if last > 0 {
		current, err = sheet.Rows(ctx, 1, last)
		if err != nil {
			return ImportResult{}, fmt.Errorf("read sheet %s: %w", i.sheet, err)
		}
	}

	result := ImportResult{Rows: len(incoming)}
	for idx := range max(len(incoming), len(current)) {
		var want, have []string
		if idx < len(incoming) {
			want = incoming[idx]
		}
		if idx < len(current) {
			have = current[idx]
		}
		if workbook.Equal(want, have) {
			continue
		}
		if err := i.host.SetRow(ctx, i.sheet, idx+1, want); err != nil {
			return result, fmt.Errorf("apply row %d: %w", idx+1, err)
		}
		if workbook.IsBlank(want) {
			result.Cleared++
		} else {
			result.Changed++
		}
	}

	i.logger.InfoContext(ctx, "imported workbook file",
		slog.String("path", path),
		slog.String("sheet", i.sheet),
		slog.Int("rows", result.Rows),
		slog.Int("changed", result.Changed),
		slog.Int("cleared", result.Cleared),
	)
	return result, nil
}
