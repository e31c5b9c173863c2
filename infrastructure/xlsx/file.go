// Package xlsx reads and writes the watched sheet as an .xlsx workbook file
// and turns changes to that file into host edits.
package xlsx

import (
	"fmt"
	"slices"

	"github.com/xuri/excelize/v2"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/workbook"
)

// ReadSheet returns the rows of the named sheet in an .xlsx file. Trailing
// empty rows and cells are dropped.
func ReadSheet(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if !slices.Contains(f.GetSheetList(), sheet) {
		return nil, fmt.Errorf("%w: %s in %s", workbook.ErrSheetNotFound, sheet, path)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

// WriteSheet writes rows to a new .xlsx file holding a single sheet.
func WriteSheet(path, sheet string, rows [][]string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := slices.Clone(row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook file: %w", err)
	}
	return nil
}
