package persistence

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/workbook"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/internal/database"
)

// Workbook implements workbook.Workbook on top of the sheets and sheet_rows
// tables. Every mutation of a sheet runs in one transaction holding a lock
// on the sheet's row.
type Workbook struct {
	db database.Database
}

// NewWorkbook creates a new Workbook.
func NewWorkbook(db database.Database) Workbook {
	return Workbook{db: db}
}

// SheetByName returns the named sheet, or workbook.ErrSheetNotFound.
func (w Workbook) SheetByName(ctx context.Context, name string) (workbook.Sheet, error) {
	var model SheetModel
	err := w.db.Session(ctx).Where("name = ?", name).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", workbook.ErrSheetNotFound, name)
		}
		return nil, fmt.Errorf("find sheet %s: %w", name, err)
	}
	return Sheet{db: w.db, id: model.ID, name: model.Name}, nil
}

// InsertSheet creates an empty sheet, or returns the existing sheet of that name.
func (w Workbook) InsertSheet(ctx context.Context, name string) (workbook.Sheet, error) {
	if name == "" {
		return nil, errors.New("sheet name is required")
	}
	model := SheetModel{Name: name}
	err := w.db.Session(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&model).Error
	if err != nil {
		return nil, fmt.Errorf("insert sheet %s: %w", name, err)
	}
	return w.SheetByName(ctx, name)
}

// SheetNames lists the sheets in creation order.
func (w Workbook) SheetNames(ctx context.Context) ([]string, error) {
	var names []string
	err := w.db.Session(ctx).Model(&SheetModel{}).Order("id ASC").Pluck("name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("list sheets: %w", err)
	}
	return names, nil
}

// Sheet implements workbook.Sheet for one persisted sheet.
type Sheet struct {
	db   database.Database
	id   int64
	name string
}

// Name returns the sheet name.
func (s Sheet) Name() string { return s.name }

// ID returns the database ID of the sheet.
func (s Sheet) ID() int64 { return s.id }

// LastRow returns the index of the last populated row, 0 when empty.
func (s Sheet) LastRow(ctx context.Context) (int, error) {
	last, err := lastRow(s.db.Session(ctx), s.id)
	if err != nil {
		return 0, fmt.Errorf("last row of %s: %w", s.name, err)
	}
	return last, nil
}

// AppendRow writes values after the last row and returns the new row's index.
func (s Sheet) AppendRow(ctx context.Context, values []string) (int, error) {
	var index int
	err := s.locked(ctx, func(tx *gorm.DB) error {
		last, err := lastRow(tx, s.id)
		if err != nil {
			return err
		}
		index = last + 1
		return tx.Create(&SheetRowModel{SheetID: s.id, RowIndex: index, Cells: slices.Clone(values)}).Error
	})
	if err != nil {
		return 0, fmt.Errorf("append row to %s: %w", s.name, err)
	}
	return index, nil
}

// Row returns the cells of a single row. Missing rows are empty.
func (s Sheet) Row(ctx context.Context, index int) ([]string, error) {
	rows, err := s.Rows(ctx, index, index)
	if err != nil {
		return nil, err
	}
	return rows[0], nil
}

// Rows returns rows start..end inclusive. Missing rows are empty slices.
func (s Sheet) Rows(ctx context.Context, start, end int) ([][]string, error) {
	if start < 1 || end < start {
		return nil, fmt.Errorf("%w: %d..%d", workbook.ErrInvalidRow, start, end)
	}

	var models []SheetRowModel
	err := s.db.Session(ctx).
		Where("sheet_id = ? AND row_index BETWEEN ? AND ?", s.id, start, end).
		Order("row_index ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("read rows %d..%d of %s: %w", start, end, s.name, err)
	}

	rows := make([][]string, end-start+1)
	for i := range rows {
		rows[i] = []string{}
	}
	for _, m := range models {
		rows[m.RowIndex-start] = m.Cells
	}
	return rows, nil
}

// SetRow replaces the cells of a row. Setting a blank row clears it.
func (s Sheet) SetRow(ctx context.Context, index int, values []string) error {
	if index < 1 {
		return fmt.Errorf("%w: %d", workbook.ErrInvalidRow, index)
	}
	err := s.locked(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("sheet_id = ? AND row_index = ?", s.id, index).Delete(&SheetRowModel{}).Error; err != nil {
			return err
		}
		if workbook.IsBlank(values) {
			return nil
		}
		return tx.Create(&SheetRowModel{SheetID: s.id, RowIndex: index, Cells: slices.Clone(values)}).Error
	})
	if err != nil {
		return fmt.Errorf("set row %d of %s: %w", index, s.name, err)
	}
	return nil
}

// DeleteRows removes count rows starting at start and shifts later rows up.
func (s Sheet) DeleteRows(ctx context.Context, start, count int) error {
	if start < 1 || count < 1 {
		return fmt.Errorf("%w: delete %d rows from %d", workbook.ErrInvalidRow, count, start)
	}
	end := start + count - 1
	err := s.locked(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("sheet_id = ? AND row_index BETWEEN ? AND ?", s.id, start, end).
			Delete(&SheetRowModel{}).Error; err != nil {
			return err
		}
		return tx.Model(&SheetRowModel{}).
			Where("sheet_id = ? AND row_index > ?", s.id, end).
			Update("row_index", gorm.Expr("row_index - ?", count)).Error
	})
	if err != nil {
		return fmt.Errorf("delete rows %d..%d of %s: %w", start, end, s.name, err)
	}
	return nil
}

func (s Sheet) locked(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var model SheetModel
	err := database.WithLockedTransaction(ctx, s.db, &model, s.id, fn)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", workbook.ErrSheetNotFound, s.name)
	}
	return err
}

func lastRow(db *gorm.DB, sheetID int64) (int, error) {
	var last int
	err := db.Model(&SheetRowModel{}).
		Where("sheet_id = ?", sheetID).
		Select("COALESCE(MAX(row_index), 0)").
		Scan(&last).Error
	return last, err
}
