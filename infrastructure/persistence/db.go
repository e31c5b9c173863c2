// Package persistence stores the workbook sheets and the synced problems
// table through GORM.
package persistence

import (
	"fmt"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/internal/database"
)

// models lists the tables owned by this package, parents first.
var models = []any{
	&SheetModel{},
	&SheetRowModel{},
	&ProblemModel{},
}

// AutoMigrate creates or updates the workbook and problem tables.
func AutoMigrate(db database.Database) error {
	for _, m := range models {
		if err := db.GORM().AutoMigrate(m); err != nil {
			return fmt.Errorf("migrate %T: %w", m, err)
		}
	}
	return nil
}
