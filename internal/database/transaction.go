package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// WithTransaction executes fn within a transaction, committing on success or rolling back on error.
func WithTransaction(ctx context.Context, db Database, fn func(tx *gorm.DB) error) error {
	return db.Session(ctx).Transaction(fn)
}

// WithLockedTransaction runs fn in a transaction after locking the row of
// model matching id. The lock is released on commit or rollback.
func WithLockedTransaction(ctx context.Context, db Database, model any, id any, fn func(tx *gorm.DB) error) error {
	return WithTransaction(ctx, db, func(tx *gorm.DB) error {
		if err := db.ForUpdate(tx.Model(model)).Where("id = ?", id).Take(model).Error; err != nil {
			return fmt.Errorf("lock row: %w", err)
		}
		return fn(tx)
	})
}
