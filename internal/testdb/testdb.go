// Package testdb opens a migrated SQLite database in the test's temp dir.
package testdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/persistence"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/internal/database"
)

// New opens a fresh database file with the tracker tables migrated. It is
// closed when the test ends.
func New(t *testing.T) database.Database {
	t.Helper()

	url := "sqlite:///" + filepath.Join(t.TempDir(), "tracker.db")
	db, err := database.NewDatabase(context.Background(), url)
	require.NoError(t, err, "open test database")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, persistence.AutoMigrate(db), "migrate test database")
	return db
}

// NewWorkbook returns a migrated database and the workbook stored in it.
func NewWorkbook(t *testing.T) (database.Database, persistence.Workbook) {
	t.Helper()
	db := New(t)
	return db, persistence.NewWorkbook(db)
}
