// Package testdb provides an in-memory SQLite database with the full schema
// for store and usecase tests.
package testdb

import (
	"context"
	"testing"

	"github.com/just-nibble/repo-analytics/internal/data"
)

// New creates a migrated in-memory database that is closed when the test finishes.
func New(t *testing.T) data.Database {
	t.Helper()
	ctx := context.Background()
	db, err := data.NewDatabase(ctx, "sqlite:///:memory:")
	if err != nil {
		t.Fatalf("testdb.New: open database: %v", err)
	}
	if err := db.AutoMigrate(ctx); err != nil {
		_ = db.Close()
		t.Fatalf("testdb.New: auto migrate: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
