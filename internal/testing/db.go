// Package testing provides testing utilities and helpers for the perfstats project.
package testing

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aristath/perfstats/internal/database"
)

// NewTestDB creates a file-backed SQLite database in t.TempDir and applies
// the embedded schema for name (unknown names get an empty database). The
// connection is closed by t.Cleanup.
func NewTestDB(t *testing.T, name string) *database.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), name+".db"),
		Profile: database.ProfileCache,
		Name:    name,
	})
	if err != nil {
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate test database %s: %v", name, err)
	}
	return db
}
