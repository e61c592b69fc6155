// Package testutil provides shared test helpers for setting up
// databases and input files.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/echome/internal/history"
)

// TestHistoryDB creates a temporary SQLite run ledger that is
// automatically cleaned up.
func TestHistoryDB(t *testing.T) *history.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "echome-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := history.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// WriteFile writes content under dir and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
