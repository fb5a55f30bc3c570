package database

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// openAt opens a database at path with the standard test settings.
func openAt(t *testing.T, path string) *DB {
	t.Helper()
	db, err := Open(Config{Path: path, WALMode: true, BusyTimeout: 5})
	if err != nil {
		t.Fatalf("Open(%q) error = %v", path, err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup
	return db
}

// openTestDB opens a database in a temporary directory.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	return openAt(t, filepath.Join(t.TempDir(), "test.db"))
}

func TestOpen(t *testing.T) {
	t.Run("creates database file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.db")
		openAt(t, path)

		if _, err := os.Stat(path); err != nil {
			t.Errorf("database file missing: %v", err)
		}
	})

	t.Run("creates missing parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "subdir", "nested", "test.db")
		openAt(t, path)

		if _, err := os.Stat(filepath.Dir(path)); err != nil {
			t.Errorf("parent directory missing: %v", err)
		}
	})

	t.Run("reports its path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.db")
		db := openAt(t, path)

		if got := db.Path(); got != path {
			t.Errorf("Path() = %v, want %v", got, path)
		}
	})

	t.Run("enables WAL journaling", func(t *testing.T) {
		db := openTestDB(t)

		var mode string
		if err := db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
			t.Fatalf("PRAGMA journal_mode: %v", err)
		}
		if !strings.EqualFold(mode, "wal") {
			t.Errorf("journal_mode = %q, want wal", mode)
		}
	})
}

func TestHealthCheck(t *testing.T) {
	db := openTestDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(Config{Path: path, WALMode: true, BusyTimeout: 5})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := db.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	// Close after the handle is gone must not panic.
	db.DB = nil
	if err := db.Close(); err != nil {
		t.Errorf("Close() on nil DB error = %v", err)
	}
}
