package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// openTimeout bounds the connectivity check performed by Open.
const openTimeout = 5 * time.Second

// Config maps to the database section of config.yaml.
type Config struct {
	// Path is the SQLite file location. Its directory is created on
	// demand so a fresh install works from an empty data dir.
	Path string

	// WALMode turns on write-ahead logging, letting reads proceed
	// while a save is being written.
	WALMode bool

	// BusyTimeout is how long a statement waits on a locked database,
	// in seconds.
	BusyTimeout int
}

// DB is the process-wide SQLite handle. It embeds *sql.DB, so the full
// database/sql query surface is available directly.
type DB struct {
	*sql.DB
	path string
}

// Open connects to the SQLite file described by cfg, creating the file
// and its directory when missing, and verifies connectivity before
// returning.
//
// Parameters:
//   - cfg: Database configuration
//
// Returns:
//   - *DB: Verified database handle
//   - error: If the directory, file, or connection cannot be set up
func Open(cfg Config) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o750); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite3", dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One writer keeps SQLite happy; the game's load is tiny anyway.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close() //nolint:errcheck // cleanup on the error path
		return nil, fmt.Errorf("verifying database connection: %w", err)
	}

	// Save files hold only game state, but there is no reason to leave
	// them world readable. The file may not exist until the first write.
	_ = os.Chmod(cfg.Path, 0o600)

	return &DB{DB: sqlDB, path: cfg.Path}, nil
}

// dsn assembles the go-sqlite3 connection string with our pragmas.
func dsn(cfg Config) string {
	q := url.Values{}
	q.Set("_busy_timeout", fmt.Sprintf("%d", cfg.BusyTimeout*1000))
	q.Set("_foreign_keys", "on")
	if cfg.WALMode {
		q.Set("_journal_mode", "WAL")
		q.Set("_synchronous", "NORMAL")
	}
	return fmt.Sprintf("file:%s?%s", cfg.Path, q.Encode())
}

// Close releases the underlying connection pool.
func (db *DB) Close() error {
	if db.DB == nil {
		return nil
	}
	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// Path returns the database file location.
func (db *DB) Path() string {
	return db.path
}

// HealthCheck runs a trivial query to confirm the connection is alive.
func (db *DB) HealthCheck(ctx context.Context) error {
	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

// BeginTx starts a transaction. Multi-statement writes, migrations
// included, go through here.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	tx, err := db.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	return tx, nil
}
