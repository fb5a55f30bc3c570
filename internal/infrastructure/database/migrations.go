package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Migration filenames look like YYYYMMDD_HHMMSS_description.up.sql with an
// optional .down.sql companion. The leading date and time form the version.
const (
	upSuffix   = ".up.sql"
	downSuffix = ".down.sql"
)

// MigrationsFS holds the embedded migration files. The migrations package
// assigns it in an init func so the SQL ships inside the binary.
var MigrationsFS embed.FS

// MigrationsDir is the path within MigrationsFS where the SQL files live.
// "." when the files sit at the root of the embedded filesystem.
var MigrationsDir = "migrations"

// Migration pairs the up and down SQL for one schema version.
type Migration struct {
	Version string // YYYYMMDD_HHMMSS prefix of the filename
	Name    string // description part of the filename
	UpSQL   string
	DownSQL string // empty when no .down.sql exists
}

// MigrationRecord is one row of the schema_migrations bookkeeping table.
type MigrationRecord struct {
	Version   string
	AppliedAt time.Time
}

// Migrate brings the schema up to date. Each pending migration runs in its
// own transaction, so a failure leaves earlier migrations applied and the
// next Migrate call resumes at the one that failed.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: If a migration fails (that migration alone is rolled back)
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	available, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	applied, err := db.getAppliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("getting applied migrations: %w", err)
	}
	done := make(map[string]bool, len(applied))
	for _, rec := range applied {
		done[rec.Version] = true
	}

	for _, m := range available {
		if done[m.Version] {
			continue
		}
		err := db.inTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, m.UpSQL); err != nil {
				return fmt.Errorf("executing SQL: %w", err)
			}
			_, err := tx.ExecContext(ctx,
				"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
				m.Version, time.Now().UTC().Format(time.RFC3339),
			)
			if err != nil {
				return fmt.Errorf("recording migration: %w", err)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("applying migration %s (%s): %w", m.Version, m.Name, err)
		}
	}

	return nil
}

// MigrateDown reverts the newest applied migration. Development and test
// helper, never called on the normal startup path.
func (db *DB) MigrateDown(ctx context.Context) error {
	applied, err := db.getAppliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("getting applied migrations: %w", err)
	}
	if len(applied) == 0 {
		return nil
	}
	target := applied[len(applied)-1].Version

	available, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	var down string
	found := false
	for _, m := range available {
		if m.Version == target {
			down = m.DownSQL
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("migration %s not found in filesystem", target)
	}
	if down == "" {
		return fmt.Errorf("migration %s has no down SQL", target)
	}

	return db.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, down); err != nil {
			return fmt.Errorf("executing down SQL: %w", err)
		}
		_, err := tx.ExecContext(ctx,
			"DELETE FROM schema_migrations WHERE version = ?", target)
		if err != nil {
			return fmt.Errorf("removing migration record: %w", err)
		}
		return nil
	})
}

// inTx runs fn inside a transaction, committing on success.
func (db *DB) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// getAppliedMigrations reads the bookkeeping table in version order.
func (db *DB) getAppliedMigrations(ctx context.Context) ([]MigrationRecord, error) {
	rows, err := db.DB.QueryContext(ctx,
		"SELECT version, applied_at FROM schema_migrations ORDER BY version",
	)
	if err != nil {
		return nil, fmt.Errorf("querying migrations: %w", err)
	}
	defer rows.Close()

	var out []MigrationRecord
	for rows.Next() {
		var rec MigrationRecord
		var stamp string
		if err := rows.Scan(&rec.Version, &stamp); err != nil {
			return nil, fmt.Errorf("scanning migration row: %w", err)
		}
		rec.AppliedAt, _ = time.Parse(time.RFC3339, stamp) //nolint:errcheck // Format is controlled
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating migrations: %w", err)
	}
	return out, nil
}

// loadMigrations scans the embedded filesystem and pairs up/down files by
// version. Missing down files are tolerated; orphan down files are ignored.
func loadMigrations() ([]Migration, error) {
	var zero embed.FS
	if MigrationsFS == zero {
		return nil, nil
	}
	entries, err := fs.ReadDir(MigrationsFS, MigrationsDir)
	if err != nil {
		// Directory absent means no migrations to run.
		return nil, nil
	}

	byVersion := make(map[string]*Migration)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		version, isUp, ok := parseMigrationFilename(entry.Name())
		if !ok {
			continue
		}
		body, err := fs.ReadFile(MigrationsFS, filepath.Join(MigrationsDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}
		m := byVersion[version]
		if m == nil {
			m = &Migration{Version: version, Name: migrationName(entry.Name())}
			byVersion[version] = m
		}
		if isUp {
			m.UpSQL = string(body)
		} else {
			m.DownSQL = string(body)
		}
	}

	out := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.UpSQL == "" {
			continue // down file without a matching up file
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// parseMigrationFilename splits a migration filename into its version and
// direction. ok is false for files that are not migrations.
func parseMigrationFilename(name string) (version string, isUp bool, ok bool) {
	var base string
	switch {
	case strings.HasSuffix(name, upSuffix):
		base, isUp = strings.TrimSuffix(name, upSuffix), true
	case strings.HasSuffix(name, downSuffix):
		base, isUp = strings.TrimSuffix(name, downSuffix), false
	default:
		return "", false, false
	}

	// The version is the date and time, everything up to the second
	// underscore. A bare description with no date prefix is rejected.
	first := strings.IndexByte(base, '_')
	if first < 0 {
		return "", false, false
	}
	rest := base[first+1:]
	if second := strings.IndexByte(rest, '_'); second >= 0 {
		return base[:first+1+second], isUp, true
	}
	return base, isUp, true
}

// migrationName returns the description part of a migration filename.
// "20260810_120000_initial_schema.up.sql" becomes "initial_schema".
func migrationName(name string) string {
	base := strings.TrimSuffix(name, upSuffix)
	base = strings.TrimSuffix(base, downSuffix)
	parts := strings.SplitN(base, "_", 3)
	if len(parts) == 3 {
		return parts[2]
	}
	return base
}
