// Package migrations compiles the SQL migration files into the binary so a
// deployed wattquest executable needs no SQL files on disk.
package migrations

import (
	"embed"

	"github.com/wattquest/wattquest-core/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	// The embedded FS is rooted at this directory.
	database.MigrationsDir = "."
}
