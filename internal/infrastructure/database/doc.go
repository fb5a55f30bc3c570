// Package database provides SQLite connection management for WattQuest Core.
//
// The database backs the durable tier of the persistence gateway: saved game
// states and the power-draw history live here. The in-memory tier of the
// gateway takes over transparently when the database cannot be opened.
//
// # Features
//
//   - WAL mode for concurrent reads during writes
//   - Embedded SQL migrations (compiled into the binary via go:embed)
//   - Per-migration transactional application
//   - Health checks for the API /health endpoint
//
// # Usage
//
//	db, err := database.Open(database.Config{
//	    Path:        cfg.Database.Path,
//	    WALMode:     cfg.Database.WALMode,
//	    BusyTimeout: cfg.Database.BusyTimeout,
//	})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
package database
