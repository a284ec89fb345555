package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver
)

// Open opens the SQLite database and applies the connection pragmas the
// engine depends on: foreign keys for the position -> alert_rule cascade,
// WAL so the scheduled cycle can flip fired flags while API reads are in
// flight, and a busy timeout so those writers queue instead of failing
// with SQLITE_BUSY.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	return db, nil
}

// HealthCheck reports whether the database is reachable.
func HealthCheck(db *sql.DB) error {
	return db.Ping()
}
