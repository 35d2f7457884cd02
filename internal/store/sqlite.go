package store

import (
	"database/sql"
	"fmt"
)

func configureSQLiteConnection(db *sql.DB) error {
	if db == nil {
		return nil
	}

	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		return fmt.Errorf("set journal_mode WAL: %w", err)
	}
	if _, err := db.Exec(`PRAGMA synchronous = NORMAL;`); err != nil {
		return fmt.Errorf("set synchronous NORMAL: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		return fmt.Errorf("set busy_timeout: %w", err)
	}

	// Reads from the dashboard tick must not stall behind watcher imports.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	return nil
}
