// Package db opens the SQLite file that holds the imported listings
// snapshot. `lx import` writes it while `lx serve` may be reading it, so
// every connection runs in WAL mode and waits on a locked file instead of
// failing straight away.
package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// BusyTimeoutMillis is how long a connection waits for a write lock held by
// a concurrent import.
const BusyTimeoutMillis = 5000

// DefaultPath is where `lx import` writes when no --db is given.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".listing-explorer", "listings.db"), nil
}

// dsn carries the connection settings as go-sqlite3 parameters so each
// pooled connection gets them, not just the first.
func dsn(path string) string {
	q := url.Values{}
	q.Set("_journal_mode", "WAL")
	q.Set("_synchronous", "NORMAL")
	q.Set("_busy_timeout", fmt.Sprint(BusyTimeoutMillis))
	return "file:" + path + "?" + q.Encode()
}

// Open returns the snapshot store at path, creating the file and its
// directory on first use and bringing the schema up to date.
func Open(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening snapshot %s: %w", path, err)
	}

	// sql.Open is lazy; ping so a bad path fails here rather than on the
	// first query.
	if err := db.Ping(); err != nil {
		return nil, closeAfter(db, fmt.Errorf("connecting to snapshot %s: %w", path, err))
	}
	if err := migrate(db); err != nil {
		return nil, closeAfter(db, fmt.Errorf("migrating snapshot %s: %w", path, err))
	}

	return db, nil
}

// closeAfter closes db after a failed Open, keeping err as the cause.
func closeAfter(db *sql.DB, err error) error {
	if closeErr := db.Close(); closeErr != nil {
		return fmt.Errorf("%w (also failed to close: %v)", err, closeErr)
	}
	return err
}
