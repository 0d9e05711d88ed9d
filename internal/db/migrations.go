package db

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// migrations create the snapshot schema. listings.position keeps the CSV
// row order; imports records one line per `lx import`.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS listings (
		position                       INTEGER PRIMARY KEY,
		id                             TEXT    NOT NULL,
		name                           TEXT    NOT NULL DEFAULT '',
		host_id                        TEXT    NOT NULL DEFAULT '',
		host_name                      TEXT    NOT NULL DEFAULT '',
		neighbourhood                  TEXT    NOT NULL DEFAULT '',
		latitude                       REAL,
		longitude                      REAL,
		room_type                      TEXT    NOT NULL DEFAULT '',
		price                          REAL    NOT NULL CHECK (price >= 0),
		minimum_nights                 INTEGER NOT NULL CHECK (minimum_nights >= 0),
		number_of_reviews              INTEGER NOT NULL CHECK (number_of_reviews >= 0),
		last_review                    TEXT,
		reviews_per_month              REAL,
		calculated_host_listings_count INTEGER NOT NULL DEFAULT 0,
		availability_365               INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_neighbourhood ON listings(neighbourhood)`,
	`CREATE TABLE IF NOT EXISTS imports (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		source      TEXT     NOT NULL,
		row_count   INTEGER  NOT NULL,
		imported_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
}

// migrate applies the schema, then the columns added after the first
// release of the snapshot format. Both steps are safe to repeat.
func migrate(db *sql.DB) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}

	columnMigrations := []struct {
		table, column, definition string
	}{
		{"imports", "source_mtime", "DATETIME"},
	}

	for _, cm := range columnMigrations {
		if err := addColumnIfNotExists(db, cm.table, cm.column, cm.definition); err != nil {
			return fmt.Errorf("adding %s.%s: %w", cm.table, cm.column, err)
		}
	}

	return nil
}

// addColumnIfNotExists adds a column to a table if it doesn't already exist.
func addColumnIfNotExists(db *sql.DB, table, column, definition string) error {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return fmt.Errorf("checking table info: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			slog.Warn("closing table_info rows", "table", table, "error", cerr)
		}
	}()

	var found bool
	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return fmt.Errorf("scanning column info: %w", err)
		}
		if name == column {
			found = true
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating columns: %w", err)
	}
	if found {
		return nil
	}

	_, err = db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition))
	return err
}
