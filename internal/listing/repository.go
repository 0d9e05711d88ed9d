package listing

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Repository stores a snapshot of a table in SQLite.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a listing repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Import describes one snapshot written by ReplaceAll.
type Import struct {
	ID          int64     `json:"id"`
	Source      string    `json:"source"`
	RowCount    int       `json:"row_count"`
	ImportedAt  time.Time `json:"imported_at"`
	SourceMTime time.Time `json:"source_mtime,omitempty"`
}

const insertSQL = `INSERT INTO listings
	(position, id, name, host_id, host_name, neighbourhood, latitude, longitude, room_type,
	 price, minimum_nights, number_of_reviews, last_review, reviews_per_month,
	 calculated_host_listings_count, availability_365)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectColumns = `id, name, host_id, host_name, neighbourhood, latitude, longitude, room_type,
	price, minimum_nights, number_of_reviews, last_review, reviews_per_month,
	calculated_host_listings_count, availability_365`

// ReplaceAll swaps the stored snapshot for t in a single transaction and
// records the import.
func (r *Repository) ReplaceAll(source string, sourceMTime time.Time, t *Table) (err error) {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning import: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (also failed to roll back: %v)", err, rbErr)
			}
		}
	}()

	if _, err := tx.Exec("DELETE FROM listings"); err != nil {
		return fmt.Errorf("clearing listings: %w", err)
	}

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing statement: %w", cerr)
		}
	}()

	var insertErr error
	t.Each(func(i int, l *Listing) {
		if insertErr != nil {
			return
		}
		var lastReview *string
		if l.LastReview != nil {
			s := l.LastReview.Format(dateLayout)
			lastReview = &s
		}
		if _, err := stmt.Exec(i,
			l.ID, l.Name, l.HostID, l.HostName, l.Neighbourhood,
			l.Latitude, l.Longitude, l.RoomType,
			l.Price, l.MinimumNights, l.NumberOfReviews, lastReview, l.ReviewsPerMonth,
			l.HostListingsCount, l.Availability365,
		); err != nil {
			insertErr = fmt.Errorf("inserting listing %s: %w", l.ID, err)
		}
	})
	if insertErr != nil {
		return insertErr
	}

	if _, err := tx.Exec(
		"INSERT INTO imports (source, row_count, source_mtime) VALUES (?, ?, ?)",
		source, t.Len(), sourceMTime.UTC(),
	); err != nil {
		return fmt.Errorf("recording import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing import: %w", err)
	}
	return nil
}

// Table reads the stored snapshot in its original order.
func (r *Repository) Table() (t *Table, err error) {
	rows, err := r.db.Query(fmt.Sprintf("SELECT %s FROM listings ORDER BY position", selectColumns))
	if err != nil {
		return nil, fmt.Errorf("%w: querying listings: %v", ErrDataUnavailable, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			t, err = nil, fmt.Errorf("%w: closing rows: %v", ErrDataUnavailable, closeErr)
		}
	}()

	var out []Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning listing: %v", ErrDataUnavailable, err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating listings: %v", ErrDataUnavailable, err)
	}

	return &Table{rows: out}, nil
}

// LastImport returns the most recent import.
func (r *Repository) LastImport() (*Import, error) {
	var imp Import
	var mtime sql.NullTime
	err := r.db.QueryRow(
		"SELECT id, source, row_count, imported_at, source_mtime FROM imports ORDER BY id DESC LIMIT 1",
	).Scan(&imp.ID, &imp.Source, &imp.RowCount, &imp.ImportedAt, &mtime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no snapshot imported", ErrDataUnavailable)
	}
	if err != nil {
		return nil, fmt.Errorf("querying last import: %w", err)
	}
	if mtime.Valid {
		imp.SourceMTime = mtime.Time
	}
	return &imp, nil
}

// scanListing scans a listing from a database row.
func scanListing(row interface{ Scan(...interface{}) error }) (Listing, error) {
	var l Listing
	var lat, lon, rpm sql.NullFloat64
	var lastReview sql.NullString

	err := row.Scan(
		&l.ID, &l.Name, &l.HostID, &l.HostName, &l.Neighbourhood,
		&lat, &lon, &l.RoomType,
		&l.Price, &l.MinimumNights, &l.NumberOfReviews, &lastReview, &rpm,
		&l.HostListingsCount, &l.Availability365,
	)
	if err != nil {
		return Listing{}, err
	}

	if lat.Valid {
		l.Latitude = &lat.Float64
	}
	if lon.Valid {
		l.Longitude = &lon.Float64
	}
	if rpm.Valid {
		l.ReviewsPerMonth = &rpm.Float64
	}
	if lastReview.Valid {
		d, err := time.Parse(dateLayout, lastReview.String)
		if err != nil {
			return Listing{}, fmt.Errorf("parsing last_review %q: %w", lastReview.String, err)
		}
		l.LastReview = &d
	}
	return l, nil
}
