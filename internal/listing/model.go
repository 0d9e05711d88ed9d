// Package listing provides the listing data model, the dataset loader and
// the filter engine.
package listing

import (
	"time"
)

// Room types seen in Inside Airbnb exports. The vocabulary is not enforced:
// other values load fine and simply never match a filter for these.
const (
	RoomEntireHome = "Entire home/apt"
	RoomPrivate    = "Private room"
	RoomShared     = "Shared room"
	RoomHotel      = "Hotel room"
)

// Listing is one row of the dataset.
type Listing struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	HostID            string     `json:"host_id"`
	HostName          string     `json:"host_name"`
	Neighbourhood     string     `json:"neighbourhood"`
	Latitude          *float64   `json:"latitude,omitempty"`
	Longitude         *float64   `json:"longitude,omitempty"`
	RoomType          string     `json:"room_type"`
	Price             float64    `json:"price"`
	MinimumNights     int        `json:"minimum_nights"`
	NumberOfReviews   int        `json:"number_of_reviews"`
	LastReview        *time.Time `json:"last_review,omitempty"`
	ReviewsPerMonth   *float64   `json:"reviews_per_month,omitempty"`
	HostListingsCount int        `json:"calculated_host_listings_count"`
	Availability365   int        `json:"availability_365"`
}

// HasCoordinates reports whether both latitude and longitude are present.
func (l Listing) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// Point is a map coordinate.
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Table is an immutable, ordered set of listings. Operations that narrow a
// table return a new one and leave the receiver untouched.
type Table struct {
	rows []Listing
}

// NewTable builds a table from rows. The slice is copied.
func NewTable(rows []Listing) *Table {
	cp := make([]Listing, len(rows))
	copy(cp, rows)
	return &Table{rows: cp}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Rows returns a copy of the table's rows in order.
func (t *Table) Rows() []Listing {
	if t == nil {
		return nil
	}
	cp := make([]Listing, len(t.rows))
	copy(cp, t.rows)
	return cp
}

// Each calls fn for every row in order without copying the table.
func (t *Table) Each(fn func(i int, l *Listing)) {
	if t == nil {
		return
	}
	for i := range t.rows {
		fn(i, &t.rows[i])
	}
}

// Head returns a table holding the first n rows.
func (t *Table) Head(n int) *Table {
	if n > t.Len() {
		n = t.Len()
	}
	if n < 0 {
		n = 0
	}
	return NewTable(t.rows[:n])
}

// Neighbourhoods returns the distinct neighbourhood values in order of first
// appearance.
func (t *Table) Neighbourhoods() []string {
	return t.distinct(func(l *Listing) string { return l.Neighbourhood })
}

// RoomTypes returns the distinct room type values in order of first
// appearance.
func (t *Table) RoomTypes() []string {
	return t.distinct(func(l *Listing) string { return l.RoomType })
}

func (t *Table) distinct(key func(*Listing) string) []string {
	seen := make(map[string]bool)
	var out []string
	t.Each(func(_ int, l *Listing) {
		k := key(l)
		if seen[k] {
			return
		}
		seen[k] = true
		out = append(out, k)
	})
	return out
}

// MapPoints returns the coordinates of every row that has both latitude and
// longitude. Rows missing either are dropped.
func (t *Table) MapPoints() []Point {
	points := make([]Point, 0, t.Len())
	t.Each(func(_ int, l *Listing) {
		if !l.HasCoordinates() {
			return
		}
		points = append(points, Point{Latitude: *l.Latitude, Longitude: *l.Longitude})
	})
	return points
}

// PriceRange returns the minimum and maximum price. Both are zero for an
// empty table.
func (t *Table) PriceRange() (lo, hi float64) {
	t.Each(func(i int, l *Listing) {
		if i == 0 || l.Price < lo {
			lo = l.Price
		}
		if i == 0 || l.Price > hi {
			hi = l.Price
		}
	})
	return lo, hi
}
