package listing

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ErrDataUnavailable is returned when the dataset is missing or malformed.
// Loading is all-or-nothing; no partial table is ever returned with it.
var ErrDataUnavailable = errors.New("data unavailable")

// Column names in the listings CSV.
const (
	ColID                = "id"
	ColName              = "name"
	ColHostID            = "host_id"
	ColHostName          = "host_name"
	ColNeighbourhood     = "neighbourhood"
	ColLatitude          = "latitude"
	ColLongitude         = "longitude"
	ColRoomType          = "room_type"
	ColPrice             = "price"
	ColMinimumNights     = "minimum_nights"
	ColNumberOfReviews   = "number_of_reviews"
	ColLastReview        = "last_review"
	ColReviewsPerMonth   = "reviews_per_month"
	ColHostListingsCount = "calculated_host_listings_count"
	ColAvailability365   = "availability_365"
)

// Columns lists the required columns in their canonical order.
var Columns = []string{
	ColID, ColName, ColHostID, ColHostName, ColNeighbourhood,
	ColLatitude, ColLongitude, ColRoomType, ColPrice, ColMinimumNights,
	ColNumberOfReviews, ColLastReview, ColReviewsPerMonth,
	ColHostListingsCount, ColAvailability365,
}

// dateLayout is the format of last_review.
const dateLayout = "2006-01-02"

// Load reads the listings CSV at path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrDataUnavailable, path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Warn("closing dataset", "path", path, "error", cerr)
		}
	}()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	slog.Debug("dataset loaded", "path", path, "rows", t.Len())
	return t, nil
}

// Read parses a listings CSV from r. A header with no rows gives an empty
// table.
func Read(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading csv: %v", ErrDataUnavailable, err)
	}

	// Every column is read as a string and parsed here, so a non-numeric
	// value is reported instead of silently becoming NaN.
	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{"", "NA", "NaN", "nan"}),
	)
	if df.Err != nil {
		// gota refuses a frame without records.
		if names, ok := headerOnly(data); ok {
			if err := checkColumns(names); err != nil {
				return nil, err
			}
			return &Table{}, nil
		}
		return nil, fmt.Errorf("%w: parsing csv: %v", ErrDataUnavailable, df.Err)
	}
	if err := checkColumns(df.Names()); err != nil {
		return nil, err
	}

	cols := make(map[string]series.Series, len(Columns))
	for _, name := range Columns {
		cols[name] = df.Col(name)
	}

	rows := make([]Listing, df.Nrow())
	for i := range rows {
		c := cells{cols: cols, row: i}
		rows[i] = Listing{
			ID:                c.str(ColID),
			Name:              c.str(ColName),
			HostID:            c.str(ColHostID),
			HostName:          c.str(ColHostName),
			Neighbourhood:     c.str(ColNeighbourhood),
			Latitude:          c.optFloat(ColLatitude),
			Longitude:         c.optFloat(ColLongitude),
			RoomType:          c.str(ColRoomType),
			Price:             c.price(),
			MinimumNights:     c.count(ColMinimumNights),
			NumberOfReviews:   c.count(ColNumberOfReviews),
			LastReview:        c.date(ColLastReview),
			ReviewsPerMonth:   c.optFloat(ColReviewsPerMonth),
			HostListingsCount: c.count(ColHostListingsCount),
			Availability365:   c.bounded(ColAvailability365, 0, 365),
		}
		if c.err != nil {
			// Header is line 1.
			return nil, fmt.Errorf("%w: line %d: %v", ErrDataUnavailable, i+2, c.err)
		}
	}

	return &Table{rows: rows}, nil
}

// headerOnly returns the header of a CSV that holds exactly one record.
func headerOnly(data []byte) ([]string, bool) {
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil || len(records) != 1 {
		return nil, false
	}
	names := make([]string, len(records[0]))
	for i, n := range records[0] {
		names[i] = strings.TrimSpace(n)
	}
	return names, true
}

// checkColumns reports the required columns absent from names.
func checkColumns(names []string) error {
	present := make(map[string]bool, len(names))
	for _, name := range names {
		present[name] = true
	}
	var missing []string
	for _, name := range Columns {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing columns: %s", ErrDataUnavailable, strings.Join(missing, ", "))
	}
	return nil
}

// cells reads typed values out of one row, keeping the first error.
type cells struct {
	cols map[string]series.Series
	row  int
	err  error
}

// raw returns the trimmed cell text and whether it is present.
func (c *cells) raw(col string) (string, bool) {
	e := c.cols[col].Elem(c.row)
	if e.IsNA() {
		return "", false
	}
	s := strings.TrimSpace(e.String())
	return s, s != ""
}

func (c *cells) fail(col, value string, err error) {
	if c.err == nil {
		c.err = fmt.Errorf("column %s: invalid value %q: %v", col, value, err)
	}
}

func (c *cells) str(col string) string {
	s, _ := c.raw(col)
	return s
}

func (c *cells) optFloat(col string) *float64 {
	s, ok := c.raw(col)
	if !ok {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
		err = errors.New("not a finite number")
	}
	if err != nil {
		c.fail(col, s, err)
		return nil
	}
	return &v
}

// price parses a required non-negative price, accepting "$1,200.00".
func (c *cells) price() float64 {
	s, ok := c.raw(ColPrice)
	if !ok {
		c.fail(ColPrice, s, errors.New("required"))
		return 0
	}
	clean := strings.NewReplacer("$", "", ",", "").Replace(s)
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		c.fail(ColPrice, s, err)
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		c.fail(ColPrice, s, errors.New("not a finite number"))
		return 0
	}
	if v < 0 {
		c.fail(ColPrice, s, errors.New("must be non-negative"))
		return 0
	}
	return v
}

// integer parses a required whole number. Values like "3.0" are accepted
// since numeric exports sometimes write integers as floats.
func (c *cells) integer(col string) int {
	s, ok := c.raw(col)
	if !ok {
		c.fail(col, s, errors.New("required"))
		return 0
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		c.fail(col, s, err)
		return 0
	}
	if math.IsInf(f, 0) || f != math.Trunc(f) {
		c.fail(col, s, errors.New("not a whole number"))
		return 0
	}
	return int(f)
}

// count is integer with a non-negative constraint.
func (c *cells) count(col string) int {
	v := c.integer(col)
	if v < 0 {
		c.fail(col, strconv.Itoa(v), errors.New("must be non-negative"))
		return 0
	}
	return v
}

// bounded is integer constrained to [lo, hi].
func (c *cells) bounded(col string, lo, hi int) int {
	v := c.integer(col)
	if v < lo || v > hi {
		c.fail(col, strconv.Itoa(v), fmt.Errorf("must be between %d and %d", lo, hi))
		return 0
	}
	return v
}

func (c *cells) date(col string) *time.Time {
	s, ok := c.raw(col)
	if !ok {
		return nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		c.fail(col, s, err)
		return nil
	}
	return &d
}
