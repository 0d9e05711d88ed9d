package listing

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrInvalidCriteria is returned by Criteria.Validate.
var ErrInvalidCriteria = errors.New("invalid filter criteria")

// Criteria is a conjunction of range and equality predicates over a table.
// An empty Neighbourhood or RoomType leaves that predicate out.
type Criteria struct {
	PriceMin      float64 `json:"price_min"`
	PriceMax      float64 `json:"price_max"`
	MaxNights     int     `json:"max_nights"`
	MinReviews    int     `json:"min_reviews"`
	Neighbourhood string  `json:"neighbourhood,omitempty"`
	RoomType      string  `json:"room_type,omitempty"`
}

// Validate checks the bounds are well formed.
func (c Criteria) Validate() error {
	switch {
	case math.IsNaN(c.PriceMin) || math.IsNaN(c.PriceMax):
		return fmt.Errorf("%w: price bound is not a number", ErrInvalidCriteria)
	case c.PriceMin < 0:
		return fmt.Errorf("%w: price_min %g is negative", ErrInvalidCriteria, c.PriceMin)
	case c.PriceMin > c.PriceMax:
		return fmt.Errorf("%w: price_min %g exceeds price_max %g", ErrInvalidCriteria, c.PriceMin, c.PriceMax)
	case c.MaxNights < 0:
		return fmt.Errorf("%w: max nights %d is negative", ErrInvalidCriteria, c.MaxNights)
	case c.MinReviews < 0:
		return fmt.Errorf("%w: min reviews %d is negative", ErrInvalidCriteria, c.MinReviews)
	}
	return nil
}

// Match reports whether l satisfies every predicate.
func (c Criteria) Match(l *Listing) bool {
	if l.Price < c.PriceMin || l.Price > c.PriceMax {
		return false
	}
	if l.MinimumNights > c.MaxNights {
		return false
	}
	if l.NumberOfReviews < c.MinReviews {
		return false
	}
	if c.Neighbourhood != "" && l.Neighbourhood != c.Neighbourhood {
		return false
	}
	if c.RoomType != "" && l.RoomType != c.RoomType {
		return false
	}
	return true
}

// Filter returns the rows matching c, in table order. The result may be
// empty. Filtering is a single linear scan; there are no indexes.
func (t *Table) Filter(c Criteria) *Table {
	out := &Table{}
	t.Each(func(_ int, l *Listing) {
		if c.Match(l) {
			out.rows = append(out.rows, *l)
		}
	})
	return out
}

// Control bounds for the interactive filter.
const (
	PriceDisplayCap = 10000.0
	MaxNightsLimit  = 30
	MinReviewsLimit = 700

	defaultPriceLo   = 500.0
	defaultPriceHi   = 1500.0
	defaultMaxNights = 1
)

// Controls describes the interactive filter widgets for a table: the
// ranges they may take, the values offered by the selects and the initial
// selection.
type Controls struct {
	PriceFloor     float64  `json:"price_floor"`
	PriceCeiling   float64  `json:"price_ceiling"`
	NightsLimit    int      `json:"nights_limit"`
	ReviewsLimit   int      `json:"reviews_limit"`
	Neighbourhoods []string `json:"neighbourhoods"`
	RoomTypes      []string `json:"room_types"`
	Defaults       Criteria `json:"defaults"`
}

// NewControls derives the filter controls from the loaded table. Select
// options always come from the data itself.
func NewControls(t *Table) Controls {
	lo, hi := t.PriceRange()
	hi = math.Min(hi, PriceDisplayCap)
	if hi < lo {
		hi = lo
	}

	c := Controls{
		PriceFloor:     lo,
		PriceCeiling:   hi,
		NightsLimit:    MaxNightsLimit,
		ReviewsLimit:   MinReviewsLimit,
		Neighbourhoods: t.Neighbourhoods(),
		RoomTypes:      t.RoomTypes(),
	}

	c.Defaults = Criteria{
		PriceMin:   clamp(defaultPriceLo, lo, hi),
		PriceMax:   clamp(defaultPriceHi, lo, hi),
		MaxNights:  defaultMaxNights,
		MinReviews: 0,
	}
	switch n := len(c.Neighbourhoods); {
	case n > 2:
		c.Defaults.Neighbourhood = c.Neighbourhoods[2]
	case n > 0:
		c.Defaults.Neighbourhood = c.Neighbourhoods[0]
	}
	if len(c.RoomTypes) > 0 {
		c.Defaults.RoomType = c.RoomTypes[0]
	}
	return c
}

// Offers reports whether value is one of the options for the select.
func Offers(options []string, value string) bool {
	return slices.Contains(options, value)
}

// Unoffered describes every select value in crit that the controls do not
// offer. Such values are allowed but can never match a row.
func (c Controls) Unoffered(crit Criteria) []string {
	var out []string
	if crit.Neighbourhood != "" && !Offers(c.Neighbourhoods, crit.Neighbourhood) {
		out = append(out, fmt.Sprintf("neighbourhood %q is not in the dataset", crit.Neighbourhood))
	}
	if crit.RoomType != "" && !Offers(c.RoomTypes, crit.RoomType) {
		out = append(out, fmt.Sprintf("room type %q is not in the dataset", crit.RoomType))
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
