package report

import (
	"github.com/evcraddock/listing-explorer/internal/aggregate"
	"github.com/evcraddock/listing-explorer/internal/listing"
)

// Selection is the filtered view behind the pin map.
type Selection struct {
	Criteria listing.Criteria  `json:"criteria"`
	Count    int               `json:"count"`
	Points   []listing.Point   `json:"points"`
	Listings []listing.Listing `json:"listings"`
	Mean     *float64          `json:"mean_price,omitempty"`
}

// Select validates c and filters t by it. An empty result is not an
// error.
func Select(t *listing.Table, c listing.Criteria) (*Selection, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	filtered := t.Filter(c)
	s := &Selection{
		Criteria: c,
		Count:    filtered.Len(),
		Points:   filtered.MapPoints(),
		Listings: filtered.Rows(),
	}
	if s.Listings == nil {
		s.Listings = []listing.Listing{}
	}
	if filtered.Len() > 0 {
		m := aggregate.MeanPrice(filtered)
		s.Mean = &m
	}
	return s, nil
}

// Empty reports whether nothing matched.
func (s *Selection) Empty() bool {
	return s.Count == 0
}
