package listing

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func fptr(v float64) *float64 { return &v }

// exampleTable is the three-row table used throughout the filter tests.
func exampleTable() *Table {
	return NewTable([]Listing{
		{ID: "1", Neighbourhood: "Camden", RoomType: RoomEntireHome, Price: 100, Latitude: fptr(51.54), Longitude: fptr(-0.14)},
		{ID: "2", Neighbourhood: "Camden", RoomType: RoomPrivate, Price: 50, Latitude: fptr(51.55)},
		{ID: "3", Neighbourhood: "Enfield", RoomType: RoomEntireHome, Price: 200, Latitude: fptr(51.65), Longitude: fptr(-0.08)},
	})
}

func ids(t *Table) []string {
	var out []string
	t.Each(func(_ int, l *Listing) { out = append(out, l.ID) })
	return out
}

func TestFilterPriceRange(t *testing.T) {
	got := exampleTable().Filter(Criteria{PriceMin: 0, PriceMax: 150, MaxNights: 30})
	if want := []string{"1", "2"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("ids = %v, want %v", ids(got), want)
	}
}

func TestFilterPredicates(t *testing.T) {
	tbl := NewTable([]Listing{
		{ID: "a", Neighbourhood: "Camden", RoomType: RoomPrivate, Price: 80, MinimumNights: 1, NumberOfReviews: 10},
		{ID: "b", Neighbourhood: "Camden", RoomType: RoomPrivate, Price: 80, MinimumNights: 5, NumberOfReviews: 10},
		{ID: "c", Neighbourhood: "Camden", RoomType: RoomPrivate, Price: 80, MinimumNights: 1, NumberOfReviews: 2},
		{ID: "d", Neighbourhood: "Hackney", RoomType: RoomPrivate, Price: 80, MinimumNights: 1, NumberOfReviews: 10},
		{ID: "e", Neighbourhood: "Camden", RoomType: RoomShared, Price: 80, MinimumNights: 1, NumberOfReviews: 10},
		{ID: "f", Neighbourhood: "Camden", RoomType: RoomPrivate, Price: 500, MinimumNights: 1, NumberOfReviews: 10},
	})

	tests := []struct {
		name string
		c    Criteria
		want []string
	}{
		{
			name: "all predicates",
			c:    Criteria{PriceMin: 50, PriceMax: 100, MaxNights: 3, MinReviews: 5, Neighbourhood: "Camden", RoomType: RoomPrivate},
			want: []string{"a"},
		},
		{
			name: "bounds are inclusive",
			c:    Criteria{PriceMin: 80, PriceMax: 80, MaxNights: 5, MinReviews: 2, Neighbourhood: "Camden", RoomType: RoomPrivate},
			want: []string{"a", "b", "c"},
		},
		{
			name: "empty selects match any",
			c:    Criteria{PriceMin: 0, PriceMax: 1000, MaxNights: 30},
			want: []string{"a", "b", "c", "d", "e", "f"},
		},
		{
			name: "unknown neighbourhood matches nothing",
			c:    Criteria{PriceMin: 0, PriceMax: 1000, MaxNights: 30, Neighbourhood: "Atlantis"},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(tbl.Filter(tt.c))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ids = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterContainment(t *testing.T) {
	tbl := exampleTable()
	ranges := [][2]float64{{0, 0}, {0, 50}, {50, 100}, {99, 201}, {150, 150}, {0, math.MaxFloat64}}
	for _, r := range ranges {
		c := Criteria{PriceMin: r[0], PriceMax: r[1], MaxNights: 30}
		got := tbl.Filter(c)
		got.Each(func(_ int, l *Listing) {
			if l.Price < r[0] || l.Price > r[1] {
				t.Errorf("range %v: row %s price %v outside", r, l.ID, l.Price)
			}
		})
		want := 0
		tbl.Each(func(_ int, l *Listing) {
			if l.Price >= r[0] && l.Price <= r[1] {
				want++
			}
		})
		if got.Len() != want {
			t.Errorf("range %v: got %d rows, want %d", r, got.Len(), want)
		}
	}
}

func TestFilterIdempotent(t *testing.T) {
	c := Criteria{PriceMin: 0, PriceMax: 150, MaxNights: 30, Neighbourhood: "Camden"}
	once := exampleTable().Filter(c)
	twice := once.Filter(c)
	if !reflect.DeepEqual(once.Rows(), twice.Rows()) {
		t.Errorf("filter not idempotent: %v vs %v", ids(once), ids(twice))
	}
}

func TestFilterDoesNotMutate(t *testing.T) {
	tbl := exampleTable()
	before := tbl.Rows()
	_ = tbl.Filter(Criteria{PriceMin: 1000, PriceMax: 2000})
	if !reflect.DeepEqual(before, tbl.Rows()) {
		t.Error("filter mutated the source table")
	}
}

func TestFilterEmptyResult(t *testing.T) {
	got := exampleTable().Filter(Criteria{PriceMin: 1000, PriceMax: 2000, MaxNights: 30})
	if got.Len() != 0 {
		t.Fatalf("rows = %d, want 0", got.Len())
	}
	if pts := got.MapPoints(); len(pts) != 0 {
		t.Errorf("map points = %v, want none", pts)
	}
	if got.Neighbourhoods() != nil {
		t.Error("expected no neighbourhoods")
	}
}

func TestMapPointsDropsMissingCoordinates(t *testing.T) {
	pts := exampleTable().MapPoints()
	want := []Point{{51.54, -0.14}, {51.65, -0.08}}
	if !reflect.DeepEqual(pts, want) {
		t.Errorf("points = %v, want %v", pts, want)
	}
}

func TestCriteriaValidate(t *testing.T) {
	tests := []struct {
		name    string
		c       Criteria
		wantErr bool
	}{
		{"valid", Criteria{PriceMin: 10, PriceMax: 20}, false},
		{"equal bounds", Criteria{PriceMin: 10, PriceMax: 10}, false},
		{"inverted range", Criteria{PriceMin: 20, PriceMax: 10}, true},
		{"negative min price", Criteria{PriceMin: -1, PriceMax: 10}, true},
		{"nan bound", Criteria{PriceMin: math.NaN(), PriceMax: 10}, true},
		{"negative nights", Criteria{PriceMax: 10, MaxNights: -1}, true},
		{"negative reviews", Criteria{PriceMax: 10, MinReviews: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if tt.wantErr != (err != nil) {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidCriteria) {
				t.Errorf("error %v does not wrap ErrInvalidCriteria", err)
			}
		})
	}
}

func TestDistinctValuesInOrderOfAppearance(t *testing.T) {
	tbl := NewTable([]Listing{
		{Neighbourhood: "Hackney", RoomType: RoomShared},
		{Neighbourhood: "Camden", RoomType: RoomPrivate},
		{Neighbourhood: "Hackney", RoomType: RoomShared},
		{Neighbourhood: "Barnet", RoomType: RoomEntireHome},
	})
	if got, want := tbl.Neighbourhoods(), []string{"Hackney", "Camden", "Barnet"}; !reflect.DeepEqual(got, want) {
		t.Errorf("neighbourhoods = %v, want %v", got, want)
	}
	if got, want := tbl.RoomTypes(), []string{RoomShared, RoomPrivate, RoomEntireHome}; !reflect.DeepEqual(got, want) {
		t.Errorf("room types = %v, want %v", got, want)
	}
}

func TestNewControls(t *testing.T) {
	tbl := NewTable([]Listing{
		{Neighbourhood: "Hackney", RoomType: RoomShared, Price: 20},
		{Neighbourhood: "Camden", RoomType: RoomPrivate, Price: 25000},
		{Neighbourhood: "Barnet", RoomType: RoomEntireHome, Price: 700},
	})

	c := NewControls(tbl)
	if c.PriceFloor != 20 {
		t.Errorf("price floor = %v, want 20", c.PriceFloor)
	}
	if c.PriceCeiling != PriceDisplayCap {
		t.Errorf("price ceiling = %v, want %v", c.PriceCeiling, PriceDisplayCap)
	}
	if c.NightsLimit != 30 || c.ReviewsLimit != 700 {
		t.Errorf("limits = %d/%d, want 30/700", c.NightsLimit, c.ReviewsLimit)
	}
	want := Criteria{PriceMin: 500, PriceMax: 1500, MaxNights: 1, Neighbourhood: "Barnet", RoomType: RoomShared}
	if c.Defaults != want {
		t.Errorf("defaults = %+v, want %+v", c.Defaults, want)
	}
	if !Offers(c.Neighbourhoods, "Camden") || Offers(c.Neighbourhoods, "Atlantis") {
		t.Error("neighbourhood options should come from the data")
	}
}

func TestControlsUnoffered(t *testing.T) {
	c := NewControls(NewTable([]Listing{{Neighbourhood: "Camden", RoomType: RoomPrivate, Price: 40}}))

	tests := []struct {
		name string
		crit Criteria
		want []string
	}{
		{"offered", Criteria{Neighbourhood: "Camden", RoomType: RoomPrivate}, nil},
		{"any", Criteria{}, nil},
		{"unknown neighbourhood", Criteria{Neighbourhood: "Atlantis"}, []string{`neighbourhood "Atlantis" is not in the dataset`}},
		{"both unknown", Criteria{Neighbourhood: "Atlantis", RoomType: RoomHotel}, []string{
			`neighbourhood "Atlantis" is not in the dataset`,
			`room type "Hotel room" is not in the dataset`,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Unoffered(tt.crit); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Unoffered = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewControlsSmallTable(t *testing.T) {
	tbl := NewTable([]Listing{{Neighbourhood: "Camden", RoomType: RoomPrivate, Price: 40}, {Neighbourhood: "Camden", RoomType: RoomPrivate, Price: 90}})
	c := NewControls(tbl)
	if c.Defaults.Neighbourhood != "Camden" {
		t.Errorf("default neighbourhood = %q, want Camden", c.Defaults.Neighbourhood)
	}
	if c.Defaults.PriceMin != 90 || c.Defaults.PriceMax != 90 {
		t.Errorf("default price range = %v-%v, want clamped to 90-90", c.Defaults.PriceMin, c.Defaults.PriceMax)
	}
}
