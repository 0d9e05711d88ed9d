package report

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/evcraddock/listing-explorer/internal/listing"
)

func testTable(t *testing.T) *listing.Table {
	t.Helper()
	tbl, err := listing.Load("../listing/testdata/listings.csv")
	if err != nil {
		t.Fatalf("loading testdata: %v", err)
	}
	return tbl
}

func TestBuild(t *testing.T) {
	p := Build(testTable(t))

	if p.Rows != 8 || p.Columns != len(listing.Columns) {
		t.Errorf("rows/columns = %d/%d", p.Rows, p.Columns)
	}
	if len(p.Head) != 8 {
		t.Errorf("head = %d rows, want 8", len(p.Head))
	}
	if len(p.TopHosts) != TopHostCount || p.TopHosts[0].HostName != "Grace" {
		t.Errorf("top hosts = %+v", p.TopHosts)
	}
	if p.Controls.Defaults.Neighbourhood != "Westminster" {
		t.Errorf("default neighbourhood = %q, want Westminster", p.Controls.Defaults.Neighbourhood)
	}
	// Richmond has no coordinates.
	if len(p.Heat) != 7 {
		t.Errorf("heat points = %d, want 7", len(p.Heat))
	}
	if len(p.PriceFactors) != FactorCount {
		t.Errorf("price factors = %+v", p.PriceFactors)
	}
}

func TestNarrative(t *testing.T) {
	n := Build(testTable(t)).Narrative

	wantHood := []string{"The average price is highest in Westminster and lowest in Barnet and Enfield"}
	if !reflect.DeepEqual(n.NeighbourhoodPrices, wantHood) {
		t.Errorf("neighbourhood inference = %q", n.NeighbourhoodPrices)
	}
	wantRoom := []string{
		"The average price of Entire home/apt is the highest",
		"The average price of Shared room is the lowest, followed by Private room",
	}
	if !reflect.DeepEqual(n.RoomTypePrices, wantRoom) {
		t.Errorf("room type inference = %q", n.RoomTypePrices)
	}
	if !strings.HasPrefix(n.Hosts, "The host Grace is at the top with 129 reviews. Philippa is second with 89 reviews.") {
		t.Errorf("hosts = %q", n.Hosts)
	}
	if !strings.HasPrefix(n.PriceFactors, "From the correlation heatmap") {
		t.Errorf("factors = %q", n.PriceFactors)
	}
	if n.Footer != "Developed by Rev Munnangi - 2021" {
		t.Errorf("footer = %q", n.Footer)
	}
}

func TestNarrativeSmallTables(t *testing.T) {
	tests := []struct {
		name  string
		rows  []listing.Listing
		hood  []string
		room  []string
		hosts string
	}{
		{
			name: "empty",
		},
		{
			name:  "one row",
			rows:  []listing.Listing{{HostName: "Ann", Neighbourhood: "Camden", RoomType: listing.RoomPrivate, Price: 1200, NumberOfReviews: 1500}},
			hood:  []string{"Only Camden is present, with an average price of $1,200.00"},
			room:  []string{"The average price of Private room is the highest"},
			hosts: "The host Ann is at the top with 1,500 reviews. Reviews are a count of feedback left for a listing, not a rating.",
		},
		{
			name: "two groups",
			rows: []listing.Listing{
				{HostName: "Ann", Neighbourhood: "Camden", RoomType: listing.RoomPrivate, Price: 50},
				{HostName: "Bob", Neighbourhood: "Barnet", RoomType: listing.RoomEntireHome, Price: 90},
			},
			hood: []string{"The average price is higher in Barnet than in Camden"},
			room: []string{
				"The average price of Entire home/apt is the highest",
				"The average price of Private room is the lowest",
			},
			hosts: "The host Ann is at the top with 0 reviews. Bob is second with 0 reviews. Reviews are a count of feedback left for a listing, not a rating.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Build(listing.NewTable(tt.rows)).Narrative
			if !reflect.DeepEqual(n.NeighbourhoodPrices, tt.hood) {
				t.Errorf("neighbourhood = %q, want %q", n.NeighbourhoodPrices, tt.hood)
			}
			if !reflect.DeepEqual(n.RoomTypePrices, tt.room) {
				t.Errorf("room = %q, want %q", n.RoomTypePrices, tt.room)
			}
			if n.Hosts != tt.hosts {
				t.Errorf("hosts = %q, want %q", n.Hosts, tt.hosts)
			}
		})
	}
}

func TestBuildMarshalsWithUndefinedValues(t *testing.T) {
	// A single row leaves every correlation and stddev undefined.
	p := Build(listing.NewTable([]listing.Listing{{ID: "1", Price: 10}}))
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"rows":1`) {
		t.Errorf("unexpected json: %s", data)
	}
}

func TestSelect(t *testing.T) {
	tbl := testTable(t)

	s, err := Select(tbl, listing.Criteria{PriceMin: 50, PriceMax: 150, MaxNights: 3, MinReviews: 10, RoomType: listing.RoomPrivate})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	// 13913 (Islington) and 33332 (Richmond, no coordinates).
	if s.Count != 2 || len(s.Listings) != 2 {
		t.Fatalf("count = %d", s.Count)
	}
	if len(s.Points) != 1 {
		t.Errorf("points = %d, want 1", len(s.Points))
	}
	if s.Mean == nil || *s.Mean != 82.5 {
		t.Errorf("mean = %v, want 82.5", s.Mean)
	}

	empty, err := Select(tbl, listing.Criteria{PriceMin: 5000, PriceMax: 6000})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if !empty.Empty() || empty.Mean != nil || empty.Listings == nil {
		t.Errorf("empty selection = %+v", empty)
	}

	if _, err := Select(tbl, listing.Criteria{PriceMin: 10, PriceMax: 5}); !errors.Is(err, listing.ErrInvalidCriteria) {
		t.Errorf("err = %v, want ErrInvalidCriteria", err)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{FormatCount(1234567), "1,234,567"},
		{FormatCount(12), "12"},
		{FormatPrice(1234.5), "$1,234.50"},
		{FormatFloat(0.25), "0.25"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestSaveXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings.xlsx")
	if err := SaveXLSX(path, testTable(t)); err != nil {
		t.Fatalf("SaveXLSX: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	want := []string{SheetNeighbourhoods, SheetRoomTypes, SheetHosts, SheetCorrelation, SheetListings}
	if got := f.GetSheetList(); !reflect.DeepEqual(got, want) {
		t.Errorf("sheets = %v, want %v", got, want)
	}

	hosts, err := f.GetRows(SheetHosts)
	if err != nil {
		t.Fatalf("reading hosts: %v", err)
	}
	if len(hosts) != 8 || hosts[1][0] != "Grace" || hosts[1][1] != "129" {
		t.Errorf("hosts sheet = %v", hosts)
	}

	listings, err := f.GetRows(SheetListings)
	if err != nil {
		t.Fatalf("reading listings: %v", err)
	}
	if len(listings) != 9 {
		t.Errorf("listings sheet has %d rows, want 9", len(listings))
	}
	if listings[0][0] != listing.ColID || listings[1][0] != "13913" {
		t.Errorf("listings sheet starts %v / %v", listings[0], listings[1])
	}
}
