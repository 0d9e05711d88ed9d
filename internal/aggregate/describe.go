package aggregate

import (
	"encoding/json"
	"math"
	"sort"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/evcraddock/listing-explorer/internal/listing"
)

// Frame converts a table into a gota DataFrame with one column per CSV
// field. Missing optional values are NA.
func Frame(t *listing.Table) dataframe.DataFrame {
	n := t.Len()
	var (
		ids, names, hostIDs, hostNames = make([]string, n), make([]string, n), make([]string, n), make([]string, n)
		hoods, rooms, lastReviews      = make([]string, n), make([]string, n), make([]string, n)
		lats, lons, prices, rpms       = make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
		nights, reviews, hostCounts    = make([]int, n), make([]int, n), make([]int, n)
		avail                          = make([]int, n)
	)
	t.Each(func(i int, l *listing.Listing) {
		ids[i], names[i], hostIDs[i], hostNames[i] = l.ID, l.Name, l.HostID, l.HostName
		hoods[i], rooms[i] = l.Neighbourhood, l.RoomType
		lastReviews[i] = "NaN"
		if l.LastReview != nil {
			lastReviews[i] = l.LastReview.Format(time.DateOnly)
		}
		lats[i], lons[i], prices[i], rpms[i] = orNaN(l.Latitude), orNaN(l.Longitude), l.Price, orNaN(l.ReviewsPerMonth)
		nights[i], reviews[i], hostCounts[i], avail[i] = l.MinimumNights, l.NumberOfReviews, l.HostListingsCount, l.Availability365
	})

	return dataframe.New(
		series.New(ids, series.String, listing.ColID),
		series.New(names, series.String, listing.ColName),
		series.New(hostIDs, series.String, listing.ColHostID),
		series.New(hostNames, series.String, listing.ColHostName),
		series.New(hoods, series.String, listing.ColNeighbourhood),
		series.New(lats, series.Float, listing.ColLatitude),
		series.New(lons, series.Float, listing.ColLongitude),
		series.New(rooms, series.String, listing.ColRoomType),
		series.New(prices, series.Float, listing.ColPrice),
		series.New(nights, series.Int, listing.ColMinimumNights),
		series.New(reviews, series.Int, listing.ColNumberOfReviews),
		series.New(lastReviews, series.String, listing.ColLastReview),
		series.New(rpms, series.Float, listing.ColReviewsPerMonth),
		series.New(hostCounts, series.Int, listing.ColHostListingsCount),
		series.New(avail, series.Int, listing.ColAvailability365),
	)
}

// ColumnInfo is one line of a df.info() style summary.
type ColumnInfo struct {
	Name    string `json:"name"`
	NonNull int    `json:"non_null"`
	Type    string `json:"type"`
}

// Info lists every column with its non-null count and type.
func Info(t *listing.Table) []ColumnInfo {
	df := Frame(t)
	types := df.Types()
	out := make([]ColumnInfo, 0, df.Ncol())
	for i, name := range df.Names() {
		col := df.Col(name)
		floats := col.Float()
		nonNull := 0
		for k, na := range col.IsNaN() {
			if na || (types[i] == series.Float && math.IsNaN(floats[k])) {
				continue
			}
			nonNull++
		}
		out = append(out, ColumnInfo{Name: name, NonNull: nonNull, Type: string(types[i])})
	}
	return out
}

// describedColumns are summarised by DescribeNumeric.
var describedColumns = []string{
	listing.ColLatitude, listing.ColLongitude, listing.ColPrice,
	listing.ColMinimumNights, listing.ColNumberOfReviews, listing.ColReviewsPerMonth,
	listing.ColHostListingsCount, listing.ColAvailability365,
}

// Description is a statistics-by-column table. Values[i][j] is statistic
// Stats[i] of column Columns[j].
type Description struct {
	Columns []string
	Stats   []string
	Values  [][]float64
}

// MarshalJSON encodes undefined statistics as null.
func (d *Description) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Columns []string     `json:"columns"`
		Stats   []string     `json:"stats"`
		Values  [][]*float64 `json:"values"`
	}{d.Columns, d.Stats, nullable(d.Values)})
}

// gotaStats are the rows of gota's Describe, in its order.
var gotaStats = []string{"mean", "median", "stddev", "min", "25%", "50%", "75%", "max"}

// DescribeNumeric summarises the numeric columns: a non-null count, then
// gota's Describe statistics computed over the present values only.
func DescribeNumeric(t *listing.Table) *Description {
	df := Frame(t)
	d := &Description{
		Columns: describedColumns,
		Stats:   append([]string{"count"}, gotaStats...),
	}
	d.Values = make([][]float64, len(d.Stats))
	for i := range d.Values {
		d.Values[i] = make([]float64, len(describedColumns))
	}

	for j, name := range describedColumns {
		var present []float64
		for _, v := range df.Col(name).Float() {
			if !math.IsNaN(v) {
				present = append(present, v)
			}
		}
		d.Values[0][j] = float64(len(present))
		if len(present) == 0 {
			for i := 1; i < len(d.Stats); i++ {
				d.Values[i][j] = math.NaN()
			}
			continue
		}

		desc := dataframe.New(series.New(present, series.Float, name)).Describe()
		stats := desc.Col(name).Float()
		for i := range gotaStats {
			d.Values[i+1][j] = stats[i]
		}
	}
	return d
}

// CategoricalSummary is a describe(include='object') style summary of one
// text column.
type CategoricalSummary struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
	Unique int    `json:"unique"`
	Top    string `json:"top"`
	Freq   int    `json:"freq"`
}

// DescribeCategorical summarises the text columns. Empty values are not
// counted. Top is the most frequent value; ties go to the smaller value.
func DescribeCategorical(t *listing.Table) []CategoricalSummary {
	columns := []struct {
		name  string
		value func(*listing.Listing) string
	}{
		{listing.ColName, func(l *listing.Listing) string { return l.Name }},
		{listing.ColHostName, func(l *listing.Listing) string { return l.HostName }},
		{listing.ColNeighbourhood, func(l *listing.Listing) string { return l.Neighbourhood }},
		{listing.ColRoomType, func(l *listing.Listing) string { return l.RoomType }},
		{listing.ColLastReview, func(l *listing.Listing) string {
			if l.LastReview == nil {
				return ""
			}
			return l.LastReview.Format(time.DateOnly)
		}},
	}

	out := make([]CategoricalSummary, 0, len(columns))
	for _, c := range columns {
		freq := make(map[string]int)
		s := CategoricalSummary{Column: c.name}
		t.Each(func(_ int, l *listing.Listing) {
			v := c.value(l)
			if v == "" {
				return
			}
			s.Count++
			freq[v]++
		})
		s.Unique = len(freq)

		keys := make([]string, 0, len(freq))
		for k := range freq {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if freq[k] > s.Freq {
				s.Top, s.Freq = k, freq[k]
			}
		}
		out = append(out, s)
	}
	return out
}
