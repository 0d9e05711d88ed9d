package aggregate

import (
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"
	gonumstat "gonum.org/v1/gonum/stat"

	"github.com/evcraddock/listing-explorer/internal/listing"
)

// RoomTypePrice is the mean price of one room type.
type RoomTypePrice struct {
	RoomType     string  `json:"room_type"`
	Count        int     `json:"count"`
	AveragePrice float64 `json:"average_price"`
}

// AveragePriceByRoomType returns the mean price per room type rounded to
// cents, most expensive first. Equal averages are ordered by room type.
func AveragePriceByRoomType(t *listing.Table) []RoomTypePrice {
	prices := make(map[string][]float64)
	t.Each(func(_ int, l *listing.Listing) {
		prices[l.RoomType] = append(prices[l.RoomType], l.Price)
	})

	out := make([]RoomTypePrice, 0, len(prices))
	for rt, xs := range prices {
		out = append(out, RoomTypePrice{
			RoomType:     rt,
			Count:        len(xs),
			AveragePrice: round2(stats.Mean(xs)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AveragePrice != out[j].AveragePrice {
			return out[i].AveragePrice > out[j].AveragePrice
		}
		return out[i].RoomType < out[j].RoomType
	})
	return out
}

// MeanPrice is the mean price over the whole table, rounded to cents. It
// is NaN for an empty table.
func MeanPrice(t *listing.Table) float64 {
	var xs []float64
	t.Each(func(_ int, l *listing.Listing) { xs = append(xs, l.Price) })
	if len(xs) == 0 {
		return math.NaN()
	}
	return round2(stats.Mean(xs))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Grouping picks the category a listing falls in.
type Grouping struct {
	Name string
	Key  func(*listing.Listing) string
}

// Groupings used by the distribution charts.
var (
	ByNeighbourhood = Grouping{Name: "Neighbourhood", Key: func(l *listing.Listing) string { return l.Neighbourhood }}
	ByRoomType      = Grouping{Name: "Room type", Key: func(l *listing.Listing) string { return l.RoomType }}
)

// BoxStats summarises the price distribution of one category. Quartiles
// are empirical (the smallest price whose cumulative share reaches q).
// Whiskers reach the most extreme prices within 1.5 IQR of the quartiles.
type BoxStats struct {
	Key          string  `json:"key"`
	N            int     `json:"n"`
	Min          float64 `json:"min"`
	Q1           float64 `json:"q1"`
	Median       float64 `json:"median"`
	Q3           float64 `json:"q3"`
	Max          float64 `json:"max"`
	LowerWhisker float64 `json:"lower_whisker"`
	UpperWhisker float64 `json:"upper_whisker"`
	Outliers     int     `json:"outliers"`
	Mean         float64 `json:"mean"`
}

// PriceDistribution returns box statistics of price per category, in
// order of first appearance.
func PriceDistribution(t *listing.Table, g Grouping) []BoxStats {
	var order []string
	prices := make(map[string][]float64)
	t.Each(func(_ int, l *listing.Listing) {
		k := g.Key(l)
		if _, ok := prices[k]; !ok {
			order = append(order, k)
		}
		prices[k] = append(prices[k], l.Price)
	})

	out := make([]BoxStats, 0, len(order))
	for _, k := range order {
		out = append(out, boxStats(k, prices[k]))
	}
	return out
}

func boxStats(key string, xs []float64) BoxStats {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	b := BoxStats{Key: key, N: len(sorted)}
	b.Min, b.Max = sorted[0], sorted[len(sorted)-1]
	b.Q1 = gonumstat.Quantile(0.25, gonumstat.Empirical, sorted, nil)
	b.Median = gonumstat.Quantile(0.5, gonumstat.Empirical, sorted, nil)
	b.Q3 = gonumstat.Quantile(0.75, gonumstat.Empirical, sorted, nil)
	b.Mean = stats.Mean(sorted)

	iqr := b.Q3 - b.Q1
	lo, hi := b.Q1-1.5*iqr, b.Q3+1.5*iqr
	b.LowerWhisker, b.UpperWhisker = b.Max, b.Min
	for _, x := range sorted {
		if x < lo || x > hi {
			b.Outliers++
			continue
		}
		b.LowerWhisker = math.Min(b.LowerWhisker, x)
		b.UpperWhisker = math.Max(b.UpperWhisker, x)
	}
	return b
}
