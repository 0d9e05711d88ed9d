// Package aggregate computes grouped summaries over listing tables: counts,
// average prices, price distributions, host rankings, correlations and
// describe-style column summaries. Every function is read-only.
package aggregate

import (
	"sort"

	"github.com/evcraddock/listing-explorer/internal/listing"
)

// GroupCount is the number of rows sharing a key.
type GroupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// NeighbourhoodCounts counts rows per neighbourhood, largest first. Equal
// counts are ordered by name.
func NeighbourhoodCounts(t *listing.Table) []GroupCount {
	return countBy(t, func(l *listing.Listing) string { return l.Neighbourhood })
}

// RoomTypeCounts counts rows per room type, largest first. Equal counts are
// ordered by room type.
func RoomTypeCounts(t *listing.Table) []GroupCount {
	return countBy(t, func(l *listing.Listing) string { return l.RoomType })
}

func countBy(t *listing.Table, key func(*listing.Listing) string) []GroupCount {
	counts := make(map[string]int)
	t.Each(func(_ int, l *listing.Listing) {
		counts[key(l)]++
	})

	out := make([]GroupCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, GroupCount{Key: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Total sums the counts.
func Total(counts []GroupCount) int {
	var n int
	for _, c := range counts {
		n += c.Count
	}
	return n
}

// radiusDivisor scales a neighbourhood's listing count into an overlay
// radius.
const radiusDivisor = 30.0

// HeatPoint places one neighbourhood on the overlay map.
type HeatPoint struct {
	Neighbourhood string  `json:"neighbourhood"`
	Count         int     `json:"count"`
	Latitude      float64 `json:"lat"`
	Longitude     float64 `json:"lon"`
	Radius        float64 `json:"radius"`
}

// HeatOverlay returns one point per neighbourhood, ordered by name. The
// point sits at the first latitude and the first longitude seen for that
// neighbourhood, each taken independently from rows where it is present.
// Neighbourhoods with no coordinates at all are left out.
func HeatOverlay(t *listing.Table) []HeatPoint {
	type acc struct {
		count    int
		lat, lon *float64
	}
	groups := make(map[string]*acc)
	t.Each(func(_ int, l *listing.Listing) {
		a, ok := groups[l.Neighbourhood]
		if !ok {
			a = &acc{}
			groups[l.Neighbourhood] = a
		}
		a.count++
		if a.lat == nil && l.Latitude != nil {
			a.lat = l.Latitude
		}
		if a.lon == nil && l.Longitude != nil {
			a.lon = l.Longitude
		}
	})

	out := make([]HeatPoint, 0, len(groups))
	for name, a := range groups {
		if a.lat == nil || a.lon == nil {
			continue
		}
		out = append(out, HeatPoint{
			Neighbourhood: name,
			Count:         a.count,
			Latitude:      *a.lat,
			Longitude:     *a.lon,
			Radius:        float64(a.count) / radiusDivisor,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Neighbourhood < out[j].Neighbourhood })
	return out
}
