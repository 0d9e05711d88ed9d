package aggregate

import (
	"sort"

	"github.com/evcraddock/listing-explorer/internal/listing"
)

// HostRank is one host's review total.
type HostRank struct {
	HostName string `json:"host_name"`
	Reviews  int    `json:"reviews"`
	Listings int    `json:"listings"`
}

// RankHosts groups by host name and orders hosts by total reviews, most
// first. Ties are broken by host name so the ranking is deterministic.
func RankHosts(t *listing.Table) []HostRank {
	byHost := make(map[string]*HostRank)
	t.Each(func(_ int, l *listing.Listing) {
		h, ok := byHost[l.HostName]
		if !ok {
			h = &HostRank{HostName: l.HostName}
			byHost[l.HostName] = h
		}
		h.Reviews += l.NumberOfReviews
		h.Listings++
	})

	out := make([]HostRank, 0, len(byHost))
	for _, h := range byHost {
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Reviews != out[j].Reviews {
			return out[i].Reviews > out[j].Reviews
		}
		return out[i].HostName < out[j].HostName
	})
	return out
}

// TopHosts returns the first n entries of RankHosts.
func TopHosts(t *listing.Table, n int) []HostRank {
	ranked := RankHosts(t)
	if n >= 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
