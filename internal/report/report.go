// Package report assembles the dashboard page model and its narrative
// text from a listing table.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/evcraddock/listing-explorer/internal/aggregate"
	"github.com/evcraddock/listing-explorer/internal/listing"
)

// Page sizes.
const (
	HeadRows     = 10
	TopHostCount = 5
	FactorCount  = 3
)

// Author details shown in the sidebar and footer.
const (
	Author     = "Rev Munnangi"
	AuthorMail = "Rev.Munnangi@gmail.com"
	Footer     = "Developed by Rev Munnangi - 2021"
)

// Page is everything the dashboard shows about the full table.
type Page struct {
	Rows           int                            `json:"rows"`
	Columns        int                            `json:"columns"`
	Head           []listing.Listing              `json:"head"`
	Info           []aggregate.ColumnInfo         `json:"info"`
	Categorical    []aggregate.CategoricalSummary `json:"categorical"`
	Numeric        *aggregate.Description         `json:"numeric"`
	Controls       listing.Controls               `json:"controls"`
	Neighbourhoods []aggregate.GroupCount         `json:"neighbourhoods"`
	RoomTypes      []aggregate.GroupCount         `json:"room_types"`
	Heat           []aggregate.HeatPoint          `json:"heat"`
	AveragePrices  []aggregate.RoomTypePrice      `json:"average_prices"`
	TopHosts       []aggregate.HostRank           `json:"top_hosts"`
	Correlation    *aggregate.Matrix              `json:"correlation"`
	PriceFactors   []aggregate.Factor             `json:"price_factors"`
	Narrative      Narrative                      `json:"narrative"`
}

// Narrative is the commentary printed next to the charts.
type Narrative struct {
	NeighbourhoodPrices []string `json:"neighbourhood_prices"`
	RoomTypePrices      []string `json:"room_type_prices"`
	PriceFactors        string   `json:"price_factors"`
	Hosts               string   `json:"hosts"`
	Footer              string   `json:"footer"`
}

// Build computes the page for t. All figures come from t as given; for a
// filtered view pass the filtered table.
func Build(t *listing.Table) *Page {
	corr := aggregate.Correlation(t)
	p := &Page{
		Rows:           t.Len(),
		Columns:        len(listing.Columns),
		Head:           t.Head(HeadRows).Rows(),
		Info:           aggregate.Info(t),
		Categorical:    aggregate.DescribeCategorical(t),
		Numeric:        aggregate.DescribeNumeric(t),
		Controls:       listing.NewControls(t),
		Neighbourhoods: aggregate.NeighbourhoodCounts(t),
		RoomTypes:      aggregate.RoomTypeCounts(t),
		Heat:           aggregate.HeatOverlay(t),
		AveragePrices:  aggregate.AveragePriceByRoomType(t),
		TopHosts:       aggregate.TopHosts(t, TopHostCount),
		Correlation:    corr,
		PriceFactors:   corr.TopFactors(listing.ColPrice, FactorCount),
	}

	p.Narrative = Narrative{
		NeighbourhoodPrices: neighbourhoodInference(aggregate.PriceDistribution(t, aggregate.ByNeighbourhood)),
		RoomTypePrices:      roomTypeInference(aggregate.PriceDistribution(t, aggregate.ByRoomType)),
		PriceFactors:        factorSentence(p.PriceFactors),
		Hosts:               hostSentence(p.TopHosts),
		Footer:              Footer,
	}
	return p
}

// byMeanDesc orders groups by mean price, highest first, then by key.
func byMeanDesc(boxes []aggregate.BoxStats) []aggregate.BoxStats {
	out := append([]aggregate.BoxStats(nil), boxes...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Mean != out[j].Mean {
			return out[i].Mean > out[j].Mean
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func neighbourhoodInference(boxes []aggregate.BoxStats) []string {
	ranked := byMeanDesc(boxes)
	switch n := len(ranked); {
	case n == 0:
		return nil
	case n == 1:
		return []string{fmt.Sprintf("Only %s is present, with an average price of %s", ranked[0].Key, FormatPrice(ranked[0].Mean))}
	case n == 2:
		return []string{fmt.Sprintf("The average price is higher in %s than in %s", ranked[0].Key, ranked[1].Key)}
	default:
		return []string{fmt.Sprintf("The average price is highest in %s and lowest in %s and %s",
			ranked[0].Key, ranked[n-1].Key, ranked[n-2].Key)}
	}
}

func roomTypeInference(boxes []aggregate.BoxStats) []string {
	ranked := byMeanDesc(boxes)
	n := len(ranked)
	if n == 0 {
		return nil
	}
	out := []string{fmt.Sprintf("The average price of %s is the highest", ranked[0].Key)}
	switch {
	case n == 2:
		out = append(out, fmt.Sprintf("The average price of %s is the lowest", ranked[1].Key))
	case n > 2:
		out = append(out, fmt.Sprintf("The average price of %s is the lowest, followed by %s",
			ranked[n-1].Key, ranked[n-2].Key))
	}
	return out
}

func factorSentence(factors []aggregate.Factor) string {
	if len(factors) == 0 {
		return "No numeric column varies with price in this data."
	}
	names := make([]string, len(factors))
	for i, f := range factors {
		names[i] = f.Column
	}
	return "From the correlation heatmap the factors most related to the price are " + joinAnd(names) + "."
}

func hostSentence(hosts []aggregate.HostRank) string {
	if len(hosts) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "The host %s is at the top with %s reviews.", hosts[0].HostName, FormatCount(hosts[0].Reviews))
	if len(hosts) > 1 {
		fmt.Fprintf(&b, " %s is second with %s reviews.", hosts[1].HostName, FormatCount(hosts[1].Reviews))
	}
	b.WriteString(" Reviews are a count of feedback left for a listing, not a rating.")
	return b.String()
}

func joinAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}
