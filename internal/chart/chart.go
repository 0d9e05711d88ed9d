// Package chart renders the dashboard charts as SVG.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"

	svg "github.com/ajstarks/svgo"
	"github.com/aclements/go-gg/gg"

	"github.com/evcraddock/listing-explorer/internal/aggregate"
	"github.com/evcraddock/listing-explorer/internal/listing"
)

// ErrNoData is returned when a chart has nothing to draw.
var ErrNoData = errors.New("no data to chart")

// ErrUnknownChart is returned by Render for a name not in Names.
var ErrUnknownChart = errors.New("unknown chart")

// Default canvas size in pixels.
const (
	Width  = 720
	Height = 420
)

// hostChartSize is the number of hosts shown in the hosts chart.
const hostChartSize = 5

type builder func(*listing.Table) (*gg.Plot, error)

var charts = map[string]builder{
	"neighbourhoods": func(t *listing.Table) (*gg.Plot, error) {
		return CountPlot("Number of listings by neighbourhood", "Neighbourhood", "Count",
			aggregate.NeighbourhoodCounts(t))
	},
	"rooms": func(t *listing.Table) (*gg.Plot, error) {
		return CountPlot("Number of listings by room type", "Room type", "Count",
			aggregate.RoomTypeCounts(t))
	},
	"price-neighbourhood": func(t *listing.Table) (*gg.Plot, error) {
		return BoxPlot("Distribution of prices across neighbourhood", "Neighbourhood",
			aggregate.PriceDistribution(t, aggregate.ByNeighbourhood))
	},
	"price-room": func(t *listing.Table) (*gg.Plot, error) {
		return BoxPlot("Distribution of prices across room type", "Room type",
			aggregate.PriceDistribution(t, aggregate.ByRoomType))
	},
	"correlation": func(t *listing.Table) (*gg.Plot, error) {
		return HeatmapPlot("Correlation between numeric columns", aggregate.Correlation(t))
	},
	"hosts": func(t *listing.Table) (*gg.Plot, error) {
		return CountPlot("Most rated hosts", "Host", "Number of reviews",
			hostCounts(aggregate.TopHosts(t, hostChartSize)))
	},
}

// Names lists the charts Render knows, sorted.
func Names() []string {
	names := make([]string, 0, len(charts))
	for name := range charts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Known reports whether name is a chart Render can draw.
func Known(name string) bool {
	_, ok := charts[name]
	return ok
}

// Render draws the named chart of t to w. It returns ErrNoData without
// writing anything when t gives the chart nothing to show.
func Render(w io.Writer, name string, t *listing.Table) error {
	build, ok := charts[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}
	p, err := build(t)
	if err != nil {
		return err
	}
	return WriteSVG(w, p, Width, Height)
}

// WriteSVG renders p. The SVG is buffered so a failed render writes
// nothing to w. go-gg panics on some degenerate inputs; those are
// returned as errors.
func WriteSVG(w io.Writer, p *gg.Plot, width, height int) (err error) {
	var buf bytes.Buffer
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rendering chart: %v", r)
		}
	}()
	if err := p.WriteSVG(&buf, width, height); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("writing chart: %w", err)
	}
	return nil
}

// Placeholder writes a blank chart carrying message, for empty data.
func Placeholder(w io.Writer, width, height int, message string) {
	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:#f7f7f7;stroke:#ddd")
	canvas.Text(width/2, height/2, message, "text-anchor:middle;font-family:sans-serif;font-size:16px;fill:#777")
	canvas.End()
}

func hostCounts(hosts []aggregate.HostRank) []aggregate.GroupCount {
	out := make([]aggregate.GroupCount, len(hosts))
	for i, h := range hosts {
		out[i] = aggregate.GroupCount{Key: h.HostName, Count: h.Reviews}
	}
	return out
}
