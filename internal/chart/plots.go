package chart

import (
	"math"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"

	"github.com/evcraddock/listing-explorer/internal/aggregate"
)

// go-gg has no bar layer, so counts are drawn as stems from zero with a
// point at the top. Categories sit on an ordinal axis in sorted order.

// CountPlot draws one stem per group.
func CountPlot(title, xlabel, ylabel string, counts []aggregate.GroupCount) (*gg.Plot, error) {
	if len(counts) == 0 {
		return nil, ErrNoData
	}

	var stemKeys, topKeys []string
	var stemVals, topVals []float64
	for _, c := range counts {
		stemKeys = append(stemKeys, c.Key, c.Key)
		stemVals = append(stemVals, 0, float64(c.Count))
		topKeys = append(topKeys, c.Key)
		topVals = append(topVals, float64(c.Count))
	}
	stems := new(table.Builder).Add(xlabel, stemKeys).Add(ylabel, stemVals).Done()
	tops := new(table.Builder).Add(xlabel, topKeys).Add(ylabel, topVals).Done()

	p := gg.NewPlot(stems)
	p.SetScale("y", gg.NewLinearScaler().Include(0))
	p.Add(gg.LayerPaths{X: xlabel, Y: ylabel, Color: xlabel})
	p.SetData(tops)
	p.Add(gg.LayerPoints{X: xlabel, Y: ylabel, Color: xlabel})
	p.Add(gg.Title(title), gg.AxisLabel("x", xlabel), gg.AxisLabel("y", ylabel))
	return p, nil
}

// BoxPlot draws each group's whiskers as a line with points at the
// quartiles and median.
func BoxPlot(title, xlabel string, boxes []aggregate.BoxStats) (*gg.Plot, error) {
	if len(boxes) == 0 {
		return nil, ErrNoData
	}
	const ylabel = "Price"

	var whiskerKeys, markKeys []string
	var whiskerVals, markVals []float64
	for _, b := range boxes {
		whiskerKeys = append(whiskerKeys, b.Key, b.Key)
		whiskerVals = append(whiskerVals, b.LowerWhisker, b.UpperWhisker)
		markKeys = append(markKeys, b.Key, b.Key, b.Key)
		markVals = append(markVals, b.Q1, b.Median, b.Q3)
	}
	whiskers := new(table.Builder).Add(xlabel, whiskerKeys).Add(ylabel, whiskerVals).Done()
	marks := new(table.Builder).Add(xlabel, markKeys).Add(ylabel, markVals).Done()

	p := gg.NewPlot(whiskers)
	p.SetScale("y", gg.NewLinearScaler().Include(0))
	p.Add(gg.LayerPaths{X: xlabel, Y: ylabel, Color: xlabel})
	p.SetData(marks)
	p.Add(gg.LayerPoints{X: xlabel, Y: ylabel, Color: xlabel})
	p.Add(gg.Title(title), gg.AxisLabel("x", xlabel), gg.AxisLabel("y", ylabel))
	return p, nil
}

// HeatmapPlot draws one tile per defined coefficient. Undefined cells are
// left blank.
func HeatmapPlot(title string, m *aggregate.Matrix) (*gg.Plot, error) {
	var xs, ys []string
	var rs []float64
	for i, a := range m.Columns {
		for j, b := range m.Columns {
			r := m.At(i, j)
			if math.IsNaN(r) {
				continue
			}
			xs = append(xs, a)
			ys = append(ys, b)
			rs = append(rs, r)
		}
	}
	if len(rs) == 0 {
		return nil, ErrNoData
	}

	tiles := new(table.Builder).Add("x", xs).Add("y", ys).Add("r", rs).Done()
	p := gg.NewPlot(tiles)
	p.Add(gg.LayerTiles{X: "x", Y: "y", Fill: "r"})
	p.Add(gg.Title(title), gg.AxisLabel("x", ""), gg.AxisLabel("y", ""))
	return p, nil
}
