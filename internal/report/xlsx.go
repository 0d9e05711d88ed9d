package report

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/evcraddock/listing-explorer/internal/aggregate"
	"github.com/evcraddock/listing-explorer/internal/listing"
)

// Workbook sheet names, in order.
const (
	SheetNeighbourhoods = "Neighbourhoods"
	SheetRoomTypes      = "RoomTypes"
	SheetHosts          = "Hosts"
	SheetCorrelation    = "Correlation"
	SheetListings       = "Listings"
)

// SaveXLSX writes the aggregates of t and its rows to an xlsx workbook at
// path.
func SaveXLSX(path string, t *listing.Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetNeighbourhoods); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	for _, name := range []string{SheetRoomTypes, SheetHosts, SheetCorrelation, SheetListings} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", name, err)
		}
	}

	s := sheetWriter{f: f}
	s.counts(SheetNeighbourhoods, "Neighbourhood", aggregate.NeighbourhoodCounts(t))
	s.roomTypes(aggregate.RoomTypeCounts(t), aggregate.AveragePriceByRoomType(t))
	s.hosts(aggregate.RankHosts(t))
	s.correlation(aggregate.Correlation(t))
	s.listings(t)
	if s.err != nil {
		return s.err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}

// sheetWriter keeps the first cell error.
type sheetWriter struct {
	f   *excelize.File
	err error
}

func (s *sheetWriter) set(sheet string, col, row int, v interface{}) {
	if s.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err == nil {
		err = s.f.SetCellValue(sheet, cell, v)
	}
	if err != nil {
		s.err = fmt.Errorf("writing %s!%d,%d: %w", sheet, col, row, err)
	}
}

func (s *sheetWriter) row(sheet string, row int, values ...interface{}) {
	for i, v := range values {
		s.set(sheet, i+1, row, v)
	}
}

func (s *sheetWriter) counts(sheet, key string, counts []aggregate.GroupCount) {
	s.row(sheet, 1, key, "Count")
	for i, c := range counts {
		s.row(sheet, i+2, c.Key, c.Count)
	}
}

func (s *sheetWriter) roomTypes(counts []aggregate.GroupCount, prices []aggregate.RoomTypePrice) {
	avg := make(map[string]float64, len(prices))
	for _, p := range prices {
		avg[p.RoomType] = p.AveragePrice
	}
	s.row(SheetRoomTypes, 1, "Room type", "Count", "Average price")
	for i, c := range counts {
		s.row(SheetRoomTypes, i+2, c.Key, c.Count, avg[c.Key])
	}
}

func (s *sheetWriter) hosts(hosts []aggregate.HostRank) {
	s.row(SheetHosts, 1, "Host", "Reviews", "Listings")
	for i, h := range hosts {
		s.row(SheetHosts, i+2, h.HostName, h.Reviews, h.Listings)
	}
}

// correlation leaves undefined coefficients blank.
func (s *sheetWriter) correlation(m *aggregate.Matrix) {
	for j, c := range m.Columns {
		s.set(SheetCorrelation, j+2, 1, c)
	}
	for i, c := range m.Columns {
		s.set(SheetCorrelation, 1, i+2, c)
		for j := range m.Columns {
			if r := m.At(i, j); !math.IsNaN(r) {
				s.set(SheetCorrelation, j+2, i+2, r)
			}
		}
	}
}

func (s *sheetWriter) listings(t *listing.Table) {
	df := aggregate.Frame(t)
	names := df.Names()
	s.row(SheetListings, 1, toValues(names)...)
	for rowIdx := 0; rowIdx < df.Nrow(); rowIdx++ {
		for colIdx, name := range names {
			e := df.Col(name).Elem(rowIdx)
			if e.IsNA() {
				continue
			}
			v := e.Val()
			if f, ok := v.(float64); ok && math.IsNaN(f) {
				continue
			}
			s.set(SheetListings, colIdx+1, rowIdx+2, v)
		}
	}
}

func toValues(names []string) []interface{} {
	out := make([]interface{}, len(names))
	for i, n := range names {
		out[i] = n
	}
	return out
}
