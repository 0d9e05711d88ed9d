package aggregate

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/evcraddock/listing-explorer/internal/listing"
)

// numericColumns are the columns entered into the correlation matrix, in
// matrix order. host_id is stored as text but is numeric in practice.
var numericColumns = []struct {
	name  string
	value func(*listing.Listing) float64
}{
	{listing.ColHostID, func(l *listing.Listing) float64 { return parseOrNaN(l.HostID) }},
	{listing.ColLatitude, func(l *listing.Listing) float64 { return orNaN(l.Latitude) }},
	{listing.ColLongitude, func(l *listing.Listing) float64 { return orNaN(l.Longitude) }},
	{listing.ColPrice, func(l *listing.Listing) float64 { return l.Price }},
	{listing.ColMinimumNights, func(l *listing.Listing) float64 { return float64(l.MinimumNights) }},
	{listing.ColNumberOfReviews, func(l *listing.Listing) float64 { return float64(l.NumberOfReviews) }},
	{listing.ColReviewsPerMonth, func(l *listing.Listing) float64 { return orNaN(l.ReviewsPerMonth) }},
	{listing.ColHostListingsCount, func(l *listing.Listing) float64 { return float64(l.HostListingsCount) }},
	{listing.ColAvailability365, func(l *listing.Listing) float64 { return float64(l.Availability365) }},
}

func orNaN(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

func parseOrNaN(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Matrix is a symmetric matrix of Pearson correlation coefficients.
// Undefined coefficients are NaN.
type Matrix struct {
	Columns []string
	sym     *mat.SymDense
}

// Correlation computes pairwise Pearson correlations between the numeric
// columns, using for each pair only the rows where both are present. A
// coefficient is NaN when fewer than two such rows exist or either side
// has no variance. The values are descriptive; no significance is tested.
func Correlation(t *listing.Table) *Matrix {
	n := len(numericColumns)
	cols := make([][]float64, n)
	t.Each(func(_ int, l *listing.Listing) {
		for i, c := range numericColumns {
			cols[i] = append(cols[i], c.value(l))
		}
	})

	m := &Matrix{Columns: make([]string, n), sym: mat.NewSymDense(n, nil)}
	for i, c := range numericColumns {
		m.Columns[i] = c.name
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			m.sym.SetSym(i, j, pairwise(cols[i], cols[j]))
		}
	}
	return m
}

func pairwise(x, y []float64) float64 {
	var xs, ys []float64
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsInf(r, 0) {
		return math.NaN()
	}
	return r
}

// At returns the coefficient between columns i and j.
func (m *Matrix) At(i, j int) float64 {
	return m.sym.At(i, j)
}

// Index returns the position of a column, or -1.
func (m *Matrix) Index(column string) int {
	for i, c := range m.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Values returns the matrix as rows.
func (m *Matrix) Values() [][]float64 {
	n := len(m.Columns)
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
		for j := range out[i] {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}

// MarshalJSON encodes undefined coefficients as null.
func (m *Matrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Columns []string     `json:"columns"`
		Values  [][]*float64 `json:"values"`
	}{m.Columns, nullable(m.Values())})
}

func nullable(rows [][]float64) [][]*float64 {
	out := make([][]*float64, len(rows))
	for i, row := range rows {
		out[i] = make([]*float64, len(row))
		for j := range row {
			if !math.IsNaN(row[j]) {
				out[i][j] = &row[j]
			}
		}
	}
	return out
}

// Factor is a column's correlation with a target column.
type Factor struct {
	Column      string  `json:"column"`
	Coefficient float64 `json:"coefficient"`
}

// TopFactors returns up to n columns most strongly correlated with target,
// by absolute coefficient. Undefined coefficients and the target itself
// are skipped.
func (m *Matrix) TopFactors(target string, n int) []Factor {
	ti := m.Index(target)
	if ti < 0 {
		return nil
	}
	var out []Factor
	for j, c := range m.Columns {
		r := m.At(ti, j)
		if j == ti || math.IsNaN(r) {
			continue
		}
		out = append(out, Factor{Column: c, Coefficient: r})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Coefficient) > math.Abs(out[j].Coefficient)
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
