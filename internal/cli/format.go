package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/evcraddock/listing-explorer/internal/aggregate"
	"github.com/evcraddock/listing-explorer/internal/listing"
	"github.com/evcraddock/listing-explorer/internal/report"
)

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table writes tab-aligned rows under a header and a dashed separator.
type table struct {
	tw  *tabwriter.Writer
	err error
}

func newTable(w io.Writer, header ...string) *table {
	t := &table{tw: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
	seps := make([]string, len(header))
	for i, h := range header {
		seps[i] = strings.Repeat("-", len(h))
	}
	t.row(header...)
	t.row(seps...)
	return t
}

func (t *table) row(cells ...string) {
	if t.err != nil {
		return
	}
	if _, err := fmt.Fprintln(t.tw, strings.Join(cells, "\t")); err != nil {
		t.err = fmt.Errorf("writing table row: %w", err)
	}
}

func (t *table) flush() error {
	if t.err != nil {
		return t.err
	}
	if err := t.tw.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}
	return nil
}

// printCounts prints a key/count table followed by its total.
func printCounts(w io.Writer, heading string, counts []aggregate.GroupCount) error {
	if len(counts) == 0 {
		_, err := fmt.Fprintln(w, "No listings found.")
		return err
	}
	t := newTable(w, strings.ToUpper(heading), "LISTINGS")
	for _, c := range counts {
		t.row(c.Key, report.FormatCount(c.Count))
	}
	if err := t.flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nTotal: %s listings\n", report.FormatCount(aggregate.Total(counts)))
	return err
}

// printListingTable prints listings one per row.
func printListingTable(w io.Writer, rows []listing.Listing) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No listings match these filters.")
		return err
	}
	t := newTable(w, "ID", "NAME", "HOST", "NEIGHBOURHOOD", "ROOM TYPE", "PRICE", "NIGHTS", "REVIEWS")
	for _, l := range rows {
		t.row(
			l.ID,
			truncate(l.Name, 40),
			truncate(l.HostName, 20),
			l.Neighbourhood,
			l.RoomType,
			report.FormatPrice(l.Price),
			fmt.Sprintf("%d", l.MinimumNights),
			report.FormatCount(l.NumberOfReviews),
		)
	}
	return t.flush()
}

// printRoomPrices prints the average price per room type.
func printRoomPrices(w io.Writer, prices []aggregate.RoomTypePrice) error {
	t := newTable(w, "ROOM TYPE", "LISTINGS", "AVERAGE PRICE")
	for _, p := range prices {
		t.row(p.RoomType, report.FormatCount(p.Count), report.FormatPrice(p.AveragePrice))
	}
	return t.flush()
}

// printHosts prints a host ranking with its position.
func printHosts(w io.Writer, hosts []aggregate.HostRank) error {
	if len(hosts) == 0 {
		_, err := fmt.Fprintln(w, "No hosts found.")
		return err
	}
	t := newTable(w, "#", "HOST", "REVIEWS", "LISTINGS")
	for i, h := range hosts {
		t.row(fmt.Sprintf("%d", i+1), h.HostName, report.FormatCount(h.Reviews), report.FormatCount(h.Listings))
	}
	return t.flush()
}

// printFactors prints the columns most related to a target column.
func printFactors(w io.Writer, target string, factors []aggregate.Factor) error {
	if len(factors) == 0 {
		_, err := fmt.Fprintf(w, "No numeric column varies with %s in this data.\n", target)
		return err
	}
	t := newTable(w, "COLUMN", "CORRELATION")
	for _, f := range factors {
		t.row(f.Column, report.FormatFloat(f.Coefficient))
	}
	return t.flush()
}

// printMatrix prints the full correlation matrix. Undefined coefficients
// show as n/a.
func printMatrix(w io.Writer, m *aggregate.Matrix) error {
	t := newTable(w, append([]string{""}, m.Columns...)...)
	for i, c := range m.Columns {
		cells := []string{c}
		for j := range m.Columns {
			cells = append(cells, report.FormatFloat(m.At(i, j)))
		}
		t.row(cells...)
	}
	return t.flush()
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
