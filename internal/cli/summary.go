package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/evcraddock/listing-explorer/internal/report"
)

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Summarise the whole dataset",
		Long:  "Print listing counts, average prices, the top hosts and the factors most related to price, with the dashboard's commentary.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd.OutOrStdout())
		},
	}
}

func runSummary(w io.Writer) error {
	if err := checkFormat(); err != nil {
		return err
	}
	t, err := loadTable()
	if err != nil {
		return err
	}
	page := report.Build(t)

	if isJSON() {
		return printJSON(w, page)
	}

	if _, err := fmt.Fprintf(w, "%s listings, %d columns\n\n", report.FormatCount(page.Rows), page.Columns); err != nil {
		return err
	}
	if err := printCounts(w, "Neighbourhood", page.Neighbourhoods); err != nil {
		return err
	}
	if err := printNotes(w, page.Narrative.NeighbourhoodPrices); err != nil {
		return err
	}
	if err := printCounts(w, "Room type", page.RoomTypes); err != nil {
		return err
	}
	if err := printNotes(w, page.Narrative.RoomTypePrices); err != nil {
		return err
	}
	if page.Rows > 0 {
		if err := printRoomPrices(w, page.AveragePrices); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		if err := printHosts(w, page.TopHosts); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(w, "%s\n%s\n", page.Narrative.PriceFactors, page.Narrative.Hosts)
	return err
}

// printNotes prints narrative sentences as a bulleted block.
func printNotes(w io.Writer, notes []string) error {
	for _, n := range notes {
		if _, err := fmt.Fprintf(w, "  * %s\n", n); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
