package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/evcraddock/listing-explorer/internal/client"
	"github.com/evcraddock/listing-explorer/internal/listing"
	"github.com/evcraddock/listing-explorer/internal/report"
)

func newFilterCmd() *cobra.Command {
	var (
		c      listing.Criteria
		server string
	)

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "List listings matching filter criteria",
		Long: `List the listings whose price, minimum nights, reviews, neighbourhood and
room type match. Flags that are not given take the dashboard's initial
selection; pass an empty --neighbourhood or --room-type to match any.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(); err != nil {
				return err
			}
			var (
				t      *listing.Table
				remote *client.Client
				base   listing.Controls
			)
			if server != "" {
				remote = client.New(server)
				controls, err := remote.Controls()
				if err != nil {
					return fmt.Errorf("fetching controls from %s: %w", server, err)
				}
				base = *controls
			} else {
				var err error
				if t, err = loadTable(); err != nil {
					return err
				}
				base = listing.NewControls(t)
			}
			criteria := base.Defaults
			flags := cmd.Flags()
			if flags.Changed("price-min") {
				criteria.PriceMin = c.PriceMin
			}
			if flags.Changed("price-max") {
				criteria.PriceMax = c.PriceMax
			}
			if flags.Changed("max-nights") {
				criteria.MaxNights = c.MaxNights
			}
			if flags.Changed("min-reviews") {
				criteria.MinReviews = c.MinReviews
			}
			if flags.Changed("neighbourhood") {
				criteria.Neighbourhood = c.Neighbourhood
			}
			if flags.Changed("room-type") {
				criteria.RoomType = c.RoomType
			}
			for _, note := range base.Unoffered(criteria) {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", note)
			}
			if remote != nil {
				sel, err := remote.Listings(criteria)
				if err != nil {
					return err
				}
				return printSelection(cmd.OutOrStdout(), sel)
			}
			return runFilter(cmd.OutOrStdout(), t, criteria)
		},
	}

	cmd.Flags().Float64Var(&c.PriceMin, "price-min", 0, "lowest price to include")
	cmd.Flags().Float64Var(&c.PriceMax, "price-max", 0, "highest price to include")
	cmd.Flags().IntVar(&c.MaxNights, "max-nights", 0, "largest minimum-nights requirement to include")
	cmd.Flags().IntVar(&c.MinReviews, "min-reviews", 0, "fewest reviews to include")
	cmd.Flags().StringVar(&c.Neighbourhood, "neighbourhood", "", "neighbourhood to match (empty for any)")
	cmd.Flags().StringVar(&c.RoomType, "room-type", "", "room type to match (empty for any)")
	cmd.Flags().StringVar(&server, "server", "", "query a running dashboard at this URL instead of reading data locally")

	return cmd
}

func runFilter(w io.Writer, t *listing.Table, c listing.Criteria) error {
	sel, err := report.Select(t, c)
	if err != nil {
		return err
	}
	return printSelection(w, sel)
}

func printSelection(w io.Writer, sel *report.Selection) error {
	if isJSON() {
		return printJSON(w, sel)
	}

	if err := printListingTable(w, sel.Listings); err != nil {
		return err
	}
	if sel.Empty() {
		return nil
	}
	_, err := fmt.Fprintf(w, "\nTotal: %s listings, %s with a location, average price %s\n",
		report.FormatCount(sel.Count), report.FormatCount(len(sel.Points)), report.FormatPrice(*sel.Mean))
	return err
}
