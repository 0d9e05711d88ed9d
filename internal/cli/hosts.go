package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/evcraddock/listing-explorer/internal/aggregate"
	"github.com/evcraddock/listing-explorer/internal/report"
)

func newHostsCmd() *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "hosts",
		Short: "Rank hosts by total reviews",
		Long:  "Rank hosts by the number of reviews summed over their listings. Reviews are a count of feedback, not a rating.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHosts(cmd.OutOrStdout(), top)
		},
	}

	cmd.Flags().IntVar(&top, "top", report.TopHostCount, "number of hosts to show (0 for all)")

	return cmd
}

func runHosts(w io.Writer, top int) error {
	if err := checkFormat(); err != nil {
		return err
	}
	if top < 0 {
		return fmt.Errorf("--top must not be negative, got %d", top)
	}
	t, err := loadTable()
	if err != nil {
		return err
	}

	hosts := aggregate.RankHosts(t)
	if top > 0 {
		hosts = aggregate.TopHosts(t, top)
	}

	if isJSON() {
		return printJSON(w, hosts)
	}
	return printHosts(w, hosts)
}
