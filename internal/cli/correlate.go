package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/evcraddock/listing-explorer/internal/aggregate"
	"github.com/evcraddock/listing-explorer/internal/listing"
	"github.com/evcraddock/listing-explorer/internal/report"
)

func newCorrelateCmd() *cobra.Command {
	var (
		target string
		top    int
		matrix bool
	)

	cmd := &cobra.Command{
		Use:   "correlate",
		Short: "Show the numeric columns most correlated with price",
		Long:  "Compute pairwise Pearson correlations between the numeric columns and show those most strongly related to the target column.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCorrelate(cmd.OutOrStdout(), target, top, matrix)
		},
	}

	cmd.Flags().StringVar(&target, "target", listing.ColPrice, "column to correlate against")
	cmd.Flags().IntVar(&top, "top", report.FactorCount, "number of factors to show")
	cmd.Flags().BoolVar(&matrix, "matrix", false, "print the whole matrix")

	return cmd
}

func runCorrelate(w io.Writer, target string, top int, matrix bool) error {
	if err := checkFormat(); err != nil {
		return err
	}
	t, err := loadTable()
	if err != nil {
		return err
	}
	m := aggregate.Correlation(t)

	if matrix {
		if isJSON() {
			return printJSON(w, m)
		}
		return printMatrix(w, m)
	}

	if m.Index(target) < 0 {
		return fmt.Errorf("unknown numeric column %q", target)
	}
	factors := m.TopFactors(target, top)
	if isJSON() {
		if factors == nil {
			factors = []aggregate.Factor{}
		}
		return printJSON(w, factors)
	}
	return printFactors(w, target, factors)
}
