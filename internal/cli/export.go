package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/evcraddock/listing-explorer/internal/report"
)

func newExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the aggregates and listings to an xlsx workbook",
		Long:  "Write neighbourhood and room type counts, average prices, the host ranking, the correlation matrix and every listing to an xlsx workbook.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "listings.xlsx", "workbook path")

	return cmd
}

func runExport(w io.Writer, out string) error {
	t, err := loadTable()
	if err != nil {
		return err
	}
	if err := report.SaveXLSX(out, t); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Wrote %s listings to %s\n", report.FormatCount(t.Len()), out)
	return err
}
