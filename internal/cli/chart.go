package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/listing-explorer/internal/chart"
)

func newChartCmd() *cobra.Command {
	var (
		out string
		dir string
	)

	cmd := &cobra.Command{
		Use:   "chart [name]",
		Short: "Render a dashboard chart as SVG",
		Long: "Render one of the dashboard charts as SVG. Available charts: " +
			strings.Join(chart.Names(), ", ") + ".\nWith --dir and no name every chart is written to that directory.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: chart.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if dir == "" {
					return errors.New("give a chart name or --dir")
				}
				return runChartAll(cmd.OutOrStdout(), dir)
			}
			return runChart(cmd.OutOrStdout(), args[0], out)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write the SVG to this file instead of stdout")
	cmd.Flags().StringVar(&dir, "dir", "", "directory to write every chart to")

	return cmd
}

func runChart(w io.Writer, name, out string) error {
	if !chart.Known(name) {
		return fmt.Errorf("%w: %q (want one of %s)", chart.ErrUnknownChart, name, strings.Join(chart.Names(), ", "))
	}
	t, err := loadTable()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := chart.Render(&buf, name, t); err != nil {
		return err
	}
	if out == "" {
		_, err := buf.WriteTo(w)
		return err
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing chart: %w", err)
	}
	_, err = fmt.Fprintf(w, "Wrote %s\n", out)
	return err
}

// runChartAll writes every chart to dir. Charts with nothing to draw get a
// placeholder.
func runChartAll(w io.Writer, dir string) error {
	t, err := loadTable()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating chart directory: %w", err)
	}

	for _, name := range chart.Names() {
		var buf bytes.Buffer
		err := chart.Render(&buf, name, t)
		if errors.Is(err, chart.ErrNoData) {
			chart.Placeholder(&buf, chart.Width, chart.Height, "No listings to chart")
		} else if err != nil {
			return fmt.Errorf("chart %s: %w", name, err)
		}
		path := filepath.Join(dir, name+".svg")
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("writing chart: %w", err)
		}
		if _, err := fmt.Fprintf(w, "Wrote %s\n", path); err != nil {
			return err
		}
	}
	return nil
}
