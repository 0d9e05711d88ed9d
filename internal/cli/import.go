package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/evcraddock/listing-explorer/internal/db"
	"github.com/evcraddock/listing-explorer/internal/listing"
	"github.com/evcraddock/listing-explorer/internal/report"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [csv]",
		Short: "Snapshot a listings CSV into SQLite",
		Long: `Load a listings CSV and replace the SQLite snapshot with it. The CSV
defaults to --data; the snapshot to --db or ~/.listing-explorer/listings.db.
Point --db at the snapshot afterwards to read from it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSettings()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				s.DataPath = args[0]
			}
			return runImport(cmd.OutOrStdout(), s)
		},
	}
}

func runImport(w io.Writer, s Settings) error {
	if err := checkFormat(); err != nil {
		return err
	}
	info, err := os.Stat(s.DataPath)
	if err != nil {
		return fmt.Errorf("%w: %v", listing.ErrDataUnavailable, err)
	}
	t, err := listing.Load(s.DataPath)
	if err != nil {
		return err
	}

	path := s.DBPath
	if path == "" {
		path, err = db.DefaultPath()
		if err != nil {
			return err
		}
	}
	database, err := db.Open(path)
	if err != nil {
		return err
	}
	defer closeDB(database)

	repo := listing.NewRepository(database)
	if err := repo.ReplaceAll(s.DataPath, info.ModTime(), t); err != nil {
		return err
	}
	imp, err := repo.LastImport()
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(w, imp)
	}
	_, err = fmt.Fprintf(w, "Imported %s listings from %s into %s\n", report.FormatCount(imp.RowCount), imp.Source, path)
	return err
}
