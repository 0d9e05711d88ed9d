// Package cli defines the cobra command tree for listing-explorer.
package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/evcraddock/listing-explorer/internal/db"
	"github.com/evcraddock/listing-explorer/internal/listing"
)

var (
	flagFormat string
	flagData   string
	flagDB     string
	flagConfig string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lx",
		Short:         "Explore Airbnb listings",
		Long:          "A tool to explore an Inside Airbnb listings export. Filter listings, summarise prices, rank hosts and browse everything in a web dashboard.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagData, "data", "", "listings CSV path (default: data/listings.csv)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "read listings from this SQLite snapshot instead of the CSV")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: ~/.config/lx/config.yaml)")

	root.AddCommand(
		newServeCmd(),
		newSummaryCmd(),
		newFilterCmd(),
		newRoomsCmd(),
		newHostsCmd(),
		newCorrelateCmd(),
		newChartCmd(),
		newImportCmd(),
		newExportCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return root
}

// openSource returns the SQLite snapshot when a database is configured and
// the CSV cache otherwise. The returned func releases the source.
func openSource(s Settings) (listing.Source, func(), error) {
	if s.DBPath == "" {
		return listing.NewCache(s.DataPath), func() {}, nil
	}
	database, err := db.Open(s.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return listing.NewRepository(database), func() { closeDB(database) }, nil
}

// loadTable resolves settings and reads the current table.
func loadTable() (*listing.Table, error) {
	s, err := resolveSettings()
	if err != nil {
		return nil, err
	}
	src, release, err := openSource(s)
	if err != nil {
		return nil, err
	}
	defer release()
	return src.Table()
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// checkFormat rejects unknown --format values.
func checkFormat() error {
	switch flagFormat {
	case "text", "json":
		return nil
	}
	return fmt.Errorf("unknown format %q (want text or json)", flagFormat)
}

// closeDB closes the database, logging any error to stderr.
func closeDB(database *sql.DB) {
	if err := database.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
	}
}
