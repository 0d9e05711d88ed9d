package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/evcraddock/listing-explorer/internal/aggregate"
)

func newRoomsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rooms",
		Short: "Show the average price per room type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRooms(cmd.OutOrStdout())
		},
	}
}

func runRooms(w io.Writer) error {
	if err := checkFormat(); err != nil {
		return err
	}
	t, err := loadTable()
	if err != nil {
		return err
	}
	prices := aggregate.AveragePriceByRoomType(t)

	if isJSON() {
		return printJSON(w, prices)
	}
	if len(prices) == 0 {
		_, err := io.WriteString(w, "No listings found.\n")
		return err
	}
	return printRoomPrices(w, prices)
}
