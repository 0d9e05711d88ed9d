package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/evcraddock/listing-explorer/internal/listing"
	"github.com/evcraddock/listing-explorer/internal/logging"
	"github.com/evcraddock/listing-explorer/internal/web"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		dev  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web dashboard",
		Long:  "Start an HTTP server for the listings dashboard. The CSV is re-read when it changes on disk.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSettings()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				s.Port = port
			}
			if cmd.Flags().Changed("dev") {
				s.Dev = dev
			}
			return runServe(cmd, s)
		},
	}

	cmd.Flags().IntVar(&port, "port", defaultPort, "port to listen on")
	cmd.Flags().BoolVar(&dev, "dev", false, "text logs at debug level")

	return cmd
}

func runServe(cmd *cobra.Command, s Settings) error {
	logging.Setup(s.Dev)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, release, err := openSource(s)
	if err != nil {
		return err
	}
	defer release()

	if cache, ok := src.(*listing.Cache); ok {
		go func() {
			if err := cache.Watch(ctx); err != nil {
				slog.Warn("dataset watcher stopped", "path", cache.Path(), "error", err)
			}
		}()
	}

	srv, err := web.NewServer(web.Options{Source: src, SidebarImage: s.SidebarImage})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Starting dashboard on http://localhost:%d\n", s.Port)
	return srv.ListenAndServe(ctx, s.Port)
}
