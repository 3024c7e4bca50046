package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kingrea/staffdesk/internal/devserver"
)

func newServeDevCmd(home *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve-dev",
		Short: "Run the in-memory development backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(*home)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := devserver.NewServer(devserver.SettingsFromConfig(rt.cfg), devserver.WithLogger(rt.trace))
			if err != nil {
				return err
			}
			if err := srv.Start(ctx); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Development backend listening on %s\n", srv.BaseURL())
			fmt.Fprintf(out, "Seeded accounts use password %q (try: staffdesk login --username dana --password %s)\n", devserver.SeedPassword, devserver.SeedPassword)

			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
