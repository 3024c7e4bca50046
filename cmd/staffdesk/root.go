package main

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kingrea/staffdesk/internal/session"
	"github.com/kingrea/staffdesk/internal/tui"
)

func newRootCmd() *cobra.Command {
	var (
		home  string
		route string
	)
	cmd := &cobra.Command{
		Use:           "staffdesk",
		Short:         "Terminal console for employee and project management",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(home)
			if err != nil {
				return err
			}
			defer rt.Close()

			actor, user, err := rt.sessions.Actor()
			if err != nil {
				if errors.Is(err, session.ErrUnauthenticated) {
					return fmt.Errorf("%w (run `staffdesk login` first)", err)
				}
				return err
			}
			client, err := rt.gateway()
			if err != nil {
				return err
			}
			app, err := tui.NewApp(client, actor, user,
				tui.WithLogbook(rt.journal),
				tui.WithTimings(rt.cfg.RedirectDelay(), rt.cfg.NotificationDuration()),
				tui.WithStartRoute(route),
			)
			if err != nil {
				return err
			}
			p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("staffdesk: run TUI: %w", err)
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&home, "home", "", "Config root (default $STAFFDESK_HOME or the user config dir)")
	cmd.Flags().StringVar(&route, "route", tui.RouteSupervisor, "Screen to open, e.g. /dashboard/tsapprover")

	cmd.AddCommand(newLoginCmd(&home), newLogoutCmd(&home), newWhoamiCmd(&home), newServeDevCmd(&home))
	return cmd
}
