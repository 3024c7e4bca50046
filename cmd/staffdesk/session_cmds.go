package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kingrea/staffdesk/internal/portal"
)

func newLoginCmd(home *string) *cobra.Command {
	var creds portal.Credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(*home)
			if err != nil {
				return err
			}
			defer rt.Close()
			client, err := rt.gateway()
			if err != nil {
				return err
			}
			state, err := portal.Login(cmd.Context(), client, client, creds)
			if err != nil {
				rt.journal.Error("Login failed for %s: %v", creds.Username, err)
				return fmt.Errorf("login failed: %w", err)
			}
			if err := rt.sessions.Save(state); err != nil {
				return err
			}
			rt.journal.Info("Logged in as %s (#%d)", state.User.DisplayName(), state.User.EmployeeID)
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (#%d)\n", state.User.DisplayName(), state.User.EmployeeID)
			return nil
		},
	}
	cmd.Flags().StringVar(&creds.Username, "username", "", "Account name (required)")
	cmd.Flags().StringVar(&creds.Password, "password", "", "Account password (required)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(home *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(*home)
			if err != nil {
				return err
			}
			defer rt.Close()
			if err := rt.sessions.Clear(); err != nil {
				return err
			}
			rt.journal.Info("Logged out")
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(home *string) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in employee",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(*home)
			if err != nil {
				return err
			}
			defer rt.Close()
			actor, user, err := rt.sessions.Actor()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (#%d)\n", user.DisplayName(), actor.EmployeeID)
			if user.Email != "" {
				fmt.Fprintf(out, "email:    %s\n", user.Email)
			}
			if user.IsSecondaryApprover {
				fmt.Fprintln(out, "approver: yes")
			}
			if st, err := rt.sessions.Load(); err == nil && !st.SavedAt.IsZero() {
				fmt.Fprintf(out, "since:    %s\n", st.SavedAt.Local().Format(time.RFC1123))
			}
			fmt.Fprintf(out, "backend:  %s\n", rt.cfg.BaseURL())
			return nil
		},
	}
}
