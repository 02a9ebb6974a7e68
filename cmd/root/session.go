package root

import (
	"errors"
	"fmt"

	"github.com/Mobo140/igbot-cli/internal/render"
	"github.com/Mobo140/igbot-cli/internal/session"
	"github.com/Mobo140/platform_common/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newStatusCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the dashboard for the current account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if !deps.Session.Authenticated() {
				fmt.Fprintln(out, render.Landing())
				if deps.ContactURL != "" {
					fmt.Fprintf(out, "Need access? Contact us: %s\n", deps.ContactURL)
				}

				return nil
			}

			n, err := deps.Dashboard.LoadAccounts(cmd.Context())
			if err != nil {
				return alert(err, "could not load accounts")
			}
			if n == 0 {
				fmt.Fprintln(out, "No managed accounts yet. Run `igbot-cli account login` to add one.")

				return nil
			}

			fmt.Fprintln(out, render.Dashboard(deps.Dashboard.Snapshot()))

			return nil
		},
	}
}

func newLoginCmd(deps Deps) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := deps.Session.Login(cmd.Context(), username, password)
			if err != nil {
				var loginErr *session.LoginError
				if errors.As(err, &loginErr) && loginErr.ContactURL != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "Need access? Contact us: %s\n", loginErr.ContactURL)
				}

				return alert(err, "login failed")
			}
			logger.Info("signed in", zap.String("username", username))

			n, err := deps.Dashboard.LoadAccounts(cmd.Context())
			if err != nil {
				return alert(err, "could not load accounts")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Signed in as %s.\n", username)
			if n == 0 {
				fmt.Fprintln(out, "No managed accounts yet. Run `igbot-cli account login` to add one.")
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "dashboard username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "dashboard password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if deps.Session.Authenticated() {
				// Best effort: the current account is logged out too when known.
				if _, err := deps.Dashboard.LoadAccounts(cmd.Context()); err != nil {
					logger.Warn("failed to load accounts before logout", zap.Error(err))
				}
			}

			if err := deps.Dashboard.Logout(cmd.Context()); err != nil {
				return alert(err, "could not clear the stored session")
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")

			return nil
		},
	}
}
