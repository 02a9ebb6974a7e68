package root

import (
	"fmt"

	"github.com/Mobo140/igbot-cli/internal/model"
	"github.com/Mobo140/igbot-cli/internal/render"
	"github.com/spf13/cobra"
)

func newAccountsCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List managed Instagram accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := load(cmd, deps); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), render.Accounts(deps.Dashboard.Snapshot()))

			return nil
		},
	}
}

func newAccountCmd(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Add, import or reset a managed account",
	}

	cmd.AddCommand(
		newAccountLoginCmd(deps),
		newAccountImportCmd(deps),
		newAccountResetCmd(deps),
	)

	return cmd
}

func newAccountLoginCmd(deps Deps) *cobra.Command {
	var req model.AccountLogin

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log an Instagram account in through the gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !deps.Session.Authenticated() {
				return errNotSignedIn
			}

			n, err := deps.Dashboard.LoginAccount(cmd.Context(), req)
			if err != nil {
				return alert(err, "could not log in to Instagram")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Account %s added. %d managed account(s).\n", req.Username, n)

			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "Instagram username")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "Instagram password")
	cmd.Flags().StringVar(&req.VerificationCode, "code", "", "two-factor verification code")
	cmd.Flags().StringVar(&req.WebhookURL, "webhook", "", "webhook URL for incoming messages")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newAccountImportCmd(deps Deps) *cobra.Command {
	var req model.SessionImport

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import an existing Instagram browser session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !deps.Session.Authenticated() {
				return errNotSignedIn
			}

			n, err := deps.Dashboard.ImportSession(cmd.Context(), req)
			if err != nil {
				return alert(err, "could not import the session")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Session for %s imported. %d managed account(s).\n", req.Username, n)

			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "Instagram username")
	cmd.Flags().StringVar(&req.SessionID, "sessionid", "", "value of the sessionid cookie")
	cmd.Flags().StringToStringVar(&req.Cookies, "cookie", nil, "extra cookies as name=value")
	cmd.Flags().StringVar(&req.WebhookURL, "webhook", "", "webhook URL for incoming messages")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("sessionid")

	return cmd
}

func newAccountResetCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset the current account's session on the gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := load(cmd, deps); err != nil {
				return err
			}

			username := deps.Dashboard.Current()
			if _, err := deps.Dashboard.ResetAccount(cmd.Context()); err != nil {
				return alert(err, "could not reset the account")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Account %s reset.\n", username)

			return nil
		},
	}
}
