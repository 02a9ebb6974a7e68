package root

import (
	"fmt"

	"github.com/Mobo140/igbot-cli/internal/render"
	"github.com/spf13/cobra"
)

func newWebhookCmd(deps Deps) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Configure where incoming messages are delivered",
	}
	cmd.PersistentFlags().StringVarP(&account, "account", "a", "", "managed account, defaults to the current one")

	// target loads the dashboard and resolves the account the command acts on.
	target := func(cmd *cobra.Command) (string, error) {
		if err := load(cmd, deps); err != nil {
			return "", err
		}
		if account != "" {
			return account, nil
		}

		return deps.Dashboard.Current(), nil
	}

	setEnabled := func(enabled bool) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			username, err := target(cmd)
			if err != nil {
				return err
			}
			if _, err := deps.Dashboard.SetWebhookEnabled(cmd.Context(), username, enabled); err != nil {
				return alert(err, "could not update the webhook")
			}

			fmt.Fprintln(cmd.OutOrStdout(), render.Accounts(deps.Dashboard.Snapshot()))

			return nil
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <url>",
			Short: "Set the webhook URL",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				username, err := target(cmd)
				if err != nil {
					return err
				}
				if _, err := deps.Dashboard.SaveWebhook(cmd.Context(), username, args[0]); err != nil {
					return alert(err, "could not save the webhook")
				}

				fmt.Fprintln(cmd.OutOrStdout(), render.Accounts(deps.Dashboard.Snapshot()))

				return nil
			},
		},
		&cobra.Command{
			Use:   "enable",
			Short: "Resume webhook delivery",
			Args:  cobra.NoArgs,
			RunE:  setEnabled(true),
		},
		&cobra.Command{
			Use:   "disable",
			Short: "Pause webhook delivery",
			Args:  cobra.NoArgs,
			RunE:  setEnabled(false),
		},
		&cobra.Command{
			Use:   "test [text]",
			Short: "Send a test message to the webhook",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				username, err := target(cmd)
				if err != nil {
					return err
				}

				var text string
				if len(args) == 1 {
					text = args[0]
				}
				if err := deps.Dashboard.TestWebhook(cmd.Context(), username, text); err != nil {
					return alert(err, "webhook test failed")
				}

				fmt.Fprintln(cmd.OutOrStdout(), "Test message sent.")

				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List the additional webhooks",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				username, err := target(cmd)
				if err != nil {
					return err
				}

				hooks, err := deps.Dashboard.ListWebhooks(cmd.Context(), username)
				if err != nil {
					return alert(err, "could not list webhooks")
				}

				fmt.Fprintln(cmd.OutOrStdout(), render.Webhooks(username, hooks))

				return nil
			},
		},
		&cobra.Command{
			Use:   "add <url>",
			Short: "Register an additional webhook",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				username, err := target(cmd)
				if err != nil {
					return err
				}

				id, err := deps.Dashboard.AddWebhook(cmd.Context(), username, args[0])
				if err != nil {
					return alert(err, "could not add the webhook")
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Webhook %s added.\n", id)

				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Remove an additional webhook",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				username, err := target(cmd)
				if err != nil {
					return err
				}
				if err := deps.Dashboard.DeleteWebhook(cmd.Context(), username, args[0]); err != nil {
					return alert(err, "could not delete the webhook")
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Webhook %s deleted.\n", args[0])

				return nil
			},
		},
	)

	return cmd
}
