package root

import (
	"errors"
	"fmt"

	"github.com/Mobo140/igbot-cli/internal/clipboard"
	"github.com/Mobo140/igbot-cli/internal/model"
	"github.com/Mobo140/igbot-cli/internal/render"
	"github.com/Mobo140/platform_common/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newTokenCmd(deps Deps) *cobra.Command {
	var reveal bool

	show := func(cmd *cobra.Command, _ []string) error {
		if err := load(cmd, deps); err != nil {
			return err
		}
		if reveal {
			deps.Dashboard.ToggleReveal()
		}

		fmt.Fprintln(cmd.OutOrStdout(), render.Token(deps.Dashboard.Snapshot()))

		return nil
	}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Show the access token of the current account",
		Args:  cobra.NoArgs,
		RunE:  show,
	}
	cmd.PersistentFlags().BoolVar(&reveal, "reveal", false, "print the token in clear text")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the access token of the current account",
			Args:  cobra.NoArgs,
			RunE:  show,
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Invalidate the access token and issue a new one",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := load(cmd, deps); err != nil {
					return err
				}
				if reveal {
					deps.Dashboard.ToggleReveal()
				}
				if _, err := deps.Dashboard.ResetToken(cmd.Context()); err != nil {
					return alert(err, "could not reset the token")
				}

				fmt.Fprintln(cmd.OutOrStdout(), render.Token(deps.Dashboard.Snapshot()))

				return nil
			},
		},
		&cobra.Command{
			Use:   "copy",
			Short: "Copy the access token to the clipboard",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := load(cmd, deps); err != nil {
					return err
				}

				return copyText(cmd, deps, deps.Dashboard.Snapshot().Token, "Token copied.")
			},
		},
	)

	return cmd
}

func newURLCmd(deps Deps) *cobra.Command {
	var fileMode, copyURL bool

	cmd := &cobra.Command{
		Use:   "url",
		Short: "Show the send endpoint for the current options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := load(cmd, deps); err != nil {
				return err
			}
			if fileMode {
				if err := deps.Dashboard.SetOption(cmd.Context(), model.OptionFileMode, true); err != nil {
					return alert(err, "could not switch to file mode")
				}
			}

			s := deps.Dashboard.Snapshot()
			fmt.Fprintln(cmd.OutOrStdout(), render.SendURL(s))

			if copyURL {
				return copyText(cmd, deps, s.SendURL, "URL copied.")
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&fileMode, "file", false, "use the multipart file endpoint")
	cmd.Flags().BoolVar(&copyURL, "copy", false, "copy the URL to the clipboard")

	return cmd
}

func copyText(cmd *cobra.Command, deps Deps, text string, done string) error {
	err := deps.Clipboard.Copy(text)
	if errors.Is(err, clipboard.ErrUnavailable) {
		logger.Warn("clipboard unavailable", zap.Error(err))
		fmt.Fprintln(cmd.OutOrStdout(), text)

		return errors.New("clipboard is not available here, the value is printed above")
	}
	if errors.Is(err, clipboard.ErrEmpty) {
		return alert(err, "nothing to copy, the value is not loaded")
	}
	if err != nil {
		return alert(err, "could not copy to the clipboard")
	}

	fmt.Fprintln(cmd.OutOrStdout(), done)

	return nil
}
