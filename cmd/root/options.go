package root

import (
	"fmt"
	"strings"

	"github.com/Mobo140/igbot-cli/internal/dashboard"
	"github.com/Mobo140/igbot-cli/internal/model"
	"github.com/Mobo140/igbot-cli/internal/render"
	"github.com/spf13/cobra"
)

func newOptionsCmd(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "options",
		Short: "Show the behaviour options of the current account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := load(cmd, deps); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), render.Options(deps.Dashboard.Snapshot()))

			return nil
		},
	}

	cmd.AddCommand(newOptionsSetCmd(deps), newOptionsToggleCmd(deps))

	return cmd
}

func newOptionsSetCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "set <option> <on|off>",
		Short: "Set an option of the current account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := model.ParseOptionKey(args[0])
			if err != nil {
				return err
			}
			value, err := parseSwitch(args[1])
			if err != nil {
				return err
			}

			if err := load(cmd, deps); err != nil {
				return err
			}
			if err := deps.Dashboard.SetOption(cmd.Context(), key, value); err != nil {
				return alert(err, "could not update the option")
			}

			return reportOption(cmd, deps, key)
		},
	}
}

func newOptionsToggleCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <option>",
		Short: "Flip an option of the current account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := model.ParseOptionKey(args[0])
			if err != nil {
				return err
			}

			if err := load(cmd, deps); err != nil {
				return err
			}
			if _, err := deps.Dashboard.ToggleOption(cmd.Context(), key); err != nil {
				return alert(err, "could not update the option")
			}

			return reportOption(cmd, deps, key)
		},
	}
}

// reportOption waits for the write and prints the settled option list.
func reportOption(cmd *cobra.Command, deps Deps, key model.OptionKey) error {
	deps.Dashboard.Flush()

	s := deps.Dashboard.Snapshot()
	fmt.Fprintln(cmd.OutOrStdout(), render.Options(s))
	fmt.Fprintln(cmd.OutOrStdout(), render.SendURL(s))

	if s.OptionSync[key] == dashboard.Conflicted {
		return fmt.Errorf("server rejected %s, the previous value was restored", key)
	}

	return nil
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}

	return false, fmt.Errorf("expected on or off, got %q", s)
}
