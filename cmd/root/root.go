package root

import (
	"errors"

	"github.com/Mobo140/platform_common/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	ConfigPath string
	LogLevel   string
)

var errNotSignedIn = errors.New("not signed in, run `igbot-cli login` first")

var RootCmd = &cobra.Command{
	Use:           "igbot-cli",
	Short:         "Instagram gateway dashboard",
	Long:          "Manage Instagram gateway accounts, their options, webhooks and access tokens.",
	SilenceUsage:  true,
	SilenceErrors: true,
	// Flags are parsed once in main before the subcommands exist.
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&ConfigPath, "config", "c", ".env", "path to the .env config file")
	RootCmd.PersistentFlags().StringVar(&LogLevel, "log-level", "info", "log level: debug, info, warn, error")
}

// InitCommands attaches the command tree to RootCmd.
func InitCommands(deps Deps) {
	build(RootCmd, deps)
}

func build(root *cobra.Command, deps Deps) {
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		ok, err := deps.Session.Bootstrap(cmd.Context())
		if err != nil {
			logger.Error("failed to bootstrap session", zap.Error(err))

			return err
		}
		logger.Debug("session bootstrapped", zap.Bool("authenticated", ok))

		return nil
	}

	root.AddCommand(
		newStatusCmd(deps),
		newLoginCmd(deps),
		newLogoutCmd(deps),
		newAccountsCmd(deps),
		newAccountCmd(deps),
		newOptionsCmd(deps),
		newWebhookCmd(deps),
		newTokenCmd(deps),
		newURLCmd(deps),
	)
}

// load refreshes the dashboard and requires at least one managed account.
func load(cmd *cobra.Command, deps Deps) error {
	if !deps.Session.Authenticated() {
		return errNotSignedIn
	}

	n, err := deps.Dashboard.LoadAccounts(cmd.Context())
	if err != nil {
		return alert(err, "could not load accounts")
	}
	if n == 0 {
		return errors.New("no managed account yet, run `igbot-cli account login`")
	}

	return nil
}
