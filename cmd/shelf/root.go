package main

import (
	"github.com/spf13/cobra"

	"github.com/five82/shelf/internal/app"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath  string
	prefsPath   string
	pollSeconds int
}

func (g *globalFlags) options() app.Options {
	return app.Options{
		ConfigPath: g.configPath,
		PrefsPath:  g.prefsPath,
		PollEvery:  g.pollSeconds,
	}
}

// withEnv opens the shared environment for the duration of one command.
func (g *globalFlags) withEnv(fn func(cmd *cobra.Command, env *app.Env, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		env, err := app.Open(g.options())
		if err != nil {
			return err
		}
		defer env.Close()
		return fn(cmd, env, args)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	runTUI := func(cmd *cobra.Command, _ []string) error {
		return app.Run(cmd.Context(), flags.options())
	}

	root := &cobra.Command{
		Use:           "shelf",
		Short:         "Browse the school library catalog from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default ~/.config/shelf/config.toml)")
	root.PersistentFlags().StringVar(&flags.prefsPath, "prefs", "", "UI preferences file (default ~/.config/shelf/prefs.toml)")
	root.PersistentFlags().IntVar(&flags.pollSeconds, "poll", 0, "list refresh interval in seconds (default from config, 60s)")

	root.AddCommand(
		&cobra.Command{
			Use:   "tui",
			Short: "Start the interactive interface",
			Args:  cobra.NoArgs,
			RunE:  runTUI,
		},
		newLoginCmd(flags),
		newLogoutCmd(flags),
		newSignupCmd(flags),
		newWhoamiCmd(flags),
		newBooksCmd(flags),
		newFavoritesCmd(flags),
		newLogsCmd(flags),
	)
	return root
}
