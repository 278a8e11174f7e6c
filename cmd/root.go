package cmd

import (
	"context"

	"github.com/bnema/rnbridge/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Execute runs the rnb command line. Cancelling ctx stops a running
// evaluation or log stream.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	app := &app{viper: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "rnb",
		Short: "React Native bridge (rnb): inspect running React Native apps",
		Long: "rnb talks to React Native apps through the Metro bundler's inspector proxy. " +
			"It lists connected apps, evaluates JavaScript inside them and reads their console output.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.wire(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			app.close()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("metro-url", config.DefaultMetroURL(), "Metro bundler address")
	flags.Duration("wait-for-app", 0, "Keep polling Metro this long for an app to connect")
	flags.BoolVarP(&app.verbose, "verbose", "v", false, "Print diagnostic logs to stderr")
	flags.StringVar(&app.configFile, "config", "", "Config file (default $HOME/.config/rnb/config.toml)")
	bindFlag(app.viper, config.KeyMetroURL, flags.Lookup("metro-url"))
	bindFlag(app.viper, config.KeyWaitForApp, flags.Lookup("wait-for-app"))

	rootCmd.AddCommand(
		newVersionCmd(),
		newConfigCmd(app),
		newTargetsCmd(app),
		newLogsCmd(app),
		newExecCmd(app),
	)

	return rootCmd
}
