package cmd

import (
	"fmt"

	"github.com/bnema/rnbridge/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := config.Encode(app.cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if app.cfg.File != "" {
				if _, err := fmt.Fprintf(out, "# loaded from %s\n", app.cfg.File); err != nil {
					return err
				}
			}
			_, err = out.Write(data)
			return err
		},
	}
}
