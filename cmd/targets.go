package cmd

import (
	"context"
	"fmt"

	"github.com/bnema/rnbridge/internal/domain"
	"github.com/spf13/cobra"
)

func newTargetsCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "targets",
		Aliases: []string{"list", "apps"},
		Short:   "List React Native apps connected to Metro",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTargets(cmd, app, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func runTargets(cmd *cobra.Command, app *app, asJSON bool) error {
	var targets []domain.Target
	discover := func(ctx context.Context, report reportFunc) error {
		report("Waiting for an app on "+app.cfg.MetroURL, app.cfg.WaitForApp)
		var err error
		targets, err = app.service.WaitForTargets(ctx, app.cfg.WaitForApp)
		return err
	}

	var err error
	if asJSON || app.cfg.WaitForApp <= 0 {
		err = discover(cmd.Context(), discardProgress)
	} else {
		err = runWithProgress(cmd.Context(), cmd.ErrOrStderr(), discover)
	}
	if err != nil {
		return err
	}
	if targets == nil {
		targets = []domain.Target{}
	}

	if asJSON {
		if err := writeJSON(cmd.OutOrStdout(), targets); err != nil {
			return err
		}
	}
	if len(targets) == 0 {
		return &domain.NoTargetError{URL: app.cfg.MetroURL}
	}
	if asJSON {
		return nil
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), app.targetsRenderer.Render(targets))
	return err
}
