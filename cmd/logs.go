package cmd

import (
	"context"
	"fmt"

	"github.com/bnema/rnbridge/internal/application"
	"github.com/bnema/rnbridge/internal/config"
	"github.com/bnema/rnbridge/internal/domain"
	"github.com/spf13/cobra"
)

func newLogsCmd(app *app) *cobra.Command {
	var appID string
	var filter string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Read console output from a connected app",
		Long: "Reads console.log, console.warn and console.error calls made by the app. " +
			"Collection stops after --max-logs entries or --timeout, whichever comes first. " +
			"A zero timeout follows the app until interrupted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogs(cmd, app, domain.TargetID(appID), filter, asJSON)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&appID, "app-id", "", "App ID or title (required when several apps are connected)")
	flags.StringVarP(&filter, "filter", "f", "", "Only keep messages matching this regular expression")
	flags.IntP("max-logs", "n", application.DefaultMaxLogs, "Stop after this many entries (0 for no limit)")
	flags.DurationP("timeout", "t", application.DefaultLogTimeout, "Stop after this long (0 to follow)")
	flags.BoolVar(&asJSON, "json", false, "Render JSON output")
	bindFlag(app.viper, config.KeyLogsMaxLogs, flags.Lookup("max-logs"))
	bindFlag(app.viper, config.KeyLogsTimeout, flags.Lookup("timeout"))

	return cmd
}

func runLogs(cmd *cobra.Command, app *app, appID domain.TargetID, filter string, asJSON bool) error {
	out := cmd.OutOrStdout()
	entries := []domain.LogEntry{}

	yield := func(entry domain.LogEntry) error {
		if asJSON {
			entries = append(entries, entry)
			return nil
		}
		_, err := fmt.Fprintln(out, app.logRenderer.Entry(entry))
		return err
	}

	command := application.StreamLogsCommand{
		TargetID:   appID,
		Filter:     filter,
		MaxLogs:    app.cfg.Logs.MaxLogs,
		Timeout:    app.cfg.Logs.Timeout,
		WaitForApp: app.cfg.WaitForApp,
	}

	// The spinner only covers target lookup; entries are printed as they
	// arrive.
	var target domain.Target
	resolve := func(ctx context.Context, report reportFunc) error {
		report("Looking for apps on "+app.cfg.MetroURL, command.WaitForApp)
		var err error
		target, err = app.service.ResolveTarget(ctx, command.TargetID, command.WaitForApp)
		return err
	}
	var err error
	if asJSON {
		err = resolve(cmd.Context(), discardProgress)
	} else {
		err = runWithProgress(cmd.Context(), cmd.ErrOrStderr(), resolve)
	}
	if err != nil {
		return err
	}

	count, err := app.service.StreamLogsOn(cmd.Context(), target, command, yield)
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(out, entries)
	}
	if count == 0 {
		_, err = fmt.Fprintln(out, app.logRenderer.Empty())
	}
	return err
}
