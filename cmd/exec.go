package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/rnbridge/internal/application"
	"github.com/bnema/rnbridge/internal/config"
	"github.com/bnema/rnbridge/internal/domain"
	"github.com/spf13/cobra"
)

type execOutput struct {
	Success bool `json:"success"`
	domain.EvalResult
}

func newExecCmd(app *app) *cobra.Command {
	var appID string
	var noAwait bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "exec [EXPR]",
		Aliases: []string{"eval"},
		Short:   "Evaluate JavaScript inside a connected app",
		Long: "Evaluates EXPR in the app's JavaScript runtime and prints the result. " +
			"Without EXPR the expression is read from stdin. Promises are awaited unless --no-await is set.",
		Example: `  rnb exec 'globalThis.__DEV__'
  echo 'require("react-native").Platform.OS' | rnb exec`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expression, err := readExpression(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			return runExec(cmd, app, application.ExecuteCommand{
				TargetID:     domain.TargetID(appID),
				Expression:   expression,
				AwaitPromise: !noAwait,
				Timeout:      app.cfg.Exec.Timeout,
				WaitForApp:   app.cfg.WaitForApp,
			}, asJSON)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&appID, "app-id", "", "App ID or title (required when several apps are connected)")
	flags.BoolVar(&noAwait, "no-await", false, "Return promises without waiting for them to settle")
	flags.DurationP("timeout", "t", application.DefaultEvalTimeout, "Give up after this long")
	flags.BoolVar(&asJSON, "json", false, "Render JSON output")
	bindFlag(app.viper, config.KeyExecTimeout, flags.Lookup("timeout"))

	return cmd
}

func readExpression(stdin io.Reader, args []string) (string, error) {
	var expression string
	if len(args) > 0 {
		expression = args[0]
	} else {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read expression from stdin: %w", err)
		}
		expression = string(data)
	}

	expression = strings.TrimSpace(expression)
	if expression == "" {
		return "", fmt.Errorf("%w: pass it as an argument or pipe it on stdin", application.ErrEmptyExpression)
	}
	return expression, nil
}

func runExec(cmd *cobra.Command, app *app, command application.ExecuteCommand, asJSON bool) error {
	var result domain.EvalResult
	work := func(ctx context.Context, report reportFunc) error {
		report("Looking for apps on "+app.cfg.MetroURL, command.WaitForApp)
		target, err := app.service.ResolveTarget(ctx, command.TargetID, command.WaitForApp)
		if err != nil {
			return err
		}

		report("Evaluating in "+target.DisplayName(), application.EvalBudget(command.Timeout))
		result, err = app.service.ExecuteOn(ctx, target, command)
		return err
	}

	var err error
	if asJSON {
		err = work(cmd.Context(), discardProgress)
	} else {
		err = runWithProgress(cmd.Context(), cmd.ErrOrStderr(), work)
	}
	if err != nil {
		return err
	}

	if asJSON {
		if err := writeJSON(cmd.OutOrStdout(), execOutput{Success: result.Succeeded(), EvalResult: result}); err != nil {
			return err
		}
	}
	if err := outcomeError(result); err != nil {
		return err
	}

	if !asJSON {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Value)
	}
	return err
}

func outcomeError(result domain.EvalResult) error {
	switch result.Outcome {
	case domain.EvalException:
		return &domain.RemoteException{Description: result.Exception}
	case domain.EvalTimeout:
		return &domain.TimeoutError{Message: result.Exception}
	default:
		return nil
	}
}
