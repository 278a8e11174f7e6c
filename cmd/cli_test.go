package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bnema/rnbridge/internal/adapters/inspector/inspectortest"
	"github.com/bnema/rnbridge/internal/application"
	"github.com/bnema/rnbridge/internal/domain"
	"github.com/bnema/rnbridge/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var myApp = inspectortest.App{ID: "myapp-1", Title: "MyApp", DeviceName: "Pixel 8"}

func TestTargetsHappyPath(t *testing.T) {
	server := inspectortest.NewServer(t, myApp)

	stdout, _, err := executeCLI(t, t.TempDir(), "targets", "--metro-url", server.URL())
	require.NoError(t, err)
	assert.Contains(t, stdout, "Found 1 connected app(s):")
	assert.Contains(t, stdout, "1. MyApp")
	assert.Contains(t, stdout, "ID: myapp-1")
	assert.Contains(t, stdout, "Device: Pixel 8")
	assert.NotContains(t, stdout, "DevTools")
}

func TestTargetsJSONOutput(t *testing.T) {
	server := inspectortest.NewServer(t, myApp)

	stdout, _, err := executeCLI(t, t.TempDir(), "apps", "--json", "--metro-url", server.URL())
	require.NoError(t, err)

	var targets []domain.Target
	require.NoError(t, json.Unmarshal([]byte(stdout), &targets))
	require.Len(t, targets, 1)
	assert.Equal(t, domain.TargetID("myapp-1"), targets[0].ID)
	assert.Equal(t, server.Endpoint("myapp-1"), targets[0].Endpoint)
}

func TestTargetsWithNoAppsFails(t *testing.T) {
	server := inspectortest.NewServer(t)

	stdout, _, err := executeCLI(t, t.TempDir(), "targets", "--json", "--metro-url", server.URL())
	require.Error(t, err)
	assert.Equal(t, exitNoTarget, ExitCode(err))
	assert.JSONEq(t, "[]", stdout)
	assert.Contains(t, err.Error(), server.URL())
}

func TestExecPrintsValue(t *testing.T) {
	server := newEvalServer(t, myApp)

	stdout, _, err := executeCLI(t, t.TempDir(), "exec", "1+1", "--metro-url", server.URL())
	require.NoError(t, err)
	assert.Equal(t, "2\n", stdout)
}

func TestExecReadsExpressionFromStdin(t *testing.T) {
	server := newEvalServer(t, myApp)

	stdout, _, err := executeCLIWithInput(t, t.TempDir(), "  1+1\n", "exec", "--metro-url", server.URL())
	require.NoError(t, err)
	assert.Equal(t, "2\n", stdout)
}

func TestExecRejectsEmptyExpression(t *testing.T) {
	_, _, err := executeCLIWithInput(t, t.TempDir(), "\n", "exec", "--metro-url", "http://127.0.0.1:1")
	require.Error(t, err)
	assert.ErrorIs(t, err, application.ErrEmptyExpression)
	assert.Equal(t, exitFailure, ExitCode(err))
}

func TestExecJSONOutput(t *testing.T) {
	server := newEvalServer(t, myApp)

	stdout, _, err := executeCLI(t, t.TempDir(), "exec", "1+1", "--json", "--metro-url", server.URL())
	require.NoError(t, err)
	assert.JSONEq(t, `{"success": true, "outcome": "success", "output": "2", "type": "number"}`, stdout)
}

func TestExecExceptionFails(t *testing.T) {
	server := newEvalServer(t, myApp)

	stdout, _, err := executeCLI(t, t.TempDir(), "exec", "missingFn()", "--json", "--metro-url", server.URL())
	require.Error(t, err)
	assert.Equal(t, exitFailure, ExitCode(err))

	var remote *domain.RemoteException
	require.ErrorAs(t, err, &remote)
	assert.Contains(t, remote.Description, "missingFn")

	var output map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &output))
	assert.Equal(t, false, output["success"])
	assert.Equal(t, "exception", output["outcome"])
}

func TestExecTimeoutFails(t *testing.T) {
	server := inspectortest.NewServer(t, myApp)
	server.Handle(protocol.MethodRuntimeEvaluate, func(*inspectortest.Conn, inspectortest.Request) {})

	_, _, err := executeCLI(t, t.TempDir(), "exec", "new Promise(() => {})", "-t", "100ms", "--metro-url", server.URL())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTimeout)
	assert.Equal(t, "timed out waiting for the app after 100ms", err.Error())
	assert.Equal(t, exitFailure, ExitCode(err))
}

func TestOutcomeErrorKeepsAppliedBudget(t *testing.T) {
	// -t 0 falls back to the evaluator's default budget.
	err := outcomeError(domain.EvalResult{
		Outcome:   domain.EvalTimeout,
		Exception: "timed out waiting for the app after 10s",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTimeout)
	assert.Equal(t, "timed out waiting for the app after 10s", err.Error())

	err = outcomeError(domain.EvalResult{Outcome: domain.EvalException, Exception: "TypeError: x is undefined"})
	var remote *domain.RemoteException
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "TypeError: x is undefined", remote.Description)

	assert.NoError(t, outcomeError(domain.EvalResult{Outcome: domain.EvalSuccess, Value: "1"}))
}

func TestExecTargetSelectionExitCodes(t *testing.T) {
	other := inspectortest.App{ID: "other-2", Title: "Other"}

	tests := []struct {
		name string
		apps []inspectortest.App
		args []string
		code int
	}{
		{name: "ambiguous", apps: []inspectortest.App{myApp, other}, code: exitAmbiguous},
		{name: "not found", apps: []inspectortest.App{myApp}, args: []string{"--app-id", "zzz"}, code: exitNotFound},
		{name: "explicit id among many", apps: []inspectortest.App{myApp, other}, args: []string{"--app-id", "myapp-1"}, code: exitOK},
		{name: "title among many", apps: []inspectortest.App{myApp, other}, args: []string{"--app-id", "myapp"}, code: exitOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newEvalServer(t, tt.apps...)

			args := append([]string{"exec", "1+1", "--metro-url", server.URL()}, tt.args...)
			_, _, err := executeCLI(t, t.TempDir(), args...)
			assert.Equal(t, tt.code, ExitCode(err), "error: %v", err)
		})
	}
}

func TestExecUnreachableMetroIsDiscoveryFailure(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "exec", "1+1", "--metro-url", "http://127.0.0.1:1")
	require.Error(t, err)
	assert.Equal(t, exitDiscovery, ExitCode(err))
	assert.Contains(t, err.Error(), "is Metro running?")
}

func TestLogsHumanOutput(t *testing.T) {
	server := inspectortest.NewServer(t, myApp)
	server.OnEnable(func(conn *inspectortest.Conn) {
		_ = conn.Emit(protocol.EventConsoleAPICalled, inspectortest.Console("log", "app started"))
		warn := inspectortest.WithStack(inspectortest.Console("warning", "low battery"), "checkBattery", "App.tsx", 9, 2)
		_ = conn.Emit(protocol.EventConsoleAPICalled, warn)
	})

	stdout, _, err := executeCLI(t, t.TempDir(), "logs", "-n", "2", "-t", "2s", "--metro-url", server.URL())
	require.NoError(t, err)
	assert.Equal(t, "app started\nWARNING: low battery\n  at checkBattery (App.tsx:10)\n", stdout)
}

func TestLogsFilterAndJSON(t *testing.T) {
	server := inspectortest.NewServer(t, myApp)
	server.OnEnable(func(conn *inspectortest.Conn) {
		for i := range 4 {
			_ = conn.Emit(protocol.EventConsoleAPICalled, inspectortest.Console("log", fmt.Sprintf("tick %d", i)))
			_ = conn.Emit(protocol.EventConsoleAPICalled, inspectortest.Console("error", fmt.Sprintf("[net] failure %d", i)))
		}
	})

	stdout, _, err := executeCLI(t, t.TempDir(), "logs", "--filter", `^\[net\]`, "--max-logs", "2", "--json", "--metro-url", server.URL())
	require.NoError(t, err)

	var entries []domain.LogEntry
	require.NoError(t, json.Unmarshal([]byte(stdout), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, domain.LogLevelError, entries[0].Level)
	assert.Equal(t, "[net] failure 0", entries[0].Message)
	assert.Equal(t, "[net] failure 1", entries[1].Message)
}

func TestLogsWithNothingReceived(t *testing.T) {
	server := inspectortest.NewServer(t, myApp)

	stdout, _, err := executeCLI(t, t.TempDir(), "logs", "-t", "100ms", "--metro-url", server.URL())
	require.NoError(t, err)
	assert.Equal(t, "No logs received.\n", stdout)
}

func TestLogsRejectsInvalidFilter(t *testing.T) {
	server := inspectortest.NewServer(t, myApp)

	_, _, err := executeCLI(t, t.TempDir(), "logs", "--filter", "(", "--metro-url", server.URL())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log filter")
}

func TestConfigPrintsEffectiveSettings(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeConfigFixture(home, "metro_url = \"http://from-file:8081\"\n\n[logs]\nmax_logs = 7\n"))
	t.Setenv("RNB_EXEC_TIMEOUT", "42s")

	stdout, _, err := executeCLI(t, home, "config")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# loaded from "+filepath.Join(home, ".config", "rnb", "config.toml"))
	assert.Contains(t, stdout, "metro_url = 'http://from-file:8081'")
	assert.Contains(t, stdout, "max_logs = 7")
	assert.Contains(t, stdout, "timeout = '42s'")
}

func TestConfigFlagOverridesFile(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeConfigFixture(home, "metro_url = \"http://from-file:8081\"\n"))

	stdout, _, err := executeCLI(t, home, "config", "--metro-url", "http://from-flag:8081")
	require.NoError(t, err)
	assert.Contains(t, stdout, "metro_url = 'http://from-flag:8081'")
}

func TestVersionIgnoresBrokenConfig(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeConfigFixture(home, "metro_url = \n"))

	stdout, _, err := executeCLI(t, home, "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitOK, ExitCode(nil))
	assert.Equal(t, exitFailure, ExitCode(errors.New("boom")))
	assert.Equal(t, exitNoTarget, ExitCode(fmt.Errorf("resolve: %w", &domain.NoTargetError{})))
	assert.Equal(t, exitAmbiguous, ExitCode(&domain.AmbiguousTargetError{}))
	assert.Equal(t, exitNotFound, ExitCode(&domain.NotFoundError{ID: "x"}))
	assert.Equal(t, exitDiscovery, ExitCode(&domain.DiscoveryError{URL: "http://localhost:8081/json", Err: errors.New("refused")}))
	assert.Equal(t, exitFailure, ExitCode(&domain.ConnectionError{Endpoint: "ws://x", Err: domain.ErrDisconnected}))
}

func newEvalServer(t *testing.T, apps ...inspectortest.App) *inspectortest.Server {
	t.Helper()

	server := inspectortest.NewServer(t, apps...)
	server.Handle(protocol.MethodRuntimeEvaluate, func(conn *inspectortest.Conn, req inspectortest.Request) {
		params, err := inspectortest.DecodeParams[protocol.EvaluateParams](req)
		if err != nil {
			_ = conn.ReplyError(req.ID, -32602, err.Error())
			return
		}
		switch params.Expression {
		case "1+1":
			_ = conn.Reply(req.ID, inspectortest.Value(2))
		default:
			_ = conn.Reply(req.ID, inspectortest.Thrown("ReferenceError: Property '"+strings.TrimSuffix(params.Expression, "()")+"' doesn't exist"))
		}
	})
	return server
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	return executeCLIWithInput(t, home, "", args...)
}

func executeCLIWithInput(t *testing.T, home, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeConfigFixture(home, content string) error {
	configDir := filepath.Join(home, ".config", "rnb")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(content), 0o644)
}
