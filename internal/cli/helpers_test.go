package cli_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rshade/ecopulse/internal/cli"
	"github.com/rshade/ecopulse/internal/config"
	"github.com/rshade/ecopulse/internal/engine"
)

// setupCLITest isolates a test in a fresh ECOPULSE_HOME and working
// directory and returns the home directory.
func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("ECOPULSE_HOME", home)
	t.Setenv("ECOPULSE_LOG_LEVEL", "error")
	t.Setenv(config.DSNEnvVar, "")
	t.Chdir(t.TempDir())
	t.Cleanup(config.ResetGlobalConfigForTest)
	return home
}

// cliResult is the captured output of one invocation.
type cliResult struct {
	stdout string
	stderr string
}

// executeCLI runs the root command with args and an empty stdin.
func executeCLI(t *testing.T, args ...string) (cliResult, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	config.ResetGlobalConfigForTest()
	return cliResult{stdout: stdout.String(), stderr: stderr.String()}, err
}

// mustExecute runs args and fails the test on error.
func mustExecute(t *testing.T, args ...string) cliResult {
	t.Helper()
	res, err := executeCLI(t, args...)
	require.NoError(t, err, "ecopulse %s\nstderr: %s", strings.Join(args, " "), res.stderr)
	return res
}

// logToday logs an activity dated today and returns it.
func logToday(t *testing.T, category, subcategory, quantity string) engine.Activity {
	t.Helper()
	res := mustExecute(t, "log", category, subcategory, quantity, "--date", today(), "-o", "json")
	var act engine.Activity
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &act))
	return act
}

func today() string {
	return time.Now().Format(engine.DayKeyLayout)
}

// decodeJSON unmarshals out into a T.
func decodeJSON[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}
