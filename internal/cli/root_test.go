package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/quadpde/quadpde/internal/cli/config"
	"github.com/quadpde/quadpde/internal/cli/output"
	"github.com/quadpde/quadpde/internal/registry"
	"github.com/quadpde/quadpde/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()
	t.Chdir(t.TempDir())

	cmd := NewRootCmd()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCmd_Help(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)
	for _, sub := range []string{"init", "list", "show", "check", "serve", "export", "query", "version", "completion"} {
		assert.Contains(t, out, sub)
	}
}

func TestRootCmd_Version(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "quadpde v"+Version)
}

func TestRootCmd_ListWithFlags(t *testing.T) {
	dir := testutil.ExamplesDir(t, map[string]string{"riccati.star": testutil.Logistic})

	out, _, err := execute(t, "list", "--examples-dir", dir, "-o", "json")
	require.NoError(t, err)

	var got []registry.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "riccati", got[0].ID)
}

func TestRootCmd_ConfigFile(t *testing.T) {
	root := t.TempDir()
	defs := filepath.Join(root, "defs")
	testutil.WriteExample(t, defs, "lotka.star", testutil.Logistic)
	cfgPath := testutil.WriteExample(t, root, "quadpde.yaml", "examples_dir: defs\noutput: json\n")

	out, _, err := execute(t, "--config", cfgPath, "show", "lotka")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "lotka", got["id"])
	assert.Equal(t, "Lotka", got["name"])
}

func TestRootCmd_VerboseLogsToStderr(t *testing.T) {
	dir := testutil.ExamplesDir(t, map[string]string{"riccati.star": testutil.Logistic})

	out, errOut, err := execute(t, "check", "--examples-dir", dir, "-o", "json", "-v")
	require.NoError(t, err)
	assert.Contains(t, errOut, "examples registry built")
	assert.NotContains(t, out, "examples registry built")
}

func TestRootCmd_Errors(t *testing.T) {
	t.Run("invalid output", func(t *testing.T) {
		_, _, err := execute(t, "list", "-o", "html")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid output format")
	})

	t.Run("missing examples directory", func(t *testing.T) {
		_, _, err := execute(t, "list", "--examples-dir", filepath.Join(t.TempDir(), "nope"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, registry.ErrDirectoryNotFound))
	})

	t.Run("unknown command", func(t *testing.T) {
		_, _, err := execute(t, "frobnicate")
		assert.Error(t, err)
	})
}

func TestRootCmd_ExportThenQuery(t *testing.T) {
	dir := testutil.ExamplesDir(t, map[string]string{"riccati.star": testutil.Logistic})
	db := filepath.Join(t.TempDir(), "catalog.db")

	_, _, err := execute(t, "export", "--examples-dir", dir, "--db", db, "-o", "json")
	require.NoError(t, err)

	out, _, err := execute(t, "query", "--db", db, "-o", "json", "SELECT id, funcs FROM v_examples")
	require.NoError(t, err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Equal(t, []map[string]any{{"id": "riccati", "funcs": "x"}}, rows)

	out, _, err = execute(t, "query", "tables", "--db", db, "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "v_examples,view")
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, _, err := execute(t, "completion", shell)
			require.NoError(t, err)
			assert.Contains(t, out, "quadpde")
		})
	}
}

func TestContextAccessorsDefaults(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, config.Default(), GetConfig(ctx))
	assert.Equal(t, output.ModeAuto, GetRenderer(ctx).Mode())
}

func TestNewLogger(t *testing.T) {
	buf := new(bytes.Buffer)
	NewLogger(buf, false).Info("hidden")
	NewLogger(buf, false).Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	NewLogger(buf, true).Debug("detail")
	assert.Contains(t, buf.String(), "detail")
}
