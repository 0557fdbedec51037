package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/quadpde/quadpde/internal/cli"
	"github.com/quadpde/quadpde/internal/cli/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	config.ResetConfig()

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestBundledExamplesBuildCleanly(t *testing.T) {
	dir, err := filepath.Abs(filepath.Join("..", "..", "examples"))
	require.NoError(t, err)

	out, err := run(t, "check", "--strict", "--examples-dir", dir, "-o", "json")
	require.NoError(t, err)

	var report struct {
		Examples    []string `json:"examples"`
		Diagnostics []any    `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, []string{"exp_decay", "heat_pde", "lotka_volterra", "pendulum", "riccati"}, report.Examples)
	assert.Empty(t, report.Diagnostics)
}

func TestBundledExampleDetail(t *testing.T) {
	dir, err := filepath.Abs(filepath.Join("..", "..", "examples"))
	require.NoError(t, err)

	out, err := run(t, "show", "lotka_volterra", "--examples-dir", dir, "-o", "json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Lotka Volterra", got["name"])
	assert.Equal(t, "x, y", got["funcs"])
	assert.Len(t, got["equations"], 2)
}

func TestVersionAndHelp(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "quadpde v"+cli.Version)

	out, err = run(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "quadratize")
}
