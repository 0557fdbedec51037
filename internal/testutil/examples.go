package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// ExamplesDir creates <tmp>/examples populated with files (name -> content) and returns its path.
func ExamplesDir(t testing.TB, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "examples")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, content := range files {
		WriteExample(t, dir, name, content)
	}
	return dir
}

// WriteExample writes one file into dir, creating dir if needed, and returns its path.
func WriteExample(t testing.TB, dir, name, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// Logistic is a minimal valid definition: dx/dt = x**2 + 1.
const Logistic = `"""Riccati-type scalar ODE."""
t = sp.Symbol("t")
x = sp.Function("x")(t)
rhs = x * x + 1

quadratize([(x, rhs)], diff_ord = 3, first_indep = t)
`
