package main

import (
	"os"
	"path/filepath"
	"testing"

	starctx "github.com/quadpde/quadpde/internal/starlark"
	"github.com/quadpde/quadpde/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleMembersDocumented(t *testing.T) {
	names := starctx.MemberNames()
	for _, name := range names {
		assert.Contains(t, moduleMembers, name, "sp.%s has no reference entry", name)
	}
	assert.Len(t, moduleMembers, len(names), "reference documents members that no longer exist")
}

func TestMarkdownWriter(t *testing.T) {
	w := NewMarkdownWriter()
	w.Frontmatter("Title", `Say "hi"`)
	w.GeneratedMarker()
	w.Header(2, "Section")
	w.Table([]string{"A"}, nil)
	w.Table([]string{"A", "B"}, [][]string{{"1", "x|y"}})
	w.CodeBlock("bash", "echo\n")

	want := "---\ntitle: \"Title\"\ndescription: \"Say \\\"hi\\\"\"\n---\n\n" +
		generatedHeader + "\n\n" +
		"## Section\n\n" +
		"| A | B |\n| --- | --- |\n| 1 | x\\|y |\n\n" +
		"```bash\necho\n```\n"
	assert.Equal(t, want, w.String())
}

func TestCleanDescription(t *testing.T) {
	tests := []struct{ in, want string }{
		{in: "Show one example.", want: "Show one example"},
		{in: "  first line\nsecond line", want: "first line"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanDescription(tt.in))
	}
}

func TestCleanExample(t *testing.T) {
	in := "  # Serve\n  quadpde serve\n\n    --addr x"
	assert.Equal(t, "# Serve\nquadpde serve\n\n  --addr x", cleanExample(in))
}

func TestGenerateCLIDocs(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, generateCLIDocs(out))

	index, err := os.ReadFile(filepath.Join(out, "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "[`check`](/cli/check)")
	assert.Contains(t, string(index), "QUADPDE_EXAMPLES_DIR")
	assert.Contains(t, string(index), "`--examples-dir`")
	assert.Contains(t, string(index), "## Configuration")
	assert.Contains(t, string(index), "`quadpde.yaml`")
	assert.Contains(t, string(index), "quadpde builds a catalog of ODE and PDE examples")

	list, err := os.ReadFile(filepath.Join(out, "list.md"))
	require.NoError(t, err)
	assert.Contains(t, string(list), "Aliases: `ls`")

	query, err := os.ReadFile(filepath.Join(out, "query.md"))
	require.NoError(t, err)
	assert.Contains(t, string(query), "quadpde query <subcommand> [flags]")
	assert.Contains(t, string(query), "`search`")

	page, err := os.ReadFile(filepath.Join(out, "serve.md"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "quadpde serve [flags]")
	assert.Contains(t, string(page), "`--addr`")
	assert.Contains(t, string(page), "`127.0.0.1:8000`")
}

func TestGenerateModuleDocs(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, generateModuleDocs(out))

	page, err := os.ReadFile(filepath.Join(out, "sp.md"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "`sp.Function(name)`")
	assert.NotContains(t, string(page), "unknown")
}

func TestGenerateCatalogDocs(t *testing.T) {
	dir := testutil.ExamplesDir(t, map[string]string{
		"riccati.star": testutil.Logistic,
		"broken.star":  "quadratize([(x, x)])\n",
	})
	out := t.TempDir()
	require.NoError(t, generateCatalogDocs(dir, out))

	index, err := os.ReadFile(filepath.Join(out, "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "| [Riccati](/examples/riccati) | x | t | 3 | Riccati-type scalar ODE |")
	assert.NoFileExists(t, filepath.Join(out, "broken.md"))

	page, err := os.ReadFile(filepath.Join(out, "riccati.md"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "```latex\n")
	assert.Contains(t, string(page), "**First independent variable:** `t`")
}

func TestGenerateCatalogDocs_MissingDir(t *testing.T) {
	assert.Error(t, generateCatalogDocs(filepath.Join(t.TempDir(), "none"), t.TempDir()))
}
