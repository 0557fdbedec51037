package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/quadpde/quadpde/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan(t *testing.T) {
	dir := testutil.ExamplesDir(t, map[string]string{
		"b.star":        "x = 1\n",
		"a.star":        "y = 2\n",
		"_helper.star":  "z = 3\n",
		".hidden.star":  "w = 4\n",
		"notes.txt":     "not a definition",
		"bad.star":      "def broken(:\n    return 1\n",
		"guarded.star":  "if __name__ == \"__main__\":\n    quadratize([])\n",
		"counting.star": "n = 0\nfor i in range(3):\n    n += i\n",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.star"), 0o755))

	files, failures, err := Scan(dir, nil)
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, f.Name)
		assert.True(t, filepath.IsAbs(f.Path), "path %s should be absolute", f.Path)
		assert.NotNil(t, f.Syntax)
	}
	assert.Equal(t, []string{"a.star", "b.star", "counting.star", "guarded.star"}, names)

	require.Len(t, failures, 1)
	assert.Equal(t, "bad.star", filepath.Base(failures[0].Path))
	var perr *ParseError
	assert.ErrorAs(t, failures[0].Err, &perr)
}

func TestScan_Extensions(t *testing.T) {
	dir := testutil.ExamplesDir(t, map[string]string{
		"a.star": "x = 1\n",
		"b.sky":  "x = 1\n",
	})

	files, _, err := Scan(dir, []string{"sky"})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "b", files[0].Stem)

	files, _, err = Scan(dir, []string{".star", ".sky"})
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestScan_DirectoryNotFound(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{
			name: "missing",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope") },
		},
		{
			name: "regular file",
			path: func(t *testing.T) string {
				return testutil.WriteExample(t, t.TempDir(), "examples", "x = 1")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Scan(tt.path(t), nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDirectoryNotFound))

			var dnf *DirectoryNotFoundError
			assert.ErrorAs(t, err, &dnf)
		})
	}
}

func TestParse_Doc(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "docstring",
			content: "\"\"\"\n  Duffing oscillator.\n\"\"\"\nx = 1\n",
			want:    "Duffing oscillator.",
		},
		{
			name:    "leading comments",
			content: "# Van der Pol oscillator\n# with damping mu.\nx = 1\n",
			want:    "Van der Pol oscillator\nwith damping mu.",
		},
		{
			name:    "first comment block only",
			content: "# Title\n\n# unrelated\nx = 1\n",
			want:    "Title",
		},
		{
			name:    "shebang skipped",
			content: "#!/usr/bin/env starlark\n# Heat equation\nx = 1\n",
			want:    "Heat equation",
		},
		{
			name:    "no documentation",
			content: "x = 1\n# trailing\n",
			want:    "",
		},
		{
			name:    "empty file",
			content: "",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse("/tmp/doc.star", []byte(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Doc)
			assert.Equal(t, "doc", f.Stem)
		})
	}
}
