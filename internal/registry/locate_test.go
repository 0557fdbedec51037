package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocator_Resolve(t *testing.T) {
	root := t.TempDir()
	pkg := filepath.Join(root, "pkg")
	bin := filepath.Join(root, "bin")
	override := filepath.Join(root, "custom")
	for _, d := range []string{filepath.Join(pkg, ExamplesDirName), filepath.Join(bin, ExamplesDirName), override} {
		require.NoError(t, os.MkdirAll(d, 0o755))
	}
	exe := func() (string, error) { return filepath.Join(bin, "quadpde"), nil }

	tests := []struct {
		name    string
		locator Locator
		want    string
		wantErr bool
	}{
		{
			name:    "override wins",
			locator: Locator{Override: override, PackageDir: pkg, Executable: exe},
			want:    override,
		},
		{
			name:    "missing override does not fall through",
			locator: Locator{Override: filepath.Join(root, "nope"), PackageDir: pkg, Executable: exe},
			wantErr: true,
		},
		{
			name:    "package dir before executable dir",
			locator: Locator{PackageDir: pkg, Executable: exe},
			want:    filepath.Join(pkg, ExamplesDirName),
		},
		{
			name:    "executable dir fallback",
			locator: Locator{PackageDir: filepath.Join(root, "empty"), Executable: exe},
			want:    filepath.Join(bin, ExamplesDirName),
		},
		{
			name: "nothing exists",
			locator: Locator{Executable: func() (string, error) {
				return "", errors.New("no executable")
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.locator.Resolve()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrDirectoryNotFound))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocator_Candidates(t *testing.T) {
	l := Locator{PackageDir: "/opt/quadpde", Executable: func() (string, error) { return "/usr/local/bin/quadpde", nil }}
	assert.Equal(t, []string{"/opt/quadpde/examples", "/usr/local/bin/examples"}, l.Candidates())
}
