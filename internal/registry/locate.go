package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quadpde/quadpde/internal/source"
)

// ExamplesDirName is the directory searched for under the package and executable directories.
const ExamplesDirName = "examples"

// Locator decides which directory holds the definition files.
type Locator struct {
	// Override, when set, is the only candidate.
	Override string
	// PackageDir contributes <PackageDir>/examples.
	PackageDir string
	// Executable returns the running binary's path. Defaults to os.Executable.
	Executable func() (string, error)
}

// Candidates returns the directories Resolve considers, in order.
func (l Locator) Candidates() []string {
	if l.Override != "" {
		return []string{l.Override}
	}
	var out []string
	if l.PackageDir != "" {
		out = append(out, filepath.Join(l.PackageDir, ExamplesDirName))
	}
	exe := l.Executable
	if exe == nil {
		exe = os.Executable
	}
	if path, err := exe(); err == nil && path != "" {
		out = append(out, filepath.Join(filepath.Dir(path), ExamplesDirName))
	}
	return out
}

// Resolve returns the absolute path of the first candidate that is an existing directory.
// When none is, the error matches ErrDirectoryNotFound.
func (l Locator) Resolve() (string, error) {
	candidates := l.Candidates()
	for _, c := range candidates {
		abs, err := filepath.Abs(c)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	if len(candidates) == 0 {
		return "", &source.DirectoryNotFoundError{Path: "(none)", Err: fmt.Errorf("no examples directory configured")}
	}
	return "", &source.DirectoryNotFoundError{
		Path: strings.Join(candidates, ", "),
		Err:  fmt.Errorf("set examples_dir or create one of these directories"),
	}
}
