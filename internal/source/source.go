// Package source finds example definition files and reads their marker call statically.
// Nothing in this package executes a definition file; it only analyzes the syntax tree.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	starctx "github.com/quadpde/quadpde/internal/starlark"
	"go.starlark.net/syntax"
)

// DefaultExtensions are the definition file extensions scanned when none are configured.
var DefaultExtensions = []string{".star"}

// File is a parsed definition file.
type File struct {
	// Path is the absolute path to the file.
	Path string
	// Name is the base name, e.g. "heat_PDE.star".
	Name string
	// Stem is Name without its extension.
	Stem    string
	Content []byte
	Syntax  *syntax.File
	// Doc is the module docstring, else the leading comment block, else "".
	Doc string
}

// Failure records a file that could not be read or parsed.
type Failure struct {
	Path string
	Err  error
}

// Scan lists the definition files directly inside dir, sorted by name, and parses each one.
// Hidden files and files starting with "_" are skipped. A file that cannot be read or
// parsed is reported as a Failure and left out. A missing dir is a *DirectoryNotFoundError.
func Scan(dir string, exts []string) ([]*File, []Failure, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, nil, &DirectoryNotFoundError{Path: dir, Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, nil, &DirectoryNotFoundError{Path: abs, Err: err}
	}
	if !info.IsDir() {
		return nil, nil, &DirectoryNotFoundError{Path: abs, Err: fmt.Errorf("not a directory")}
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list examples directory: %w", err)
	}

	var files []*File
	var failures []Failure
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			continue
		}
		if !hasExtension(name, exts) {
			continue
		}
		path := filepath.Join(abs, name)
		if fi, err := os.Stat(path); err != nil || !fi.Mode().IsRegular() {
			continue
		}

		f, err := ParseFile(path)
		if err != nil {
			failures = append(failures, Failure{Path: path, Err: err})
			continue
		}
		files = append(files, f)
	}
	return files, failures, nil
}

// ParseFile reads and parses one definition file.
func ParseFile(path string) (*File, error) {
	content, err := os.ReadFile(path) //nolint:gosec // G304: path comes from listing the examples directory
	if err != nil {
		return nil, &ParseError{File: path, Message: fmt.Sprintf("failed to read file: %v", err)}
	}
	return Parse(path, content)
}

// Parse parses content as the definition file at path.
func Parse(path string, content []byte) (*File, error) {
	f, err := starctx.FileOptions().Parse(path, content, syntax.RetainComments)
	if err != nil {
		return nil, &ParseError{File: path, Message: err.Error()}
	}
	name := filepath.Base(path)
	return &File{
		Path:    path,
		Name:    name,
		Stem:    strings.TrimSuffix(name, filepath.Ext(name)),
		Content: content,
		Syntax:  f,
		Doc:     extractDoc(f),
	}, nil
}

func hasExtension(name string, exts []string) bool {
	ext := filepath.Ext(name)
	for _, want := range exts {
		if !strings.HasPrefix(want, ".") {
			want = "." + want
		}
		if ext == want {
			return true
		}
	}
	return false
}

// extractDoc returns the module docstring, or failing that the comment block that opens the file.
func extractDoc(f *syntax.File) string {
	if len(f.Stmts) == 0 {
		return ""
	}
	first := f.Stmts[0]

	if exprStmt, ok := first.(*syntax.ExprStmt); ok {
		if lit, ok := exprStmt.X.(*syntax.Literal); ok && lit.Token == syntax.STRING {
			if s, ok := lit.Value.(string); ok {
				return strings.TrimSpace(s)
			}
		}
	}

	comments := first.Comments()
	if comments == nil || len(comments.Before) == 0 {
		return ""
	}
	var lines []string
	prevLine := int32(-1)
	for _, c := range comments.Before {
		if prevLine >= 0 && c.Start.Line > prevLine+1 {
			// A blank line ends the opening block.
			break
		}
		prevLine = c.Start.Line
		if strings.HasPrefix(c.Text, "#!") {
			continue
		}
		text := strings.TrimPrefix(c.Text, "#")
		lines = append(lines, strings.TrimPrefix(text, " "))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
