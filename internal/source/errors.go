package source

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ErrDirectoryNotFound is matched by errors.Is for every *DirectoryNotFoundError.
var ErrDirectoryNotFound = errors.New("examples directory not found")

// DirectoryNotFoundError reports an examples directory that does not exist or is not a directory.
type DirectoryNotFoundError struct {
	Path string
	Err  error
}

func (e *DirectoryNotFoundError) Error() string {
	return fmt.Sprintf("examples directory not found at %s: %v", e.Path, e.Err)
}

func (e *DirectoryNotFoundError) Unwrap() error { return e.Err }

func (e *DirectoryNotFoundError) Is(target error) bool { return target == ErrDirectoryNotFound }

// ParseError represents a definition file that could not be read or parsed.
type ParseError struct {
	File    string
	Message string
}

func (e *ParseError) Error() string {
	return "parse " + filepath.Base(e.File) + ": " + e.Message
}
