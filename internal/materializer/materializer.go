// Package materializer executes example definition files to resolve the names they bind.
// Each file runs in its own thread with its own predeclared globals; nothing is shared
// between files.
package materializer

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode"

	starctx "github.com/quadpde/quadpde/internal/starlark"
	"go.starlark.net/starlark"
)

// ModulePrefix is prepended to a file's stem to form its module name.
const ModulePrefix = "example_"

// Config configures a Materializer.
type Config struct {
	Logger *slog.Logger
	// MaxSteps bounds execution of each file. Zero means starctx.DefaultMaxSteps.
	MaxSteps uint64
}

// Materializer executes definition files.
type Materializer struct {
	logger   *slog.Logger
	maxSteps uint64
}

// New creates a Materializer.
func New(cfg Config) *Materializer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	maxSteps := cfg.MaxSteps
	if maxSteps == 0 {
		maxSteps = starctx.DefaultMaxSteps
	}
	return &Materializer{logger: logger, maxSteps: maxSteps}
}

// Materialize executes src as the file at path and returns its global bindings.
// The marker call is inert during execution and __name__ is the file's module name,
// so a `if __name__ == "__main__":` block does not run.
func (m *Materializer) Materialize(path string, src []byte) (starlark.StringDict, error) {
	base := filepath.Base(path)
	module := ModuleName(strings.TrimSuffix(base, filepath.Ext(base)))

	predeclared, err := starctx.NewEnvironment(module).Predeclared()
	if err != nil {
		return nil, &ExecError{File: path, Module: module, Err: err}
	}
	thread := starctx.NewThread(module, m.logger, m.maxSteps)

	globals, err := starlark.ExecFileOptions(starctx.FileOptions(), thread, path, src, predeclared)
	if err != nil {
		execErr := &ExecError{File: path, Module: module, Err: err}
		m.logger.Debug("definition file failed", "module", module, "steps", thread.ExecutionSteps(), "trace", execErr.Backtrace())
		return nil, execErr
	}
	m.logger.Debug("materialized definition file", "module", module, "globals", len(globals), "steps", thread.ExecutionSteps())
	return globals, nil
}

// ModuleName returns "example_" + stem with every rune that is not a letter or digit
// replaced by "_".
func ModuleName(stem string) string {
	var b strings.Builder
	b.WriteString(ModulePrefix)
	for _, r := range stem {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// ExecError reports a definition file that failed to execute.
type ExecError struct {
	File   string
	Module string
	Err    error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("execute %s (%s): %v", filepath.Base(e.File), e.Module, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// Backtrace returns the Starlark call stack for evaluation errors, else the error text.
func (e *ExecError) Backtrace() string {
	var evalErr *starlark.EvalError
	if errors.As(e.Err, &evalErr) {
		return evalErr.Backtrace()
	}
	return e.Err.Error()
}
