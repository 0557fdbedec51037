package starlark

import (
	"log/slog"

	"go.starlark.net/starlark"
)

// DefaultMaxSteps bounds execution of a single definition file.
const DefaultMaxSteps uint64 = 10_000_000

// NewThread creates a thread for executing one file. print() output goes to logger at
// debug level, tagged with the thread name. A zero maxSteps means DefaultMaxSteps.
func NewThread(name string, logger *slog.Logger, maxSteps uint64) *starlark.Thread {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if maxSteps == 0 {
		maxSteps = DefaultMaxSteps
	}
	thread := &starlark.Thread{
		Name: name,
		Print: func(t *starlark.Thread, msg string) {
			logger.Debug("starlark print", "module", t.Name, "msg", msg)
		},
		Load: func(_ *starlark.Thread, module string) (starlark.StringDict, error) {
			return nil, &LoadDisabledError{Module: module}
		},
	}
	thread.SetMaxExecutionSteps(maxSteps)
	return thread
}

// LoadDisabledError is returned when a definition file calls load().
type LoadDisabledError struct {
	Module string
}

func (e *LoadDisabledError) Error() string {
	return "load(" + e.Module + "): loading other modules is not supported"
}
