package starlark

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// MarkerName is the call that requests quadratization of an example's system.
const MarkerName = "quadratize"

// FileOptions is the dialect for definition files. Top-level if/for lets files guard
// the marker call with `if __name__ == "__main__":`.
func FileOptions() *syntax.FileOptions {
	return &syntax.FileOptions{
		Set:             true,
		While:           true,
		TopLevelControl: true,
		GlobalReassign:  true,
		Recursion:       true,
	}
}

// Environment holds the predeclared globals for executing one definition file.
// A new Environment must be built per file; values are never shared between files.
type Environment struct {
	// Module is bound to __name__.
	Module string

	// Marker is the builtin bound to MarkerName. Defaults to an inert builtin.
	Marker *starlark.Builtin

	// Extra globals layered over the defaults.
	Extra starlark.StringDict
}

// EnvOption configures an Environment.
type EnvOption func(*Environment)

// WithMarker replaces the marker builtin, e.g. to observe marker calls in tests.
func WithMarker(b *starlark.Builtin) EnvOption {
	return func(env *Environment) {
		env.Marker = b
	}
}

// WithGlobals adds extra predeclared globals.
func WithGlobals(globals starlark.StringDict) EnvOption {
	return func(env *Environment) {
		if env.Extra == nil {
			env.Extra = make(starlark.StringDict, len(globals))
		}
		for k, v := range globals {
			env.Extra[k] = v
		}
	}
}

// NewEnvironment creates the environment for the module called module.
func NewEnvironment(module string, opts ...EnvOption) *Environment {
	env := &Environment{Module: module}
	for _, opt := range opts {
		opt(env)
	}
	if env.Marker == nil {
		env.Marker = InertMarker()
	}
	return env
}

// Predeclared returns a fresh predeclared dict: the sp module, the marker and __name__.
// Extra globals may not shadow these.
func (env *Environment) Predeclared() (starlark.StringDict, error) {
	globals := starlark.StringDict{
		ModuleName: Module(),
		MarkerName: env.Marker,
		"__name__": starlark.String(env.Module),
	}
	for name, v := range env.Extra {
		if _, reserved := globals[name]; reserved {
			return nil, fmt.Errorf("global %q conflicts with builtin", name)
		}
		globals[name] = v
	}
	return globals, nil
}

// InertMarker returns a marker builtin that accepts any arguments and returns None.
// Execution resolves names only; the marker's arguments are read from the syntax tree.
func InertMarker() *starlark.Builtin {
	return starlark.NewBuiltin(MarkerName, func(_ *starlark.Thread, _ *starlark.Builtin, _ starlark.Tuple, _ []starlark.Tuple) (starlark.Value, error) {
		return starlark.None, nil
	})
}
