// Package synth turns a marker call site and the bindings of its executed file into equations.
package synth

import (
	"fmt"
	"strings"

	"github.com/quadpde/quadpde/internal/source"
	starctx "github.com/quadpde/quadpde/internal/starlark"
	"github.com/quadpde/quadpde/internal/symbolic"
	"go.starlark.net/starlark"
)

// Pair is a resolved (function, right-hand side) entry. Values are the ones bound by the
// executed file, not copies.
type Pair struct {
	Func *symbolic.Applied
	Expr symbolic.Expr
}

// Result holds the equations of one example, parallel to Pairs.
type Result struct {
	Pairs []Pair
	// Var is the differentiation variable.
	Var       *symbolic.Symbol
	Equations []*symbolic.Equation
	// Canonical holds each equation as "lhs = rhs".
	Canonical []string
	Latex     []string
	// Vars lists the arguments of the first function, joined by ", ".
	Vars string
	// Funcs lists distinct function names in first-seen order, joined by ", ".
	Funcs string
}

// Synthesize resolves site's name pairs against bindings and builds d(f)/d(var) = expr for
// each. A pair whose function name is not bound to an applied undefined function over
// symbols, or whose expression name is not bound to an expression, is dropped and the
// reason returned. With no surviving pairs the result is nil.
func Synthesize(site source.CallSite, bindings starlark.StringDict) (*Result, []string) {
	var pairs []Pair
	var dropped []string
	for _, np := range site.Pairs {
		p, err := resolve(np, bindings)
		if err != nil {
			dropped = append(dropped, err.Error())
			continue
		}
		pairs = append(pairs, p)
	}
	if len(pairs) == 0 {
		return nil, dropped
	}

	args, _ := pairs[0].Func.Symbols()
	v := args[0]
	for _, a := range args {
		if a.Name() == site.FirstIndep {
			v = a
			break
		}
	}

	res := &Result{
		Pairs:     pairs,
		Var:       v,
		Equations: make([]*symbolic.Equation, len(pairs)),
		Canonical: make([]string, len(pairs)),
		Latex:     make([]string, len(pairs)),
	}
	for i, p := range pairs {
		eq := symbolic.Eq(symbolic.NewDerivative(p.Func, v), p.Expr)
		res.Equations[i] = eq
		res.Canonical[i] = eq.String()
		res.Latex[i] = eq.LaTeX()
	}

	names := make([]string, len(args))
	for i, a := range args {
		names[i] = a.Name()
	}
	res.Vars = strings.Join(names, ", ")

	seen := make(map[string]bool)
	var funcs []string
	for _, p := range pairs {
		if name := p.Func.Name(); !seen[name] {
			seen[name] = true
			funcs = append(funcs, name)
		}
	}
	res.Funcs = strings.Join(funcs, ", ")
	return res, dropped
}

func resolve(np source.NamePair, bindings starlark.StringDict) (Pair, error) {
	fv, ok := bindings[np.Func]
	if !ok {
		return Pair{}, fmt.Errorf("(%s, %s): %s is not defined", np.Func, np.Expr, np.Func)
	}
	fn, ok := starctx.AppliedOf(fv)
	if !ok {
		return Pair{}, fmt.Errorf("(%s, %s): %s is a %s, not an applied function", np.Func, np.Expr, np.Func, fv.Type())
	}
	if _, ok := fn.Symbols(); !ok || len(fn.Args()) == 0 {
		return Pair{}, fmt.Errorf("(%s, %s): %s must be applied to symbols", np.Func, np.Expr, fn.String())
	}

	ev, ok := bindings[np.Expr]
	if !ok {
		return Pair{}, fmt.Errorf("(%s, %s): %s is not defined", np.Func, np.Expr, np.Expr)
	}
	// Plain Starlark numbers are not engine expressions.
	expr, ok := ev.(*starctx.ExprValue)
	if !ok {
		return Pair{}, fmt.Errorf("(%s, %s): %s is a %s, not a symbolic expression", np.Func, np.Expr, np.Expr, ev.Type())
	}
	return Pair{Func: fn, Expr: expr.Expr}, nil
}
