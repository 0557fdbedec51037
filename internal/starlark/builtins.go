package starlark

import (
	"fmt"
	"sort"

	"github.com/quadpde/quadpde/internal/symbolic"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// ModuleName is the global under which the engine is exposed to definition files.
const ModuleName = "sp"

// Module returns a fresh "sp" module. Members mirror the engine constructors:
//
//	t = sp.Symbol("t")
//	x = sp.Function("x")(t)
//	rhs = x * x + 1
//	d = sp.Derivative(x, t)
func Module() *starlarkstruct.Module {
	members := starlark.StringDict{
		"Symbol":     starlark.NewBuiltin("Symbol", spSymbol),
		"symbols":    starlark.NewBuiltin("symbols", spSymbols),
		"Function":   starlark.NewBuiltin("Function", spFunction),
		"Integer":    starlark.NewBuiltin("Integer", spInteger),
		"Rational":   starlark.NewBuiltin("Rational", spRational),
		"Pow":        starlark.NewBuiltin("Pow", spPow),
		"Derivative": starlark.NewBuiltin("Derivative", spDerivative),
		"diff":       starlark.NewBuiltin("diff", spDiff),
		"Eq":         starlark.NewBuiltin("Eq", spEq),
		"sympify":    starlark.NewBuiltin("sympify", spSympify),
		"latex":      starlark.NewBuiltin("latex", spLatex),
		"sstr":       starlark.NewBuiltin("sstr", spSstr),
		"pi":         NewExpr(symbolic.Pi),
		"E":          NewExpr(symbolic.E),
	}
	for _, name := range []string{"sin", "cos", "tan", "exp", "log", "sqrt", "sinh", "cosh", "tanh"} {
		members[name] = elementary(name)
	}
	return &starlarkstruct.Module{Name: ModuleName, Members: members}
}

// MemberNames lists the module members in sorted order.
func MemberNames() []string {
	m := Module()
	names := make([]string, 0, len(m.Members))
	for name := range m.Members {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func spSymbol(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &name); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%s: empty name", b.Name())
	}
	return NewExpr(symbolic.NewSymbol(name)), nil
}

// spSymbols returns one symbol for a single name and a tuple otherwise.
func spSymbols(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var spec string
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &spec); err != nil {
		return nil, err
	}
	syms := symbolic.Symbols(spec)
	switch len(syms) {
	case 0:
		return nil, fmt.Errorf("%s: no names in %q", b.Name(), spec)
	case 1:
		return NewExpr(syms[0]), nil
	}
	out := make(starlark.Tuple, len(syms))
	for i, s := range syms {
		out[i] = NewExpr(s)
	}
	return out, nil
}

func spFunction(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &name); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%s: empty name", b.Name())
	}
	return &FunctionValue{Func: symbolic.NewFunction(name)}, nil
}

func spInteger(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var v starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &v); err != nil {
		return nil, err
	}
	n, err := bigIntOf(b.Name(), v)
	if err != nil {
		return nil, err
	}
	return NewExpr(symbolic.BigInt(n)), nil
}

func spRational(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var pv, qv starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &pv, &qv); err != nil {
		return nil, err
	}
	p, err := bigIntOf(b.Name(), pv)
	if err != nil {
		return nil, err
	}
	q, err := bigIntOf(b.Name(), qv)
	if err != nil {
		return nil, err
	}
	if q.Sign() == 0 {
		return nil, &symbolic.DomainError{Op: b.Name(), Message: "division by zero"}
	}
	return NewExpr(symbolic.Div(symbolic.BigInt(p), symbolic.BigInt(q))), nil
}

func spPow(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var base, exp starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &base, &exp); err != nil {
		return nil, err
	}
	exprs, err := toExprs(b.Name(), starlark.Tuple{base, exp})
	if err != nil {
		return nil, err
	}
	return NewExpr(symbolic.NewPow(exprs[0], exprs[1])), nil
}

func spDerivative(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	e, vars, err := derivativeArgs(b, args, kwargs)
	if err != nil {
		return nil, err
	}
	return NewExpr(symbolic.NewDerivative(e, vars...)), nil
}

func spDiff(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	e, vars, err := derivativeArgs(b, args, kwargs)
	if err != nil {
		return nil, err
	}
	for _, v := range vars {
		e = symbolic.Diff(e, v)
	}
	return NewExpr(e), nil
}

func derivativeArgs(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (symbolic.Expr, []*symbolic.Symbol, error) {
	if len(kwargs) > 0 {
		return nil, nil, fmt.Errorf("%s: unexpected keyword arguments", b.Name())
	}
	if len(args) < 2 {
		return nil, nil, fmt.Errorf("%s: needs an expression and at least one variable", b.Name())
	}
	e, err := ToExpr(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	vars, err := derivativeVars(b.Name(), args[1:])
	if err != nil {
		return nil, nil, err
	}
	return e, vars, nil
}

func spEq(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var lhs, rhs starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &lhs, &rhs); err != nil {
		return nil, err
	}
	exprs, err := toExprs(b.Name(), starlark.Tuple{lhs, rhs})
	if err != nil {
		return nil, err
	}
	return &EquationValue{Eq: symbolic.Eq(exprs[0], exprs[1])}, nil
}

// spSympify parses expression text. Names bound in the optional locals dict to Expr or
// Function values are used in place of fresh symbols.
func spSympify(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var src starlark.Value
	var locals *starlark.Dict
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "a", &src, "locals?", &locals); err != nil {
		return nil, err
	}
	s, ok := src.(starlark.String)
	if !ok {
		e, err := ToExpr(src)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}
		return NewExpr(e), nil
	}

	ns := symbolic.Namespace{}
	if locals != nil {
		for _, item := range locals.Items() {
			key, ok := item[0].(starlark.String)
			if !ok {
				return nil, fmt.Errorf("%s: locals key must be string, got %s", b.Name(), item[0].Type())
			}
			switch v := item[1].(type) {
			case *FunctionValue:
				ns[string(key)] = v.Func
			default:
				e, err := ToExpr(v)
				if err != nil {
					return nil, fmt.Errorf("%s: locals[%q]: %w", b.Name(), key, err)
				}
				ns[string(key)] = e
			}
		}
	}
	e, err := symbolic.Parse(string(s), ns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	return NewExpr(e), nil
}

func spLatex(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var v starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &v); err != nil {
		return nil, err
	}
	if eq, ok := v.(*EquationValue); ok {
		return starlark.String(eq.Eq.LaTeX()), nil
	}
	e, err := ToExpr(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	return starlark.String(e.LaTeX()), nil
}

func spSstr(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var v starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &v); err != nil {
		return nil, err
	}
	if eq, ok := v.(*EquationValue); ok {
		return starlark.String(eq.Eq.String()), nil
	}
	e, err := ToExpr(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	return starlark.String(e.String()), nil
}

func elementary(name string) *starlark.Builtin {
	return starlark.NewBuiltin(name, func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var v starlark.Value
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &v); err != nil {
			return nil, err
		}
		arg, err := ToExpr(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}
		e, err := symbolic.ApplyElementary(name, arg)
		if err != nil {
			return nil, err
		}
		return NewExpr(e), nil
	})
}
