// Package starlark exposes the symbolic engine to example definition files.
package starlark

import (
	"fmt"
	"math/big"

	"github.com/quadpde/quadpde/internal/symbolic"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// ExprValue wraps a symbolic expression as a Starlark value.
// Arithmetic with +, -, * and / builds new expressions; ints and floats are promoted.
type ExprValue struct {
	Expr symbolic.Expr
}

var (
	_ starlark.Value      = (*ExprValue)(nil)
	_ starlark.HasBinary  = (*ExprValue)(nil)
	_ starlark.HasUnary   = (*ExprValue)(nil)
	_ starlark.HasAttrs   = (*ExprValue)(nil)
	_ starlark.Comparable = (*ExprValue)(nil)
)

// NewExpr wraps e.
func NewExpr(e symbolic.Expr) *ExprValue { return &ExprValue{Expr: e} }

func (v *ExprValue) String() string        { return v.Expr.String() }
func (v *ExprValue) Type() string          { return "Expr" }
func (v *ExprValue) Freeze()               {}
func (v *ExprValue) Truth() starlark.Bool  { return v.Expr.String() != "0" }
func (v *ExprValue) Hash() (uint32, error) { return starlark.String(v.Expr.String()).Hash() }

// Binary implements arithmetic. side reports whether v is the left or right operand.
func (v *ExprValue) Binary(op syntax.Token, y starlark.Value, side starlark.Side) (starlark.Value, error) {
	other, err := ToExpr(y)
	if err != nil {
		// Returning nil lets Starlark report the unsupported operand types.
		return nil, nil //nolint:nilerr
	}
	l, r := v.Expr, other
	if side == starlark.Right {
		l, r = other, v.Expr
	}
	switch op {
	case syntax.PLUS:
		return NewExpr(symbolic.NewAdd(l, r)), nil
	case syntax.MINUS:
		return NewExpr(symbolic.Sub(l, r)), nil
	case syntax.STAR:
		return NewExpr(symbolic.NewMul(l, r)), nil
	case syntax.SLASH:
		if n, ok := r.(*symbolic.Number); ok && n.Sign() == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return NewExpr(symbolic.Div(l, r)), nil
	}
	return nil, nil
}

func (v *ExprValue) Unary(op syntax.Token) (starlark.Value, error) {
	switch op {
	case syntax.MINUS:
		return NewExpr(symbolic.Neg(v.Expr)), nil
	case syntax.PLUS:
		return v, nil
	}
	return nil, nil
}

// CompareSameType compares expressions structurally. Only == and != are defined.
func (v *ExprValue) CompareSameType(op syntax.Token, y starlark.Value, _ int) (bool, error) {
	other := y.(*ExprValue)
	switch op {
	case syntax.EQL:
		return v.Expr.Equal(other.Expr), nil
	case syntax.NEQ:
		return !v.Expr.Equal(other.Expr), nil
	}
	return false, fmt.Errorf("%s %s %s not supported", v.Type(), op, y.Type())
}

var exprAttrs = []string{"args", "diff", "latex", "name", "pow"}

func (v *ExprValue) AttrNames() []string { return exprAttrs }

func (v *ExprValue) Attr(name string) (starlark.Value, error) {
	switch name {
	case "args":
		args := v.Expr.Args()
		out := make(starlark.Tuple, len(args))
		for i, a := range args {
			out[i] = NewExpr(a)
		}
		return out, nil
	case "name":
		switch e := v.Expr.(type) {
		case *symbolic.Symbol:
			return starlark.String(e.Name()), nil
		case *symbolic.Applied:
			return starlark.String(e.Name()), nil
		}
		return starlark.None, nil
	case "diff":
		return starlark.NewBuiltin("diff", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if len(kwargs) > 0 {
				return nil, fmt.Errorf("%s: unexpected keyword arguments", b.Name())
			}
			vars, err := derivativeVars(b.Name(), args)
			if err != nil {
				return nil, err
			}
			e := v.Expr
			for _, s := range vars {
				e = symbolic.Diff(e, s)
			}
			return NewExpr(e), nil
		}).BindReceiver(v), nil
	case "pow":
		return starlark.NewBuiltin("pow", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var exp starlark.Value
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &exp); err != nil {
				return nil, err
			}
			e, err := ToExpr(exp)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", b.Name(), err)
			}
			return NewExpr(symbolic.NewPow(v.Expr, e)), nil
		}).BindReceiver(v), nil
	case "latex":
		return starlark.NewBuiltin("latex", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
				return nil, err
			}
			return starlark.String(v.Expr.LaTeX()), nil
		}).BindReceiver(v), nil
	}
	return nil, nil
}

// FunctionValue is an undefined function. Calling it with arguments yields an applied function.
type FunctionValue struct {
	Func *symbolic.Function
}

var _ starlark.Callable = (*FunctionValue)(nil)

func (f *FunctionValue) String() string       { return f.Func.Name() }
func (f *FunctionValue) Type() string         { return "Function" }
func (f *FunctionValue) Freeze()              {}
func (f *FunctionValue) Truth() starlark.Bool { return starlark.True }
func (f *FunctionValue) Hash() (uint32, error) {
	return starlark.String("Function:" + f.Func.Name()).Hash()
}
func (f *FunctionValue) Name() string { return f.Func.Name() }

func (f *FunctionValue) CallInternal(_ *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: unexpected keyword arguments", f.Name())
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("%s: needs at least one argument", f.Name())
	}
	exprs, err := toExprs(f.Name(), args)
	if err != nil {
		return nil, err
	}
	return NewExpr(f.Func.Apply(exprs...)), nil
}

// EquationValue wraps an equation built with Eq.
type EquationValue struct {
	Eq *symbolic.Equation
}

var _ starlark.HasAttrs = (*EquationValue)(nil)

func (e *EquationValue) String() string        { return e.Eq.String() }
func (e *EquationValue) Type() string          { return "Equation" }
func (e *EquationValue) Freeze()               {}
func (e *EquationValue) Truth() starlark.Bool  { return starlark.True }
func (e *EquationValue) Hash() (uint32, error) { return starlark.String(e.Eq.String()).Hash() }
func (e *EquationValue) AttrNames() []string   { return []string{"lhs", "rhs"} }

func (e *EquationValue) Attr(name string) (starlark.Value, error) {
	switch name {
	case "lhs":
		return NewExpr(e.Eq.LHS), nil
	case "rhs":
		return NewExpr(e.Eq.RHS), nil
	}
	return nil, nil
}

// ToExpr converts a Starlark value to an expression. Ints, floats and Expr values convert;
// anything else is an error.
func ToExpr(v starlark.Value) (symbolic.Expr, error) {
	switch val := v.(type) {
	case *ExprValue:
		return val.Expr, nil
	case starlark.Int:
		return symbolic.BigInt(val.BigInt()), nil
	case starlark.Float:
		return symbolic.Float(float64(val)), nil
	case starlark.Bool:
		if val {
			return symbolic.Int(1), nil
		}
		return symbolic.Int(0), nil
	case *FunctionValue:
		return nil, fmt.Errorf("function %s must be applied to arguments", val.Name())
	}
	return nil, fmt.Errorf("cannot convert %s to an expression", v.Type())
}

// AppliedOf returns the applied undefined function held by v, if any.
func AppliedOf(v starlark.Value) (*symbolic.Applied, bool) {
	ev, ok := v.(*ExprValue)
	if !ok {
		return nil, false
	}
	a, ok := ev.Expr.(*symbolic.Applied)
	return a, ok
}

func toExprs(fn string, args starlark.Tuple) ([]symbolic.Expr, error) {
	out := make([]symbolic.Expr, len(args))
	for i, a := range args {
		e, err := ToExpr(a)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", fn, i+1, err)
		}
		out[i] = e
	}
	return out, nil
}

// derivativeVars reads differentiation variables given as symbols, (symbol, count) tuples,
// or a symbol followed by an int count.
func derivativeVars(fn string, args starlark.Tuple) ([]*symbolic.Symbol, error) {
	var vars []*symbolic.Symbol
	for i := 0; i < len(args); i++ {
		switch a := args[i].(type) {
		case starlark.Tuple:
			if len(a) != 2 {
				return nil, fmt.Errorf("%s: variable tuple must be (symbol, count)", fn)
			}
			s, err := symbolOf(fn, a[0])
			if err != nil {
				return nil, err
			}
			n, err := countOf(fn, a[1])
			if err != nil {
				return nil, err
			}
			for k := 0; k < n; k++ {
				vars = append(vars, s)
			}
		default:
			s, err := symbolOf(fn, a)
			if err != nil {
				return nil, err
			}
			n := 1
			if i+1 < len(args) {
				if _, isInt := args[i+1].(starlark.Int); isInt {
					if n, err = countOf(fn, args[i+1]); err != nil {
						return nil, err
					}
					i++
				}
			}
			for k := 0; k < n; k++ {
				vars = append(vars, s)
			}
		}
	}
	if len(vars) == 0 {
		return nil, fmt.Errorf("%s: needs at least one variable", fn)
	}
	return vars, nil
}

func symbolOf(fn string, v starlark.Value) (*symbolic.Symbol, error) {
	if ev, ok := v.(*ExprValue); ok {
		if s, ok := ev.Expr.(*symbolic.Symbol); ok {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%s: cannot differentiate with respect to %s", fn, v.String())
}

func countOf(fn string, v starlark.Value) (int, error) {
	i, ok := v.(starlark.Int)
	if !ok {
		return 0, fmt.Errorf("%s: derivative count must be an int, got %s", fn, v.Type())
	}
	n, ok := i.Int64()
	if !ok || n < 0 || n > 64 {
		return 0, fmt.Errorf("%s: invalid derivative count %s", fn, i.String())
	}
	return int(n), nil
}

func bigIntOf(fn string, v starlark.Value) (*big.Int, error) {
	i, ok := v.(starlark.Int)
	if !ok {
		return nil, fmt.Errorf("%s: expected int, got %s", fn, v.Type())
	}
	return i.BigInt(), nil
}
