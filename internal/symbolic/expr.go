// Package symbolic is the expression engine that example definitions are written against.
//
// Expressions are immutable. Constructors keep them in a canonical form (flattened sums and
// products, collected like terms, sorted operands), so String is stable and doubles as a
// structural key.
package symbolic

import (
	"math/big"
	"strconv"
	"strings"
)

var bigOne = big.NewInt(1)

type kind int

const (
	kindNumber kind = iota
	kindConstant
	kindSymbol
	kindApplied
	kindDerivative
	kindElementary
	kindPow
	kindMul
	kindAdd
)

// Expr is a symbolic expression.
type Expr interface {
	// String renders the canonical text form, e.g. "Derivative(x(t), t)".
	String() string
	// LaTeX renders the display form.
	LaTeX() string
	Equal(other Expr) bool
	// Args returns the direct operands of the expression.
	Args() []Expr

	kind() kind
}

func sameExpr(a, b Expr) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.kind() == b.kind() && a.String() == b.String()
}

// ============================================================
// Number
// ============================================================

// Number is an exact rational, or a float when built from one.
type Number struct {
	val   *big.Rat
	float bool
}

// Int returns the integer n.
func Int(n int64) *Number { return &Number{val: new(big.Rat).SetInt64(n)} }

// BigInt returns the integer n.
func BigInt(n *big.Int) *Number { return &Number{val: new(big.Rat).SetInt(n)} }

// Rational returns p/q. It fails when q is zero.
func Rational(p, q int64) (*Number, error) {
	if q == 0 {
		return nil, &DomainError{Op: "Rational", Message: "division by zero"}
	}
	return &Number{val: big.NewRat(p, q)}, nil
}

// Float returns a floating point number.
func Float(f float64) *Number {
	r := new(big.Rat)
	if r.SetFloat64(f) == nil {
		r.SetInt64(0)
	}
	return &Number{val: r, float: true}
}

// Rat returns a copy of the underlying value.
func (n *Number) Rat() *big.Rat { return new(big.Rat).Set(n.val) }

// IsInt reports whether n is an exact integer.
func (n *Number) IsInt() bool { return !n.float && n.val.IsInt() }

// IsFloat reports whether n was built from a float.
func (n *Number) IsFloat() bool { return n.float }

// Sign returns -1, 0 or +1.
func (n *Number) Sign() int { return n.val.Sign() }

func (n *Number) isZero() bool     { return n.val.Sign() == 0 }
func (n *Number) isOne() bool      { return !n.float && n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Number) isMinusOne() bool { return !n.float && n.val.Cmp(big.NewRat(-1, 1)) == 0 }
func (n *Number) isHalf() bool     { return !n.float && n.val.Cmp(big.NewRat(1, 2)) == 0 }

func (n *Number) Equal(other Expr) bool { return sameExpr(n, other) }
func (n *Number) Args() []Expr          { return nil }
func (n *Number) kind() kind            { return kindNumber }

func (n *Number) String() string {
	if n.float {
		f, _ := n.val.Float64()
		s := strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		return s
	}
	return n.val.RatString()
}

func (n *Number) LaTeX() string {
	if n.float || n.val.IsInt() {
		return n.String()
	}
	num := new(big.Int).Abs(n.val.Num())
	frac := `\frac{` + num.String() + `}{` + n.val.Denom().String() + `}`
	if n.val.Sign() < 0 {
		return "- " + frac
	}
	return frac
}

func addNumbers(a, b *Number) *Number {
	return &Number{val: new(big.Rat).Add(a.val, b.val), float: a.float || b.float}
}

func mulNumbers(a, b *Number) *Number {
	return &Number{val: new(big.Rat).Mul(a.val, b.val), float: a.float || b.float}
}

func negNumber(a *Number) *Number {
	return &Number{val: new(big.Rat).Neg(a.val), float: a.float}
}

// ============================================================
// Symbol and constants
// ============================================================

// Symbol is a named variable.
type Symbol struct{ name string }

// NewSymbol returns the symbol called name.
func NewSymbol(name string) *Symbol { return &Symbol{name: name} }

// Symbols splits spec on commas and whitespace and returns one symbol per name.
func Symbols(spec string) []*Symbol {
	fields := strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	out := make([]*Symbol, 0, len(fields))
	for _, f := range fields {
		out = append(out, NewSymbol(f))
	}
	return out
}

func (s *Symbol) Name() string          { return s.name }
func (s *Symbol) String() string        { return s.name }
func (s *Symbol) LaTeX() string         { return latexName(s.name) }
func (s *Symbol) Equal(other Expr) bool { return sameExpr(s, other) }
func (s *Symbol) Args() []Expr          { return nil }
func (s *Symbol) kind() kind            { return kindSymbol }

// Constant is a named mathematical constant.
type Constant struct {
	name  string
	latex string
}

var (
	Pi = &Constant{name: "pi", latex: `\pi`}
	E  = &Constant{name: "E", latex: "e"}
)

func (c *Constant) String() string        { return c.name }
func (c *Constant) LaTeX() string         { return c.latex }
func (c *Constant) Equal(other Expr) bool { return sameExpr(c, other) }
func (c *Constant) Args() []Expr          { return nil }
func (c *Constant) kind() kind            { return kindConstant }

// ============================================================
// Undefined functions
// ============================================================

// Function is an undefined function such as the state variable u in u(t, x).
// It is not an expression until applied to arguments.
type Function struct{ name string }

// NewFunction declares the undefined function called name.
func NewFunction(name string) *Function { return &Function{name: name} }

func (f *Function) Name() string   { return f.name }
func (f *Function) String() string { return f.name }

// Apply returns f(args...).
func (f *Function) Apply(args ...Expr) *Applied {
	cp := make([]Expr, len(args))
	copy(cp, args)
	return &Applied{fn: f, args: cp}
}

// Applied is an undefined function applied to arguments.
type Applied struct {
	fn   *Function
	args []Expr
}

func (a *Applied) Func() *Function { return a.fn }
func (a *Applied) Name() string    { return a.fn.name }

func (a *Applied) Args() []Expr {
	cp := make([]Expr, len(a.args))
	copy(cp, a.args)
	return cp
}

// Symbols returns the arguments as symbols. ok is false if any argument is not a symbol.
func (a *Applied) Symbols() (syms []*Symbol, ok bool) {
	syms = make([]*Symbol, 0, len(a.args))
	for _, arg := range a.args {
		s, isSym := arg.(*Symbol)
		if !isSym {
			return nil, false
		}
		syms = append(syms, s)
	}
	return syms, true
}

func (a *Applied) String() string {
	parts := make([]string, len(a.args))
	for i, arg := range a.args {
		parts[i] = arg.String()
	}
	return a.fn.name + "(" + strings.Join(parts, ", ") + ")"
}

func (a *Applied) LaTeX() string {
	return latexName(a.fn.name) + a.latexArgs()
}

func (a *Applied) latexArgs() string {
	parts := make([]string, len(a.args))
	for i, arg := range a.args {
		parts[i] = arg.LaTeX()
	}
	return `{\left(` + strings.Join(parts, ",") + ` \right)}`
}

func (a *Applied) Equal(other Expr) bool { return sameExpr(a, other) }
func (a *Applied) kind() kind            { return kindApplied }

// ============================================================
// Errors
// ============================================================

// DomainError reports an operation the engine cannot represent.
type DomainError struct {
	Op      string
	Message string
}

func (e *DomainError) Error() string { return e.Op + ": " + e.Message }
