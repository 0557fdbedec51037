package symbolic

import (
	"sort"
	"strconv"
	"strings"
)

// Derivative is an unevaluated derivative of expr. Variables are kept sorted by name and
// repeated once per differentiation, so d²u/dx² holds [x, x].
type Derivative struct {
	expr Expr
	vars []*Symbol
}

// NewDerivative returns the unevaluated derivative of expr with respect to vars.
// Differentiating a derivative extends its variable list. The result is 0 when any
// variable does not occur in expr.
func NewDerivative(expr Expr, vars ...*Symbol) Expr {
	if len(vars) == 0 {
		return expr
	}
	for _, v := range vars {
		if !Has(expr, v) {
			return Int(0)
		}
	}
	all := make([]*Symbol, 0, len(vars))
	if d, ok := expr.(*Derivative); ok {
		expr = d.expr
		all = append(all, d.vars...)
	}
	all = append(all, vars...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].name < all[j].name })
	return &Derivative{expr: expr, vars: all}
}

func (d *Derivative) Expr() Expr { return d.expr }

// Variables returns the differentiation variables, one entry per order.
func (d *Derivative) Variables() []*Symbol {
	cp := make([]*Symbol, len(d.vars))
	copy(cp, d.vars)
	return cp
}

// Order returns the total differentiation order.
func (d *Derivative) Order() int { return len(d.vars) }

func (d *Derivative) Args() []Expr {
	out := make([]Expr, 0, len(d.vars)+1)
	out = append(out, d.expr)
	for _, v := range d.vars {
		out = append(out, v)
	}
	return out
}

func (d *Derivative) Equal(other Expr) bool { return sameExpr(d, other) }
func (d *Derivative) kind() kind            { return kindDerivative }

type varCount struct {
	sym   *Symbol
	count int
}

func (d *Derivative) grouped() []varCount {
	var out []varCount
	for _, v := range d.vars {
		if n := len(out); n > 0 && out[n-1].sym.name == v.name {
			out[n-1].count++
			continue
		}
		out = append(out, varCount{sym: v, count: 1})
	}
	return out
}

func (d *Derivative) String() string {
	parts := []string{d.expr.String()}
	for _, g := range d.grouped() {
		if g.count == 1 {
			parts = append(parts, g.sym.String())
		} else {
			parts = append(parts, "("+g.sym.String()+", "+strconv.Itoa(g.count)+")")
		}
	}
	return "Derivative(" + strings.Join(parts, ", ") + ")"
}

func (d *Derivative) LaTeX() string {
	partial := true
	if a, ok := d.expr.(*Applied); ok && len(a.args) == 1 {
		partial = false
	}
	op := "d"
	if partial {
		op = `\partial`
	}

	order := len(d.vars)
	var num string
	if order == 1 {
		num = op
	} else {
		num = op + "^{" + strconv.Itoa(order) + "}"
	}

	groups := d.grouped()
	var den strings.Builder
	for i := len(groups) - 1; i >= 0; i-- {
		g := groups[i]
		if den.Len() > 0 && op == "d" {
			den.WriteString(" ")
		}
		den.WriteString(op + " " + g.sym.LaTeX())
		if g.count > 1 {
			den.WriteString("^{" + strconv.Itoa(g.count) + "}")
		}
	}

	body := d.expr.LaTeX()
	if precedence(d.expr) < precMul {
		body = `\left(` + body + `\right)`
	}
	return `\frac{` + num + `}{` + den.String() + `} ` + body
}

// ============================================================
// Differentiation
// ============================================================

// Has reports whether v occurs anywhere in e.
func Has(e Expr, v *Symbol) bool {
	if s, ok := e.(*Symbol); ok {
		return s.name == v.name
	}
	for _, arg := range e.Args() {
		if Has(arg, v) {
			return true
		}
	}
	return false
}

// Diff evaluates the derivative of e with respect to v. Derivatives of undefined
// functions stay unevaluated.
func Diff(e Expr, v *Symbol) Expr {
	if !Has(e, v) {
		return Int(0)
	}
	switch x := e.(type) {
	case *Symbol:
		return Int(1)
	case *Applied, *Derivative:
		return NewDerivative(x, v)
	case *Add:
		terms := make([]Expr, len(x.terms))
		for i, t := range x.terms {
			terms[i] = Diff(t, v)
		}
		return NewAdd(terms...)
	case *Mul:
		terms := make([]Expr, 0, len(x.factors))
		for i := range x.factors {
			factors := make([]Expr, len(x.factors))
			copy(factors, x.factors)
			factors[i] = Diff(x.factors[i], v)
			terms = append(terms, NewMul(factors...))
		}
		return NewAdd(terms...)
	case *Pow:
		return diffPow(x, v)
	case *Elementary:
		return NewMul(diffElementary(x), Diff(x.arg, v))
	}
	return NewDerivative(e, v)
}

// DiffN differentiates n times.
func DiffN(e Expr, v *Symbol, n int) Expr {
	for i := 0; i < n; i++ {
		e = Diff(e, v)
	}
	return e
}

func diffPow(p *Pow, v *Symbol) Expr {
	if !Has(p.exp, v) {
		return NewMul(p.exp, NewPow(p.base, NewAdd(p.exp, Int(-1))), Diff(p.base, v))
	}
	if !Has(p.base, v) {
		return NewMul(p, Log(p.base), Diff(p.exp, v))
	}
	return NewMul(p, NewAdd(
		NewMul(Diff(p.exp, v), Log(p.base)),
		NewMul(p.exp, Diff(p.base, v), NewPow(p.base, Int(-1))),
	))
}

func diffElementary(f *Elementary) Expr {
	switch f.name {
	case "sin":
		return Cos(f.arg)
	case "cos":
		return Neg(Sin(f.arg))
	case "tan":
		return NewAdd(Int(1), NewPow(Tan(f.arg), Int(2)))
	case "exp":
		return f
	case "log":
		return NewPow(f.arg, Int(-1))
	case "sinh":
		return Cosh(f.arg)
	case "cosh":
		return Sinh(f.arg)
	case "tanh":
		return NewAdd(Int(1), Neg(NewPow(Tanh(f.arg), Int(2))))
	}
	return Int(0)
}

// ============================================================
// Equations
// ============================================================

// Equation is the statement LHS = RHS.
type Equation struct {
	LHS, RHS Expr
}

// Eq returns the equation lhs = rhs.
func Eq(lhs, rhs Expr) *Equation { return &Equation{LHS: lhs, RHS: rhs} }

func (e *Equation) String() string { return e.LHS.String() + " = " + e.RHS.String() }
func (e *Equation) LaTeX() string  { return e.LHS.LaTeX() + " = " + e.RHS.LaTeX() }
