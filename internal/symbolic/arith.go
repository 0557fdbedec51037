package symbolic

import (
	"math"
	"math/big"
	"sort"
)

// maxExactExponent bounds integer powers of numbers that are evaluated exactly.
const maxExactExponent = 4096

// ============================================================
// Add
// ============================================================

// Add is a sum of two or more terms.
type Add struct{ terms []Expr }

// NewAdd returns the canonical sum of terms: nested sums are flattened, like terms are
// collected and numbers are folded into one trailing constant.
func NewAdd(terms ...Expr) Expr {
	flat := make([]Expr, 0, len(terms))
	for _, t := range terms {
		if a, ok := t.(*Add); ok {
			flat = append(flat, a.terms...)
		} else {
			flat = append(flat, t)
		}
	}

	constant := Int(0)
	coeffs := make(map[string]*Number)
	rests := make(map[string]Expr)
	var order []string
	for _, t := range flat {
		if n, ok := t.(*Number); ok {
			constant = addNumbers(constant, n)
			continue
		}
		c, rest := splitCoeff(t)
		key := rest.String()
		if _, seen := coeffs[key]; !seen {
			order = append(order, key)
			rests[key] = rest
			coeffs[key] = Int(0)
		}
		coeffs[key] = addNumbers(coeffs[key], c)
	}

	out := make([]Expr, 0, len(order)+1)
	for _, key := range order {
		c := coeffs[key]
		if c.isZero() {
			continue
		}
		if c.isOne() {
			out = append(out, rests[key])
		} else {
			out = append(out, NewMul(c, rests[key]))
		}
	}
	sortTerms(out)
	if !constant.isZero() || (constant.float && len(out) == 0) {
		out = append(out, constant)
	}

	switch len(out) {
	case 0:
		return Int(0)
	case 1:
		return out[0]
	}
	return &Add{terms: out}
}

// Sub returns a - b.
func Sub(a, b Expr) Expr { return NewAdd(a, Neg(b)) }

// Neg returns -a.
func Neg(a Expr) Expr { return NewMul(Int(-1), a) }

// Div returns a / b.
func Div(a, b Expr) Expr { return NewMul(a, NewPow(b, Int(-1))) }

func (a *Add) Args() []Expr {
	cp := make([]Expr, len(a.terms))
	copy(cp, a.terms)
	return cp
}

func (a *Add) Equal(other Expr) bool { return sameExpr(a, other) }
func (a *Add) kind() kind            { return kindAdd }

// splitCoeff separates the leading numeric coefficient of a term.
func splitCoeff(t Expr) (*Number, Expr) {
	m, ok := t.(*Mul)
	if !ok {
		return Int(1), t
	}
	n, ok := m.factors[0].(*Number)
	if !ok {
		return Int(1), t
	}
	rest := m.factors[1:]
	if len(rest) == 1 {
		return n, rest[0]
	}
	return n, &Mul{factors: rest}
}

// sortTerms orders terms by descending degree, then by their coefficient-free text.
func sortTerms(terms []Expr) {
	sort.SliceStable(terms, func(i, j int) bool {
		di, dj := degree(terms[i]), degree(terms[j])
		if di != dj {
			return di > dj
		}
		_, ri := splitCoeff(terms[i])
		_, rj := splitCoeff(terms[j])
		return ri.String() < rj.String()
	})
}

func degree(e Expr) int {
	switch v := e.(type) {
	case *Number:
		return 0
	case *Pow:
		if n, ok := v.exp.(*Number); ok && n.IsInt() {
			return int(n.val.Num().Int64()) * degree(v.base)
		}
		return 1
	case *Mul:
		d := 0
		for _, f := range v.factors {
			d += degree(f)
		}
		return d
	case *Add:
		d := 0
		for _, t := range v.terms {
			d = max(d, degree(t))
		}
		return d
	default:
		return 1
	}
}

// ============================================================
// Mul
// ============================================================

// Mul is a product. A numeric coefficient, if any, is the first factor.
type Mul struct{ factors []Expr }

// NewMul returns the canonical product of factors: nested products are flattened, numbers
// are folded into one leading coefficient and powers of the same base are combined.
// A numeric coefficient times a single sum is distributed.
func NewMul(factors ...Expr) Expr {
	flat := make([]Expr, 0, len(factors))
	for _, f := range factors {
		if m, ok := f.(*Mul); ok {
			flat = append(flat, m.factors...)
		} else {
			flat = append(flat, f)
		}
	}

	coeff := Int(1)
	exps := make(map[string]Expr)
	bases := make(map[string]Expr)
	var order []string
	for _, f := range flat {
		if n, ok := f.(*Number); ok {
			coeff = mulNumbers(coeff, n)
			continue
		}
		base, exp := splitPow(f)
		key := base.String()
		if prev, seen := exps[key]; seen {
			exps[key] = NewAdd(prev, exp)
			continue
		}
		order = append(order, key)
		bases[key] = base
		exps[key] = exp
	}
	if coeff.isZero() {
		return coeff
	}

	out := make([]Expr, 0, len(order))
	for _, key := range order {
		switch p := NewPow(bases[key], exps[key]).(type) {
		case *Number:
			coeff = mulNumbers(coeff, p)
		case *Mul:
			for _, f := range p.factors {
				if n, ok := f.(*Number); ok {
					coeff = mulNumbers(coeff, n)
				} else {
					out = append(out, f)
				}
			}
		default:
			out = append(out, p)
		}
	}
	if coeff.isZero() {
		return coeff
	}
	sortFactors(out)

	if len(out) == 0 {
		return coeff
	}
	if coeff.isOne() {
		if len(out) == 1 {
			return out[0]
		}
		return &Mul{factors: out}
	}
	if len(out) == 1 {
		if sum, ok := out[0].(*Add); ok {
			terms := make([]Expr, len(sum.terms))
			for i, t := range sum.terms {
				terms[i] = NewMul(coeff, t)
			}
			return NewAdd(terms...)
		}
	}
	return &Mul{factors: append([]Expr{coeff}, out...)}
}

func (m *Mul) Args() []Expr {
	cp := make([]Expr, len(m.factors))
	copy(cp, m.factors)
	return cp
}

func (m *Mul) Equal(other Expr) bool { return sameExpr(m, other) }
func (m *Mul) kind() kind            { return kindMul }

// coeffAndRest splits the numeric coefficient (1 when absent) from the other factors.
func (m *Mul) coeffAndRest() (*Number, []Expr) {
	if n, ok := m.factors[0].(*Number); ok {
		return n, m.factors[1:]
	}
	return Int(1), m.factors
}

func splitPow(e Expr) (base, exp Expr) {
	if p, ok := e.(*Pow); ok {
		return p.base, p.exp
	}
	return e, Int(1)
}

func sortFactors(factors []Expr) {
	sort.SliceStable(factors, func(i, j int) bool {
		ri, rj := factorRank(factors[i]), factorRank(factors[j])
		if ri != rj {
			return ri < rj
		}
		bi, _ := splitPow(factors[i])
		bj, _ := splitPow(factors[j])
		return bi.String() < bj.String()
	})
}

func factorRank(e Expr) int {
	if p, ok := e.(*Pow); ok {
		return factorRank(p.base)
	}
	switch e.kind() {
	case kindConstant:
		return 0
	case kindSymbol:
		return 1
	case kindApplied:
		return 2
	case kindDerivative:
		return 3
	case kindElementary:
		return 4
	default:
		return 5
	}
}

// ============================================================
// Pow
// ============================================================

// Pow is base**exp.
type Pow struct{ base, exp Expr }

// NewPow returns base**exp, evaluating numeric powers and distributing integer
// exponents over products and nested powers.
func NewPow(base, exp Expr) Expr {
	e, expIsNum := exp.(*Number)
	if expIsNum && e.isZero() && !e.float {
		return Int(1)
	}
	if expIsNum && e.isOne() {
		return base
	}
	if b, ok := base.(*Number); ok {
		if b.isOne() {
			return Int(1)
		}
		if expIsNum {
			if r, ok := powNumbers(b, e); ok {
				return r
			}
		}
	}
	if expIsNum && e.IsInt() {
		switch b := base.(type) {
		case *Pow:
			return NewPow(b.base, NewMul(b.exp, e))
		case *Mul:
			factors := make([]Expr, len(b.factors))
			for i, f := range b.factors {
				factors[i] = NewPow(f, e)
			}
			return NewMul(factors...)
		}
	}
	return &Pow{base: base, exp: exp}
}

// Sqrt returns arg**(1/2).
func Sqrt(arg Expr) Expr {
	half, _ := Rational(1, 2)
	return NewPow(arg, half)
}

func (p *Pow) Base() Expr            { return p.base }
func (p *Pow) Exp() Expr             { return p.exp }
func (p *Pow) Args() []Expr          { return []Expr{p.base, p.exp} }
func (p *Pow) Equal(other Expr) bool { return sameExpr(p, other) }
func (p *Pow) kind() kind            { return kindPow }

func powNumbers(b, e *Number) (*Number, bool) {
	if b.float || e.float {
		bf, _ := b.val.Float64()
		ef, _ := e.val.Float64()
		r := math.Pow(bf, ef)
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return nil, false
		}
		return Float(r), true
	}
	if !e.val.IsInt() {
		return nil, false
	}
	k := e.val.Num()
	if !k.IsInt64() || k.Int64() > maxExactExponent || k.Int64() < -maxExactExponent {
		return nil, false
	}
	n := k.Int64()
	if n < 0 && b.isZero() {
		return nil, false
	}
	abs := n
	if abs < 0 {
		abs = -abs
	}
	num := new(big.Int).Exp(b.val.Num(), big.NewInt(abs), nil)
	den := new(big.Int).Exp(b.val.Denom(), big.NewInt(abs), nil)
	if n < 0 {
		num, den = den, num
	}
	return &Number{val: new(big.Rat).SetFrac(num, den)}, true
}

// ============================================================
// Elementary functions
// ============================================================

// Elementary is a known function such as sin or exp applied to one argument.
type Elementary struct {
	name string
	arg  Expr
}

var elementaryLatex = map[string]string{
	"sin":  `\sin`,
	"cos":  `\cos`,
	"tan":  `\tan`,
	"sinh": `\sinh`,
	"cosh": `\cosh`,
	"tanh": `\tanh`,
	"log":  `\log`,
	"exp":  "",
}

// IsElementary reports whether name is a known elementary function.
func IsElementary(name string) bool {
	_, ok := elementaryLatex[name]
	return ok || name == "sqrt"
}

// ApplyElementary returns name(arg) for a known elementary function.
func ApplyElementary(name string, arg Expr) (Expr, error) {
	if name == "sqrt" {
		return Sqrt(arg), nil
	}
	if _, ok := elementaryLatex[name]; !ok {
		return nil, &DomainError{Op: name, Message: "unknown function"}
	}
	if n, ok := arg.(*Number); ok && n.isZero() && !n.float {
		switch name {
		case "sin", "tan", "sinh", "tanh":
			return Int(0), nil
		case "cos", "cosh", "exp":
			return Int(1), nil
		}
	}
	if n, ok := arg.(*Number); ok && n.isOne() && name == "log" {
		return Int(0), nil
	}
	if name == "log" && arg == Expr(E) {
		return Int(1), nil
	}
	return &Elementary{name: name, arg: arg}, nil
}

func mustElementary(name string, arg Expr) Expr {
	e, err := ApplyElementary(name, arg)
	if err != nil {
		panic(err)
	}
	return e
}

func Sin(arg Expr) Expr  { return mustElementary("sin", arg) }
func Cos(arg Expr) Expr  { return mustElementary("cos", arg) }
func Tan(arg Expr) Expr  { return mustElementary("tan", arg) }
func Exp(arg Expr) Expr  { return mustElementary("exp", arg) }
func Log(arg Expr) Expr  { return mustElementary("log", arg) }
func Sinh(arg Expr) Expr { return mustElementary("sinh", arg) }
func Cosh(arg Expr) Expr { return mustElementary("cosh", arg) }
func Tanh(arg Expr) Expr { return mustElementary("tanh", arg) }

func (f *Elementary) Name() string          { return f.name }
func (f *Elementary) Arg() Expr             { return f.arg }
func (f *Elementary) Args() []Expr          { return []Expr{f.arg} }
func (f *Elementary) Equal(other Expr) bool { return sameExpr(f, other) }
func (f *Elementary) kind() kind            { return kindElementary }
