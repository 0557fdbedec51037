package symbolic

import (
	"strings"
	"unicode"
)

const (
	precAdd  = 10
	precMul  = 20
	precPow  = 30
	precAtom = 40
)

func precedence(e Expr) int {
	switch v := e.(type) {
	case *Add:
		return precAdd
	case *Mul:
		if c, _ := v.coeffAndRest(); c.Sign() < 0 {
			return precAdd
		}
		return precMul
	case *Pow:
		if n, ok := v.exp.(*Number); ok && n.Sign() < 0 {
			return precMul
		}
		return precPow
	case *Number:
		if v.Sign() < 0 {
			return precAdd
		}
		if !v.float && !v.val.IsInt() {
			return precMul
		}
		return precAtom
	default:
		return precAtom
	}
}

func paren(e Expr, level int) string {
	if precedence(e) < level {
		return "(" + e.String() + ")"
	}
	return e.String()
}

func latexParen(e Expr, level int) string {
	if precedence(e) < level {
		return `\left(` + e.LaTeX() + `\right)`
	}
	return e.LaTeX()
}

// negativeTerm reports whether t prints with a leading minus and returns its magnitude.
func negativeTerm(t Expr) (bool, Expr) {
	switch v := t.(type) {
	case *Number:
		if v.Sign() < 0 {
			return true, negNumber(v)
		}
	case *Mul:
		c, rest := v.coeffAndRest()
		if c.Sign() >= 0 {
			return false, t
		}
		if c.isMinusOne() {
			if len(rest) == 1 {
				return true, rest[0]
			}
			return true, &Mul{factors: rest}
		}
		return true, &Mul{factors: append([]Expr{negNumber(c)}, rest...)}
	}
	return false, t
}

// ============================================================
// Canonical text
// ============================================================

func (a *Add) String() string {
	var b strings.Builder
	for i, t := range a.terms {
		neg, abs := negativeTerm(t)
		switch {
		case i == 0 && neg:
			b.WriteString("-")
		case i > 0 && neg:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		b.WriteString(paren(abs, precAdd+1))
	}
	return b.String()
}

// fraction splits a product into numerator and denominator factors.
func (m *Mul) fraction() (neg bool, coeff *Number, num, den []Expr) {
	c, rest := m.coeffAndRest()
	if c.Sign() < 0 {
		neg = true
		c = negNumber(c)
	}
	for _, f := range rest {
		if p, ok := f.(*Pow); ok {
			if n, ok := p.exp.(*Number); ok && n.Sign() < 0 {
				den = append(den, NewPow(p.base, negNumber(n)))
				continue
			}
		}
		num = append(num, f)
	}
	return neg, c, num, den
}

func (m *Mul) String() string {
	neg, c, num, den := m.fraction()
	var numParts, denParts []string
	switch {
	case c.float:
		numParts = append(numParts, c.String())
	case !c.isOne():
		if p := c.val.Num(); p.Cmp(bigOne) != 0 {
			numParts = append(numParts, p.String())
		}
		if q := c.val.Denom(); q.Cmp(bigOne) != 0 {
			denParts = append(denParts, q.String())
		}
	}
	for _, f := range num {
		numParts = append(numParts, paren(f, precMul))
	}
	for _, f := range den {
		denParts = append(denParts, paren(f, precMul))
	}

	out := strings.Join(numParts, "*")
	if out == "" {
		out = "1"
	}
	if len(denParts) > 0 {
		ds := strings.Join(denParts, "*")
		if len(denParts) > 1 {
			ds = "(" + ds + ")"
		}
		out += "/" + ds
	}
	if neg {
		return "-" + out
	}
	return out
}

func (p *Pow) String() string {
	if n, ok := p.exp.(*Number); ok {
		if n.isHalf() {
			return "sqrt(" + p.base.String() + ")"
		}
		if n.isMinusOne() {
			return "1/" + paren(p.base, precPow+1)
		}
	}
	return paren(p.base, precPow+1) + "**" + paren(p.exp, precPow+1)
}

func (f *Elementary) String() string { return f.name + "(" + f.arg.String() + ")" }

// ============================================================
// LaTeX
// ============================================================

func (a *Add) LaTeX() string {
	var b strings.Builder
	for i, t := range a.terms {
		neg, abs := negativeTerm(t)
		switch {
		case i == 0 && neg:
			b.WriteString("- ")
		case i > 0 && neg:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		b.WriteString(latexParen(abs, precAdd+1))
	}
	return b.String()
}

func (m *Mul) LaTeX() string {
	neg, c, num, den := m.fraction()
	var numParts, denParts []string
	switch {
	case c.float:
		numParts = append(numParts, c.String())
	case !c.isOne():
		if p := c.val.Num(); p.Cmp(bigOne) != 0 {
			numParts = append(numParts, p.String())
		}
		if q := c.val.Denom(); q.Cmp(bigOne) != 0 {
			denParts = append(denParts, q.String())
		}
	}
	for _, f := range num {
		numParts = append(numParts, latexParen(f, precMul))
	}
	for _, f := range den {
		denParts = append(denParts, latexParen(f, precMul))
	}

	out := strings.Join(numParts, " ")
	if len(denParts) > 0 {
		if out == "" {
			out = "1"
		}
		out = `\frac{` + out + `}{` + strings.Join(denParts, " ") + `}`
	}
	if neg {
		return "- " + out
	}
	return out
}

func (p *Pow) LaTeX() string {
	if n, ok := p.exp.(*Number); ok {
		if n.isHalf() {
			return `\sqrt{` + p.base.LaTeX() + `}`
		}
		if n.Sign() < 0 {
			return `\frac{1}{` + NewPow(p.base, negNumber(n)).LaTeX() + `}`
		}
	}
	exp := p.exp.LaTeX()
	switch b := p.base.(type) {
	case *Applied:
		return latexName(b.fn.name) + "^{" + exp + "}" + b.latexArgs()
	case *Elementary:
		if b.name != "exp" {
			return elementaryLatex[b.name] + "^{" + exp + `}{\left(` + b.arg.LaTeX() + ` \right)}`
		}
	}
	return latexParen(p.base, precPow+1) + "^{" + exp + "}"
}

func (f *Elementary) LaTeX() string {
	if f.name == "exp" {
		return "e^{" + f.arg.LaTeX() + "}"
	}
	return elementaryLatex[f.name] + `{\left(` + f.arg.LaTeX() + ` \right)}`
}

var greek = map[string]bool{
	"alpha": true, "beta": true, "gamma": true, "delta": true, "epsilon": true, "zeta": true,
	"eta": true, "theta": true, "iota": true, "kappa": true, "lambda": true, "mu": true,
	"nu": true, "xi": true, "pi": true, "rho": true, "sigma": true, "tau": true,
	"upsilon": true, "phi": true, "chi": true, "psi": true, "omega": true,
	"Gamma": true, "Delta": true, "Theta": true, "Lambda": true, "Xi": true, "Pi": true,
	"Sigma": true, "Upsilon": true, "Phi": true, "Psi": true, "Omega": true,
}

// latexName renders a symbol name: greek letters become commands and a trailing
// "_sub" or digit run becomes a subscript.
func latexName(name string) string {
	if i := strings.IndexByte(name, '_'); i > 0 && i < len(name)-1 {
		return latexName(name[:i]) + "_{" + latexName(name[i+1:]) + "}"
	}
	head := strings.TrimRightFunc(name, unicode.IsDigit)
	if head != "" && head != name {
		return latexName(head) + "_{" + name[len(head):] + "}"
	}
	if greek[name] {
		return `\` + name
	}
	return name
}
