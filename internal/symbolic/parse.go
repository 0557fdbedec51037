package symbolic

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode"
)

// Namespace binds names used by Parse. Values are Expr or *Function.
type Namespace map[string]any

// Parse reads an expression in the canonical text syntax, e.g. "u(t, x)**2 - Derivative(u(t, x), x)".
// Unknown names followed by "(" become undefined functions, other unknown names become symbols.
// Both "**" and "^" denote powers.
func Parse(src string, ns Namespace) (Expr, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, toks: toks, ns: ns}
	e, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.errorf(tok, "unexpected %q", tok.text)
	}
	return e, nil
}

// ParseError reports malformed expression text.
type ParseError struct {
	Src     string
	Pos     int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q at offset %d: %s", e.Src, e.Pos, e.Message)
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokNumber
	tokIdent
	tokOp
)

type token struct {
	kind tokKind
	text string
	pos  int
}

func tokenize(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := rune(src[i])
		switch {
		case unicode.IsSpace(c):
			i++
		case unicode.IsDigit(c) || (c == '.' && i+1 < len(src) && unicode.IsDigit(rune(src[i+1]))):
			start := i
			for i < len(src) && (unicode.IsDigit(rune(src[i])) || src[i] == '.') {
				i++
			}
			if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
				j := i + 1
				if j < len(src) && (src[j] == '+' || src[j] == '-') {
					j++
				}
				if j < len(src) && unicode.IsDigit(rune(src[j])) {
					i = j
					for i < len(src) && unicode.IsDigit(rune(src[i])) {
						i++
					}
				}
			}
			toks = append(toks, token{kind: tokNumber, text: src[start:i], pos: start})
		case c == '_' || unicode.IsLetter(c):
			start := i
			for i < len(src) && (src[i] == '_' || unicode.IsLetter(rune(src[i])) || unicode.IsDigit(rune(src[i]))) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], pos: start})
		case strings.HasPrefix(src[i:], "**"):
			toks = append(toks, token{kind: tokOp, text: "**", pos: i})
			i += 2
		case strings.ContainsRune("+-*/^(),", c):
			toks = append(toks, token{kind: tokOp, text: string(c), pos: i})
			i++
		default:
			return nil, &ParseError{Src: src, Pos: i, Message: fmt.Sprintf("unexpected character %q", c)}
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(src)}), nil
}

type parser struct {
	src  string
	toks []token
	pos  int
	ns   Namespace
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) accept(op string) bool {
	if t := p.peek(); t.kind == tokOp && t.text == op {
		p.pos++
		return true
	}
	return false
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return &ParseError{Src: p.src, Pos: t.pos, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) parseSum() (Expr, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.accept("+"):
			right, err := p.parseProduct()
			if err != nil {
				return nil, err
			}
			left = NewAdd(left, right)
		case p.accept("-"):
			right, err := p.parseProduct()
			if err != nil {
				return nil, err
			}
			left = Sub(left, right)
		default:
			return left, nil
		}
	}
}

func (p *parser) parseProduct() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.accept("*"):
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = NewMul(left, right)
		case p.accept("/"):
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = Div(left, right)
		default:
			return left, nil
		}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	if p.accept("-") {
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Neg(e), nil
	}
	if p.accept("+") {
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.accept("**") || p.accept("^") {
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return NewPow(base, exp), nil
	}
	return base, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return parseNumber(t.text, func(msg string) error { return p.errorf(t, "%s", msg) })
	case tokIdent:
		if p.accept("(") {
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			return p.call(t, args)
		}
		return p.lookup(t.text), nil
	case tokOp:
		if t.text == "(" {
			e, err := p.parseSum()
			if err != nil {
				return nil, err
			}
			if !p.accept(")") {
				return nil, p.errorf(p.peek(), "expected )")
			}
			return e, nil
		}
	}
	if t.kind == tokEOF {
		return nil, p.errorf(t, "unexpected end of input")
	}
	return nil, p.errorf(t, "unexpected %q", t.text)
}

func (p *parser) parseArgs() ([]Expr, error) {
	var args []Expr
	if p.accept(")") {
		return args, nil
	}
	for {
		e, err := p.parseArgument()
		if err != nil {
			return nil, err
		}
		args = append(args, e)
		if p.accept(")") {
			return args, nil
		}
		if !p.accept(",") {
			return nil, p.errorf(p.peek(), "expected , or )")
		}
	}
}

// parseArgument also accepts the "(x, 2)" variable-count form used by Derivative.
func (p *parser) parseArgument() (Expr, error) {
	if t := p.peek(); t.kind == tokOp && t.text == "(" {
		save := p.pos
		p.pos++
		if v := p.peek(); v.kind == tokIdent {
			p.pos++
			if p.accept(",") {
				if n := p.peek(); n.kind == tokNumber {
					p.pos++
					if p.accept(")") {
						count, err := strconv.Atoi(n.text)
						if err != nil || count < 0 {
							return nil, p.errorf(n, "invalid derivative count %q", n.text)
						}
						return &varCountArg{sym: NewSymbol(v.text), count: count}, nil
					}
				}
			}
		}
		p.pos = save
	}
	return p.parseSum()
}

func (p *parser) lookup(name string) Expr {
	if v, ok := p.ns[name]; ok {
		if e, ok := v.(Expr); ok {
			return e
		}
	}
	switch name {
	case "pi":
		return Pi
	case "E":
		return E
	}
	return NewSymbol(name)
}

func (p *parser) call(t token, args []Expr) (Expr, error) {
	name := t.text
	if v, ok := p.ns[name]; ok {
		if fn, ok := v.(*Function); ok {
			return fn.Apply(args...), nil
		}
		return nil, p.errorf(t, "%s is not callable", name)
	}
	if name == "Derivative" || name == "diff" {
		return p.derivative(t, args, name == "diff")
	}
	for _, a := range args {
		if _, ok := a.(*varCountArg); ok {
			return nil, p.errorf(t, "unexpected (var, count) argument")
		}
	}
	if IsElementary(name) {
		if len(args) != 1 {
			return nil, p.errorf(t, "%s takes exactly one argument", name)
		}
		return ApplyElementary(name, args[0])
	}
	return NewFunction(name).Apply(args...), nil
}

func (p *parser) derivative(t token, args []Expr, evaluate bool) (Expr, error) {
	if len(args) < 2 {
		return nil, p.errorf(t, "%s needs an expression and at least one variable", t.text)
	}
	var vars []*Symbol
	for _, a := range args[1:] {
		switch v := a.(type) {
		case *Symbol:
			vars = append(vars, v)
		case *varCountArg:
			for i := 0; i < v.count; i++ {
				vars = append(vars, v.sym)
			}
		default:
			return nil, p.errorf(t, "cannot differentiate with respect to %s", a.String())
		}
	}
	if !evaluate {
		return NewDerivative(args[0], vars...), nil
	}
	e := args[0]
	for _, v := range vars {
		e = Diff(e, v)
	}
	return e, nil
}

// varCountArg is the transient "(x, n)" argument of Derivative; it never escapes Parse.
type varCountArg struct {
	sym   *Symbol
	count int
}

func (v *varCountArg) String() string        { return "(" + v.sym.name + ", " + strconv.Itoa(v.count) + ")" }
func (v *varCountArg) LaTeX() string         { return v.String() }
func (v *varCountArg) Equal(other Expr) bool { return false }
func (v *varCountArg) Args() []Expr          { return nil }
func (v *varCountArg) kind() kind            { return kindSymbol }

func parseNumber(text string, fail func(string) error) (Expr, error) {
	if strings.ContainsAny(text, ".eE") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fail("invalid number " + text)
		}
		return Float(f), nil
	}
	n, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return nil, fail("invalid number " + text)
	}
	return BigInt(n), nil
}
