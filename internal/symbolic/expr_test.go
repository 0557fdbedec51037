package symbolic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalString(t *testing.T) {
	ts := NewSymbol("t")
	xs := NewSymbol("x")
	ys := NewSymbol("y")
	x := NewFunction("x").Apply(ts)
	half, err := Rational(1, 2)
	require.NoError(t, err)

	tests := []struct {
		name  string
		expr  Expr
		want  string
		latex string
	}{
		{
			name:  "applied function squared plus one",
			expr:  NewAdd(NewMul(x, x), Int(1)),
			want:  "x(t)**2 + 1",
			latex: `x^{2}{\left(t \right)} + 1`,
		},
		{
			name:  "like terms collect",
			expr:  NewAdd(xs, xs),
			want:  "2*x",
			latex: "2 x",
		},
		{
			name: "cancellation to zero",
			expr: Sub(xs, xs),
			want: "0",
		},
		{
			name:  "leading negative term",
			expr:  Sub(ys, xs),
			want:  "-x + y",
			latex: "- x + y",
		},
		{
			name:  "division by integer",
			expr:  Div(xs, Int(2)),
			want:  "x/2",
			latex: `\frac{x}{2}`,
		},
		{
			name:  "reciprocal",
			expr:  Div(Int(1), xs),
			want:  "1/x",
			latex: `\frac{1}{x}`,
		},
		{
			name: "coefficient distributes over sum",
			expr: NewMul(Int(2), NewAdd(xs, Int(1))),
			want: "2*x + 2",
		},
		{
			name: "higher degree first",
			expr: NewAdd(Int(1), NewMul(Int(2), xs), NewPow(xs, Int(2))),
			want: "x**2 + 2*x + 1",
		},
		{
			name:  "rational coefficient",
			expr:  NewMul(half, xs, ys),
			want:  "x*y/2",
			latex: `\frac{x y}{2}`,
		},
		{
			name: "power of product distributes",
			expr: NewPow(NewMul(Int(2), xs), Int(2)),
			want: "4*x**2",
		},
		{
			name:  "square root",
			expr:  Sqrt(xs),
			want:  "sqrt(x)",
			latex: `\sqrt{x}`,
		},
		{
			name: "numeric powers are exact",
			expr: NewPow(Int(2), Int(-2)),
			want: "1/4",
		},
		{
			name: "sum base is parenthesized",
			expr: NewPow(NewAdd(xs, Int(1)), ys),
			want: "(x + 1)**y",
		},
		{
			name:  "elementary squared",
			expr:  NewPow(Sin(xs), Int(2)),
			want:  "sin(x)**2",
			latex: `\sin^{2}{\left(x \right)}`,
		},
		{
			name:  "exponential",
			expr:  Exp(xs),
			want:  "exp(x)",
			latex: "e^{x}",
		},
		{
			name: "float keeps decimal point",
			expr: NewMul(Float(2), xs),
			want: "2.0*x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.String())
			if tt.latex != "" {
				assert.Equal(t, tt.latex, tt.expr.LaTeX())
			}
		})
	}
}

func TestRationalZeroDenominator(t *testing.T) {
	_, err := Rational(1, 0)
	require.Error(t, err)

	var domErr *DomainError
	require.ErrorAs(t, err, &domErr)
	assert.Equal(t, "Rational", domErr.Op)
}

func TestLatexName(t *testing.T) {
	tests := map[string]string{
		"x":     "x",
		"alpha": `\alpha`,
		"x1":    "x_{1}",
		"nu_2":  `\nu_{2}`,
		"Omega": `\Omega`,
	}
	for in, want := range tests {
		assert.Equal(t, want, latexName(in), "latexName(%q)", in)
	}
}

func TestEqualIsStructural(t *testing.T) {
	a := NewAdd(NewSymbol("x"), Int(1))
	b := NewAdd(Int(1), NewSymbol("x"))
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(NewSymbol("x")))
}

func TestAppliedSymbols(t *testing.T) {
	u := NewFunction("u")
	syms, ok := u.Apply(NewSymbol("t"), NewSymbol("x")).Symbols()
	require.True(t, ok)
	require.Len(t, syms, 2)
	assert.Equal(t, "t", syms[0].Name())
	assert.Equal(t, "x", syms[1].Name())

	_, ok = u.Apply(NewMul(Int(2), NewSymbol("t"))).Symbols()
	assert.False(t, ok)
}

func TestSymbols(t *testing.T) {
	syms := Symbols("t, x  y")
	require.Len(t, syms, 3)
	assert.Equal(t, []string{"t", "x", "y"}, []string{syms[0].Name(), syms[1].Name(), syms[2].Name()})
}
