package symbolic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerivativeRendering(t *testing.T) {
	ts := NewSymbol("t")
	xs := NewSymbol("x")
	x := NewFunction("x").Apply(ts)
	u := NewFunction("u").Apply(ts, xs)

	tests := []struct {
		name  string
		expr  Expr
		want  string
		latex string
	}{
		{
			name:  "ordinary first derivative",
			expr:  NewDerivative(x, ts),
			want:  "Derivative(x(t), t)",
			latex: `\frac{d}{d t} x{\left(t \right)}`,
		},
		{
			name:  "ordinary second derivative",
			expr:  NewDerivative(x, ts, ts),
			want:  "Derivative(x(t), (t, 2))",
			latex: `\frac{d^{2}}{d t^{2}} x{\left(t \right)}`,
		},
		{
			name:  "partial derivative",
			expr:  NewDerivative(u, xs),
			want:  "Derivative(u(t, x), x)",
			latex: `\frac{\partial}{\partial x} u{\left(t,x \right)}`,
		},
		{
			name:  "nested derivative merges variables",
			expr:  NewDerivative(NewDerivative(u, xs), xs),
			want:  "Derivative(u(t, x), (x, 2))",
			latex: `\frac{\partial^{2}}{\partial x^{2}} u{\left(t,x \right)}`,
		},
		{
			name: "mixed variables are sorted",
			expr: NewDerivative(u, xs, ts),
			want: "Derivative(u(t, x), t, x)",
		},
		{
			name:  "variable not in expression",
			expr:  NewDerivative(x, xs),
			want:  "0",
			latex: "0",
		},
		{
			name: "any missing variable gives zero",
			expr: NewDerivative(x, ts, xs),
			want: "0",
		},
		{
			name: "constant",
			expr: NewDerivative(Int(3), ts),
			want: "0",
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

func TestDiff(t *testing.T) {
	ts := NewSymbol("t")
	xs := NewSymbol("x")
	x := NewFunction("x").Apply(ts)
	u := NewFunction("u").Apply(ts, xs)

	tests := []struct {
		name string
		expr Expr
		v    *Symbol
		want string
	}{
		{name: "constant", expr: Int(3), v: xs, want: "0"},
		{name: "same symbol", expr: xs, v: xs, want: "1"},
		{name: "other symbol", expr: ts, v: xs, want: "0"},
		{name: "power rule", expr: NewPow(xs, Int(3)), v: xs, want: "3*x**2"},
		{name: "sum", expr: NewAdd(NewPow(xs, Int(2)), xs), v: xs, want: "2*x + 1"},
		{name: "chain through sin", expr: Sin(NewMul(Int(2), xs)), v: xs, want: "2*cos(2*x)"},
		{name: "undefined function stays unevaluated", expr: u, v: xs, want: "Derivative(u(t, x), x)"},
		{name: "undefined function free of variable", expr: x, v: xs, want: "0"},
		{name: "product with undefined function", expr: NewPow(x, Int(2)), v: ts, want: "2*x(t)*Derivative(x(t), t)"},
		{name: "log", expr: Log(xs), v: xs, want: "1/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Diff(tt.expr, tt.v).String())
		})
	}
}

func TestDiffN(t *testing.T) {
	xs := NewSymbol("x")
	u := NewFunction("u").Apply(NewSymbol("t"), xs)
	assert.Equal(t, "Derivative(u(t, x), (x, 2))", DiffN(u, xs, 2).String())
	assert.Equal(t, "6", DiffN(NewPow(xs, Int(3)), xs, 3).String())
}

func TestEquation(t *testing.T) {
	ts := NewSymbol("t")
	x := NewFunction("x").Apply(ts)
	eq := Eq(NewDerivative(x, ts), NewAdd(NewPow(x, Int(2)), Int(1)))

	assert.Equal(t, "Derivative(x(t), t) = x(t)**2 + 1", eq.String())
	assert.Equal(t, `\frac{d}{d t} x{\left(t \right)} = x^{2}{\left(t \right)} + 1`, eq.LaTeX())
}

func TestHas(t *testing.T) {
	xs := NewSymbol("x")
	u := NewFunction("u").Apply(NewSymbol("t"), xs)
	require.True(t, Has(NewAdd(u, Int(1)), xs))
	require.False(t, Has(NewAdd(NewSymbol("y"), Int(1)), xs))
}
