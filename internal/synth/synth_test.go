package synth

import (
	"testing"

	"github.com/quadpde/quadpde/internal/materializer"
	"github.com/quadpde/quadpde/internal/source"
	starctx "github.com/quadpde/quadpde/internal/starlark"
	"github.com/quadpde/quadpde/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
)

func synthesize(t *testing.T, src string) (*Result, []string, starlark.StringDict) {
	t.Helper()
	f, err := source.Parse("/examples/system.star", []byte(src))
	require.NoError(t, err)
	site, ok := source.ExtractCallSite(f.Syntax)
	require.True(t, ok, "marker call expected")

	globals, err := materializer.New(materializer.Config{Logger: testutil.NewTestLogger(t)}).Materialize(f.Path, f.Content)
	require.NoError(t, err)

	res, dropped := Synthesize(site, globals)
	return res, dropped, globals
}

func TestSynthesize_ScalarODE(t *testing.T) {
	res, dropped, globals := synthesize(t, testutil.Logistic)
	require.NotNil(t, res)
	assert.Empty(t, dropped)

	assert.Equal(t, "t", res.Vars)
	assert.Equal(t, "x", res.Funcs)
	assert.Equal(t, "t", res.Var.Name())
	assert.Equal(t, []string{"Derivative(x(t), t) = x(t)**2 + 1"}, res.Canonical)
	assert.Equal(t, []string{`\frac{d}{d t} x{\left(t \right)} = x^{2}{\left(t \right)} + 1`}, res.Latex)
	require.Len(t, res.Equations, 1)

	x, ok := starctx.AppliedOf(globals["x"])
	require.True(t, ok)
	assert.Same(t, x, res.Pairs[0].Func, "pairs share the bound values")
}

func TestSynthesize_FirstIndepFallback(t *testing.T) {
	src := `
t = sp.Symbol("t")
f = sp.Function("f")(t)
rhs = f * f
quadratize([(f, rhs)], first_indep = "s")
`
	res, _, _ := synthesize(t, src)
	require.NotNil(t, res)
	assert.Equal(t, "t", res.Var.Name())
	assert.Equal(t, []string{"Derivative(f(t), t) = f(t)**2"}, res.Canonical)
}

func TestSynthesize_PartialDerivatives(t *testing.T) {
	tests := []struct {
		name      string
		indep     string
		canonical string
		latex     string
	}{
		{
			name:      "time",
			indep:     "t",
			canonical: "Derivative(u(x, t), t) = Derivative(u(x, t), (x, 2))",
			latex:     `\frac{\partial}{\partial t} u{\left(x,t \right)} = \frac{\partial^{2}}{\partial x^{2}} u{\left(x,t \right)}`,
		},
		{
			name:      "space",
			indep:     "x",
			canonical: "Derivative(u(x, t), x) = Derivative(u(x, t), (x, 2))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := `
x, t = sp.symbols("x t")
u = sp.Function("u")(x, t)
uxx = u.diff(x, 2)
quadratize([(u, uxx)], first_indep = ` + tt.indep + `)
`
			res, _, _ := synthesize(t, src)
			require.NotNil(t, res)
			assert.Equal(t, "x, t", res.Vars)
			assert.Equal(t, []string{tt.canonical}, res.Canonical)
			if tt.latex != "" {
				assert.Equal(t, []string{tt.latex}, res.Latex)
			}
		})
	}
}

func TestSynthesize_System(t *testing.T) {
	src := `
t = sp.Symbol("t")
x = sp.Function("x")(t)
y = sp.Function("y")(t)
rx = x - x * y
ry = x * y - y
quadratize([(x, rx), (y, ry), (x, rx)])
`
	res, _, _ := synthesize(t, src)
	require.NotNil(t, res)
	assert.Equal(t, "x, y", res.Funcs)
	assert.Equal(t, "t", res.Vars)
	assert.Equal(t, []string{
		"Derivative(x(t), t) = -x(t)*y(t) + x(t)",
		"Derivative(y(t), t) = x(t)*y(t) - y(t)",
		"Derivative(x(t), t) = -x(t)*y(t) + x(t)",
	}, res.Canonical)
	assert.Len(t, res.Latex, 3)
	assert.Len(t, res.Pairs, 3)
}

func TestSynthesize_FunctionWithoutVariable(t *testing.T) {
	src := `
t, x = sp.symbols("t x")
f = sp.Function("f")(t)
g = sp.Function("g")(x)
rf = f * g
rg = g * g
quadratize([(f, rf), (g, rg)])
`
	res, dropped, _ := synthesize(t, src)
	require.NotNil(t, res)
	assert.Empty(t, dropped)
	assert.Equal(t, "t", res.Var.Name())
	assert.Equal(t, []string{
		"Derivative(f(t), t) = f(t)*g(x)",
		"0 = g(x)**2",
	}, res.Canonical)
	assert.Equal(t, `0 = g^{2}{\left(x \right)}`, res.Latex[1])
}

func TestSynthesize_DroppedPairs(t *testing.T) {
	src := `
t = sp.Symbol("t")
x = sp.Function("x")(t)
g = sp.Function("g")(2 * t)
c = 3
flag = True
ratio = 0.5
label = "not an expression"
rhs = x * x
zero = sp.Integer(0)
quadratize([(x, rhs), ("y", rhs), (rhs, x), (g, rhs), (x, label), (x, c), (x, flag), (x, ratio), (x, zero)])
`
	res, dropped, _ := synthesize(t, src)
	require.NotNil(t, res)
	assert.Equal(t, []string{
		"Derivative(x(t), t) = x(t)**2",
		"Derivative(x(t), t) = 0",
	}, res.Canonical)
	require.Len(t, dropped, 7)
	assert.Contains(t, dropped[0], "y is not defined")
	assert.Contains(t, dropped[1], "not an applied function")
	assert.Contains(t, dropped[2], "must be applied to symbols")
	assert.Contains(t, dropped[3], "label is a string, not a symbolic expression")
	assert.Contains(t, dropped[4], "c is a int, not a symbolic expression")
	assert.Contains(t, dropped[5], "flag is a bool, not a symbolic expression")
	assert.Contains(t, dropped[6], "ratio is a float, not a symbolic expression")
}

func TestSynthesize_NothingResolves(t *testing.T) {
	src := `
t = sp.Symbol("t")
x = sp.Function("x")
rhs = "text"
quadratize([(x, rhs), (t, t)])
`
	res, dropped, _ := synthesize(t, src)
	assert.Nil(t, res)
	assert.Len(t, dropped, 2)
}

func TestSynthesize_NoPairs(t *testing.T) {
	res, dropped := Synthesize(source.CallSite{FirstIndep: "t", DiffOrder: 2}, starlark.StringDict{})
	assert.Nil(t, res)
	assert.Empty(t, dropped)
}
