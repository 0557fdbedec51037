package starlark

import (
	"math/big"
	"testing"

	"github.com/quadpde/quadpde/internal/symbolic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
)

func TestToExpr(t *testing.T) {
	tests := []struct {
		name    string
		input   starlark.Value
		want    string
		wantErr bool
	}{
		{name: "int", input: starlark.MakeInt(7), want: "7"},
		{name: "big int", input: starlark.MakeBigInt(new(big.Int).Lsh(big.NewInt(1), 100)), want: "1267650600228229401496703205376"},
		{name: "float", input: starlark.Float(1.5), want: "1.5"},
		{name: "bool", input: starlark.True, want: "1"},
		{name: "expr", input: NewExpr(symbolic.NewSymbol("t")), want: "t"},
		{name: "string", input: starlark.String("t"), wantErr: true},
		{name: "none", input: starlark.None, wantErr: true},
		{name: "unapplied function", input: &FunctionValue{Func: symbolic.NewFunction("f")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToExpr(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestExprValue_Attrs(t *testing.T) {
	tv := NewExpr(symbolic.NewSymbol("t"))
	name, err := tv.Attr("name")
	require.NoError(t, err)
	assert.Equal(t, starlark.String("t"), name)

	missing, err := tv.Attr("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	x := NewExpr(symbolic.NewFunction("x").Apply(symbolic.NewSymbol("t")))
	args, err := x.Attr("args")
	require.NoError(t, err)
	require.IsType(t, starlark.Tuple{}, args)
	assert.Equal(t, 1, args.(starlark.Tuple).Len())
}

func TestExprValue_Hashable(t *testing.T) {
	globals, err := execSource(t, `
t = sp.Symbol("t")
d = {t: 1}
v = d[sp.Symbol("t")]
`)
	require.NoError(t, err)
	assert.Equal(t, "1", globals["v"].String())
}

func TestEquationValue_Attrs(t *testing.T) {
	globals, err := execSource(t, `
t = sp.Symbol("t")
e = sp.Eq(t, 1)
l = e.lhs
r = e.rhs
`)
	require.NoError(t, err)
	assert.Equal(t, "t", globals["l"].String())
	assert.Equal(t, "1", globals["r"].String())
	assert.Equal(t, "Equation", globals["e"].Type())
}
