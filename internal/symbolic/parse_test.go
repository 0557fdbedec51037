package symbolic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "applied function power", src: "x(t)**2 + 1", want: "x(t)**2 + 1"},
		{name: "caret is power", src: "-x^2", want: "-x**2"},
		{name: "right associative power", src: "2**-1", want: "1/2"},
		{name: "division chain", src: "a/b/c", want: "a/(b*c)"},
		{name: "float literal", src: "2.5*x", want: "2.5*x"},
		{name: "unevaluated derivative", src: "Derivative(u(t, x), (x, 2))", want: "Derivative(u(t, x), (x, 2))"},
		{name: "evaluated derivative", src: "diff(sin(x), x)", want: "cos(x)"},
		{name: "constants", src: "2*pi", want: "2*pi"},
		{name: "parenthesized sum", src: "(x + 1)*(x + 1)", want: "(x + 1)**2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.src, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseNamespace(t *testing.T) {
	u := NewFunction("u")
	ns := Namespace{"u": u, "k": Int(3)}

	got, err := Parse("k*u(t)", ns)
	require.NoError(t, err)
	assert.Equal(t, "3*u(t)", got.String())

	_, err = Parse("k(t)", ns)
	require.Error(t, err)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "dangling operator", src: "x +"},
		{name: "bad character", src: "x $ y"},
		{name: "unclosed paren", src: "(x + 1"},
		{name: "elementary arity", src: "sin(x, y)"},
		{name: "count outside derivative", src: "f((x, 2))"},
		{name: "derivative without variable", src: "Derivative(u(t))"},
		{name: "trailing token", src: "x y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src, nil)
			require.Error(t, err)

			var perr *ParseError
			assert.ErrorAs(t, err, &perr)
		})
	}
}
