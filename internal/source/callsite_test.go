package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCallSite(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantOK    bool
		wantPairs []NamePair
		wantOrder int
		wantIndep string
		wantLine  int
	}{
		{
			name:      "names and keywords",
			content:   "quadratize([(x, rhs)], diff_ord = 3, first_indep = t)\n",
			wantOK:    true,
			wantPairs: []NamePair{{Func: "x", Expr: "rhs"}},
			wantOrder: 3,
			wantIndep: "t",
			wantLine:  1,
		},
		{
			name:      "defaults",
			content:   "x = 1\nquadratize([(x, rhs)])\n",
			wantOK:    true,
			wantPairs: []NamePair{{Func: "x", Expr: "rhs"}},
			wantOrder: 2,
			wantIndep: "t",
			wantLine:  2,
		},
		{
			name:      "string literals",
			content:   `quadratize([("x", "rhs"), (u, 1)], first_indep = "s")`,
			wantOK:    true,
			wantPairs: []NamePair{{Func: "x", Expr: "rhs"}, {Func: "u", Expr: "1"}},
			wantOrder: 2,
			wantIndep: "s",
			wantLine:  1,
		},
		{
			name:      "non-conforming elements skipped",
			content:   "quadratize([(x,), x, (a, b, extra), (f(x), rhs), [y, z]])\n",
			wantOK:    true,
			wantPairs: []NamePair{{Func: "a", Expr: "b"}},
			wantOrder: 2,
			wantIndep: "t",
			wantLine:  1,
		},
		{
			name:      "func_eq keyword",
			content:   "quadratize(func_eq = [(x, rhs)], diff_ord = 4)\n",
			wantOK:    true,
			wantPairs: []NamePair{{Func: "x", Expr: "rhs"}},
			wantOrder: 4,
			wantIndep: "t",
			wantLine:  1,
		},
		{
			name:      "tuple of tuples",
			content:   "quadratize(((x, rhs),))\n",
			wantOK:    true,
			wantPairs: []NamePair{{Func: "x", Expr: "rhs"}},
			wantOrder: 2,
			wantIndep: "t",
			wantLine:  1,
		},
		{
			name:      "non-literal diff_ord ignored",
			content:   "quadratize([(x, rhs)], diff_ord = n, first_indep = 1)\n",
			wantOK:    true,
			wantPairs: []NamePair{{Func: "x", Expr: "rhs"}},
			wantOrder: 2,
			wantIndep: "1",
			wantLine:  1,
		},
		{
			name:      "float diff_ord ignored",
			content:   "quadratize([(x, rhs)], diff_ord = 2.5, first_indep = f(t))\n",
			wantOK:    true,
			wantPairs: []NamePair{{Func: "x", Expr: "rhs"}},
			wantOrder: 2,
			wantIndep: "t",
			wantLine:  1,
		},
		{
			name:      "inside main guard",
			content:   "x = 1\nif __name__ == \"__main__\":\n    quadratize([(x, rhs)], diff_ord = 5)\n",
			wantOK:    true,
			wantPairs: []NamePair{{Func: "x", Expr: "rhs"}},
			wantOrder: 5,
			wantIndep: "t",
			wantLine:  3,
		},
		{
			name:      "inside function body",
			content:   "def main():\n    return quadratize([(x, rhs)])\n",
			wantOK:    true,
			wantPairs: []NamePair{{Func: "x", Expr: "rhs"}},
			wantOrder: 2,
			wantIndep: "t",
			wantLine:  2,
		},
		{
			name:      "attribute call",
			content:   "lib.quadratize([(x, rhs)])\n",
			wantOK:    true,
			wantPairs: []NamePair{{Func: "x", Expr: "rhs"}},
			wantOrder: 2,
			wantIndep: "t",
			wantLine:  1,
		},
		{
			name:      "first marker wins",
			content:   "quadratize([(a, b)])\nquadratize([(c, d)], diff_ord = 9)\n",
			wantOK:    true,
			wantPairs: []NamePair{{Func: "a", Expr: "b"}},
			wantOrder: 2,
			wantIndep: "t",
			wantLine:  1,
		},
		{
			name:      "non-list argument",
			content:   "quadratize(pairs)\n",
			wantOK:    true,
			wantOrder: 2,
			wantIndep: "t",
			wantLine:  1,
		},
		{
			name:    "no marker",
			content: "x = 1\nprint(x)\n",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse("/tmp/site.star", []byte(tt.content))
			require.NoError(t, err)

			site, ok := ExtractCallSite(f.Syntax)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantPairs, site.Pairs)
			assert.Equal(t, tt.wantOrder, site.DiffOrder)
			assert.Equal(t, tt.wantIndep, site.FirstIndep)
			assert.Equal(t, tt.wantLine, site.Line)
		})
	}
}

func TestFindMarker_OtherName(t *testing.T) {
	f, err := Parse("/tmp/other.star", []byte("solve([(x, y)])\n"))
	require.NoError(t, err)

	assert.Nil(t, FindMarker(f.Syntax, MarkerName))
	assert.NotNil(t, FindMarker(f.Syntax, "solve"))
}
