package source

import (
	"math/big"

	starctx "github.com/quadpde/quadpde/internal/starlark"
	"go.starlark.net/syntax"
)

// MarkerName is the call whose arguments describe an example's system.
const MarkerName = starctx.MarkerName

const (
	// DefaultDiffOrder applies when diff_ord is absent or not an int literal.
	DefaultDiffOrder = 2
	// DefaultFirstIndep applies when first_indep is absent or not a name or literal.
	DefaultFirstIndep = "t"
)

// NamePair is one (function, expression) entry of the marker's first argument, as written.
type NamePair struct {
	Func string
	Expr string
}

// CallSite is what the marker call says, read from syntax alone.
type CallSite struct {
	Pairs      []NamePair
	DiffOrder  int
	FirstIndep string
	// Line of the marker call, 1-based.
	Line int
}

// FindMarker returns the first call to marker in a depth-first, pre-order walk of f.
// Both marker(...) and mod.marker(...) match.
func FindMarker(f *syntax.File, marker string) *syntax.CallExpr {
	var found *syntax.CallExpr
	syntax.Walk(f, func(n syntax.Node) bool {
		if found != nil {
			return false
		}
		call, ok := n.(*syntax.CallExpr)
		if !ok {
			return true
		}
		switch fn := call.Fn.(type) {
		case *syntax.Ident:
			if fn.Name == marker {
				found = call
				return false
			}
		case *syntax.DotExpr:
			if fn.Name.Name == marker {
				found = call
				return false
			}
		}
		return true
	})
	return found
}

// ExtractCallSite reads the marker call in f. ok is false when f has no marker call.
//
// The first positional argument (or func_eq=) must be a list or tuple literal of tuples
// whose first two elements are names or literals; other elements are skipped.
// diff_ord= is honored only as an int literal and first_indep= only as a name or literal.
func ExtractCallSite(f *syntax.File) (CallSite, bool) {
	call := FindMarker(f, MarkerName)
	if call == nil {
		return CallSite{}, false
	}

	start, _ := call.Span()
	site := CallSite{
		DiffOrder:  DefaultDiffOrder,
		FirstIndep: DefaultFirstIndep,
		Line:       int(start.Line),
	}

	var funcEq syntax.Expr
	var keywordFuncEq syntax.Expr
	for _, arg := range call.Args {
		if bin, ok := arg.(*syntax.BinaryExpr); ok && bin.Op == syntax.EQ {
			key, ok := bin.X.(*syntax.Ident)
			if !ok {
				continue
			}
			switch key.Name {
			case "func_eq":
				keywordFuncEq = bin.Y
			case "diff_ord":
				if n, ok := intLiteral(bin.Y); ok {
					site.DiffOrder = n
				}
			case "first_indep":
				if s, ok := nameOrLiteral(bin.Y); ok {
					site.FirstIndep = s
				}
			}
			continue
		}
		if _, ok := arg.(*syntax.UnaryExpr); ok {
			// *args and **kwargs
			continue
		}
		if funcEq == nil {
			funcEq = arg
		}
	}
	if funcEq == nil {
		funcEq = keywordFuncEq
	}

	site.Pairs = extractPairs(funcEq)
	return site, true
}

func extractPairs(e syntax.Expr) []NamePair {
	var elems []syntax.Expr
	switch v := unparen(e).(type) {
	case *syntax.ListExpr:
		elems = v.List
	case *syntax.TupleExpr:
		elems = v.List
	default:
		return nil
	}

	var pairs []NamePair
	for _, elem := range elems {
		tuple, ok := unparen(elem).(*syntax.TupleExpr)
		if !ok || len(tuple.List) < 2 {
			continue
		}
		fn, ok := nameOrLiteral(tuple.List[0])
		if !ok {
			continue
		}
		expr, ok := nameOrLiteral(tuple.List[1])
		if !ok {
			continue
		}
		pairs = append(pairs, NamePair{Func: fn, Expr: expr})
	}
	return pairs
}

func unparen(e syntax.Expr) syntax.Expr {
	for {
		p, ok := e.(*syntax.ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}

// nameOrLiteral returns an identifier's name, a string literal's value, or a number's source text.
func nameOrLiteral(e syntax.Expr) (string, bool) {
	switch v := unparen(e).(type) {
	case *syntax.Ident:
		return v.Name, true
	case *syntax.Literal:
		if s, ok := v.Value.(string); ok {
			return s, true
		}
		return v.Raw, true
	}
	return "", false
}

func intLiteral(e syntax.Expr) (int, bool) {
	lit, ok := unparen(e).(*syntax.Literal)
	if !ok || lit.Token != syntax.INT {
		return 0, false
	}
	switch n := lit.Value.(type) {
	case int64:
		if int64(int(n)) == n {
			return int(n), true
		}
	case *big.Int:
		if n.IsInt64() && int64(int(n.Int64())) == n.Int64() {
			return int(n.Int64()), true
		}
	}
	return 0, false
}
