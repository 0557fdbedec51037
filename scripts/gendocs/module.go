package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	starctx "github.com/quadpde/quadpde/internal/starlark"
)

// Member describes one documented name.
type Member struct {
	Signature   string
	Kind        string
	Description string
}

// moduleMembers documents every member of the sp module. TestModuleMembersDocumented
// keeps it in sync with starctx.Module.
var moduleMembers = map[string]Member{
	"Symbol":     {Signature: "Symbol(name)", Kind: "function", Description: "A named independent variable."},
	"symbols":    {Signature: "symbols(names)", Kind: "function", Description: "Symbols from a space or comma separated list. One name gives one symbol, several give a tuple."},
	"Function":   {Signature: "Function(name)", Kind: "function", Description: "An undefined function; call it with symbols to apply it, as in `Function(\"x\")(t)`."},
	"Integer":    {Signature: "Integer(n)", Kind: "function", Description: "An exact integer."},
	"Rational":   {Signature: "Rational(p, q)", Kind: "function", Description: "An exact fraction p/q."},
	"Pow":        {Signature: "Pow(base, exp)", Kind: "function", Description: "base raised to exp."},
	"Derivative": {Signature: "Derivative(expr, *vars)", Kind: "function", Description: "An unevaluated derivative of expr."},
	"diff":       {Signature: "diff(expr, *vars)", Kind: "function", Description: "The derivative of expr, evaluated where possible."},
	"Eq":         {Signature: "Eq(lhs, rhs)", Kind: "function", Description: "An equation with `lhs` and `rhs` attributes."},
	"sympify":    {Signature: "sympify(value)", Kind: "function", Description: "Converts numbers and expressions to an expression."},
	"latex":      {Signature: "latex(expr)", Kind: "function", Description: "The LaTeX rendering of expr."},
	"sstr":       {Signature: "sstr(expr)", Kind: "function", Description: "The plain text rendering of expr."},
	"pi":         {Signature: "pi", Kind: "constant", Description: "The circle constant."},
	"E":          {Signature: "E", Kind: "constant", Description: "Euler's number."},
	"sin":        {Signature: "sin(x)", Kind: "function", Description: "Sine."},
	"cos":        {Signature: "cos(x)", Kind: "function", Description: "Cosine."},
	"tan":        {Signature: "tan(x)", Kind: "function", Description: "Tangent."},
	"exp":        {Signature: "exp(x)", Kind: "function", Description: "Exponential."},
	"log":        {Signature: "log(x)", Kind: "function", Description: "Natural logarithm."},
	"sqrt":       {Signature: "sqrt(x)", Kind: "function", Description: "Square root."},
	"sinh":       {Signature: "sinh(x)", Kind: "function", Description: "Hyperbolic sine."},
	"cosh":       {Signature: "cosh(x)", Kind: "function", Description: "Hyperbolic cosine."},
	"tanh":       {Signature: "tanh(x)", Kind: "function", Description: "Hyperbolic tangent."},
}

var exprAttributes = [][]string{
	{InlineCode("args"), "Operands of the expression as a tuple"},
	{InlineCode("name"), "Name of a symbol or function"},
	{InlineCode("diff(*vars)"), "Derivative with respect to vars; `u.diff(x, 2)` differentiates twice"},
	{InlineCode("pow(n)"), "The expression raised to n"},
	{InlineCode("latex()"), "LaTeX rendering"},
}

// generateModuleDocs writes the sp module reference.
func generateModuleDocs(outDir string) error {
	log.Printf("Generating sp module docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(outDir, "sp.md")
	if err := os.WriteFile(filename, moduleReference().Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated sp.md")
	return nil
}

func moduleReference() *MarkdownWriter {
	w := NewMarkdownWriter()

	w.Frontmatter("The sp module", "Names available to example definition files")
	w.GeneratedMarker()

	w.Header(1, "The sp module")
	w.Paragraph(fmt.Sprintf("Definition files are Starlark. Besides the Starlark builtins they see the %s module and the %s marker.",
		InlineCode(starctx.ModuleName), InlineCode("quadratize")))

	w.Header(2, "Members")
	var rows [][]string
	for _, name := range starctx.MemberNames() {
		m, ok := moduleMembers[name]
		if !ok {
			m = Member{Signature: name, Kind: "unknown"}
		}
		rows = append(rows, []string{InlineCode(starctx.ModuleName + "." + m.Signature), m.Kind, m.Description})
	}
	w.Table([]string{"Name", "Kind", "Description"}, rows)

	w.Header(2, "Expression attributes")
	w.Paragraph("Expressions support `+`, `-`, `*` and `/` with other expressions and numbers.")
	w.Table([]string{"Attribute", "Description"}, exprAttributes)

	w.Header(2, "The quadratize marker")
	w.Paragraph("The marker is read from the source without running it. Its first argument is a list of " +
		"(function, right-hand side) pairs, each side a name bound in the file or a literal. " +
		"Inline expressions inside the pairs are skipped. `diff_ord` must be an int literal and `first_indep` a name or literal. " +
		"During execution the call does nothing, so it may sit behind `if __name__ == \"__main__\":`.")
	w.CodeBlock("python", `t = sp.Symbol("t")
x = sp.Function("x")(t)
dx = x * x + 1

quadratize([(x, dx)], diff_ord = 3, first_indep = t)`)

	return w
}
