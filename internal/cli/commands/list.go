package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quadpde/quadpde/internal/cli/output"
	"github.com/quadpde/quadpde/internal/registry"
	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all examples in the catalog",
		Long: `List every example built from the definition files, in ID order.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json, yaml`,
		Example: `  # List all examples (auto-detect output format)
  quadpde list

  # List examples as JSON
  quadpde list --output json

  # List examples from another directory
  quadpde list --examples-dir ./my-examples`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd)
		},
	}

	return cmd
}

func runList(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	reg, err := cmdCtx.Registry()
	if err != nil {
		return err
	}
	examples, err := reg.List()
	if err != nil {
		return fmt.Errorf("failed to build examples: %w", err)
	}

	r := cmdCtx.Renderer
	if ok, err := r.Structured(registry.Summaries(examples)); ok {
		return err
	}
	if r.EffectiveMode() == output.ModeMarkdown {
		listMarkdown(r, examples)
		return nil
	}
	listText(r, examples)
	return nil
}

// listText outputs examples as a table.
func listText(r *output.Renderer, examples []*registry.Example) {
	r.Header(1, fmt.Sprintf("Examples (%d total)", len(examples)))
	if len(examples) == 0 {
		r.Muted("No examples found.")
		return
	}

	rows := make([][]string, 0, len(examples))
	for _, e := range examples {
		rows = append(rows, []string{
			e.ID,
			e.Name,
			e.Funcs,
			e.Vars,
			strconv.Itoa(e.DiffOrder),
			e.FirstIndep,
			strconv.Itoa(len(e.Equations)),
		})
	}
	r.Table([]string{"ID", "Name", "Funcs", "Vars", "Order", "Indep", "Equations"}, rows)
}

// listMarkdown outputs examples in markdown format.
func listMarkdown(r *output.Renderer, examples []*registry.Example) {
	r.Println(output.FormatHeader(1, fmt.Sprintf("Examples (%d total)", len(examples))))
	r.Println("")

	for _, e := range examples {
		r.Println(output.FormatHeader(2, fmt.Sprintf("%s (`%s`)", e.Name, e.ID)))
		if e.Description != "" {
			r.Println(firstLine(e.Description))
			r.Println("")
		}
		r.Println(output.FormatKeyValue("Functions", e.Funcs))
		r.Println(output.FormatKeyValue("Variables", e.Vars))
		r.Println(output.FormatKeyValue("Differentiation order", e.DiffOrder))
		r.Println(output.FormatKeyValue("First independent variable", e.FirstIndep))
		r.Println(output.FormatKeyValue("Equations", len(e.Equations)))
		r.Println("")
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
