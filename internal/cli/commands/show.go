package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/quadpde/quadpde/internal/cli/output"
	"github.com/quadpde/quadpde/internal/registry"
	"github.com/spf13/cobra"
)

// ErrExampleNotFound is returned by show for an unknown ID.
var ErrExampleNotFound = errors.New("example not found")

// NewShowCommand creates the show command.
func NewShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one example with its equations",
		Long: `Show the full record of one example: its functions, variables, the
synthesized equations in canonical and LaTeX form, and the marker arguments.

IDs are matched case-insensitively.`,
		Example: `  # Show an example
  quadpde show riccati

  # Show an example as YAML
  quadpde show heat_pde -o yaml`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return exampleIDs(cmd), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args[0])
		},
	}

	return cmd
}

func runShow(cmd *cobra.Command, id string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	reg, err := cmdCtx.Registry()
	if err != nil {
		return err
	}
	e, ok, err := reg.Get(id)
	if err != nil {
		return fmt.Errorf("failed to build examples: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s\nHint: run 'quadpde list' to see available IDs", ErrExampleNotFound, id)
	}

	r := cmdCtx.Renderer
	if ok, err := r.Structured(e); ok {
		return err
	}
	if r.EffectiveMode() == output.ModeMarkdown {
		showMarkdown(r, e)
		return nil
	}
	showText(r, e)
	return nil
}

// showText outputs an example in styled text format.
func showText(r *output.Renderer, e *registry.Example) {
	styles := r.Styles()

	r.Println(styles.Header1.Render(e.Name) + " " + styles.ID.Render("("+e.ID+")"))
	if e.Description != "" {
		r.Println(e.Description)
		r.Println("")
	}

	r.Println(styles.Bold.Render("Functions:   ") + e.Funcs)
	r.Println(styles.Bold.Render("Variables:   ") + e.Vars)
	r.Println(styles.Bold.Render("Order:       ") + fmt.Sprint(e.DiffOrder))
	r.Println(styles.Bold.Render("First indep: ") + e.FirstIndep)
	r.Println(styles.Muted.Render("Source:      " + e.Path))
	r.Println("")

	r.Println(styles.Header2.Render("Equations"))
	for i, eq := range e.Equations {
		r.Printf("  %d. %s\n", i+1, eq)
		r.Println("     " + styles.Code.Render(e.EquationsLatex[i]))
	}
}

// showMarkdown outputs an example in markdown format.
func showMarkdown(r *output.Renderer, e *registry.Example) {
	r.Println(output.FormatHeader(1, e.Name))
	r.Println("")
	if e.Description != "" {
		r.Println(e.Description)
		r.Println("")
	}

	r.Println(output.FormatKeyValue("ID", "`"+e.ID+"`"))
	r.Println(output.FormatKeyValue("Functions", e.Funcs))
	r.Println(output.FormatKeyValue("Variables", e.Vars))
	r.Println(output.FormatKeyValue("Differentiation order", e.DiffOrder))
	r.Println(output.FormatKeyValue("First independent variable", e.FirstIndep))
	r.Println("")

	r.Println(output.FormatHeader(2, "Equations"))
	r.Println("")
	r.Println(output.FormatCodeBlock("", strings.Join(e.Equations, "\n")))
	r.Println("")

	r.Println(output.FormatHeader(2, "LaTeX"))
	r.Println("")
	r.Println(output.FormatCodeBlock("latex", strings.Join(e.EquationsLatex, "\n")))
}

// exampleIDs returns catalog IDs for shell completion. Errors yield no suggestions.
func exampleIDs(cmd *cobra.Command) []string {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return nil
	}
	reg, err := cmdCtx.Registry()
	if err != nil {
		return nil
	}
	examples, err := reg.List()
	if err != nil {
		return nil
	}
	ids := make([]string, len(examples))
	for i, e := range examples {
		ids[i] = e.ID
	}
	return ids
}
