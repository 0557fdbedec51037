package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/quadpde/quadpde/internal/cli/config"
	"github.com/quadpde/quadpde/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new examples project",
		Long: `Initialize a directory with a quadpde.yaml and an examples/ directory.

This creates:
  - quadpde.yaml configuration file
  - examples/ with a starter definition file
  - .gitignore for the catalog database and REPL history

Use --example to add a few more systems (an ODE pair, a PDE, a helper
module) showing the supported marker forms.`,
		Example: `  # Initialize in current directory
  quadpde init

  # Initialize with several example systems
  quadpde init --example

  # Initialize in a new directory
  quadpde init my-benchmarks --example

  # Overwrite existing files
  quadpde init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			tmpl := TemplateMinimal
			if example {
				tmpl = TemplateExample
			}
			return runInit(cmdCtx.Renderer, dir, tmpl, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&example, "example", false, "Add several example systems")

	return cmd
}

func runInit(r *output.Renderer, dir, tmpl string, force bool) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, config.ConfigFileNames[0])
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
	}

	written, err := copyTemplate(tmpl, dir, force)
	if err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	cfgFiles, exampleFiles := groupTemplateFiles(written)
	r.Header(2, "Configuration")
	for _, f := range cfgFiles {
		r.Success(f)
	}
	r.Println("")
	r.Header(2, "Examples")
	for _, f := range exampleFiles {
		r.Success(f)
	}

	r.Println("")
	r.Success("quadpde project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Add definition files to examples/")
	r.Println("  2. Run 'quadpde check' to see which files build")
	r.Println("  3. Run 'quadpde list' to see the catalog")

	return nil
}
