package commands

import (
	"fmt"

	"github.com/quadpde/quadpde/internal/cli/config"
	"github.com/quadpde/quadpde/internal/cli/output"
	"github.com/quadpde/quadpde/internal/registry"
	"github.com/quadpde/quadpde/internal/store"
	"github.com/spf13/cobra"
)

// ExportOptions holds options for the export command.
type ExportOptions struct {
	Keep int
}

// ExportReport is the structured output of the export command.
type ExportReport struct {
	Database    string `json:"database" yaml:"database"`
	Dir         string `json:"dir" yaml:"dir"`
	BuildID     string `json:"build_id" yaml:"build_id"`
	Examples    int    `json:"examples" yaml:"examples"`
	Diagnostics int    `json:"diagnostics" yaml:"diagnostics"`
	Pruned      int64  `json:"pruned" yaml:"pruned"`
}

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	opts := &ExportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog to a SQLite database",
		Long: `Build the example catalog and record it in a SQLite database.

Every export appends a build. The views v_examples, v_equations and
v_diagnostics read the most recent one, and examples_fts indexes it for
full-text search. Use 'quadpde query' to inspect the database.`,
		Example: `  # Export to ./quadpde.db
  quadpde export

  # Export elsewhere, keeping only the last 5 builds
  quadpde export --db /tmp/catalog.db --keep 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, opts)
		},
	}

	cmd.Flags().String("db", config.DefaultDatabase, "Catalog database path")
	cmd.Flags().IntVar(&opts.Keep, "keep", 0, "Number of builds to keep (0 keeps all)")
	_ = cmd.MarkFlagFilename("db", "db", "sqlite")

	return cmd
}

func runExport(cmd *cobra.Command, opts *ExportOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	if opts.Keep < 0 {
		return fmt.Errorf("--keep must not be negative")
	}

	snap, err := registry.New(cmdCtx.RegistryConfig()).Snapshot()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	st, err := store.Open(ctx, cmdCtx.Cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.Save(ctx, snap); err != nil {
		return err
	}

	report := ExportReport{
		Database:    cmdCtx.Cfg.Database,
		Dir:         snap.Dir,
		BuildID:     snap.BuildID.String(),
		Examples:    len(snap.Examples),
		Diagnostics: len(snap.Diagnostics),
	}
	if opts.Keep > 0 {
		if report.Pruned, err = st.Prune(ctx, opts.Keep); err != nil {
			return err
		}
	}
	cmdCtx.Logger.Info("catalog exported", "database", report.Database, "build_id", report.BuildID)

	r := cmdCtx.Renderer
	if ok, err := r.Structured(report); ok {
		return err
	}

	r.Header(1, "Catalog export")
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatKeyValue("Database", report.Database))
		r.Println(output.FormatKeyValue("Build", report.BuildID))
		r.Println(output.FormatKeyValue("Pruned builds", report.Pruned))
		r.Println("")
	} else {
		r.Muted(report.Database)
	}
	r.Success(fmt.Sprintf("%d example(s) exported, %d file(s) skipped", report.Examples, report.Diagnostics))
	return nil
}
