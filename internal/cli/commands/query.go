package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/quadpde/quadpde/internal/cli/config"
	"github.com/quadpde/quadpde/internal/cli/output"
	"github.com/quadpde/quadpde/internal/store"
	"github.com/spf13/cobra"
)

// ErrNoDatabase is returned when the catalog database has not been exported yet.
var ErrNoDatabase = errors.New("catalog database not found")

// QueryFormats lists the accepted values of query --format.
var QueryFormats = []string{"table", "json", "csv", "md"}

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Input  string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Query the exported catalog database",
		Long: `Run SQL against the catalog database written by 'quadpde export'.

Tables: builds, examples, equations, diagnostics. Views v_examples,
v_equations and v_diagnostics read the most recent build.

When invoked without arguments on a terminal, enters interactive REPL mode.`,
		Example: `  # Execute SQL directly
  quadpde query "SELECT id, funcs FROM v_examples"

  # List available tables
  quadpde query tables

  # Show schema for a table
  quadpde query schema examples

  # Full-text search
  quadpde query search "pendulum"

  # Output as JSON
  quadpde query "SELECT * FROM v_equations" --format json

  # Interactive mode
  quadpde query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.PersistentFlags().String("db", config.DefaultDatabase, "Catalog database path")
	cmd.PersistentFlags().StringVarP(&opts.Format, "format", "f", "", "Output format: table, json, csv, md (default: from --output)")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return QueryFormats, cobra.ShellCompDirectiveNoFileComp
	})

	cmd.AddCommand(newQueryTablesCommand(opts))
	cmd.AddCommand(newQueryViewsCommand(opts))
	cmd.AddCommand(newQuerySchemaCommand(opts))
	cmd.AddCommand(newQuerySearchCommand(opts))

	return cmd
}

// queryTarget resolves the database path and result format for a query subcommand.
func queryTarget(cmd *cobra.Command, opts *QueryOptions) (string, string, error) {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return "", "", err
	}
	format, err := queryFormat(opts.Format, cmdCtx.Renderer)
	if err != nil {
		return "", "", err
	}

	path := cmdCtx.Cfg.Database
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return "", "", fmt.Errorf("%w at %s (run 'quadpde export' first)", ErrNoDatabase, path)
	}
	return path, format, nil
}

// queryFormat picks the explicit --format, else the one matching the global output mode.
func queryFormat(explicit string, r *output.Renderer) (string, error) {
	if explicit != "" {
		for _, f := range QueryFormats {
			if f == explicit {
				return f, nil
			}
		}
		return "", fmt.Errorf("invalid query format %q (expected one of: %s)", explicit, strings.Join(QueryFormats, ", "))
	}
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return "json", nil
	case output.ModeMarkdown:
		return "md", nil
	default:
		return "table", nil
	}
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	path, format, err := queryTarget(cmd, opts)
	if err != nil {
		return err
	}

	var sqlQuery string
	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case !isTerminal(cmd.InOrStdin()):
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	default:
		return runQueryREPL(cmd, path, format)
	}

	if strings.TrimSpace(sqlQuery) == "" {
		return fmt.Errorf("empty query")
	}
	return withCatalogDB(cmd.Context(), path, func(db queryer) error {
		return executeAndRender(cmd.Context(), cmd.OutOrStdout(), db, sqlQuery, format)
	})
}

// withCatalogDB opens the catalog read-only for the duration of fn.
func withCatalogDB(ctx context.Context, path string, fn func(db queryer) error) error {
	db, err := store.OpenReadOnly(path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	return fn(db)
}

func newQueryTablesCommand(opts *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List all tables and views in the catalog database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, format, err := queryTarget(cmd, opts)
			if err != nil {
				return err
			}
			return withCatalogDB(cmd.Context(), path, func(db queryer) error {
				return listTablesFromDB(cmd.Context(), cmd.OutOrStdout(), db, format, false)
			})
		},
	}
}

func newQueryViewsCommand(opts *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "views",
		Short: "List views only",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, format, err := queryTarget(cmd, opts)
			if err != nil {
				return err
			}
			return withCatalogDB(cmd.Context(), path, func(db queryer) error {
				return listTablesFromDB(cmd.Context(), cmd.OutOrStdout(), db, format, true)
			})
		},
	}
}

func newQuerySchemaCommand(opts *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <table>",
		Short: "Show schema for a table or view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, format, err := queryTarget(cmd, opts)
			if err != nil {
				return err
			}
			return withCatalogDB(cmd.Context(), path, func(db queryer) error {
				return showSchemaFromDB(cmd.Context(), cmd.OutOrStdout(), db, args[0], format)
			})
		},
	}
}

// searchQuery ranks examples of the latest build by full-text match.
const searchQuery = `
	SELECT
		id,
		name,
		snippet(examples_fts, -1, '>>>', '<<<', '...', 12) AS match_context
	FROM examples_fts
	WHERE examples_fts MATCH ?
	ORDER BY rank
	LIMIT 50
`

func newQuerySearchCommand(opts *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Full-text search across examples",
		Long: `Search the latest build using SQLite FTS5 full-text search.

Searches example names, descriptions and canonical equations.`,
		Example: `  quadpde query search "heat"
  quadpde query search "sin*" --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, format, err := queryTarget(cmd, opts)
			if err != nil {
				return err
			}
			return withCatalogDB(cmd.Context(), path, func(db queryer) error {
				if err := executeAndRender(cmd.Context(), cmd.OutOrStdout(), db, searchQuery, format, args[0]); err != nil {
					return fmt.Errorf("search failed: %w", err)
				}
				return nil
			})
		},
	}
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
