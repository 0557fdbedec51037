package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

const (
	replPrompt     = "quadpde> "
	replContPrompt = "    ...> "
)

func runQueryREPL(cmd *cobra.Command, path, format string) error {
	return withCatalogDB(cmd.Context(), path, func(db queryer) error {
		ctx := cmd.Context()

		rl, err := readline.NewEx(&readline.Config{
			Prompt:          replPrompt,
			HistoryFile:     filepath.Join(filepath.Dir(path), ".quadpde_history"),
			AutoComplete:    newTableCompleter(ctx, db),
			InterruptPrompt: "^C",
			EOFPrompt:       ".quit",
			Stdout:          cmd.OutOrStdout(),
			Stderr:          cmd.ErrOrStderr(),
		})
		if err != nil {
			return fmt.Errorf("failed to initialize REPL: %w", err)
		}
		defer func() { _ = rl.Close() }()

		repl := &queryREPL{db: db, out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr(), format: format}
		_, _ = fmt.Fprintf(repl.out, "quadpde catalog REPL (database: %s)\n", path)
		_, _ = fmt.Fprintln(repl.out, "Type .help for commands, .quit to exit")
		_, _ = fmt.Fprintln(repl.out)

		for {
			line, err := rl.Readline()
			if errors.Is(err, readline.ErrInterrupt) {
				repl.reset()
				rl.SetPrompt(replPrompt)
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}

			if !repl.feed(ctx, line) {
				return nil
			}
			rl.SetPrompt(repl.prompt())
		}
	})
}

// queryREPL accumulates statements until a terminating semicolon and handles dot-commands.
type queryREPL struct {
	db     queryer
	out    io.Writer
	errOut io.Writer
	format string
	buf    strings.Builder
}

func (q *queryREPL) reset() { q.buf.Reset() }

func (q *queryREPL) prompt() string {
	if q.buf.Len() > 0 {
		return replContPrompt
	}
	return replPrompt
}

// feed processes one input line and reports whether the session continues.
func (q *queryREPL) feed(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}

	if q.buf.Len() == 0 && strings.HasPrefix(line, ".") {
		return q.dotCommand(ctx, line)
	}

	q.buf.WriteString(line)
	if !strings.HasSuffix(line, ";") {
		q.buf.WriteString(" ")
		return true
	}

	query := strings.TrimSuffix(q.buf.String(), ";")
	q.buf.Reset()
	if err := executeAndRender(ctx, q.out, q.db, query, q.format); err != nil {
		_, _ = fmt.Fprintf(q.errOut, "Error: %v\n", err)
	}
	_, _ = fmt.Fprintln(q.out)
	return true
}

func (q *queryREPL) dotCommand(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	var err error
	switch command {
	case ".quit", ".exit":
		return false
	case ".help":
		printREPLHelp(q.out)
	case ".tables":
		err = listTablesFromDB(ctx, q.out, q.db, q.format, false)
	case ".views":
		err = listTablesFromDB(ctx, q.out, q.db, q.format, true)
	case ".schema":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(q.errOut, "Usage: .schema <table>")
			return true
		}
		err = showSchemaFromDB(ctx, q.out, q.db, parts[1], q.format)
	case ".format":
		if len(parts) < 2 {
			_, _ = fmt.Fprintf(q.out, "format: %s\n", q.format)
			return true
		}
		if f, ferr := queryFormat(parts[1], nil); ferr == nil {
			q.format = f
		} else {
			err = ferr
		}
	case ".clear":
		_, _ = fmt.Fprint(q.out, "\033[H\033[2J")
	default:
		_, _ = fmt.Fprintf(q.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	if err != nil {
		_, _ = fmt.Fprintf(q.errOut, "Error: %v\n", err)
	}
	return true
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help            Show this help message
  .tables          List all tables and views
  .views           List views only
  .schema <name>   Show schema for a table or view
  .format [name]   Show or set the result format (table, json, csv, md)
  .clear           Clear the screen
  .quit / .exit    Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completion works for table names
`
	_, _ = fmt.Fprintln(w, help)
}

// newTableCompleter creates a readline completer for table names and dot-commands.
func newTableCompleter(ctx context.Context, db queryer) *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface

	rows, err := db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type IN ('table', 'view')
		AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err == nil {
		defer func() { _ = rows.Close() }()
		for rows.Next() {
			var name string
			if rows.Scan(&name) == nil {
				items = append(items, readline.PcItem(name))
			}
		}
		// Completion is best effort.
		_ = rows.Err()
	}

	for _, c := range []string{".help", ".tables", ".views", ".schema", ".format", ".clear", ".quit", ".exit"} {
		items = append(items, readline.PcItem(c))
	}
	return readline.NewPrefixCompleter(items...)
}
