package commands

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/quadpde/quadpde/internal/cli/output"
)

// queryer is the read side of *sql.DB.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// resultSet is a fully read query result.
type resultSet struct {
	Columns []string
	Rows    [][]any
}

func collectRows(rows *sql.Rows) (*resultSet, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	rs := &resultSet{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		rs.Rows = append(rs.Rows, values)
	}
	return rs, rows.Err()
}

// records returns one column-keyed map per row.
func (rs *resultSet) records() []map[string]any {
	out := make([]map[string]any, len(rs.Rows))
	for i, row := range rs.Rows {
		rec := make(map[string]any, len(rs.Columns))
		for j, col := range rs.Columns {
			rec[col] = row[j]
		}
		out[i] = rec
	}
	return out
}

func (rs *resultSet) strings() [][]string {
	out := make([][]string, len(rs.Rows))
	for i, row := range rs.Rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = formatValue(v)
		}
		out[i] = cells
	}
	return out
}

func executeAndRender(ctx context.Context, w io.Writer, db queryer, query, format string, args ...any) error {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	rs, err := collectRows(rows)
	if err != nil {
		return err
	}
	return renderResults(w, rs, format)
}

func renderResults(w io.Writer, rs *resultSet, format string) error {
	switch format {
	case "json":
		records := rs.records()
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case "csv":
		cw := csv.NewWriter(w)
		if err := cw.Write(rs.Columns); err != nil {
			return err
		}
		if err := cw.WriteAll(rs.strings()); err != nil {
			return err
		}
		return cw.Error()
	case "md", "markdown":
		if len(rs.Rows) == 0 {
			_, _ = fmt.Fprintln(w, "(0 rows)")
			return nil
		}
		_, _ = fmt.Fprintln(w, output.FormatTable(rs.Columns, rs.strings()))
		return nil
	default:
		return renderTable(w, rs)
	}
}

func renderTable(w io.Writer, rs *resultSet) error {
	if len(rs.Rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(rs.Columns))
	for i, col := range rs.Columns {
		header[i] = col
	}
	t.AppendHeader(header)
	for _, cells := range rs.strings() {
		row := make(table.Row, len(cells))
		for i, c := range cells {
			row[i] = c
		}
		t.AppendRow(row)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rs.Rows))
	return nil
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}

// listTablesFromDB lists catalog tables and views, hiding SQLite, FTS shadow and goose tables.
func listTablesFromDB(ctx context.Context, w io.Writer, db queryer, format string, viewsOnly bool) error {
	query := `
		SELECT name, type
		FROM sqlite_master
		WHERE type IN ('table', 'view')
		AND name NOT LIKE 'sqlite_%'
		AND name NOT LIKE '%_fts_%'
		AND name NOT LIKE 'goose_%'
	`
	if viewsOnly {
		query += ` AND type = 'view'`
	}
	query += ` ORDER BY type DESC, name`

	return executeAndRender(ctx, w, db, query, format)
}

// columnInfo represents schema column information.
type columnInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
	Default  string `json:"default,omitempty"`
	PK       bool   `json:"pk"`
}

type schemaOutput struct {
	Name    string       `json:"name"`
	Type    string       `json:"type"`
	Columns []columnInfo `json:"columns"`
	Indexes []string     `json:"indexes,omitempty"`
}

func describeObject(ctx context.Context, db queryer, name string) (*schemaOutput, error) {
	var objType string
	err := db.QueryRowContext(ctx,
		`SELECT type FROM sqlite_master WHERE name = ? AND type IN ('table', 'view')`, name,
	).Scan(&objType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("table or view '%s' not found", name)
	}
	if err != nil {
		return nil, err
	}

	// pragma_table_info takes the name as a bound argument, unlike PRAGMA table_info(...).
	rows, err := db.QueryContext(ctx, `SELECT name, type, "notnull", dflt_value, pk FROM pragma_table_info(?)`, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := &schemaOutput{Name: name, Type: objType}
	for rows.Next() {
		var (
			col     columnInfo
			notNull int
			pk      int
			dflt    sql.NullString
		)
		if err := rows.Scan(&col.Name, &col.Type, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		col.Nullable = notNull == 0
		col.Default = dflt.String
		col.PK = pk > 0
		out.Columns = append(out.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if objType == "table" {
		idx, err := db.QueryContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'index' AND tbl_name = ? AND name NOT LIKE 'sqlite_%' ORDER BY name`, name)
		if err != nil {
			return nil, err
		}
		defer func() { _ = idx.Close() }()
		for idx.Next() {
			var n string
			if err := idx.Scan(&n); err != nil {
				return nil, err
			}
			out.Indexes = append(out.Indexes, n)
		}
		if err := idx.Err(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func showSchemaFromDB(ctx context.Context, w io.Writer, db queryer, name, format string) error {
	schema, err := describeObject(ctx, db, name)
	if err != nil {
		return err
	}

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(schema)
	}

	rows := make([][]string, len(schema.Columns))
	for i, col := range schema.Columns {
		nullable := "YES"
		if !col.Nullable {
			nullable = "NO"
		}
		def := col.Default
		if col.PK {
			def = strings.TrimSpace(def + " (primary key)")
		}
		rows[i] = []string{col.Name, col.Type, nullable, def}
	}
	header := []string{"Column", "Type", "Nullable", "Default"}

	title := "Table"
	if schema.Type == "view" {
		title = "View"
	}
	_, _ = fmt.Fprintf(w, "%s: %s\n", title, schema.Name)

	if format == "md" || format == "markdown" {
		_, _ = fmt.Fprintln(w, output.FormatTable(header, rows))
	} else {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Column", "Type", "Nullable", "Default"})
		for _, r := range rows {
			t.AppendRow(table.Row{r[0], r[1], r[2], r[3]})
		}
		t.Render()
	}

	if len(schema.Indexes) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "Indexes:")
		for _, idx := range schema.Indexes {
			_, _ = fmt.Fprintf(w, "  %s\n", idx)
		}
	}
	return nil
}
