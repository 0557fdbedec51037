// Package store persists example catalog builds to SQLite.
//
// Each export records one build with its examples, equations and diagnostics. The
// v_* views always read the most recent build.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/quadpde/quadpde/internal/registry"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

//go:embed migrations/*.sql
var migrations embed.FS

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

// ErrNoBuilds is returned when the database holds no build yet.
var ErrNoBuilds = errors.New("no catalog build recorded")

// Build is one recorded registry build.
type Build struct {
	ID       string
	Dir      string
	BuiltAt  time.Time
	Duration time.Duration
}

// Store is a SQLite catalog database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path and applies pending migrations.
// Use ":memory:" for an in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == ":memory:" {
		// Every pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// OpenReadOnly opens an existing database without migrating it.
func OpenReadOnly(path string) (*sql.DB, error) {
	return sql.Open("sqlite", "file:"+path+"?mode=ro")
}

func dsn(path string) string {
	if path == ":memory:" {
		return ":memory:?_pragma=foreign_keys(1)"
	}
	return "file:" + path + "?_pragma=foreign_keys(1)"
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB exposes the underlying connection.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the path the store was opened with.
func (s *Store) Path() string { return s.path }

// Migrate runs all pending database migrations.
func (s *Store) Migrate(ctx context.Context) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := setupGoose(); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, s.db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Version returns the current migration version.
func (s *Store) Version() (int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := setupGoose(); err != nil {
		return 0, err
	}
	return goose.GetDBVersion(s.db)
}

func setupGoose() error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	return nil
}

// Save records snap as the latest build and refreshes the search index.
func (s *Store) Save(ctx context.Context, snap *registry.Snapshot) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	buildID := snap.BuildID.String()
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO builds (id, dir, built_at, duration_ms) VALUES (?, ?, ?, ?)`,
		buildID, snap.Dir, time.Now().UTC().Format(time.RFC3339Nano), snap.Duration.Milliseconds(),
	); err != nil {
		return fmt.Errorf("failed to insert build: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM examples_fts`); err != nil {
		return fmt.Errorf("failed to clear search index: %w", err)
	}

	for _, e := range snap.Examples {
		if err = insertExample(ctx, tx, buildID, e); err != nil {
			return err
		}
	}

	for _, d := range snap.Diagnostics {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO diagnostics (build_id, path, stage, message) VALUES (?, ?, ?, ?)`,
			buildID, d.Path, string(d.Stage), d.Message,
		); err != nil {
			return fmt.Errorf("failed to insert diagnostic for %s: %w", d.Path, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit build: %w", err)
	}
	return nil
}

func insertExample(ctx context.Context, tx *sql.Tx, buildID string, e *registry.Example) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO examples (build_id, id, name, description, diff_ord, first_indep, vars, funcs, path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		buildID, e.ID, e.Name, e.Description, e.DiffOrder, e.FirstIndep, e.Vars, e.Funcs, e.Path,
	); err != nil {
		return fmt.Errorf("failed to insert example %s: %w", e.ID, err)
	}

	for i, text := range e.Equations {
		latex := ""
		if i < len(e.EquationsLatex) {
			latex = e.EquationsLatex[i]
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO equations (build_id, example_id, position, text, latex) VALUES (?, ?, ?, ?, ?)`,
			buildID, e.ID, i, text, latex,
		); err != nil {
			return fmt.Errorf("failed to insert equation %d of %s: %w", i, e.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO examples_fts (id, name, description, equations) VALUES (?, ?, ?, ?)`,
		e.ID, e.Name, e.Description, strings.Join(e.Equations, "\n"),
	); err != nil {
		return fmt.Errorf("failed to index example %s: %w", e.ID, err)
	}
	return nil
}

// Prune deletes all but the keep most recent builds and reports how many were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 1 {
		return 0, fmt.Errorf("keep must be at least 1, got %d", keep)
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM builds WHERE id NOT IN (SELECT id FROM builds ORDER BY rowid DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune builds: %w", err)
	}
	return res.RowsAffected()
}

// LatestBuild returns the most recent build, or ErrNoBuilds.
func (s *Store) LatestBuild(ctx context.Context) (*Build, error) {
	var (
		b       Build
		builtAt string
		ms      int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, dir, built_at, duration_ms FROM v_latest_build`,
	).Scan(&b.ID, &b.Dir, &builtAt, &ms)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoBuilds
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest build: %w", err)
	}
	if b.BuiltAt, err = time.Parse(time.RFC3339Nano, builtAt); err != nil {
		return nil, fmt.Errorf("invalid built_at %q: %w", builtAt, err)
	}
	b.Duration = time.Duration(ms) * time.Millisecond
	return &b, nil
}

// Examples returns the examples of the latest build in ID order.
func (s *Store) Examples(ctx context.Context) ([]*registry.Example, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, diff_ord, first_indep, vars, funcs, path FROM v_examples ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list examples: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*registry.Example
	byID := make(map[string]*registry.Example)
	for rows.Next() {
		e := &registry.Example{}
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.DiffOrder, &e.FirstIndep, &e.Vars, &e.Funcs, &e.Path); err != nil {
			return nil, err
		}
		out = append(out, e)
		byID[e.ID] = e
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	eqRows, err := s.db.QueryContext(ctx,
		`SELECT example_id, text, latex FROM v_equations ORDER BY example_id, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to list equations: %w", err)
	}
	defer func() { _ = eqRows.Close() }()

	for eqRows.Next() {
		var id, text, latex string
		if err := eqRows.Scan(&id, &text, &latex); err != nil {
			return nil, err
		}
		if e, ok := byID[id]; ok {
			e.Equations = append(e.Equations, text)
			e.EquationsLatex = append(e.EquationsLatex, latex)
		}
	}
	return out, eqRows.Err()
}

// Diagnostics returns the skipped files of the latest build.
func (s *Store) Diagnostics(ctx context.Context) ([]registry.Diagnostic, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path, stage, message FROM v_diagnostics ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("failed to list diagnostics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []registry.Diagnostic
	for rows.Next() {
		var d registry.Diagnostic
		var stage string
		if err := rows.Scan(&d.Path, &stage, &d.Message); err != nil {
			return nil, err
		}
		d.Stage = registry.Stage(stage)
		out = append(out, d)
	}
	return out, rows.Err()
}
