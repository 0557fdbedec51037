package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/quadpde/quadpde/internal/materializer"
	"github.com/quadpde/quadpde/internal/source"
	"github.com/quadpde/quadpde/internal/synth"
)

// Snapshot is the result of one build. It is read-only once returned.
type Snapshot struct {
	// Examples in ID order.
	Examples    []*Example
	Diagnostics []Diagnostic
	Dir         string
	BuildID     uuid.UUID
	Duration    time.Duration

	byID map[string]*Example
}

// Lookup returns the example with the given ID (exact match).
func (s *Snapshot) Lookup(id string) (*Example, bool) {
	e, ok := s.byID[id]
	return e, ok
}

// BuildOptions configures a single build.
type BuildOptions struct {
	Extensions []string
	MaxSteps   uint64
	Logger     *slog.Logger
}

// Build scans dir and turns every usable definition file into an Example. Files that
// cannot be parsed or executed, have no marker call, resolve no pairs, or repeat an
// earlier ID are skipped with a diagnostic. Only a missing dir is an error.
func Build(dir string, opts BuildOptions) (*Snapshot, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	start := time.Now()

	files, failures, err := source.Scan(dir, opts.Extensions)
	if err != nil {
		return nil, fmt.Errorf("scan examples: %w", err)
	}

	b := &builder{
		logger: logger,
		mat:    materializer.New(materializer.Config{Logger: logger, MaxSteps: opts.MaxSteps}),
		snap: &Snapshot{
			Dir:     dir,
			BuildID: uuid.New(),
			byID:    make(map[string]*Example),
		},
	}
	for _, f := range failures {
		b.diagnose(f.Path, StageParse, f.Err.Error())
	}
	for _, f := range files {
		b.add(f)
	}

	snap := b.snap
	sort.Slice(snap.Examples, func(i, j int) bool { return snap.Examples[i].ID < snap.Examples[j].ID })
	snap.Duration = time.Since(start)

	logger.Info("examples registry built",
		"dir", dir,
		"examples", len(snap.Examples),
		"diagnostics", len(snap.Diagnostics),
		"build_id", snap.BuildID.String(),
		"duration", snap.Duration)
	return snap, nil
}

type builder struct {
	logger *slog.Logger
	mat    *materializer.Materializer
	snap   *Snapshot
}

func (b *builder) diagnose(path string, stage Stage, msg string) {
	b.logger.Debug("example skipped", "path", path, "stage", string(stage), "reason", msg)
	b.snap.Diagnostics = append(b.snap.Diagnostics, Diagnostic{Path: path, Stage: stage, Message: msg})
}

func (b *builder) add(f *source.File) {
	site, ok := source.ExtractCallSite(f.Syntax)
	if !ok {
		b.diagnose(f.Path, StageMarker, "no "+source.MarkerName+"(...) call")
		return
	}

	id := Slug(f.Stem)
	if prev, dup := b.snap.byID[id]; dup {
		b.diagnose(f.Path, StageDuplicate, fmt.Sprintf("id %q already used by %s", id, prev.Path))
		return
	}

	globals, err := b.mat.Materialize(f.Path, f.Content)
	if err != nil {
		b.diagnose(f.Path, StageMaterialize, err.Error())
		return
	}

	res, dropped := synth.Synthesize(site, globals)
	for _, reason := range dropped {
		b.diagnose(f.Path, StageResolve, reason)
	}
	if res == nil {
		b.diagnose(f.Path, StageResolve, "no resolvable (function, expression) pairs")
		return
	}

	ex := &Example{
		ID:             id,
		Name:           Title(f.Stem),
		Description:    f.Doc,
		DiffOrder:      site.DiffOrder,
		FirstIndep:     site.FirstIndep,
		EquationsLatex: res.Latex,
		Equations:      res.Canonical,
		Vars:           res.Vars,
		Funcs:          res.Funcs,
		FuncEq:         res.Pairs,
		Path:           f.Path,
	}
	b.snap.byID[id] = ex
	b.snap.Examples = append(b.snap.Examples, ex)
}
