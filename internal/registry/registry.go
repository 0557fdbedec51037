// Package registry builds the example catalog from a directory of definition files and
// serves lookups from it.
//
// The catalog is built on first access and then held for the life of the Registry.
// Concurrent first callers share one build. A failed build is not remembered, so a
// missing directory fails every call until it appears.
package registry

import (
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Config configures a Registry.
type Config struct {
	// ExamplesDir overrides directory discovery.
	ExamplesDir string
	// PackageDir is searched for an examples/ directory when ExamplesDir is empty.
	PackageDir string
	// Executable overrides os.Executable for discovery.
	Executable func() (string, error)
	Extensions []string
	MaxSteps   uint64
	Logger     *slog.Logger
}

// Locator returns the directory locator described by cfg.
func (c Config) Locator() Locator {
	return Locator{Override: c.ExamplesDir, PackageDir: c.PackageDir, Executable: c.Executable}
}

// Registry is a lazily built, read-only example catalog.
type Registry struct {
	cfg    Config
	logger *slog.Logger

	group singleflight.Group

	mu   sync.Mutex
	snap *Snapshot
}

// New creates a Registry. Nothing is read until the first lookup.
func New(cfg Config) *Registry {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{cfg: cfg, logger: logger}
}

// Snapshot returns the built catalog, building it if needed.
func (r *Registry) Snapshot() (*Snapshot, error) {
	if snap := r.cached(); snap != nil {
		return snap, nil
	}

	v, err, shared := r.group.Do("build", func() (any, error) {
		if snap := r.cached(); snap != nil {
			return snap, nil
		}
		dir, err := r.cfg.Locator().Resolve()
		if err != nil {
			return nil, err
		}
		snap, err := Build(dir, BuildOptions{
			Extensions: r.cfg.Extensions,
			MaxSteps:   r.cfg.MaxSteps,
			Logger:     r.logger,
		})
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.snap = snap
		r.mu.Unlock()
		return snap, nil
	})
	if err != nil {
		r.logger.Warn("examples registry unavailable", "error", err)
		return nil, err
	}
	if shared {
		r.logger.Debug("joined in-flight registry build")
	}
	return v.(*Snapshot), nil
}

func (r *Registry) cached() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap
}

// List returns all examples in ID order. The same pointers are returned on every call.
func (r *Registry) List() ([]*Example, error) {
	snap, err := r.Snapshot()
	if err != nil {
		return nil, err
	}
	out := make([]*Example, len(snap.Examples))
	copy(out, snap.Examples)
	return out, nil
}

// Get looks up an example by ID, ignoring case. A miss is (nil, false, nil).
func (r *Registry) Get(id string) (*Example, bool, error) {
	snap, err := r.Snapshot()
	if err != nil {
		return nil, false, err
	}
	e, ok := snap.Lookup(strings.ToLower(id))
	return e, ok, nil
}

var (
	sharedMu sync.Mutex
	shared   = make(map[string]*Registry)
)

// Default returns the process-wide Registry for the directory cfg resolves to, creating
// it on first use. Discovery errors are returned and not remembered.
func Default(cfg Config) (*Registry, error) {
	dir, err := cfg.Locator().Resolve()
	if err != nil {
		return nil, err
	}

	sharedMu.Lock()
	defer sharedMu.Unlock()
	if r, ok := shared[dir]; ok {
		return r, nil
	}
	c := cfg
	c.ExamplesDir = dir
	r := New(c)
	shared[dir] = r
	return r, nil
}
