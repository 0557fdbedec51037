package registry

import "github.com/quadpde/quadpde/internal/source"

// ErrDirectoryNotFound is returned, wrapped, when no examples directory exists.
var ErrDirectoryNotFound = source.ErrDirectoryNotFound

// Stage names the pipeline step at which a file was skipped or a pair dropped.
type Stage string

const (
	StageParse       Stage = "parse"
	StageMarker      Stage = "marker"
	StageMaterialize Stage = "materialize"
	StageResolve     Stage = "resolve"
	StageDuplicate   Stage = "duplicate"
)

// Diagnostic explains why a file or pair did not make it into the catalog.
type Diagnostic struct {
	Path    string `json:"path" yaml:"path"`
	Stage   Stage  `json:"stage" yaml:"stage"`
	Message string `json:"message" yaml:"message"`
}
