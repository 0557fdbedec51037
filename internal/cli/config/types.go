// Package config provides configuration management for the quadpde CLI.
//
// Values are layered from defaults, an optional quadpde.yaml, QUADPDE_ environment
// variables and explicitly set command-line flags, in increasing order of precedence.
package config

import (
	"time"

	starctx "github.com/quadpde/quadpde/internal/starlark"
)

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Config holds all CLI configuration options.
type Config struct {
	// ExamplesDir, when set, is the only directory searched for definition files.
	ExamplesDir string `koanf:"examples_dir"`
	// PackageDir contributes <package_dir>/examples to discovery.
	PackageDir   string   `koanf:"package_dir"`
	Extensions   []string `koanf:"extensions"`
	MaxSteps     uint64   `koanf:"max_steps"`
	Verbose      bool     `koanf:"verbose"`
	OutputFormat string   `koanf:"output"`
	// Database is the SQLite catalog written by export and read by query.
	Database string       `koanf:"database"`
	Server   ServerConfig `koanf:"server"`
}

// Default configuration values.
const (
	DefaultExtension       = ".star"
	DefaultMaxSteps        = starctx.DefaultMaxSteps
	DefaultOutput          = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultDatabase        = "quadpde.db"
	DefaultAddr            = "127.0.0.1:8000"
	DefaultShutdownTimeout = 5 * time.Second
)

// Default returns a Config holding only default values.
func Default() *Config {
	return &Config{
		Extensions:   []string{DefaultExtension},
		MaxSteps:     DefaultMaxSteps,
		OutputFormat: DefaultOutput,
		Database:     DefaultDatabase,
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
	}
}
