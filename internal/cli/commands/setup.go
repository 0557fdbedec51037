package commands

import (
	"fmt"
	"log/slog"

	"github.com/quadpde/quadpde/internal/cli/config"
	"github.com/quadpde/quadpde/internal/cli/output"
	"github.com/quadpde/quadpde/internal/registry"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := getConfig()
	mode, err := output.ParseMode(cfg.OutputFormat)
	if err != nil {
		return nil, err
	}
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
	}, nil
}

// RegistryConfig returns the registry configuration for c.
func (c *CommandContext) RegistryConfig() registry.Config {
	return registry.Config{
		ExamplesDir: c.Cfg.ExamplesDir,
		PackageDir:  c.Cfg.PackageDir,
		Extensions:  c.Cfg.Extensions,
		MaxSteps:    c.Cfg.MaxSteps,
		Logger:      c.Logger,
	}
}

// Registry returns the shared registry for the configured examples directory.
func (c *CommandContext) Registry() (*registry.Registry, error) {
	r, err := registry.Default(c.RegistryConfig())
	if err != nil {
		return nil, fmt.Errorf("locate examples: %w", err)
	}
	return r, nil
}

// getConfig returns the current configuration, or defaults when none was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}
