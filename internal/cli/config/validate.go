package config

import (
	"fmt"
	"slices"
	"strings"
)

// OutputFormats lists the accepted values of the output key.
var OutputFormats = []string{"auto", "text", "markdown", "json", "yaml"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("invalid output format %q (expected one of: %s)", c.OutputFormat, strings.Join(OutputFormats, ", "))
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("extensions must list at least one file extension")
	}
	for _, ext := range c.Extensions {
		if strings.Trim(ext, ". ") == "" {
			return fmt.Errorf("invalid extension %q", ext)
		}
	}
	if c.MaxSteps == 0 {
		return fmt.Errorf("max_steps must be positive")
	}
	if c.Database == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must not be negative")
	}
	return nil
}
