// Package output renders command results for terminals, agents and scripts.
//
// In auto mode a terminal gets styled text and anything else gets Markdown.
// JSON and YAML are always available on request.
package output

import (
	"fmt"
	"strings"
)

// Mode selects how results are rendered.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
	ModeYAML     Mode = "yaml"
)

// Modes lists every mode accepted by ParseMode.
var Modes = []Mode{ModeAuto, ModeText, ModeMarkdown, ModeJSON, ModeYAML}

// ParseMode parses a mode name. The empty string is ModeAuto; "md" and "yml" are accepted
// as aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "text":
		return ModeText, nil
	case "markdown", "md":
		return ModeMarkdown, nil
	case "json":
		return ModeJSON, nil
	case "yaml", "yml":
		return ModeYAML, nil
	}
	return "", fmt.Errorf("unknown output mode %q", s)
}
