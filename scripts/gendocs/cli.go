package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/quadpde/quadpde/internal/cli"
	"github.com/quadpde/quadpde/internal/cli/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// generateCLIDocs writes index.md plus one page per visible command of the quadpde root.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	pages := map[string][]byte{"index.md": cliIndex(root).Bytes()}
	for _, cmd := range visibleCommands(root) {
		pages[cmd.Name()+".md"] = commandPage(cmd).Bytes()
	}

	for name, content := range pages {
		if err := os.WriteFile(filepath.Join(outDir, name), content, 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		log.Printf("  Generated %s", name)
	}
	return nil
}

// envVars documents the environment overrides read by the config loader.
var envVars = [][]string{
	{InlineCode("QUADPDE_EXAMPLES_DIR"), "Examples directory"},
	{InlineCode("QUADPDE_PACKAGE_DIR"), "Directory whose examples/ subdirectory holds the definitions"},
	{InlineCode("QUADPDE_EXTENSIONS"), "Comma-separated definition file extensions"},
	{InlineCode("QUADPDE_MAX_STEPS"), "Execution step budget per definition file"},
	{InlineCode("QUADPDE_VERBOSE"), "Enable debug logging"},
	{InlineCode("QUADPDE_OUTPUT"), "Output format"},
	{InlineCode("QUADPDE_DATABASE"), "Catalog database for export and query"},
	{InlineCode("QUADPDE_SERVER_ADDR"), "Listen address for serve"},
	{InlineCode("QUADPDE_SERVER_SHUTDOWN_TIMEOUT"), "Grace period for serve shutdown"},
}

func cliIndex(root *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for quadpde")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(cleanExample(root.Long))

	var rows [][]string
	for _, cmd := range visibleCommands(root) {
		link := fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), cmd.Name())
		rows = append(rows, []string{link, cleanDescription(cmd.Short)})
	}
	w.Header(2, "Commands")
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	writeFlagsTable(w, root.PersistentFlags())

	names := make([]string, len(config.ConfigFileNames))
	for i, n := range config.ConfigFileNames {
		names[i] = InlineCode(n)
	}
	w.Header(2, "Configuration")
	w.Paragraph(fmt.Sprintf("Settings are layered: built-in defaults, then %s in the working directory "+
		"(or the file given by %s), then %s variables, then flags set on the command line. "+
		"Relative paths in the config file resolve against the file's directory.",
		strings.Join(names, " or "), InlineCode("--config"), InlineCode("QUADPDE_")))
	w.Table([]string{"Variable", "Description"}, envVars)

	return w
}

// visibleCommands returns the documented subcommands of root.
func visibleCommands(root *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.Hidden || cmd.Name() == "help" || cmd.Name() == "__complete" {
			continue
		}
		out = append(out, cmd)
	}
	return out
}

func commandPage(cmd *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	desc := cmd.Long
	if desc == "" {
		desc = cmd.Short
	}
	w.Paragraph(desc)
	if len(cmd.Aliases) > 0 {
		aliases := make([]string, len(cmd.Aliases))
		for i, a := range cmd.Aliases {
			aliases[i] = InlineCode(a)
		}
		w.Paragraph("Aliases: " + strings.Join(aliases, ", "))
	}

	use := cmd.UseLine()
	if cmd.HasSubCommands() {
		use = "quadpde " + cmd.Name() + " <subcommand> [flags]"
	}
	w.Header(2, "Usage")
	w.CodeBlock("bash", use)

	if cmd.HasAvailableSubCommands() {
		var rows [][]string
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() {
				rows = append(rows, []string{InlineCode(sub.Name()), cleanDescription(sub.Short)})
			}
		}
		w.Header(2, "Subcommands")
		w.Table([]string{"Subcommand", "Description"}, rows)
	}

	if cmd.HasAvailableLocalFlags() {
		w.Header(2, "Options")
		writeFlagsTable(w, cmd.LocalFlags())
	}
	if cmd.HasAvailableInheritedFlags() {
		w.Header(2, "Global Options")
		writeFlagsTable(w, cmd.InheritedFlags())
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", cleanExample(cmd.Example))
	}
	return w
}

// writeFlagsTable writes one row per visible flag. String defaults are shown as code.
func writeFlagsTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		short, def := "", f.DefValue
		if f.Shorthand != "" {
			short = "-" + f.Shorthand
		}
		if def != "" && f.Value.Type() == "string" {
			def = InlineCode(def)
		}
		rows = append(rows, []string{InlineCode("--" + f.Name), short, def, cleanDescription(f.Usage)})
	})
	w.Table([]string{"Option", "Short", "Default", "Description"}, rows)
}

// cleanExample strips the indentation shared by all non-blank lines.
func cleanExample(text string) string {
	lines := strings.Split(text, "\n")
	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if n := len(line) - len(strings.TrimLeft(line, " \t")); indent < 0 || n < indent {
			indent = n
		}
	}
	if indent <= 0 {
		return strings.TrimSpace(text)
	}
	for i, line := range lines {
		if len(line) >= indent {
			lines[i] = line[indent:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
