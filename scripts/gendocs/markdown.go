package main

import (
	"fmt"
	"strings"

	"github.com/quadpde/quadpde/internal/cli/output"
)

// generatedHeader marks files (or sections) produced by this tool.
const generatedHeader = "<!-- Code generated by scripts/gendocs. DO NOT EDIT. -->"

// MarkdownWriter accumulates markdown blocks separated by blank lines.
type MarkdownWriter struct {
	b strings.Builder
}

// NewMarkdownWriter returns an empty writer.
func NewMarkdownWriter() *MarkdownWriter {
	return &MarkdownWriter{}
}

func (w *MarkdownWriter) block(s string) {
	w.b.WriteString(s)
	w.b.WriteString("\n\n")
}

// Frontmatter writes a YAML frontmatter block with a title and description.
func (w *MarkdownWriter) Frontmatter(title, description string) {
	w.b.WriteString("---\n")
	fmt.Fprintf(&w.b, "title: %q\n", title)
	fmt.Fprintf(&w.b, "description: %q\n", description)
	w.b.WriteString("---\n\n")
}

func (w *MarkdownWriter) GeneratedMarker() { w.block(generatedHeader) }

func (w *MarkdownWriter) Header(level int, text string) { w.block(output.FormatHeader(level, text)) }

func (w *MarkdownWriter) Paragraph(text string) { w.block(strings.TrimSpace(text)) }

func (w *MarkdownWriter) CodeBlock(lang, code string) { w.block(output.FormatCodeBlock(lang, code)) }

// Table writes a table. Nothing is written when rows is empty.
func (w *MarkdownWriter) Table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	w.block(output.FormatTable(headers, rows))
}

func (w *MarkdownWriter) BulletList(items []string) { w.block(output.FormatList(items)) }

// Text appends s verbatim.
func (w *MarkdownWriter) Text(s string) { w.b.WriteString(s) }

func (w *MarkdownWriter) String() string { return strings.TrimRight(w.b.String(), "\n") + "\n" }

func (w *MarkdownWriter) Bytes() []byte { return []byte(w.String()) }

// InlineCode wraps s in backticks.
func InlineCode(s string) string { return "`" + s + "`" }

// cleanDescription trims whitespace and a trailing period from a one-line description.
func cleanDescription(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return strings.TrimSuffix(s, ".")
}
