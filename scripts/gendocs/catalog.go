package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/quadpde/quadpde/internal/registry"
)

// generateCatalogDocs builds the examples in dir and writes an index plus one page per example.
func generateCatalogDocs(dir, outDir string) error {
	log.Printf("Generating example catalog from %s to %s", dir, outDir)

	snap, err := registry.Build(dir, registry.BuildOptions{})
	if err != nil {
		return err
	}
	for _, d := range snap.Diagnostics {
		log.Printf("  skipped %s (%s): %s", filepath.Base(d.Path), d.Stage, d.Message)
	}

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(outDir, "index.md"), catalogIndex(snap).Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to generate index: %w", err)
	}
	log.Printf("  Generated index.md")

	for _, e := range snap.Examples {
		if err := os.WriteFile(filepath.Join(outDir, e.ID+".md"), examplePage(e).Bytes(), 0600); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", e.ID, err)
		}
		log.Printf("  Generated %s.md", e.ID)
	}
	return nil
}

func catalogIndex(snap *registry.Snapshot) *MarkdownWriter {
	w := NewMarkdownWriter()

	w.Frontmatter("Examples", "Catalog of quadratization benchmark systems")
	w.GeneratedMarker()

	w.Header(1, "Examples")
	w.Paragraph(fmt.Sprintf("%d systems are defined under %s.", len(snap.Examples), InlineCode("examples/")))

	var rows [][]string
	for _, e := range snap.Examples {
		rows = append(rows, []string{
			fmt.Sprintf("[%s](/examples/%s)", e.Name, e.ID),
			e.Funcs,
			e.Vars,
			strconv.Itoa(e.DiffOrder),
			cleanDescription(e.Description),
		})
	}
	w.Table([]string{"Example", "Functions", "Variables", "Order", "Description"}, rows)
	return w
}

func examplePage(e *registry.Example) *MarkdownWriter {
	w := NewMarkdownWriter()

	w.Frontmatter(e.Name, cleanDescription(e.Description))
	w.GeneratedMarker()

	w.Header(1, e.Name)
	if e.Description != "" {
		w.Paragraph(e.Description)
	}

	w.BulletList([]string{
		"**ID:** " + InlineCode(e.ID),
		"**Functions:** " + e.Funcs,
		"**Variables:** " + e.Vars,
		"**Differentiation order:** " + strconv.Itoa(e.DiffOrder),
		"**First independent variable:** " + InlineCode(e.FirstIndep),
	})

	w.Header(2, "Equations")
	for _, eq := range e.EquationsLatex {
		w.CodeBlock("latex", eq)
	}
	return w
}
