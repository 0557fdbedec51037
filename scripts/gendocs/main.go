// Package main generates markdown documentation for the CLI, the sp module available
// to definition files, and the bundled example catalog.
//
// Usage:
//
//	go run ./scripts/gendocs -gen=cli -outdir=docs/cli
//	go run ./scripts/gendocs -gen=sp -outdir=docs/reference
//	go run ./scripts/gendocs -gen=catalog -outdir=docs/examples
//	go run ./scripts/gendocs -gen=all
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
)

var (
	genFlag      = flag.String("gen", "all", "what to generate: cli, sp, catalog, all")
	outDirFlag   = flag.String("outdir", "", "output directory (defaults based on gen type)")
	examplesFlag = flag.String("examples", "", "examples directory for the catalog (default: <root>/examples)")
)

// generators maps each -gen value to its generator and default docs subdirectory.
var generators = []struct {
	name   string
	subdir string
	run    func(root, outDir string) error
}{
	{name: "cli", subdir: "cli", run: func(_, outDir string) error { return generateCLIDocs(outDir) }},
	{name: "sp", subdir: "reference", run: func(_, outDir string) error { return generateModuleDocs(outDir) }},
	{name: "catalog", subdir: "examples", run: func(root, outDir string) error {
		dir := *examplesFlag
		if dir == "" {
			dir = filepath.Join(root, "examples")
		}
		return generateCatalogDocs(dir, outDir)
	}},
}

func main() {
	flag.Parse()

	valid := *genFlag == "all"
	for _, g := range generators {
		valid = valid || g.name == *genFlag
	}
	if !valid {
		log.Fatalf("unknown -gen value: %s (use: cli, sp, catalog, all)", *genFlag)
	}

	// Find project root (where go.mod is)
	projectRoot, err := findProjectRoot()
	if err != nil {
		log.Fatalf("failed to find project root: %v", err)
	}

	log.Printf("Project root: %s", projectRoot)

	for _, g := range generators {
		if *genFlag != "all" && *genFlag != g.name {
			continue
		}
		outDir := *outDirFlag
		if outDir == "" || *genFlag == "all" {
			outDir = filepath.Join(projectRoot, "docs", g.subdir)
		}
		if err := g.run(projectRoot, outDir); err != nil {
			log.Fatalf("failed to generate %s docs: %v", g.name, err)
		}
	}

	log.Println("Done!")
}

// findProjectRoot walks up from current directory to find go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}
