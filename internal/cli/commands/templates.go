package commands

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed all:templates
var templateFS embed.FS

// Project templates under templates/.
const (
	TemplateMinimal = "minimal"
	TemplateExample = "example"
)

// copyTemplate copies an embedded template directory into targetDir and returns the
// files written, relative to targetDir. Existing files are kept unless force is set.
func copyTemplate(templateName, targetDir string, force bool) ([]string, error) {
	root := path.Join("templates", templateName)
	var written []string

	err := fs.WalkDir(templateFS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
		if rel == "" {
			return nil
		}
		rel = renameSpecialFiles(rel)
		target := filepath.Join(targetDir, filepath.FromSlash(rel))

		if d.IsDir() {
			return os.MkdirAll(target, 0750)
		}

		if !force {
			if _, err := os.Stat(target); err == nil {
				return nil
			}
		}

		content, err := templateFS.ReadFile(p)
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, content, 0600); err != nil {
			return err
		}
		written = append(written, rel)
		return nil
	})

	sort.Strings(written)
	return written, err
}

// renameSpecialFiles turns template names that cannot be embedded as-is into dotfiles.
func renameSpecialFiles(rel string) string {
	dir, base := path.Split(rel)
	if base == "gitignore" {
		return dir + ".gitignore"
	}
	return rel
}

// listTemplateFiles returns the files of a template, relative to its root.
func listTemplateFiles(templateName string) ([]string, error) {
	root := path.Join("templates", templateName)
	var files []string

	err := fs.WalkDir(templateFS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, renameSpecialFiles(strings.TrimPrefix(p, root+"/")))
		}
		return nil
	})

	sort.Strings(files)
	return files, err
}

// groupTemplateFiles splits files into definitions under examples/ and everything else.
func groupTemplateFiles(files []string) (config, examples []string) {
	for _, f := range files {
		if strings.HasPrefix(f, "examples/") {
			examples = append(examples, f)
		} else {
			config = append(config, f)
		}
	}
	return config, examples
}
