package project

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/mod/modfile"
)

// maxSearchDepth bounds the downward search for go.mod.
const maxSearchDepth = 3

// Project is a Go module endpoints are added to.
type Project struct {
	Root       string // directory holding go.mod
	ModulePath string
	GoVersion  string
}

// GoModPath returns the path of the project's go.mod.
func (p *Project) GoModPath() string { return filepath.Join(p.Root, "go.mod") }

// Resolve finds the Go module for a local directory: the nearest go.mod in
// dir or its parents, else the shallowest one below dir.
func Resolve(input string, logger *slog.Logger) (*Project, error) {
	absPath, err := filepath.Abs(input)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", absPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", absPath)
	}

	root, err := findModuleRoot(absPath)
	if err != nil {
		root, err = findModuleRootInTree(absPath)
		if err != nil {
			return nil, err
		}
	}

	p, err := Load(root)
	if err != nil {
		return nil, err
	}
	logger.Info("resolved project", "input", input, "module_root", p.Root, "module", p.ModulePath)
	return p, nil
}

// Load reads the go.mod in root.
func Load(root string) (*Project, error) {
	path := filepath.Join(root, "go.mod")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading go.mod: %w", err)
	}
	mf, err := modfile.ParseLax(path, data, nil)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	p := &Project{Root: root}
	if mf.Module != nil {
		p.ModulePath = mf.Module.Mod.Path
	}
	if mf.Go != nil {
		p.GoVersion = mf.Go.Version
	}
	if p.ModulePath == "" {
		return nil, errors.New(path + ": no module directive")
	}
	return p, nil
}

func findModuleRoot(dir string) (string, error) {
	current := dir
	for {
		if _, err := os.Stat(filepath.Join(current, "go.mod")); err == nil {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no go.mod found in %s or any parent directory", dir)
		}
		current = parent
	}
}

// findModuleRootInTree searches root and its subdirectories breadth-first
// for a go.mod, returning the shallowest match. Matches at the same depth
// are ordered alphabetically. Hidden, vendor, node_modules and testdata
// directories are skipped.
func findModuleRootInTree(root string) (string, error) {
	level := []string{root}
	for depth := 0; depth <= maxSearchDepth && len(level) > 0; depth++ {
		var next []string
		for _, dir := range level {
			if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
				return dir, nil
			}
			entries, err := os.ReadDir(dir)
			if err != nil {
				continue
			}
			for _, e := range entries {
				if e.IsDir() && !skipDir(e.Name()) {
					next = append(next, filepath.Join(dir, e.Name()))
				}
			}
		}
		sort.Strings(next)
		level = next
	}
	return "", fmt.Errorf("no go.mod found in %s or its subdirectories", root)
}

func skipDir(name string) bool {
	switch name {
	case "vendor", "node_modules", "testdata":
		return true
	}
	return strings.HasPrefix(name, ".")
}
