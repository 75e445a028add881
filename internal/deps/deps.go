package deps

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/olehluchkiv/epwizard/internal/catalog"
	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
)

// SchemaResolver looks up the catalog entry of a component.
type SchemaResolver interface {
	ResolveSchema(ctx context.Context, name string) (*catalog.Schema, error)
}

// GoModInstaller adds the Go module providing a component to the project's
// go.mod. It never downgrades an existing requirement.
type GoModInstaller struct {
	catalog SchemaResolver
	logger  *slog.Logger
}

// NewGoModInstaller creates an installer backed by the catalog.
func NewGoModInstaller(cat SchemaResolver, logger *slog.Logger) *GoModInstaller {
	return &GoModInstaller{
		catalog: cat,
		logger:  logger.With("component", "deps"),
	}
}

// EnsureDependency requires the component's module in projectDir/go.mod.
// Components without module coordinates need nothing.
func (i *GoModInstaller) EnsureDependency(ctx context.Context, projectDir, componentName string) error {
	schema, err := i.catalog.ResolveSchema(ctx, componentName)
	if err != nil {
		return err
	}
	mod := module.Version{Path: schema.Component.Module, Version: schema.Component.Version}
	if mod.Path == "" {
		i.logger.Debug("component has no module", "component", componentName)
		return nil
	}
	if err := module.Check(mod.Path, mod.Version); err != nil {
		return fmt.Errorf("component %q: %w", componentName, err)
	}

	path := filepath.Join(projectDir, "go.mod")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading go.mod: %w", err)
	}
	mf, err := modfile.Parse(path, data, nil)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	for _, r := range mf.Require {
		if r.Mod.Path == mod.Path && semver.Compare(r.Mod.Version, mod.Version) >= 0 {
			i.logger.Debug("dependency already satisfied", "module", mod.Path, "have", r.Mod.Version, "want", mod.Version)
			return nil
		}
	}

	if err := mf.AddRequire(mod.Path, mod.Version); err != nil {
		return fmt.Errorf("adding %s: %w", mod, err)
	}
	mf.Cleanup()
	out, err := mf.Format()
	if err != nil {
		return fmt.Errorf("formatting go.mod: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := writeFileAtomic(path, out); err != nil {
		return err
	}
	i.logger.Info("dependency added", "module", mod.Path, "version", mod.Version, "go_mod", path)
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".go.mod-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
