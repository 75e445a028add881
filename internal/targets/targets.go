package targets

import (
	"context"
	"fmt"
	"go/token"
	"go/types"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/types/typeutil"
)

// DefaultInterface is the interface route builders implement.
const DefaultInterface = "RouteBuilder"

// Target is a named type that implements the target interface.
type Target struct {
	Name       string
	PkgPath    string
	PkgName    string
	ViaPointer bool // true if only *T satisfies the interface
	SourceFile string
}

// Reference is the short "pkg.Type" form shown to users.
func (t Target) Reference() string { return t.PkgName + "." + t.Name }

// Options controls discovery.
type Options struct {
	// Interface is the interface name, optionally qualified with its
	// package path ("example.com/routes.RouteBuilder").
	Interface         string
	Filter            string // package path prefix filter
	IncludeUnexported bool
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{Interface: DefaultInterface}
}

// Discover loads the Go packages under dir and returns the types that
// implement the configured interface, sorted by reference.
func Discover(ctx context.Context, dir string, opts Options, logger *slog.Logger) ([]Target, error) {
	if opts.Interface == "" {
		opts.Interface = DefaultInterface
	}
	ifacePkg, ifaceName := splitQualified(opts.Interface)

	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedSyntax |
			packages.NeedTypesInfo | packages.NeedImports,
		Dir:     dir,
		Context: ctx,
	}
	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}
	logger.Info("packages loaded", "dir", dir, "packages_count", len(pkgs))

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			logger.Warn("package load error", "package", pkg.PkgPath, "error", e.Msg)
		}
	}

	ifaces := findInterfaces(pkgs, ifacePkg, ifaceName)
	if len(ifaces) == 0 {
		logger.Warn("target interface not found", "interface", opts.Interface)
		return nil, nil
	}

	var methodSetCache typeutil.MethodSetCache
	seen := make(map[string]bool)
	var out []Target

	for _, pkg := range pkgs {
		if pkg.Types == nil {
			continue
		}
		if opts.Filter != "" && !strings.HasPrefix(pkg.PkgPath, opts.Filter) {
			continue
		}
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || tn.IsAlias() {
				continue
			}
			named, ok := tn.Type().(*types.Named)
			if !ok {
				continue
			}
			if _, isIface := named.Underlying().(*types.Interface); isIface {
				continue
			}
			if !opts.IncludeUnexported && isUnexported(tn.Name()) {
				continue
			}
			key := pkg.PkgPath + "." + tn.Name()
			if seen[key] {
				continue
			}

			for _, iface := range ifaces {
				viaPointer, ok := implements(&methodSetCache, named, iface)
				if !ok {
					continue
				}
				seen[key] = true
				out = append(out, Target{
					Name:       tn.Name(),
					PkgPath:    pkg.PkgPath,
					PkgName:    pkg.Name,
					ViaPointer: viaPointer,
					SourceFile: resolveSourceFile(pkg.Fset, tn.Pos(), dir),
				})
				logger.Debug("target found", "type", key, "via_pointer", viaPointer)
				break
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Reference() != out[j].Reference() {
			return out[i].Reference() < out[j].Reference()
		}
		return out[i].PkgPath < out[j].PkgPath
	})
	logger.Info("targets discovered", "interface", opts.Interface, "count", len(out))
	return out, nil
}

// findInterfaces collects non-empty interfaces named name from the loaded
// packages and their imports.
func findInterfaces(pkgs []*packages.Package, pkgPath, name string) []*types.Interface {
	var out []*types.Interface
	seen := make(map[string]bool)
	visit := func(p *packages.Package) {
		if p.Types == nil || (pkgPath != "" && p.PkgPath != pkgPath) || seen[p.PkgPath] {
			return
		}
		seen[p.PkgPath] = true
		tn, ok := p.Types.Scope().Lookup(name).(*types.TypeName)
		if !ok {
			return
		}
		iface, ok := tn.Type().Underlying().(*types.Interface)
		if !ok || iface.NumMethods() == 0 {
			return
		}
		out = append(out, iface)
	}
	for _, p := range pkgs {
		visit(p)
		for _, imp := range p.Imports {
			visit(imp)
		}
	}
	return out
}

func implements(cache *typeutil.MethodSetCache, named *types.Named, iface *types.Interface) (viaPointer, ok bool) {
	if types.Implements(named, iface) || matchesMethodSet(cache.MethodSet(named), iface) {
		return false, true
	}
	ptr := types.NewPointer(named)
	if types.Implements(ptr, iface) || matchesMethodSet(cache.MethodSet(ptr), iface) {
		return true, true
	}
	return false, false
}

func matchesMethodSet(mset *types.MethodSet, iface *types.Interface) bool {
	for i := 0; i < iface.NumMethods(); i++ {
		m := iface.Method(i)
		if mset.Lookup(m.Pkg(), m.Name()) == nil {
			return false
		}
	}
	return true
}

func splitQualified(s string) (pkgPath, name string) {
	if i := strings.LastIndexByte(s, '.'); i >= 0 && strings.Contains(s[:i], "/") {
		return s[:i], s[i+1:]
	}
	return "", s
}

func isUnexported(name string) bool {
	return name == "" || unicode.IsLower(rune(name[0])) || name[0] == '_'
}

// resolveSourceFile resolves a token position to a path relative to root.
func resolveSourceFile(fset *token.FileSet, pos token.Pos, root string) string {
	if fset == nil || !pos.IsValid() {
		return ""
	}
	position := fset.Position(pos)
	if !position.IsValid() || position.Filename == "" {
		return ""
	}
	rel, err := filepath.Rel(root, position.Filename)
	if err != nil {
		return position.Filename
	}
	return rel
}
