package catalog

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"sort"
	"strings"
)

//go:embed components/*.json
var builtin embed.FS

// FileService serves component schemas loaded from a directory tree. Every
// *.json, *.yaml and *.yml file holds one component schema.
type FileService struct {
	schemas map[string]*Schema
	names   []string // sorted
	labels  []string // sorted, unique
}

// Builtin returns the catalog shipped with the binary.
func Builtin() (*FileService, error) {
	sub, err := fs.Sub(builtin, "components")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub)
}

// LoadDir loads a catalog from a directory on disk.
func LoadDir(dir string) (*FileService, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	return LoadFS(os.DirFS(dir))
}

// LoadFS loads a catalog from fsys.
func LoadFS(fsys fs.FS) (*FileService, error) {
	s := &FileService{schemas: make(map[string]*Schema)}
	labelSet := make(map[string]bool)

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(path.Ext(p)) {
		case ".json", ".yaml", ".yml":
		default:
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		schema, err := ParseSchema(data)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		name := schema.Component.Name
		if _, dup := s.schemas[name]; dup {
			return fmt.Errorf("%s: component %q declared twice", p, name)
		}
		s.schemas[name] = schema
		s.names = append(s.names, name)
		for _, l := range schema.Component.Labels {
			labelSet[l] = true
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	sort.Strings(s.names)
	for l := range labelSet {
		s.labels = append(s.labels, l)
	}
	sort.Strings(s.labels)
	return s, nil
}

func (s *FileService) Filters(_ context.Context) ([]string, error) {
	return slices.Clone(s.labels), nil
}

func (s *FileService) ComponentNames(_ context.Context, filter string) ([]string, error) {
	if filter == "" || filter == AllFilter {
		return slices.Clone(s.names), nil
	}
	var out []string
	for _, name := range s.names {
		if slices.Contains(s.schemas[name].Component.Labels, filter) {
			out = append(out, name)
		}
	}
	return out, nil
}

func (s *FileService) Description(_ context.Context, name string) (string, error) {
	schema, ok := s.schemas[name]
	if !ok {
		return "", ErrNotFound
	}
	return schema.Component.Description, nil
}

func (s *FileService) Capabilities(_ context.Context, name string) (Capabilities, error) {
	schema, ok := s.schemas[name]
	if !ok {
		return Capabilities{}, ErrNotFound
	}
	return Capabilities{
		ConsumerOnly: schema.Component.ConsumerOnly,
		ProducerOnly: schema.Component.ProducerOnly,
	}, nil
}

func (s *FileService) Schema(_ context.Context, name string) (*Schema, error) {
	schema, ok := s.schemas[name]
	if !ok {
		return nil, ErrNotFound
	}
	return schema, nil
}
