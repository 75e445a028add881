package codegen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/olehluchkiv/epwizard/internal/catalog"
	"github.com/olehluchkiv/epwizard/internal/wizard"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the endpoints file written into the project root.
const DefaultFileName = "endpoints.yaml"

// ErrDuplicateEndpoint is returned when the instance name is taken.
var ErrDuplicateEndpoint = errors.New("endpoint already exists")

// Endpoint is one entry of the endpoints file.
type Endpoint struct {
	Name      string            `yaml:"name"`
	Component string            `yaml:"component"`
	URI       string            `yaml:"uri"`
	Target    string            `yaml:"target,omitempty"`
	Mode      string            `yaml:"mode"`
	Kind      string            `yaml:"kind"`
	Fields    map[string]string `yaml:"fields,omitempty"`
	CreatedAt time.Time         `yaml:"createdAt"`
}

// EndpointsFile is the document stored in the endpoints file.
type EndpointsFile struct {
	Endpoints []Endpoint `yaml:"endpoints"`
}

// SchemaResolver looks up the catalog entry of a component.
type SchemaResolver interface {
	ResolveSchema(ctx context.Context, name string) (*catalog.Schema, error)
}

// FileSink records committed endpoints in a YAML file in the project.
type FileSink struct {
	catalog  SchemaResolver
	fileName string
	now      func() time.Time
	logger   *slog.Logger
}

// NewFileSink creates a sink writing to fileName (relative to the project
// root, DefaultFileName when empty).
func NewFileSink(cat SchemaResolver, fileName string, logger *slog.Logger) *FileSink {
	if fileName == "" {
		fileName = DefaultFileName
	}
	return &FileSink{
		catalog:  cat,
		fileName: fileName,
		now:      time.Now,
		logger:   logger.With("component", "codegen"),
	}
}

// Path returns the endpoints file location for a project.
func (s *FileSink) Path(project string) string {
	if filepath.IsAbs(s.fileName) {
		return s.fileName
	}
	return filepath.Join(project, s.fileName)
}

// Validate runs every check Commit makes without touching the project:
// the URI must build and the instance name must be unused.
func (s *FileSink) Validate(ctx context.Context, req wizard.CommitRequest) error {
	_, _, _, err := s.prepare(ctx, req)
	return err
}

// Commit appends the endpoint described by req to the endpoints file.
func (s *FileSink) Commit(ctx context.Context, req wizard.CommitRequest) error {
	path, doc, uri, err := s.prepare(ctx, req)
	if err != nil {
		return err
	}
	doc.Endpoints = append(doc.Endpoints, Endpoint{
		Name:      req.InstanceName,
		Component: req.ComponentName,
		URI:       uri,
		Target:    req.TargetReference,
		Mode:      req.Mode,
		Kind:      req.Kind,
		Fields:    req.Fields,
		CreatedAt: s.now().UTC().Truncate(time.Second),
	})

	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding endpoints: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	s.logger.Info("endpoint written", "name", req.InstanceName, "uri", uri, "file", path)
	return nil
}

func (s *FileSink) prepare(ctx context.Context, req wizard.CommitRequest) (string, *EndpointsFile, string, error) {
	if req.InstanceName == "" {
		return "", nil, "", errors.New("endpoint has no name")
	}
	schema, err := s.catalog.ResolveSchema(ctx, req.ComponentName)
	if err != nil {
		return "", nil, "", err
	}
	uri, err := BuildURI(schema, req.Fields)
	if err != nil {
		return "", nil, "", err
	}

	path := s.Path(req.Project)
	doc, err := ReadEndpoints(path)
	if err != nil {
		return "", nil, "", err
	}
	for _, e := range doc.Endpoints {
		if e.Name == req.InstanceName {
			return "", nil, "", fmt.Errorf("%w: %q in %s", ErrDuplicateEndpoint, req.InstanceName, path)
		}
	}
	return path, doc, uri, nil
}

// ReadEndpoints loads an endpoints file. A missing file is an empty
// document.
func ReadEndpoints(path string) (*EndpointsFile, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &EndpointsFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var doc EndpointsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &doc, nil
}
