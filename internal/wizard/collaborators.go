package wizard

import (
	"context"

	"github.com/olehluchkiv/epwizard/internal/catalog"
)

// CapabilityResolver is the part of the catalog the reactive form needs.
type CapabilityResolver interface {
	ComponentNames(ctx context.Context, filter string) ([]string, error)
	Description(ctx context.Context, name string) string
	ResolveCapabilities(ctx context.Context, name string) (catalog.ComponentDescriptor, error)
}

// Catalog is everything the controller reads from the component catalog.
// *catalog.Client implements it.
type Catalog interface {
	CapabilityResolver
	Filters(ctx context.Context) ([]string, error)
	ResolveSchema(ctx context.Context, name string) (*catalog.Schema, error)
}

// TargetEnumerator lists the places in a project an endpoint can be added to.
type TargetEnumerator interface {
	ListCandidateTargets(ctx context.Context, project string) ([]string, error)
}

// DependencyInstaller makes the component available to the project.
type DependencyInstaller interface {
	EnsureDependency(ctx context.Context, project, componentName string) error
}

// Commit request constants.
const (
	ModeAdd  = "add"
	KindJava = "java"
)

// CommitRequest is handed to the CommitSink when the wizard finishes.
type CommitRequest struct {
	Project         string            `json:"project"`
	ComponentName   string            `json:"componentName"`
	InstanceName    string            `json:"instanceName"`
	TargetReference string            `json:"targetReference"`
	Mode            string            `json:"mode"`
	Kind            string            `json:"kind"`
	Fields          map[string]string `json:"fields"`
}

// CommitSink applies a finished wizard to the project. Validate must not
// modify the project; the controller calls it before installing anything.
type CommitSink interface {
	Validate(ctx context.Context, req CommitRequest) error
	Commit(ctx context.Context, req CommitRequest) error
}

// Observer is notified of controller outcomes. Result values for
// NavigationBuilt are "hit", "miss", "rebuild" and "error".
type Observer interface {
	NavigationBuilt(result string)
	CommitFinished(status string)
	CatalogMissed()
}

type nopObserver struct{}

func (nopObserver) NavigationBuilt(string) {}
func (nopObserver) CommitFinished(string)  {}
func (nopObserver) CatalogMissed()         {}
