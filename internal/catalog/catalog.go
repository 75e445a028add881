package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNotFound is returned when the catalog has no entry for a component.
var ErrNotFound = errors.New("component not found in catalog")

// Capabilities are the coarse directional flags of a component.
type Capabilities struct {
	ConsumerOnly bool
	ProducerOnly bool
}

// Service is a source of component metadata. Implementations return
// ErrNotFound (possibly wrapped) for unknown component names.
type Service interface {
	// Filters lists the filter values (labels) components can be narrowed by.
	Filters(ctx context.Context) ([]string, error)
	// ComponentNames lists components matching filter; "" and AllFilter match all.
	ComponentNames(ctx context.Context, filter string) ([]string, error)
	Description(ctx context.Context, name string) (string, error)
	Capabilities(ctx context.Context, name string) (Capabilities, error)
	Schema(ctx context.Context, name string) (*Schema, error)
}

// Client resolves component names against a Service. It keeps no state
// between calls.
type Client struct {
	svc    Service
	logger *slog.Logger
}

// NewClient creates a catalog client backed by svc.
func NewClient(svc Service, logger *slog.Logger) *Client {
	return &Client{
		svc:    svc,
		logger: logger.With("component", "catalog"),
	}
}

// Filters returns the filter choices, AllFilter first.
func (c *Client) Filters(ctx context.Context) ([]string, error) {
	labels, err := c.svc.Filters(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing filters: %w", err)
	}
	out := make([]string, 0, len(labels)+1)
	out = append(out, AllFilter)
	for _, l := range labels {
		if l != AllFilter {
			out = append(out, l)
		}
	}
	return out, nil
}

// ComponentNames enumerates the components matching filter.
func (c *Client) ComponentNames(ctx context.Context, filter string) ([]string, error) {
	names, err := c.svc.ComponentNames(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing components for filter %q: %w", filter, err)
	}
	c.logger.Debug("components enumerated", "filter", filter, "count", len(names))
	return names, nil
}

// Description returns the human readable description of a component, or
// an empty string when the catalog has none.
func (c *Client) Description(ctx context.Context, name string) string {
	if name == "" {
		return ""
	}
	desc, err := c.svc.Description(ctx, name)
	if err != nil {
		c.logger.Debug("no description", "name", name, "error", err)
		return ""
	}
	return desc
}

// ResolveCapabilities returns the descriptor of the named component.
func (c *Client) ResolveCapabilities(ctx context.Context, name string) (ComponentDescriptor, error) {
	if name == "" {
		return ComponentDescriptor{}, fmt.Errorf("empty component name: %w", ErrNotFound)
	}
	caps, err := c.svc.Capabilities(ctx, name)
	if err != nil {
		return ComponentDescriptor{}, fmt.Errorf("resolving capabilities of %q: %w", name, err)
	}
	return ComponentDescriptor{
		Name:         name,
		ConsumerOnly: caps.ConsumerOnly,
		ProducerOnly: caps.ProducerOnly,
	}, nil
}

// ResolveSchema returns the schema of the named component. A missing
// schema is always reported as ErrNotFound, never as an empty result.
func (c *Client) ResolveSchema(ctx context.Context, name string) (*Schema, error) {
	if name == "" {
		return nil, fmt.Errorf("empty component name: %w", ErrNotFound)
	}
	schema, err := c.svc.Schema(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("resolving schema of %q: %w", name, err)
	}
	if schema == nil {
		return nil, fmt.Errorf("resolving schema of %q: %w", name, ErrNotFound)
	}
	c.logger.Debug("schema resolved", "name", name, "properties", len(schema.Properties))
	return schema, nil
}
