package options

import (
	"errors"
	"fmt"
	"strings"

	"github.com/olehluchkiv/epwizard/internal/catalog"
)

// Grouper converts a component schema into ordered option groups.
type Grouper interface {
	Group(schema *catalog.Schema, maxFieldsPerPage int, consumerOnly, producerOnly bool) ([]OptionGroup, error)
}

// DefaultGrouper groups fields by their declared group name. Groups appear
// in the order their first field is declared; fields keep catalog order.
// Splitting oversized groups is left to the paginator.
type DefaultGrouper struct{}

func NewDefaultGrouper() *DefaultGrouper { return &DefaultGrouper{} }

// Group drops fields that do not apply to the requested direction and
// groups the rest. When both directions are requested the consumer one
// wins, matching the endpoint type selector.
func (g *DefaultGrouper) Group(schema *catalog.Schema, maxFieldsPerPage int, consumerOnly, producerOnly bool) ([]OptionGroup, error) {
	if maxFieldsPerPage <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPageSize, maxFieldsPerPage)
	}
	if schema == nil {
		return nil, errors.New("nil schema")
	}
	if consumerOnly {
		producerOnly = false
	}

	index := make(map[string]int)
	var out []OptionGroup
	for _, p := range schema.Properties {
		switch ApplicabilityOf(p.Group, p.Label) {
		case ConsumerOnly:
			if producerOnly {
				continue
			}
		case ProducerOnly:
			if consumerOnly {
				continue
			}
		}

		i, ok := index[p.Group]
		if !ok {
			i = len(out)
			index[p.Group] = i
			out = append(out, OptionGroup{Name: p.Group})
		}
		out[i].Fields = append(out[i].Fields, fieldFromProperty(p))
	}
	return out, nil
}

func fieldFromProperty(p catalog.Property) FieldDescriptor {
	return FieldDescriptor{
		Key:         p.Name,
		Group:       p.Group,
		Label:       p.Label,
		Required:    p.Required,
		Type:        semanticType(p.Type, p.Enum),
		HasDefault:  p.HasDefault,
		Default:     p.DefaultValue,
		Kind:        p.Kind,
		Description: p.Description,
		Enum:        p.Enum,
		Secret:      p.Secret,
	}
}

func semanticType(t string, enum []string) string {
	if len(enum) > 0 {
		return TypeEnum
	}
	switch strings.ToLower(t) {
	case "integer", "int", "long", "short", "byte":
		return TypeInteger
	case "number", "double", "float", "decimal":
		return TypeNumber
	case "boolean", "bool":
		return TypeBoolean
	case "duration":
		return TypeDuration
	case "object", "map", "array":
		return TypeObject
	default:
		return TypeString
	}
}
