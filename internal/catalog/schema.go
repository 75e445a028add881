package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSchema is returned when a schema document cannot be interpreted.
var ErrInvalidSchema = errors.New("invalid component schema")

// flexBool accepts both real booleans and the quoted "true"/"false" strings
// older catalogs emit.
type flexBool bool

func (b *flexBool) UnmarshalYAML(n *yaml.Node) error {
	if n.Value == "" {
		*b = false
		return nil
	}
	v, err := strconv.ParseBool(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %q is not a boolean", n.Line, n.Value)
	}
	*b = flexBool(v)
	return nil
}

type componentSpec struct {
	Name         string   `yaml:"name"`
	Scheme       string   `yaml:"scheme"`
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	Label        string   `yaml:"label"`
	Syntax       string   `yaml:"syntax"`
	ConsumerOnly flexBool `yaml:"consumerOnly"`
	ProducerOnly flexBool `yaml:"producerOnly"`
	Module       string   `yaml:"module"`
	Version      string   `yaml:"version"`
}

type propertySpec struct {
	Kind         string    `yaml:"kind"`
	Group        string    `yaml:"group"`
	Label        string    `yaml:"label"`
	Type         string    `yaml:"type"`
	Description  string    `yaml:"description"`
	Required     flexBool  `yaml:"required"`
	DefaultValue yaml.Node `yaml:"defaultValue"`
	Enum         []string  `yaml:"enum"`
	Secret       flexBool  `yaml:"secret"`
	Deprecated   flexBool  `yaml:"deprecated"`
}

// ParseSchema parses a JSON (or YAML) component schema. JSON is decoded
// through yaml.v3 nodes so that the declaration order of properties is kept.
func ParseSchema(data []byte) (*Schema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be an object", ErrInvalidSchema)
	}
	root := doc.Content[0]

	compNode := mappingValue(root, "component")
	if compNode == nil {
		return nil, fmt.Errorf("%w: missing \"component\" section", ErrInvalidSchema)
	}
	var comp componentSpec
	if err := compNode.Decode(&comp); err != nil {
		return nil, fmt.Errorf("%w: component: %v", ErrInvalidSchema, err)
	}
	if comp.Name == "" {
		comp.Name = comp.Scheme
	}
	if comp.Name == "" {
		return nil, fmt.Errorf("%w: component has no name", ErrInvalidSchema)
	}
	if comp.Scheme == "" {
		comp.Scheme = comp.Name
	}

	schema := &Schema{
		Component: ComponentInfo{
			Name:         comp.Name,
			Scheme:       comp.Scheme,
			Title:        comp.Title,
			Description:  comp.Description,
			Labels:       splitLabels(comp.Label),
			Syntax:       comp.Syntax,
			ConsumerOnly: bool(comp.ConsumerOnly),
			ProducerOnly: bool(comp.ProducerOnly),
			Module:       comp.Module,
			Version:      comp.Version,
		},
	}

	propsNode := mappingValue(root, "properties")
	if propsNode == nil {
		return schema, nil
	}
	if propsNode.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: \"properties\" must be an object", ErrInvalidSchema)
	}

	seen := make(map[string]bool, len(propsNode.Content)/2)
	for i := 0; i+1 < len(propsNode.Content); i += 2 {
		name := propsNode.Content[i].Value
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate property %q", ErrInvalidSchema, name)
		}
		seen[name] = true

		var spec propertySpec
		if err := propsNode.Content[i+1].Decode(&spec); err != nil {
			return nil, fmt.Errorf("%w: property %q: %v", ErrInvalidSchema, name, err)
		}
		prop := Property{
			Name:        name,
			Kind:        spec.Kind,
			Group:       spec.Group,
			Label:       spec.Label,
			Type:        spec.Type,
			Description: spec.Description,
			Required:    bool(spec.Required),
			Enum:        spec.Enum,
			Secret:      bool(spec.Secret),
			Deprecated:  bool(spec.Deprecated),
		}
		if prop.Kind == "" {
			prop.Kind = "parameter"
		}
		if prop.Group == "" {
			prop.Group = "common"
		}
		if spec.DefaultValue.Kind == yaml.ScalarNode && spec.DefaultValue.Tag != "!!null" {
			prop.HasDefault = true
			prop.DefaultValue = spec.DefaultValue.Value
		}
		schema.Properties = append(schema.Properties, prop)
	}

	return schema, nil
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func splitLabels(s string) []string {
	var out []string
	for _, l := range strings.Split(s, ",") {
		l = strings.TrimSpace(l)
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}
