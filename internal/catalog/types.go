package catalog

// AllFilter is the filter value that matches every component.
const AllFilter = "<all>"

// ComponentDescriptor identifies a catalog component and its directional
// capabilities. It is immutable once resolved.
type ComponentDescriptor struct {
	Name         string
	ConsumerOnly bool
	ProducerOnly bool
}

// ComponentInfo is the header of a component schema.
type ComponentInfo struct {
	Name         string
	Scheme       string
	Title        string
	Description  string
	Labels       []string
	Syntax       string // e.g. "timer:timerName"
	ConsumerOnly bool
	ProducerOnly bool
	Module       string // Go module providing the component
	Version      string
}

// Descriptor returns the capability view of the component header.
func (c ComponentInfo) Descriptor() ComponentDescriptor {
	return ComponentDescriptor{
		Name:         c.Name,
		ConsumerOnly: c.ConsumerOnly,
		ProducerOnly: c.ProducerOnly,
	}
}

// Property is one configurable option declared by a component schema.
type Property struct {
	Name         string
	Kind         string // "path" or "parameter"
	Group        string
	Label        string
	Type         string
	Description  string
	Required     bool
	HasDefault   bool
	DefaultValue string
	Enum         []string
	Secret       bool
	Deprecated   bool
}

// Schema is a parsed component schema. Properties keep the order in which
// the catalog declares them.
type Schema struct {
	Component  ComponentInfo
	Properties []Property
}
