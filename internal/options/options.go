package options

import (
	"errors"
	"strings"
)

// ErrInvalidPageSize is returned when the fields-per-page cap is not positive.
var ErrInvalidPageSize = errors.New("max fields per page must be positive")

// Semantic field types.
const (
	TypeString   = "string"
	TypeInteger  = "integer"
	TypeNumber   = "number"
	TypeBoolean  = "boolean"
	TypeDuration = "duration"
	TypeObject   = "object"
	TypeEnum     = "enum"
)

// FieldDescriptor is one input of the wizard. Key is unique within a
// component and is what collected values are stored under.
type FieldDescriptor struct {
	Key         string
	Group       string
	Label       string
	Required    bool
	Type        string
	HasDefault  bool
	Default     string
	Kind        string // "path" or "parameter"
	Description string
	Enum        []string
	Secret      bool
}

// DefaultValue returns the declared default and whether there is one.
func (f FieldDescriptor) DefaultValue() (string, bool) {
	return f.Default, f.HasDefault
}

// IsPath reports whether the field is part of the endpoint path rather
// than its query.
func (f FieldDescriptor) IsPath() bool { return f.Kind == "path" }

// OptionGroup is a named, ordered run of fields.
type OptionGroup struct {
	Name   string
	Fields []FieldDescriptor
}

// Applicability says which endpoint direction a field applies to.
type Applicability int

const (
	Common Applicability = iota
	ConsumerOnly
	ProducerOnly
)

func (a Applicability) String() string {
	switch a {
	case ConsumerOnly:
		return "consumer"
	case ProducerOnly:
		return "producer"
	default:
		return "common"
	}
}

// ApplicabilityOf classifies a field by its group name and label. A field
// mentioning both directions (or neither) is common.
func ApplicabilityOf(group, label string) Applicability {
	text := strings.ToLower(group + "," + label)
	consumer := strings.Contains(text, "consumer")
	producer := strings.Contains(text, "producer")
	switch {
	case consumer && !producer:
		return ConsumerOnly
	case producer && !consumer:
		return ProducerOnly
	default:
		return Common
	}
}

// CountFields returns the number of fields across groups.
func CountFields(groups []OptionGroup) int {
	n := 0
	for _, g := range groups {
		n += len(g.Fields)
	}
	return n
}

// Flatten returns the fields of all groups in group order.
func Flatten(groups []OptionGroup) []FieldDescriptor {
	out := make([]FieldDescriptor, 0, CountFields(groups))
	for _, g := range groups {
		out = append(out, g.Fields...)
	}
	return out
}
