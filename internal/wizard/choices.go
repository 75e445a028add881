package wizard

import (
	"slices"

	"github.com/olehluchkiv/epwizard/internal/catalog"
)

// Endpoint type selector values.
const (
	AnyEndpointType = "<any>"
	Consumer        = "Consumer"
	Producer        = "Producer"
)

// Choices is the value space of a selector and its default.
type Choices struct {
	Values  []string
	Default string
}

// Contains reports whether v is one of the choices.
func (c Choices) Contains(v string) bool {
	return slices.Contains(c.Values, v)
}

// DeriveEndpointTypeChoices returns the endpoint types a component allows.
// A nil descriptor, or one with neither flag, allows all three. When both
// flags are set the consumer flag wins.
func DeriveEndpointTypeChoices(d *catalog.ComponentDescriptor) Choices {
	switch {
	case d == nil:
	case d.ConsumerOnly:
		return Choices{Values: []string{Consumer}, Default: Consumer}
	case d.ProducerOnly:
		return Choices{Values: []string{Producer}, Default: Producer}
	}
	return Choices{
		Values:  []string{AnyEndpointType, Consumer, Producer},
		Default: AnyEndpointType,
	}
}

// directionFlags maps an endpoint type to the grouper's filter flags.
func directionFlags(endpointType string) (consumerOnly, producerOnly bool) {
	switch endpointType {
	case Consumer:
		return true, false
	case Producer:
		return false, true
	default:
		return false, false
	}
}
