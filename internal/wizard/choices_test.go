package wizard

import (
	"testing"

	"github.com/olehluchkiv/epwizard/internal/catalog"
	"github.com/stretchr/testify/assert"
)

func TestDeriveEndpointTypeChoices(t *testing.T) {
	tests := []struct {
		name string
		d    *catalog.ComponentDescriptor
		want Choices
	}{
		{"no component", nil, Choices{Values: []string{"<any>", "Consumer", "Producer"}, Default: "<any>"}},
		{"consumer only", &catalog.ComponentDescriptor{Name: "timer", ConsumerOnly: true}, Choices{Values: []string{"Consumer"}, Default: "Consumer"}},
		{"producer only", &catalog.ComponentDescriptor{Name: "log", ProducerOnly: true}, Choices{Values: []string{"Producer"}, Default: "Producer"}},
		{"both flags, consumer wins", &catalog.ComponentDescriptor{Name: "odd", ConsumerOnly: true, ProducerOnly: true}, Choices{Values: []string{"Consumer"}, Default: "Consumer"}},
		{"neither flag", &catalog.ComponentDescriptor{Name: "kafka"}, Choices{Values: []string{"<any>", "Consumer", "Producer"}, Default: "<any>"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveEndpointTypeChoices(tt.d))
		})
	}
}

// Behavior change: producer-only components used to be detected with the
// consumer-only flag in both branches, so they were offered all three
// endpoint types. The producer flag is now checked on its own.
func TestDeriveEndpointTypeChoices_ProducerFlagIsHonoured(t *testing.T) {
	got := DeriveEndpointTypeChoices(&catalog.ComponentDescriptor{Name: "log", ProducerOnly: true})
	assert.Equal(t, []string{Producer}, got.Values)
	assert.NotEqual(t, DeriveEndpointTypeChoices(nil), got)
}

func TestChoicesContains(t *testing.T) {
	c := DeriveEndpointTypeChoices(nil)
	assert.True(t, c.Contains(Consumer))
	assert.False(t, c.Contains("Sideways"))
}
