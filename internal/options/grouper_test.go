package options

import (
	"testing"

	"github.com/olehluchkiv/epwizard/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prop(name, group, label string) catalog.Property {
	return catalog.Property{Name: name, Kind: "parameter", Group: group, Label: label, Type: "string"}
}

func mixedSchema() *catalog.Schema {
	return &catalog.Schema{
		Component: catalog.ComponentInfo{Name: "mixed"},
		Properties: []catalog.Property{
			prop("path", "common", ""),
			prop("groupId", "consumer", "consumer"),
			prop("acks", "producer", "producer"),
			prop("clientId", "common", ""),
			prop("fetchMin", "consumer (advanced)", "consumer,advanced"),
			prop("linger", "advanced", "producer,advanced"),
			prop("bufferSize", "advanced", "advanced"),
		},
	}
}

func keys(groups []OptionGroup) map[string][]string {
	out := make(map[string][]string)
	for _, g := range groups {
		for _, f := range g.Fields {
			out[g.Name] = append(out[g.Name], f.Key)
		}
	}
	return out
}

func names(groups []OptionGroup) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g.Name)
	}
	return out
}

func TestGroup_BothDirections(t *testing.T) {
	groups, err := NewDefaultGrouper().Group(mixedSchema(), 20, false, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"common", "consumer", "producer", "consumer (advanced)", "advanced"}, names(groups))
	assert.Equal(t, []string{"path", "clientId"}, keys(groups)["common"])
	assert.Equal(t, []string{"linger", "bufferSize"}, keys(groups)["advanced"])
	assert.Equal(t, 7, CountFields(groups))
}

func TestGroup_ConsumerOnlyDropsProducerFields(t *testing.T) {
	groups, err := NewDefaultGrouper().Group(mixedSchema(), 20, true, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"common", "consumer", "consumer (advanced)", "advanced"}, names(groups))
	flat := Flatten(groups)
	var got []string
	for _, f := range flat {
		got = append(got, f.Key)
	}
	assert.Equal(t, []string{"path", "clientId", "groupId", "fetchMin", "bufferSize"}, got)
}

func TestGroup_ProducerOnlyDropsConsumerFields(t *testing.T) {
	groups, err := NewDefaultGrouper().Group(mixedSchema(), 20, false, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"common", "producer", "advanced"}, names(groups))
	assert.Equal(t, []string{"linger", "bufferSize"}, keys(groups)["advanced"])
	assert.NotContains(t, keys(groups), "consumer")
}

func TestGroup_BothFlagsConsumerWins(t *testing.T) {
	both, err := NewDefaultGrouper().Group(mixedSchema(), 20, true, true)
	require.NoError(t, err)
	consumer, err := NewDefaultGrouper().Group(mixedSchema(), 20, true, false)
	require.NoError(t, err)
	assert.Equal(t, consumer, both)
}

func TestGroup_Deterministic(t *testing.T) {
	g := NewDefaultGrouper()
	first, err := g.Group(mixedSchema(), 3, false, false)
	require.NoError(t, err)
	for range 10 {
		again, err := g.Group(mixedSchema(), 3, false, false)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestGroup_LargeGroupIsNotSplit(t *testing.T) {
	schema := &catalog.Schema{}
	for i := range 25 {
		schema.Properties = append(schema.Properties, prop(string(rune('a'+i)), "common", ""))
	}
	groups, err := NewDefaultGrouper().Group(schema, 20, false, false)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Fields, 25)
}

func TestGroup_InvalidInput(t *testing.T) {
	_, err := NewDefaultGrouper().Group(mixedSchema(), 0, false, false)
	assert.ErrorIs(t, err, ErrInvalidPageSize)

	_, err = NewDefaultGrouper().Group(nil, 20, false, false)
	assert.Error(t, err)
}

func TestGroup_FieldConversion(t *testing.T) {
	schema := &catalog.Schema{Properties: []catalog.Property{
		{Name: "period", Kind: "parameter", Group: "common", Type: "long", HasDefault: true, DefaultValue: "1000", Description: "Period"},
		{Name: "level", Kind: "parameter", Group: "common", Type: "string", Enum: []string{"INFO", "WARN"}},
		{Name: "name", Kind: "path", Group: "common", Type: "string", Required: true},
		{Name: "password", Kind: "parameter", Group: "security", Type: "string", Secret: true},
	}}
	groups, err := NewDefaultGrouper().Group(schema, 20, false, false)
	require.NoError(t, err)
	flat := Flatten(groups)
	require.Len(t, flat, 4)

	assert.Equal(t, TypeInteger, flat[0].Type)
	def, ok := flat[0].DefaultValue()
	assert.True(t, ok)
	assert.Equal(t, "1000", def)
	assert.Equal(t, "Period", flat[0].Description)

	assert.Equal(t, TypeEnum, flat[1].Type)
	assert.Equal(t, []string{"INFO", "WARN"}, flat[1].Enum)

	assert.True(t, flat[2].Required)
	assert.True(t, flat[2].IsPath())
	_, ok = flat[2].DefaultValue()
	assert.False(t, ok)

	assert.True(t, flat[3].Secret)
}

func TestApplicabilityOf(t *testing.T) {
	tests := []struct {
		group, label string
		want         Applicability
	}{
		{"common", "", Common},
		{"consumer", "consumer", ConsumerOnly},
		{"consumer (advanced)", "", ConsumerOnly},
		{"advanced", "consumer,advanced", ConsumerOnly},
		{"producer", "", ProducerOnly},
		{"Producer (Advanced)", "", ProducerOnly},
		{"security", "common,security", Common},
		{"advanced", "consumer,producer", Common},
	}
	for _, tt := range tests {
		t.Run(tt.group+"|"+tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, ApplicabilityOf(tt.group, tt.label))
		})
	}
	assert.Equal(t, "consumer", ConsumerOnly.String())
	assert.Equal(t, "common", Common.String())
}
