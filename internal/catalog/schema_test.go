package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSchema_KeepsDeclarationOrder(t *testing.T) {
	doc := `{
  "component": {"name": "demo", "scheme": "demo", "label": "core, testing", "consumerOnly": "true"},
  "properties": {
    "zeta":  {"kind": "path", "group": "common", "required": true, "type": "string"},
    "alpha": {"group": "consumer", "type": "integer", "defaultValue": 10},
    "mid":   {"type": "boolean", "defaultValue": false, "secret": "true"}
  }
}`
	schema, err := ParseSchema([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "demo", schema.Component.Name)
	assert.Equal(t, []string{"core", "testing"}, schema.Component.Labels)
	assert.True(t, schema.Component.ConsumerOnly)
	assert.False(t, schema.Component.ProducerOnly)

	require.Len(t, schema.Properties, 3)
	names := []string{schema.Properties[0].Name, schema.Properties[1].Name, schema.Properties[2].Name}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names)

	zeta := schema.Properties[0]
	assert.Equal(t, "path", zeta.Kind)
	assert.True(t, zeta.Required)
	assert.False(t, zeta.HasDefault)

	alpha := schema.Properties[1]
	assert.Equal(t, "parameter", alpha.Kind, "kind defaults to parameter")
	assert.True(t, alpha.HasDefault)
	assert.Equal(t, "10", alpha.DefaultValue)

	mid := schema.Properties[2]
	assert.Equal(t, "common", mid.Group, "group defaults to common")
	assert.True(t, mid.HasDefault)
	assert.Equal(t, "false", mid.DefaultValue)
	assert.True(t, mid.Secret)
}

func TestParseSchema_DefaultValues(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		hasDefault bool
		want       string
	}{
		{"string", `"INFO"`, true, "INFO"},
		{"integer", `1000`, true, "1000"},
		{"boolean", `true`, true, "true"},
		{"empty string", `""`, true, ""},
		{"null", `null`, false, ""},
		{"object", `{"a": 1}`, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `{"component": {"name": "x"}, "properties": {"p": {"defaultValue": ` + tt.value + `}}}`
			schema, err := ParseSchema([]byte(doc))
			require.NoError(t, err)
			require.Len(t, schema.Properties, 1)
			assert.Equal(t, tt.hasDefault, schema.Properties[0].HasDefault)
			assert.Equal(t, tt.want, schema.Properties[0].DefaultValue)
		})
	}
}

func TestParseSchema_MissingDefaultIsNoDefault(t *testing.T) {
	schema, err := ParseSchema([]byte(`{"component": {"name": "x"}, "properties": {"a": {"type": "string"}}}`))
	require.NoError(t, err)
	require.Len(t, schema.Properties, 1)
	assert.False(t, schema.Properties[0].HasDefault)
}

func TestParseSchema_NameFallsBackToScheme(t *testing.T) {
	schema, err := ParseSchema([]byte(`{"component": {"scheme": "sftp"}}`))
	require.NoError(t, err)
	assert.Equal(t, "sftp", schema.Component.Name)
	assert.Empty(t, schema.Properties)
}

func TestParseSchema_YAML(t *testing.T) {
	doc := `
component:
  name: cron
  producerOnly: true
properties:
  expression:
    kind: path
    required: true
`
	schema, err := ParseSchema([]byte(doc))
	require.NoError(t, err)
	assert.True(t, schema.Component.ProducerOnly)
	require.Len(t, schema.Properties, 1)
	assert.Equal(t, "expression", schema.Properties[0].Name)
}

func TestParseSchema_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not an object", `["a", "b"]`},
		{"missing component", `{"properties": {}}`},
		{"nameless component", `{"component": {"title": "x"}}`},
		{"properties not an object", `{"component": {"name": "x"}, "properties": ["a"]}`},
		{"duplicate property", `{"component": {"name": "x"}, "properties": {"a": {}, "a": {}}}`},
		{"bad boolean", `{"component": {"name": "x"}, "properties": {"a": {"required": "maybe"}}}`},
		{"malformed", `{"component": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSchema([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidSchema)
		})
	}
}
