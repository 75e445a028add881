package codegen

import (
	"testing"

	"github.com/olehluchkiv/epwizard/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timerSchema() *catalog.Schema {
	return &catalog.Schema{
		Component: catalog.ComponentInfo{Name: "timer", Scheme: "timer", Syntax: "timer:timerName"},
		Properties: []catalog.Property{
			{Name: "timerName", Kind: "path", Required: true},
			{Name: "period", Kind: "parameter", HasDefault: true, DefaultValue: "1000"},
			{Name: "delay", Kind: "parameter", HasDefault: true, DefaultValue: "1000"},
			{Name: "pattern", Kind: "parameter"},
		},
	}
}

func TestBuildURI(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
		want   string
	}{
		{"path only", map[string]string{"timerName": "tick"}, "timer:tick"},
		{"non-default query", map[string]string{"timerName": "tick", "period": "5000"}, "timer:tick?period=5000"},
		{"default value omitted", map[string]string{"timerName": "tick", "period": "1000", "delay": "10"}, "timer:tick?delay=10"},
		{"declaration order", map[string]string{"timerName": "tick", "pattern": "HH:mm", "period": "5"}, "timer:tick?period=5&pattern=HH%3Amm"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildURI(timerSchema(), tt.values)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildURI_MissingRequiredPath(t *testing.T) {
	_, err := BuildURI(timerSchema(), map[string]string{"period": "5"})
	assert.ErrorIs(t, err, ErrMissingPath)
}

func TestBuildURI_MultiplePathParameters(t *testing.T) {
	schema := &catalog.Schema{
		Component: catalog.ComponentInfo{Name: "jms", Syntax: "jms:destinationType:destinationName"},
		Properties: []catalog.Property{
			{Name: "destinationType", Kind: "path", HasDefault: true, DefaultValue: "queue"},
			{Name: "destinationName", Kind: "path", Required: true},
		},
	}
	got, err := BuildURI(schema, map[string]string{"destinationName": "orders"})
	require.NoError(t, err)
	assert.Equal(t, "jms:queue:orders", got)

	got, err = BuildURI(schema, map[string]string{"destinationType": "topic", "destinationName": "news"})
	require.NoError(t, err)
	assert.Equal(t, "jms:topic:news", got)
}

func TestBuildURI_OptionalPathDropped(t *testing.T) {
	schema := &catalog.Schema{
		Component: catalog.ComponentInfo{Name: "file", Syntax: "file:host:port/directory"},
		Properties: []catalog.Property{
			{Name: "host", Kind: "path", Required: true},
			{Name: "port", Kind: "path"},
			{Name: "directory", Kind: "path"},
		},
	}
	got, err := BuildURI(schema, map[string]string{"host": "example.org", "directory": "inbox"})
	require.NoError(t, err)
	assert.Equal(t, "file:example.org/inbox", got)

	got, err = BuildURI(schema, map[string]string{"host": "example.org", "port": "21", "directory": "inbox"})
	require.NoError(t, err)
	assert.Equal(t, "file:example.org:21/inbox", got)
}

func TestBuildURI_NoSyntax(t *testing.T) {
	schema := &catalog.Schema{Component: catalog.ComponentInfo{Name: "direct", Scheme: "direct"}}
	got, err := BuildURI(schema, nil)
	require.NoError(t, err)
	assert.Equal(t, "direct:", got)
}
