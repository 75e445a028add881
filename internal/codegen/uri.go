package codegen

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/olehluchkiv/epwizard/internal/catalog"
)

// ErrMissingPath is returned when a required path parameter has no value.
var ErrMissingPath = errors.New("missing path parameter")

// BuildURI assembles "scheme:path?query" for a component. Path parameters
// are substituted into the component syntax; a missing optional one is
// dropped together with the delimiter before it. Query parameters are
// emitted in declaration order and only when they differ from the default.
func BuildURI(schema *catalog.Schema, values map[string]string) (string, error) {
	info := schema.Component
	syntax := info.Syntax
	if syntax == "" {
		syntax = info.Scheme
	}
	scheme, rest, _ := strings.Cut(syntax, ":")
	if scheme == "" {
		scheme = info.Name
	}

	props := make(map[string]catalog.Property, len(schema.Properties))
	for _, p := range schema.Properties {
		props[p.Name] = p
	}

	var b strings.Builder
	b.WriteString(scheme)
	b.WriteByte(':')

	tokens, delims := splitSyntax(rest)
	wrote := false
	for i, tok := range tokens {
		val := tok
		if p, ok := props[tok]; ok {
			val = valueOf(p, values)
			if val == "" {
				if p.Required {
					return "", fmt.Errorf("%w: %s", ErrMissingPath, tok)
				}
				continue
			}
		}
		if wrote {
			b.WriteByte(delims[i])
		}
		b.WriteString(val)
		wrote = true
	}

	var query []string
	for _, p := range schema.Properties {
		if p.Kind == "path" {
			continue
		}
		v, ok := values[p.Name]
		if !ok || v == "" || (p.HasDefault && v == p.DefaultValue) {
			continue
		}
		query = append(query, url.QueryEscape(p.Name)+"="+url.QueryEscape(v))
	}
	if len(query) > 0 {
		b.WriteByte('?')
		b.WriteString(strings.Join(query, "&"))
	}
	return b.String(), nil
}

func valueOf(p catalog.Property, values map[string]string) string {
	if v := values[p.Name]; v != "" {
		return v
	}
	if p.HasDefault {
		return p.DefaultValue
	}
	return ""
}

// splitSyntax splits "a:b/c" into tokens and the delimiter preceding each.
func splitSyntax(s string) (tokens []string, delims []byte) {
	if s == "" {
		return nil, nil
	}
	start := 0
	prev := byte(':')
	for i := 0; i < len(s); i++ {
		if s[i] == ':' || s[i] == '/' {
			tokens = append(tokens, s[start:i])
			delims = append(delims, prev)
			prev = s[i]
			start = i + 1
		}
	}
	tokens = append(tokens, s[start:])
	delims = append(delims, prev)
	return tokens, delims
}
