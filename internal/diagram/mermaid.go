package diagram

import (
	"fmt"
	"strings"

	"github.com/olehluchkiv/epwizard/internal/options"
	"github.com/olehluchkiv/epwizard/internal/pages"
)

// DiagramOptions controls Mermaid diagram generation.
type DiagramOptions struct {
	MaxFieldsPerBox int  // default 8, 0 means unlimited
	IncludeInit     bool // include %%{init:}%% directive (for standalone .mmd files)
}

// DefaultDiagramOptions returns sensible defaults for diagram generation.
func DefaultDiagramOptions() DiagramOptions {
	return DiagramOptions{MaxFieldsPerBox: 8}
}

const initDirective = "%%{init: {'theme': 'base', 'themeVariables': {'primaryColor': '#ffffff', 'primaryBorderColor': '#cccccc', 'primaryTextColor': '#000000', 'lineColor': '#555555'}}%%\n"

// GenerateMermaid produces a Mermaid classDiagram with one box per page,
// chained in display order.
func GenerateMermaid(plan Plan, opts DiagramOptions) string {
	var b strings.Builder

	if opts.IncludeInit {
		b.WriteString(initDirective)
	}
	b.WriteString("classDiagram")
	if len(plan.Steps) == 0 {
		return b.String()
	}
	b.WriteString("\n")
	b.WriteString("    direction LR\n")
	b.WriteString("    classDef pageStyle fill:#2374ab,stroke:#1a5a8a,color:#fff,stroke-width:2px\n")
	b.WriteString("    classDef lastPageStyle fill:#4a9c6d,stroke:#357a50,color:#fff,stroke-width:2px,font-weight:bold")

	for _, step := range plan.Steps {
		b.WriteString("\n")
		writePageBlock(&b, step, opts)
	}

	if len(plan.Steps) > 1 {
		b.WriteString("\n")
	}
	for i := 1; i < len(plan.Steps); i++ {
		b.WriteString(fmt.Sprintf("\n    %s --> %s", NodeID(plan.Steps[i-1]), NodeID(plan.Steps[i])))
	}

	b.WriteString("\n")
	for _, step := range plan.Steps {
		style := "pageStyle"
		if step.IsLast {
			style = "lastPageStyle"
		}
		b.WriteString(fmt.Sprintf("\n    cssClass \"%s\" %s", NodeID(step), style))
	}

	return b.String()
}

// SanitizeLabel removes characters that break Mermaid class diagram labels.
// Mermaid treats {}, <>, and ~ as special.
func SanitizeLabel(s string) string {
	r := strings.NewReplacer("{", "", "}", "", "<", "", ">", "", "~", "")
	return r.Replace(s)
}

// NodeID returns the node identifier of a page.
func NodeID(step pages.Step) string {
	return fmt.Sprintf("page_%d", step.Index+1)
}

func writePageBlock(b *strings.Builder, step pages.Step, opts DiagramOptions) {
	b.WriteString(fmt.Sprintf("    class %s {\n", NodeID(step)))
	if step.GroupName != "" {
		b.WriteString(fmt.Sprintf("        <<%s>>\n", SanitizeLabel(step.GroupName)))
	}
	writeFieldLines(b, step.PageFields, opts)
	b.WriteString("    }")
}

// writeFieldLines writes field lines with optional truncation.
func writeFieldLines(b *strings.Builder, fields []options.FieldDescriptor, opts DiagramOptions) {
	limit := len(fields)
	truncated := false
	if opts.MaxFieldsPerBox > 0 && limit > opts.MaxFieldsPerBox {
		limit = opts.MaxFieldsPerBox
		truncated = true
	}

	for i := 0; i < limit; i++ {
		f := fields[i]
		line := fmt.Sprintf("        +%s : %s", SanitizeLabel(f.Key), f.Type)
		if f.Required {
			line += " required"
		}
		b.WriteString(line + "\n")
	}
	if truncated {
		b.WriteString(fmt.Sprintf("        ... %d more\n", len(fields)-limit))
	}
}
