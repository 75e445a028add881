package diagram

import (
	"fmt"
	"strings"

	"github.com/olehluchkiv/epwizard/internal/pages"
)

// Slide represents one navigable page in the slide deck.
type Slide struct {
	Title   string
	Mermaid string
}

// SlideOptions controls slide deck generation.
type SlideOptions struct {
	Threshold int // page count above which slides activate; 0 = always single
}

// DefaultSlideOptions returns sensible defaults.
func DefaultSlideOptions() SlideOptions {
	return SlideOptions{Threshold: 4}
}

// BuildSlides splits a plan into an overview slide followed by one slide
// per page. Plans with fewer pages than the threshold yield a single slide
// with the full diagram.
func BuildSlides(plan Plan, diagOpts DiagramOptions, opts SlideOptions) []Slide {
	if opts.Threshold <= 0 || len(plan.Steps) < opts.Threshold {
		return []Slide{{
			Title:   "Full Diagram",
			Mermaid: GenerateMermaid(plan, diagOpts),
		}}
	}

	slides := []Slide{{
		Title:   "Overview",
		Mermaid: generateOverviewMermaid(plan, diagOpts),
	}}

	for _, step := range plan.Steps {
		sub := plan
		sub.Steps = []pages.Step{step}
		// Page slides show every field of the page.
		detail := diagOpts
		detail.MaxFieldsPerBox = 0
		slides = append(slides, Slide{
			Title:   fmt.Sprintf("Page %d/%d: %s", step.Index+1, step.TotalPages, step.GroupName),
			Mermaid: GenerateMermaid(sub, detail),
		})
	}
	return slides
}

// generateOverviewMermaid produces the page chain with empty boxes that
// only carry the group name and the field count.
func generateOverviewMermaid(plan Plan, opts DiagramOptions) string {
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
	b.WriteString("    classDef pageStyle fill:#2374ab,stroke:#1a5a8a,color:#fff,stroke-width:2px")

	for _, step := range plan.Steps {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("    class %s {\n", NodeID(step)))
		b.WriteString(fmt.Sprintf("        <<%s>>\n", SanitizeLabel(step.GroupName)))
		b.WriteString(fmt.Sprintf("        %d fields\n", len(step.PageFields)))
		b.WriteString("    }")
	}
	b.WriteString("\n")
	for i := 1; i < len(plan.Steps); i++ {
		b.WriteString(fmt.Sprintf("\n    %s --> %s", NodeID(plan.Steps[i-1]), NodeID(plan.Steps[i])))
	}
	b.WriteString("\n")
	for _, step := range plan.Steps {
		b.WriteString(fmt.Sprintf("\n    cssClass \"%s\" pageStyle", NodeID(step)))
	}
	return b.String()
}
