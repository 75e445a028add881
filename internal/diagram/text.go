package diagram

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// GenerateText renders the plan as one table per page.
func GenerateText(plan Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s): %d fields on %d pages, at most %d per page\n",
		plan.Component, plan.EndpointType, plan.FieldCount(), len(plan.Steps), plan.MaxFieldsPerPage)

	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	for _, step := range plan.Steps {
		title := fmt.Sprintf("Page %d/%d", step.Index+1, step.TotalPages)
		if step.GroupName != "" {
			title += " " + step.GroupName
		}
		fmt.Fprintf(&b, "\n%s\n", title)
		if len(step.PageFields) == 0 {
			b.WriteString("  (no options)\n")
			continue
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("KEY", "TYPE", "REQUIRED", "DEFAULT").
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			})
		for _, f := range step.PageFields {
			required := ""
			if f.Required {
				required = "yes"
			}
			def, _ := f.DefaultValue()
			t.Row(f.Key, f.Type, required, def)
		}
		b.WriteString(t.Render())
		b.WriteString("\n")
	}
	return b.String()
}
