package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olehluchkiv/epwizard/internal/wizard"
)

type styles struct {
	title    lipgloss.Style
	dim      lipgloss.Style
	prompt   lipgloss.Style
	selected lipgloss.Style
	cursor   lipgloss.Style
	required lipgloss.Style
	errText  lipgloss.Style
	help     lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2374ab")),
		dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("#8a8a8a")),
		prompt:   lipgloss.NewStyle().Bold(true),
		selected: lipgloss.NewStyle().Foreground(lipgloss.Color("#4a9c6d")),
		cursor:   lipgloss.NewStyle().Foreground(lipgloss.Color("#2374ab")),
		required: lipgloss.NewStyle().Foreground(lipgloss.Color("#d7875f")),
		errText:  lipgloss.NewStyle().Foreground(lipgloss.Color("#d75f5f")),
		help:     lipgloss.NewStyle().Foreground(lipgloss.Color("#8a8a8a")),
	}
}

func (m Model) View() string {
	if m.phase == phaseDone {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.title.Render("Add endpoint"))
	b.WriteString("\n")
	b.WriteString(m.styles.dim.Render("  Project: " + m.session.Project))
	b.WriteString("\n\n")

	switch m.phase {
	case phaseForm:
		m.viewForm(&b)
	case phasePages:
		m.viewPage(&b)
	}

	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.errText.Render("  " + m.err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.phase == phaseForm:
		b.WriteString(m.styles.help.Render("  ↑/↓ move • ←/→ change • enter continue • esc cancel"))
	case m.session.State == wizard.Error:
		b.WriteString(m.styles.help.Render("  enter retry • ctrl+c quit"))
	default:
		b.WriteString(m.styles.help.Render("  ↑/↓ move • enter next • esc back • ctrl+c quit"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewForm(b *strings.Builder) {
	for i, r := range m.rows {
		marker := "    "
		if i == m.cursor {
			marker = m.styles.cursor.Render("  > ")
		}
		b.WriteString(marker)
		b.WriteString(m.styles.prompt.Render(fmt.Sprintf("%-14s", r.label)))

		if r.selector == wizard.SelectorInstanceName {
			b.WriteString(m.instanceInput.View())
		} else {
			value := r.value
			if value == "" {
				value = "(none)"
			}
			if len(r.choices) > 1 {
				value = "‹ " + value + " ›"
			}
			b.WriteString(m.styles.selected.Render(value))
		}
		b.WriteString("\n")

		if r.note != "" {
			b.WriteString("                  ")
			b.WriteString(m.styles.dim.Render(r.note))
			b.WriteString("\n")
		}
	}
}

func (m Model) viewPage(b *strings.Builder) {
	step, ok := m.session.CurrentStep()
	if !ok {
		if m.session.State == wizard.Error {
			b.WriteString(m.styles.prompt.Render("  Commit failed"))
			b.WriteString("\n")
		}
		return
	}

	title := fmt.Sprintf("  %s %s", m.session.ComponentName, m.session.InstanceName)
	b.WriteString(m.styles.title.Render(title))
	b.WriteString("\n")
	b.WriteString(m.styles.dim.Render(fmt.Sprintf("  Page %d of %d: %s", step.Index+1, step.TotalPages, step.GroupName)))
	b.WriteString("\n\n")

	if len(step.PageFields) == 0 {
		b.WriteString(m.styles.dim.Render("  This component has no options."))
		b.WriteString("\n")
	}
	for i, f := range step.PageFields {
		marker := "    "
		if i == m.fieldCursor {
			marker = m.styles.cursor.Render("  > ")
		}
		b.WriteString(marker)
		label := f.Label
		if label == "" {
			label = f.Key
		}
		b.WriteString(m.styles.prompt.Render(label))
		if f.Required {
			b.WriteString(m.styles.required.Render(" *"))
		}
		b.WriteString("\n      ")
		if i < len(m.fieldInputs) {
			b.WriteString(m.fieldInputs[i].View())
		}
		b.WriteString("\n")
		if i == m.fieldCursor && f.Description != "" {
			b.WriteString("      ")
			b.WriteString(m.styles.dim.Render(f.Description))
			b.WriteString("\n")
		}
	}
}
