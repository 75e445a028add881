package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olehluchkiv/epwizard/internal/wizard"
)

// Result is the outcome of an interactive run.
type Result struct {
	Session   *wizard.Session
	Committed bool
	Cancelled bool
}

// Run starts a wizard session for project and drives it in the terminal
// until it is committed or cancelled.
func Run(ctx context.Context, ctrl *wizard.Controller, project string, opts ...tea.ProgramOption) (Result, error) {
	session, effects, err := ctrl.Start(ctx, project)
	if err != nil {
		return Result{}, err
	}
	m := NewModel(ctx, ctrl, session, effects)

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return Result{}, fmt.Errorf("running wizard: %w", err)
	}

	fm := final.(Model)
	return Result{
		Session:   fm.Session(),
		Committed: fm.Committed(),
		Cancelled: fm.Cancelled(),
	}, nil
}
