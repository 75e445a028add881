package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/olehluchkiv/epwizard/internal/wizard"
)

type phase int

const (
	phaseForm phase = iota
	phasePages
	phaseDone
)

// selectorRow is one line of the selector form. Choice rows cycle through
// choices; the instance name row is free text.
type selectorRow struct {
	selector wizard.Selector
	label    string
	choices  []string
	value    string
	note     string
}

func (r *selectorRow) index() int {
	for i, c := range r.choices {
		if c == r.value {
			return i
		}
	}
	return -1
}

// Model is the Bubble Tea model of the endpoint wizard. It renders the
// controller's session and turns key presses into controller calls.
type Model struct {
	ctx     context.Context
	ctrl    *wizard.Controller
	session *wizard.Session

	phase  phase
	rows   []*selectorRow
	cursor int

	instanceInput textinput.Model
	fieldInputs   []textinput.Model
	fieldKeys     []string
	fieldCursor   int

	err       string
	cancelled bool

	styles styles
}

// NewModel creates a model for a session returned by ctrl.Start, applying
// the effects Start produced.
func NewModel(ctx context.Context, ctrl *wizard.Controller, session *wizard.Session, effects []wizard.Effect) Model {
	ii := textinput.New()
	ii.Placeholder = "route name"
	ii.CharLimit = 64
	ii.Width = 40

	m := Model{
		ctx:     ctx,
		ctrl:    ctrl,
		session: session,
		rows: []*selectorRow{
			{selector: wizard.SelectorFilter, label: "Filter", value: session.Filter},
			{selector: wizard.SelectorComponent, label: "Component"},
			{selector: wizard.SelectorEndpointType, label: "Endpoint type", value: session.EndpointType},
			{selector: wizard.SelectorInstanceName, label: "Name"},
			{selector: wizard.SelectorTarget, label: "Add to"},
		},
		instanceInput: ii,
		styles:        defaultStyles(),
	}
	m.applyEffects(effects)
	return m
}

// Session returns the session the model drives.
func (m Model) Session() *wizard.Session { return m.session }

// Committed reports whether the wizard finished with a commit.
func (m Model) Committed() bool { return m.session.State == wizard.Committed }

// Cancelled reports whether the user quit before committing.
func (m Model) Cancelled() bool { return m.cancelled }

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) row(sel wizard.Selector) *selectorRow {
	for _, r := range m.rows {
		if r.selector == sel {
			return r
		}
	}
	return nil
}

// applyEffects updates the form widgets from controller effects.
func (m *Model) applyEffects(effects []wizard.Effect) {
	for _, e := range effects {
		r := m.row(e.Target)
		if r == nil {
			continue
		}
		switch e.Kind {
		case wizard.SetValueChoices:
			r.choices = e.Choices
			if r.value != "" && r.index() < 0 {
				r.value = ""
			}
		case wizard.SetValue:
			r.value = e.Value
		case wizard.SetDefaultValue:
			if r.value == "" || r.index() < 0 {
				r.value = e.Value
			}
		case wizard.SetNote:
			r.note = e.Value
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInputs(msg)
	}

	if key.Type == tea.KeyCtrlC {
		m.cancelled = true
		m.phase = phaseDone
		return m, tea.Quit
	}
	m.err = ""

	switch m.phase {
	case phaseForm:
		return m.updateForm(key)
	case phasePages:
		return m.updatePages(key)
	}
	return m, nil
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.phase {
	case phaseForm:
		m.instanceInput, cmd = m.instanceInput.Update(msg)
	case phasePages:
		if m.fieldCursor < len(m.fieldInputs) {
			m.fieldInputs[m.fieldCursor], cmd = m.fieldInputs[m.fieldCursor].Update(msg)
		}
	}
	return m, cmd
}

func (m Model) updateForm(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	row := m.rows[m.cursor]

	switch key.Type {
	case tea.KeyEsc:
		m.cancelled = true
		m.phase = phaseDone
		return m, tea.Quit
	case tea.KeyUp, tea.KeyShiftTab:
		m.moveCursor(-1)
		return m, nil
	case tea.KeyDown, tea.KeyTab:
		m.moveCursor(1)
		return m, nil
	case tea.KeyLeft, tea.KeyRight:
		if row.selector != wizard.SelectorInstanceName {
			delta := 1
			if key.Type == tea.KeyLeft {
				delta = -1
			}
			m.cycle(row, delta)
			return m, nil
		}
	case tea.KeyEnter:
		return m.next()
	}

	if row.selector != wizard.SelectorInstanceName {
		return m, nil
	}
	before := m.instanceInput.Value()
	var cmd tea.Cmd
	m.instanceInput, cmd = m.instanceInput.Update(key)
	if v := m.instanceInput.Value(); v != before {
		m.handle(wizard.SelectorInstanceName, v)
	}
	return m, cmd
}

func (m *Model) moveCursor(delta int) {
	m.cursor = (m.cursor + delta + len(m.rows)) % len(m.rows)
	if m.rows[m.cursor].selector == wizard.SelectorInstanceName {
		m.instanceInput.Focus()
	} else {
		m.instanceInput.Blur()
	}
}

// cycle selects the next or previous choice of row and reports the change
// to the controller.
func (m *Model) cycle(row *selectorRow, delta int) {
	if len(row.choices) == 0 {
		return
	}
	i := row.index()
	if i < 0 {
		i = 0
	} else {
		i = (i + delta + len(row.choices)) % len(row.choices)
	}
	row.value = row.choices[i]
	m.handle(row.selector, row.value)
}

func (m *Model) handle(sel wizard.Selector, value string) {
	effects := m.ctrl.Handle(m.ctx, m.session, wizard.Event{Selector: sel, Value: value})
	if r := m.row(sel); r != nil && sel == wizard.SelectorInstanceName {
		r.value = value
	}
	m.applyEffects(effects)
	if m.session.State == wizard.Error && m.session.Err != nil {
		m.err = m.session.Err.Error()
	}
}

func (m Model) next() (tea.Model, tea.Cmd) {
	if err := m.ctrl.Next(m.ctx, m.session); err != nil {
		m.err = describe(err)
		return m, nil
	}
	m.enterPage()
	return m, textinput.Blink
}

// enterPage builds the inputs of the session's current page.
func (m *Model) enterPage() {
	step, ok := m.session.CurrentStep()
	if !ok {
		return
	}
	m.phase = phasePages
	m.instanceInput.Blur()
	m.fieldInputs = make([]textinput.Model, len(step.PageFields))
	m.fieldKeys = make([]string, len(step.PageFields))
	m.fieldCursor = 0
	for i, f := range step.PageFields {
		ti := textinput.New()
		ti.CharLimit = 256
		ti.Width = 40
		if def, ok := f.DefaultValue(); ok {
			ti.Placeholder = def
		}
		if f.Secret {
			ti.EchoMode = textinput.EchoPassword
		}
		ti.SetValue(m.session.Values[f.Key])
		m.fieldInputs[i] = ti
		m.fieldKeys[i] = f.Key
	}
	if len(m.fieldInputs) > 0 {
		m.fieldInputs[0].Focus()
	}
}

// storePage copies the page inputs into the session.
func (m *Model) storePage() error {
	for i, key := range m.fieldKeys {
		if err := m.ctrl.SetValue(m.session, key, strings.TrimSpace(m.fieldInputs[i].Value())); err != nil {
			return err
		}
	}
	return nil
}

func (m Model) updatePages(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyUp, tea.KeyShiftTab:
		m.focusField(-1)
		return m, nil
	case tea.KeyDown, tea.KeyTab:
		m.focusField(1)
		return m, nil
	case tea.KeyEnter:
		return m.advance()
	case tea.KeyEsc:
		return m.back()
	}

	var cmd tea.Cmd
	if m.fieldCursor < len(m.fieldInputs) {
		m.fieldInputs[m.fieldCursor], cmd = m.fieldInputs[m.fieldCursor].Update(key)
	}
	return m, cmd
}

func (m *Model) focusField(delta int) {
	if len(m.fieldInputs) == 0 {
		return
	}
	m.fieldInputs[m.fieldCursor].Blur()
	m.fieldCursor = (m.fieldCursor + delta + len(m.fieldInputs)) % len(m.fieldInputs)
	m.fieldInputs[m.fieldCursor].Focus()
}

func (m Model) advance() (tea.Model, tea.Cmd) {
	if m.session.State == wizard.Error {
		// Values are kept after a failed commit; enter retries it.
		if err := m.ctrl.Commit(m.ctx, m.session); err != nil {
			m.err = describe(err)
			return m, nil
		}
		m.phase = phaseDone
		return m, tea.Quit
	}

	if err := m.storePage(); err != nil {
		m.err = describe(err)
		return m, nil
	}
	page := m.session.Page
	if err := m.ctrl.Advance(m.ctx, m.session); err != nil {
		m.err = describe(err)
		return m, nil
	}
	if m.session.State == wizard.Committed {
		m.phase = phaseDone
		return m, tea.Quit
	}
	if m.session.Page != page {
		m.enterPage()
	}
	return m, nil
}

func (m Model) back() (tea.Model, tea.Cmd) {
	if m.session.State == wizard.Error {
		return m, nil
	}
	if err := m.storePage(); err != nil {
		m.err = describe(err)
		return m, nil
	}
	if err := m.ctrl.Back(m.session); err != nil {
		m.err = describe(err)
		return m, nil
	}
	if m.session.State == wizard.TypeDerived {
		m.phase = phaseForm
		m.fieldInputs, m.fieldKeys = nil, nil
		return m, nil
	}
	m.enterPage()
	return m, nil
}

// describe turns controller errors into a one-line message.
func describe(err error) string {
	if missing := wizard.MissingFields(err); len(missing) > 0 {
		return "required: " + strings.Join(missing, ", ")
	}
	if errors.Is(err, wizard.ErrCatalogMiss) {
		return fmt.Sprintf("component unavailable: %v", err)
	}
	return err.Error()
}
