// Package login renders the handle prompt shown before a session exists.
package login

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailspace/internal/theme"
)

// SubmittedMsg is dispatched when the user submits a handle.
type SubmittedMsg struct {
	Handle string
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	handle string
}

// Model is the Bubble Tea model for the login form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	domain string
	width  int
	height int
}

// New creates a login form. domain is shown as the suffix of the primary
// address the handle will own.
func New(domain string, width, height int) Model {
	return Model{
		fb:     &formBindings{},
		domain: domain,
		width:  width,
		height: height,
	}
}

// Start resets the form and returns its init command.
func (m *Model) Start() tea.Cmd {
	m.fb.handle = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the login form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		handle := strings.TrimSpace(m.fb.handle)
		m.form = nil
		return m, func() tea.Msg { return SubmittedMsg{Handle: handle} }
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// Active reports whether the form is waiting for input.
func (m Model) Active() bool {
	return m.form != nil
}

// View renders the login form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("Sign in to mailspace") + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Handle").
				Description(fmt.Sprintf("Your primary address will be <handle>@%s", m.domain)).
				Placeholder("satoshi").
				Value(&m.fb.handle).
				Validate(validateHandle),
		),
	).WithWidth(m.formWidth())
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 60)
}

func validateHandle(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("handle is required")
	}
	if strings.ContainsAny(s, "@ \t") {
		return fmt.Errorf("handle cannot contain spaces or @")
	}
	return nil
}
