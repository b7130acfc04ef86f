// Package compose renders the draft editor: recipient and subject fields
// above a body with inline formatting.
package compose

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	mailcompose "github.com/nhle/mailspace/internal/compose"
	"github.com/nhle/mailspace/internal/editor"
	"github.com/nhle/mailspace/internal/keys"
	"github.com/nhle/mailspace/internal/theme"
)

// SendMsg asks the parent to validate and send the draft.
type SendMsg struct{}

// SaveMsg asks the parent to save the draft.
type SaveMsg struct{}

// DiscardMsg asks the parent to drop the draft.
type DiscardMsg struct{}

const (
	fieldTo = iota
	fieldCC
	fieldBCC
	fieldSubject
	fieldBody
	fieldCount
)

// formBindings holds the confirmation answer on the heap so that huh's
// Value() pointer survives model copies.
type formBindings struct {
	discard bool
}

// Model is the compose view component. It edits the workspace's editor
// in place.
type Model struct {
	keys    *keys.KeyMap
	editor  *editor.Editor
	title   string
	inputs  []textinput.Model
	focus   int
	confirm *huh.Form
	fb      *formBindings
	width   int
	height  int
}

// New creates an empty compose view.
func New(k *keys.KeyMap, width, height int) Model {
	labels := []string{"To", "Cc", "Bcc", "Subject"}
	inputs := make([]textinput.Model, len(labels))
	for i, l := range labels {
		ti := textinput.New()
		ti.Prompt = theme.LabelStyle.Render(padLabel(l))
		ti.Width = max(width-12, 10)
		inputs[i] = ti
	}
	inputs[fieldTo].Placeholder = "alice@example.com, bob@example.com"
	return Model{keys: k, inputs: inputs, fb: &formBindings{}, width: width, height: height}
}

func padLabel(l string) string {
	return l + ":" + strings.Repeat(" ", max(9-len(l), 1))
}

// Start binds the view to e. A non-empty To list puts focus on the body.
func (m *Model) Start(e *editor.Editor, title string) tea.Cmd {
	m.editor = e
	m.title = title
	m.confirm = nil
	d := e.Draft()
	m.inputs[fieldTo].SetValue(mailcompose.JoinAddresses(d.To))
	m.inputs[fieldCC].SetValue(mailcompose.JoinAddresses(d.CC))
	m.inputs[fieldBCC].SetValue(mailcompose.JoinAddresses(d.BCC))
	m.inputs[fieldSubject].SetValue(d.Subject)
	if len(d.To) > 0 {
		return m.setFocus(fieldBody)
	}
	return m.setFocus(fieldTo)
}

// Focus returns the focused field index.
func (m Model) Focus() int {
	return m.focus
}

func (m *Model) setFocus(i int) tea.Cmd {
	m.focus = (i + fieldCount) % fieldCount
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == m.focus {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return cmd
}

// sync copies the header fields into the editor.
func (m *Model) sync() {
	if m.editor == nil {
		return
	}
	m.editor.SetTo(mailcompose.SplitAddresses(m.inputs[fieldTo].Value()))
	m.editor.SetCC(mailcompose.SplitAddresses(m.inputs[fieldCC].Value()))
	m.editor.SetBCC(mailcompose.SplitAddresses(m.inputs[fieldBCC].Value()))
	m.editor.SetSubject(m.inputs[fieldSubject].Value())
}

// Update handles messages for the compose view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.editor == nil {
		return m, nil
	}
	if m.confirm != nil {
		return m.updateConfirm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Back):
		m.fb.discard = false
		m.confirm = huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title("Discard this draft?").
				Affirmative("Discard").
				Negative("Keep editing").
				Value(&m.fb.discard),
		)).WithWidth(min(max(m.width-4, 30), 60))
		return m, m.confirm.Init()
	case key.Matches(keyMsg, m.keys.Send):
		m.sync()
		return m, func() tea.Msg { return SendMsg{} }
	case key.Matches(keyMsg, m.keys.Save):
		m.sync()
		return m, func() tea.Msg { return SaveMsg{} }
	case key.Matches(keyMsg, m.keys.NextField):
		return m, m.setFocus(m.focus + 1)
	case key.Matches(keyMsg, m.keys.PrevField):
		return m, m.setFocus(m.focus - 1)
	}

	if m.focus == fieldBody {
		m.editBody(keyMsg)
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(keyMsg)
	m.sync()
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.confirm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirm = f
	}
	switch m.confirm.State {
	case huh.StateCompleted:
		m.confirm = nil
		if m.fb.discard {
			return m, func() tea.Msg { return DiscardMsg{} }
		}
		return m, nil
	case huh.StateAborted:
		m.confirm = nil
		return m, nil
	}
	return m, cmd
}

// editBody applies one key press to the body buffer.
func (m *Model) editBody(msg tea.KeyMsg) {
	body := m.editor.Body()

	switch {
	case key.Matches(msg, m.keys.Bold):
		m.editor.ApplyInlineStyle(editor.Bold)
		return
	case key.Matches(msg, m.keys.Italic):
		m.editor.ApplyInlineStyle(editor.Italic)
		return
	case key.Matches(msg, m.keys.Underline):
		m.editor.ApplyInlineStyle(editor.Underline)
		return
	case key.Matches(msg, m.keys.AlignCenter):
		m.editor.AlignLine(editor.AlignCenter)
		return
	case key.Matches(msg, m.keys.AlignLeft):
		m.editor.AlignLine(editor.AlignLeft)
		return
	case key.Matches(msg, m.keys.Bullet):
		m.editor.InsertBullet()
		return
	}

	switch msg.Type {
	case tea.KeyRunes:
		body.Insert(string(msg.Runes))
	case tea.KeySpace:
		body.Insert(" ")
	case tea.KeyEnter:
		body.Insert("\n")
	case tea.KeyBackspace:
		body.DeleteBackward()
	case tea.KeyDelete:
		body.DeleteForward()
	case tea.KeyLeft:
		body.MoveLeft(false)
	case tea.KeyRight:
		body.MoveRight(false)
	case tea.KeyShiftLeft:
		body.MoveLeft(true)
	case tea.KeyShiftRight:
		body.MoveRight(true)
	case tea.KeyUp:
		body.MoveUp()
	case tea.KeyDown:
		body.MoveDown()
	case tea.KeyHome:
		body.Home()
	case tea.KeyEnd:
		body.End()
	}
}

// View renders the compose view.
func (m Model) View() string {
	if m.editor == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	rows := []string{titleStyle.Render(m.title)}
	for _, in := range m.inputs {
		rows = append(rows, in.View())
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	rows = append(rows, sepStyle.Render(strings.Repeat("─", max(min(m.width-4, 80), 1))))
	rows = append(rows, m.renderBody())

	if m.confirm != nil {
		rows = append(rows, "", m.confirm.View())
	} else if err := mailcompose.ValidateForSend(m.editor.Draft()); err != nil {
		rows = append(rows, "", theme.HelpStyle.Render("send disabled: "+err.Error()))
	}

	return lipgloss.NewStyle().Padding(0, 1).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderBody draws the buffer with the selection reversed and a bar cursor
// while the body has focus.
func (m Model) renderBody() string {
	body := m.editor.Body()
	text := []rune(body.String())
	start, end := body.Selection()

	style := lipgloss.NewStyle().Width(max(m.width-4, 10))
	if m.focus != fieldBody {
		return style.Render(string(text))
	}

	var b strings.Builder
	b.WriteString(string(text[:start]))
	if start == end {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorBlue).Render("▏"))
	} else {
		b.WriteString(lipgloss.NewStyle().Reverse(true).Render(string(text[start:end])))
	}
	b.WriteString(string(text[end:]))
	return style.Render(b.String())
}

// SetSize updates the compose view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	for i := range m.inputs {
		m.inputs[i].Width = max(width-12, 10)
	}
}
