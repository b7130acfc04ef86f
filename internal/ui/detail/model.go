// Package detail renders the selected message in a scrollable reading
// pane.
package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailspace/internal/compose"
	"github.com/nhle/mailspace/internal/keys"
	"github.com/nhle/mailspace/internal/model"
	"github.com/nhle/mailspace/internal/theme"
)

// BackMsg signals the parent to return to the message list.
type BackMsg struct{}

// ComposeMsg asks the parent to start a reply, reply-all or forward of
// the displayed message.
type ComposeMsg struct {
	Kind model.ActionKind
}

// Model is the message detail view component.
type Model struct {
	message  *model.Message
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new detail view model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// SetMessage updates the message being displayed. The viewport scrolls
// back to the top only when a different message is shown.
func (m *Model) SetMessage(msg *model.Message) {
	changed := (m.message == nil) != (msg == nil) ||
		(m.message != nil && msg != nil && m.message.ID != msg.ID)
	m.message = msg
	m.viewport.SetContent(m.renderContent())
	if changed {
		m.viewport.GotoTop()
	}
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }
		case key.Matches(keyMsg, m.keys.Reply):
			return m, m.compose(model.ActionReply)
		case key.Matches(keyMsg, m.keys.ReplyAll):
			return m, m.compose(model.ActionReplyAll)
		case key.Matches(keyMsg, m.keys.Forward):
			return m, m.compose(model.ActionForward)
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) compose(kind model.ActionKind) tea.Cmd {
	if m.message == nil {
		return nil
	}
	return func() tea.Msg { return ComposeMsg{Kind: kind} }
}

// View renders the detail view.
func (m Model) View() string {
	if m.message == nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No message selected")
	}
	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.message == nil {
		return ""
	}
	msg := m.message
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	title := msg.Subject
	if msg.IsStarred {
		title = theme.StarStyle.Render("★ ") + title
	}
	sections = append(sections, titleStyle.Render(title), "")

	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	field := func(label, value string) {
		if value == "" {
			return
		}
		sections = append(sections, fmt.Sprintf("%s %s",
			theme.LabelStyle.Render(fmt.Sprintf("%-8s", label+":")),
			valStyle.Render(value)))
	}
	field("From", fmt.Sprintf("%s <%s>", msg.Sender, msg.SenderAddress))
	field("To", compose.JoinAddresses(msg.Recipients))
	field("Cc", compose.JoinAddresses(msg.CC))
	if !msg.Timestamp.IsZero() {
		field("Date", msg.Timestamp.Format(compose.DateLayout))
	}
	if msg.HasAttachment {
		field("Files", "attachment included")
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", max(min(m.width-4, 80), 1)))
	sections = append(sections, "", separator, "")

	body := msg.Body
	if body == "" {
		body = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No content")
	}
	sections = append(sections, lipgloss.NewStyle().Width(max(m.width-2, 10)).Render(body))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.viewport.SetContent(m.renderContent())
}
