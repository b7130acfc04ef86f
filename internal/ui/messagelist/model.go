// Package messagelist renders the messages of the selected mailbox with
// an incremental search bar.
package messagelist

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailspace/internal/keys"
	"github.com/nhle/mailspace/internal/model"
	"github.com/nhle/mailspace/internal/theme"
)

// SelectedMessageMsg is sent when a user opens a message.
type SelectedMessageMsg struct {
	MessageID string
}

// QueryChangedMsg is sent on every edit of the search bar.
type QueryChangedMsg struct {
	Query string
}

// Model is the message list view component.
type Model struct {
	list        list.Model
	keys        *keys.KeyMap
	searchMode  bool
	searchInput textinput.Model
	mailboxSize int
	loading     bool
	width       int
	height      int
}

// New creates a new message list model.
func New(k *keys.KeyMap, width, height int) Model {
	return newWithClock(k, width, height, time.Now)
}

func newWithClock(k *keys.KeyMap, width, height int, now func() time.Time) Model {
	delegate := ItemDelegate{now: now}
	l := list.New([]list.Item{}, delegate, width, height-2)
	l.Title = "Messages"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search subject, sender, body..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		keys:        k,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// SetMessages replaces the rendered list. title is the mailbox name;
// size is the unfiltered mailbox length.
func (m *Model) SetMessages(title string, messages []model.Message, size int, loading bool) tea.Cmd {
	if title != "" {
		m.list.Title = title
	}
	m.mailboxSize = size
	m.loading = loading

	selected := ""
	if it, ok := m.list.SelectedItem().(MessageItem); ok {
		selected = it.Message.ID
	}

	items := make([]list.Item, len(messages))
	for i, msg := range messages {
		items[i] = MessageItem{Message: msg}
	}
	cmd := m.list.SetItems(items)
	for i, msg := range messages {
		if msg.ID == selected {
			m.list.Select(i)
			break
		}
	}
	return cmd
}

// Len returns the number of rendered messages.
func (m Model) Len() int {
	return len(m.list.Items())
}

// Searching reports whether the search bar has focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// Update handles messages for the message list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if m.searchMode {
			return m.handleSearchKeys(keyMsg)
		}
		return m.handleNormalKeys(keyMsg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode. The query
// is applied as it is typed; enter keeps it, esc clears it.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.searchInput.Blur()
		return m, nil

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.searchInput.Blur()
		return m, queryChanged("")
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if after := m.searchInput.Value(); after != before {
		return m, tea.Batch(cmd, queryChanged(after))
	}
	return m, cmd
}

func queryChanged(q string) tea.Cmd {
	return func() tea.Msg { return QueryChangedMsg{Query: q} }
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(MessageItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedMessageMsg{MessageID: item.Message.ID}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		return m, m.searchInput.Focus()
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the message list view.
func (m Model) View() string {
	body := m.list.View()
	if len(m.list.Items()) == 0 {
		body = m.renderEmptyState()
	}

	if m.searchMode || m.searchInput.Value() != "" {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, body)
	}
	return body
}

// renderEmptyState shows guidance text when no messages are shown.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	switch {
	case m.loading:
		return style.Render("Loading messages...")
	case m.mailboxSize > 0:
		return style.Render("No matching messages.\nPress esc in the search bar to clear it.")
	default:
		return style.Render("This folder is empty.")
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
