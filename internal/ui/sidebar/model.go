// Package sidebar renders the address switcher and the folder list of the
// selected address.
package sidebar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailspace/internal/keys"
	"github.com/nhle/mailspace/internal/model"
	"github.com/nhle/mailspace/internal/theme"
)

// AddressChosenMsg asks the parent to select an address.
type AddressChosenMsg struct {
	ID string
}

// MailboxChosenMsg asks the parent to select a mailbox.
type MailboxChosenMsg struct {
	ID string
}

// row is one selectable line; addresses come first, then mailboxes.
type row struct {
	address *model.EmailAddress
	mailbox *model.Mailbox
}

// Model is the sidebar view component.
type Model struct {
	keys      *keys.KeyMap
	addresses []model.EmailAddress
	mailboxes []model.Mailbox
	addressID string
	mailboxID string
	loading   bool
	cursor    int
	width     int
	height    int
}

// New creates a new sidebar model.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{keys: k, width: width, height: height}
}

// SetData replaces the rendered lists and selection.
func (m *Model) SetData(addresses []model.EmailAddress, mailboxes []model.Mailbox, addressID, mailboxID string, loading bool) {
	m.addresses = addresses
	m.mailboxes = mailboxes
	m.addressID = addressID
	m.mailboxID = mailboxID
	m.loading = loading
	if n := len(m.rows()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

// Cursor returns the highlighted row index.
func (m Model) Cursor() int {
	return m.cursor
}

func (m Model) rows() []row {
	rows := make([]row, 0, len(m.addresses)+len(m.mailboxes))
	for i := range m.addresses {
		rows = append(rows, row{address: &m.addresses[i]})
	}
	for i := range m.mailboxes {
		rows = append(rows, row{mailbox: &m.mailboxes[i]})
	}
	return rows
}

// Update handles key input for the sidebar.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	rows := m.rows()

	switch {
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Select):
		if m.cursor >= len(rows) {
			return m, nil
		}
		r := rows[m.cursor]
		if r.address != nil {
			id := r.address.ID
			return m, func() tea.Msg { return AddressChosenMsg{ID: id} }
		}
		id := r.mailbox.ID
		return m, func() tea.Msg { return MailboxChosenMsg{ID: id} }
	}
	return m, nil
}

// View renders the sidebar.
func (m Model) View() string {
	var b strings.Builder
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorGray)

	b.WriteString(sectionStyle.Render("ADDRESSES"))
	b.WriteString("\n")
	idx := 0
	for _, a := range m.addresses {
		label := a.Address
		if a.IsPrimary {
			label += " ●"
		}
		if !a.IsVerified {
			label += theme.DimmedStyle.Render(" (unverified)")
		}
		b.WriteString(m.renderRow(idx, a.ID == m.addressID, label))
		idx++
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("FOLDERS"))
	b.WriteString("\n")
	if m.loading && len(m.mailboxes) == 0 {
		b.WriteString(theme.DimmedStyle.Render("  loading..."))
		b.WriteString("\n")
	}
	for _, mb := range m.mailboxes {
		label := theme.MailboxStyle(mb.Kind).Render(theme.MailboxIcon(mb.Kind)) + " " + mb.Name
		if mb.UnreadCount > 0 {
			label += " " + theme.UnreadStyle.Render(fmt.Sprintf("(%d)", mb.UnreadCount))
		}
		b.WriteString(m.renderRow(idx, mb.ID == m.mailboxID, label))
		idx++
	}

	return lipgloss.NewStyle().Width(m.width).MaxHeight(m.height).Render(b.String())
}

func (m Model) renderRow(idx int, selected bool, label string) string {
	marker := "  "
	if selected {
		marker = "› "
	}
	line := marker + label
	if idx == m.cursor {
		return theme.SelectedItemStyle.Render(line) + "\n"
	}
	return theme.ListItemStyle.Render(line) + "\n"
}

// SetSize updates the sidebar dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
