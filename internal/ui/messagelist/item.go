package messagelist

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailspace/internal/model"
	"github.com/nhle/mailspace/internal/search"
	"github.com/nhle/mailspace/internal/theme"
)

// MessageItem wraps a model.Message so it can be used in a bubbles/list.
type MessageItem struct {
	Message model.Message
}

// FilterValue returns the string used for fuzzy filtering.
func (i MessageItem) FilterValue() string { return i.Message.Subject }

// Title returns the message subject for the list.
func (i MessageItem) Title() string { return i.Message.Subject }

// Description returns the body preview.
func (i MessageItem) Description() string { return search.Preview(i.Message.Body) }

// ItemDelegate implements list.ItemDelegate for rendering message rows.
type ItemDelegate struct {
	now func() time.Time
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 1 }

// Update handles per-item messages (unused for now).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a message as a sender line and a preview line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	mi, ok := item.(MessageItem)
	if !ok {
		return
	}
	msg := mi.Message

	marker := " "
	if !msg.IsRead {
		marker = theme.UnreadStyle.Foreground(theme.ColorBlue).Render("●")
	}
	star := " "
	if msg.IsStarred {
		star = theme.StarStyle.Render("★")
	}
	clip := ""
	if msg.HasAttachment {
		clip = " ⎘"
	}

	subjectStyle := theme.DimmedStyle
	if !msg.IsRead {
		subjectStyle = theme.UnreadStyle
	}

	width := max(m.Width()-4, 10)
	header := fmt.Sprintf("%s%s %s  %s%s", marker, star, msg.Sender,
		theme.DimmedStyle.Render(relativeTime(msg.Timestamp, d.now())), clip)
	preview := subjectStyle.Render(msg.Subject) + " " + theme.DimmedStyle.Render(search.Preview(msg.Body))

	line := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().MaxWidth(width).Render(header),
		lipgloss.NewStyle().MaxWidth(width).Render(preview),
	)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 02")
	}
}
