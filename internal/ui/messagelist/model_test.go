package messagelist

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailspace/internal/keys"
	"github.com/nhle/mailspace/internal/model"
)

var anchor = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func newList(t *testing.T) Model {
	t.Helper()
	m := newWithClock(keys.DefaultKeyMap(), 60, 30, func() time.Time { return anchor })
	m.SetMessages("Inbox", []model.Message{
		{ID: "1", Sender: "Alice", Subject: "Q4 Planning Meeting", Body: "Can we meet Thursday?", Timestamp: anchor.Add(-2 * time.Hour)},
		{ID: "budget", Sender: "Finance", Subject: "Budget Review", Timestamp: anchor.Add(-3 * time.Hour), IsRead: true},
	}, 2, false)
	return m
}

func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestEnterOpensSelectedMessage(t *testing.T) {
	m := newList(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []tea.Msg{SelectedMessageMsg{MessageID: "1"}}, run(cmd))
}

func TestSearchEmitsQueryAsTyped(t *testing.T) {
	m := newList(t)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	require.True(t, m.Searching())

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})
	assert.Contains(t, run(cmd), tea.Msg(QueryChangedMsg{Query: "b"}))

	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.Searching())
	assert.Equal(t, []tea.Msg{QueryChangedMsg{Query: ""}}, run(cmd))
}

func TestSetMessagesKeepsCursorOnSameMessage(t *testing.T) {
	m := newList(t)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})

	m.SetMessages("Inbox", []model.Message{
		{ID: "new", Subject: "Fresh"},
		{ID: "1", Subject: "Q4 Planning Meeting"},
		{ID: "budget", Subject: "Budget Review"},
	}, 3, false)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []tea.Msg{SelectedMessageMsg{MessageID: "budget"}}, run(cmd))
}

func TestEmptyStates(t *testing.T) {
	m := newList(t)
	m.SetMessages("Inbox", nil, 2, false)
	assert.Contains(t, m.View(), "No matching messages")

	m.SetMessages("Trash", nil, 0, true)
	assert.Contains(t, m.View(), "Loading messages")

	m.SetMessages("Trash", nil, 0, false)
	assert.Contains(t, m.View(), "This folder is empty")
}

func TestRelativeTime(t *testing.T) {
	assert.Equal(t, "just now", relativeTime(anchor.Add(-10*time.Second), anchor))
	assert.Equal(t, "5m ago", relativeTime(anchor.Add(-5*time.Minute), anchor))
	assert.Equal(t, "2h ago", relativeTime(anchor.Add(-2*time.Hour), anchor))
	assert.Equal(t, "2d ago", relativeTime(anchor.Add(-48*time.Hour), anchor))
	assert.Equal(t, "Feb 01", relativeTime(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), anchor))
	assert.Empty(t, relativeTime(time.Time{}, anchor))
}
