package compose

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailspace/internal/editor"
	"github.com/nhle/mailspace/internal/keys"
	"github.com/nhle/mailspace/internal/model"
)

func typeText(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestReplyStartsInBody(t *testing.T) {
	e := editor.New(model.Draft{To: []string{"alice@example.com"}, Subject: "Re: Q4"})
	m := New(keys.DefaultKeyMap(), 80, 30)
	m.Start(e, "Reply")
	require.Equal(t, fieldBody, m.Focus())

	m = typeText(m, "Thursday")
	assert.Equal(t, "Thursday", e.Draft().Body)
}

func TestNewMessageStartsInTo(t *testing.T) {
	e := editor.New(model.Draft{To: []string{}})
	m := New(keys.DefaultKeyMap(), 80, 30)
	m.Start(e, "New Message")
	require.Equal(t, fieldTo, m.Focus())

	m = typeText(m, "bob@example.com, carol@example.com")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, fieldSubject, m.Focus())
	m = typeText(m, "Hello")

	d := e.Draft()
	assert.Equal(t, []string{"bob@example.com", "carol@example.com"}, d.To)
	assert.Equal(t, "Hello", d.Subject)
}

func TestFormattingKeysEditBody(t *testing.T) {
	e := editor.New(model.Draft{To: []string{"a@x.com"}, Body: "hello"})
	m := New(keys.DefaultKeyMap(), 80, 30)
	m.Start(e, "Reply")

	e.Body().SetSelection(0, 5)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlB})
	assert.Equal(t, "**hello**", e.Draft().Body)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	assert.Equal(t, "<center>**hello**</center>", e.Draft().Body)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Equal(t, "**hello**", e.Draft().Body)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	assert.Equal(t, "**hello**\n"+editor.Bullet, e.Draft().Body)
}

func TestSendAndSaveEmitMessages(t *testing.T) {
	e := editor.New(model.Draft{To: []string{"a@x.com"}, Subject: "Hi"})
	m := New(keys.DefaultKeyMap(), 80, 30)
	m.Start(e, "Reply")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.Equal(t, SendMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	require.NotNil(t, cmd)
	assert.Equal(t, SaveMsg{}, cmd())
}

func TestViewShowsSendGate(t *testing.T) {
	e := editor.New(model.Draft{To: []string{}})
	m := New(keys.DefaultKeyMap(), 80, 30)
	m.Start(e, "New Message")
	assert.Contains(t, m.View(), "send disabled")
	assert.Contains(t, m.View(), "New Message")
}

func TestEscAsksBeforeDiscarding(t *testing.T) {
	e := editor.New(model.Draft{To: []string{"a@x.com"}})
	m := New(keys.DefaultKeyMap(), 80, 30)
	m.Start(e, "Reply")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, m.confirm)
	assert.Contains(t, m.View(), "Discard this draft?")

	m = typeText(m, "x")
	assert.Empty(t, e.Draft().Body)
}
