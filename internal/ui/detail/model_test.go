package detail

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/nhle/mailspace/internal/keys"
	"github.com/nhle/mailspace/internal/model"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestComposeKeysRequireMessage(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 60, 20)
	_, cmd := m.Update(runes("r"))
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "No message selected")
}

func TestComposeKeys(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 60, 20)
	m.SetMessage(&model.Message{ID: "1", Sender: "Alice", SenderAddress: "alice@example.com", Subject: "Q4"})

	tests := map[string]model.ActionKind{
		"r": model.ActionReply,
		"a": model.ActionReplyAll,
		"f": model.ActionForward,
	}
	for k, kind := range tests {
		_, cmd := m.Update(runes(k))
		if assert.NotNil(t, cmd, k) {
			assert.Equal(t, ComposeMsg{Kind: kind}, cmd())
		}
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if assert.NotNil(t, cmd) {
		assert.Equal(t, BackMsg{}, cmd())
	}
}

func TestRenderShowsHeaders(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 30)
	m.SetMessage(&model.Message{
		ID:            "2",
		Sender:        "Marketing",
		SenderAddress: "news@marketing.com",
		Recipients:    []string{"handle@0xfog.com"},
		CC:            []string{"team@company.com"},
		Subject:       "Campaign",
		Body:          "Numbers attached.",
		Timestamp:     time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
		HasAttachment: true,
	})

	view := m.View()
	assert.Contains(t, view, "Campaign")
	assert.Contains(t, view, "Marketing <news@marketing.com>")
	assert.Contains(t, view, "team@company.com")
	assert.Contains(t, view, "Numbers attached.")
}
