package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailspace/internal/derive"
	"github.com/nhle/mailspace/internal/model"
)

var anchor = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func newFixture() *Fixture {
	return NewFixture("0xfog.com", []string{"receipts"}, anchor)
}

func TestListAddressesNilAccountIsEmpty(t *testing.T) {
	list, err := ListAddresses(context.Background(), newFixture(), nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListAddressesPrimaryFirstAndDeterministic(t *testing.T) {
	ctx := context.Background()
	acct := &model.Account{ID: "acct-1", Handle: "handle"}

	first, err := ListAddresses(ctx, newFixture(), acct)
	require.NoError(t, err)
	second, err := ListAddresses(ctx, newFixture(), acct)
	require.NoError(t, err)

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
	assert.True(t, first[0].IsPrimary)
	assert.Equal(t, "handle@0xfog.com", first[0].Address)

	primaries := 0
	for _, a := range first {
		if a.IsPrimary {
			primaries++
		}
	}
	assert.Equal(t, 1, primaries)
}

func TestNormalizeAddresses(t *testing.T) {
	tests := []struct {
		name        string
		in          []model.EmailAddress
		wantFirst   string
		wantPrimary int
	}{
		{
			name:        "primary moved to front",
			in:          []model.EmailAddress{{ID: "a"}, {ID: "b", IsPrimary: true}, {ID: "c"}},
			wantFirst:   "b",
			wantPrimary: 1,
		},
		{
			name:        "no primary promotes first",
			in:          []model.EmailAddress{{ID: "a"}, {ID: "b"}},
			wantFirst:   "a",
			wantPrimary: 1,
		},
		{
			name:        "several primaries keep the first",
			in:          []model.EmailAddress{{ID: "a"}, {ID: "b", IsPrimary: true}, {ID: "c", IsPrimary: true}},
			wantFirst:   "b",
			wantPrimary: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAddresses(tt.in)
			require.Len(t, got, len(tt.in))
			assert.Equal(t, tt.wantFirst, got[0].ID)
			count := 0
			for _, a := range got {
				if a.IsPrimary {
					count++
				}
			}
			assert.Equal(t, tt.wantPrimary, count)
		})
	}
}

func TestListMailboxesCanonicalOrderThenCustom(t *testing.T) {
	ctx := context.Background()
	addr := &model.EmailAddress{ID: "1", Address: "handle@0xfog.com"}

	list, err := ListMailboxes(ctx, newFixture(), addr)
	require.NoError(t, err)

	var ids []string
	for _, mb := range list {
		ids = append(ids, mb.ID)
		assert.LessOrEqual(t, mb.UnreadCount, mb.TotalCount, mb.ID)
	}
	assert.Equal(t, []string{"inbox", "starred", "sent", "archive", "trash", "receipts"}, ids)
	assert.Equal(t, model.MailboxCustom, list[5].Kind)
}

func TestNormalizeMailboxesFillsAndClamps(t *testing.T) {
	got := NormalizeMailboxes([]model.Mailbox{
		{ID: "work", Name: "Work", TotalCount: 2, UnreadCount: 9},
		{ID: "trash", TotalCount: 1},
		{ID: "trash", TotalCount: 7},
		{ID: "inbox", TotalCount: 3, UnreadCount: -1},
	})

	require.Len(t, got, 6)
	assert.Equal(t, "inbox", got[0].ID)
	assert.Equal(t, 0, got[0].UnreadCount)
	assert.Equal(t, "Starred", got[1].Name)
	assert.Equal(t, 1, got[4].TotalCount)
	assert.Equal(t, "work", got[5].ID)
	assert.Equal(t, 2, got[5].UnreadCount)
}

func TestListMessagesEmptyCases(t *testing.T) {
	ctx := context.Background()
	addr := &model.EmailAddress{ID: "1", Address: "handle@0xfog.com"}

	list, err := ListMessages(ctx, newFixture(), nil, "inbox")
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = ListMessages(ctx, newFixture(), addr, "")
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = ListMessages(ctx, newFixture(), addr, "no-such-folder")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListMessagesNewestFirst(t *testing.T) {
	addr := &model.EmailAddress{ID: "1", Address: "handle@0xfog.com"}
	list, err := ListMessages(context.Background(), newFixture(), addr, "inbox")
	require.NoError(t, err)
	require.NotEmpty(t, list)
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].Timestamp.After(list[i-1].Timestamp))
	}
}

func TestStarredIsSubsetOfInbox(t *testing.T) {
	ctx := context.Background()
	addr := &model.EmailAddress{ID: "1", Address: "handle@0xfog.com"}
	f := newFixture()

	inbox, err := ListMessages(ctx, f, addr, "inbox")
	require.NoError(t, err)
	starred, err := ListMessages(ctx, f, addr, "starred")
	require.NoError(t, err)

	var want []model.Message
	for _, m := range inbox {
		if m.IsStarred {
			want = append(want, m)
		}
	}
	assert.Equal(t, want, starred)
}

func TestMailboxCountsMatchMessages(t *testing.T) {
	ctx := context.Background()
	addr := &model.EmailAddress{ID: "1", Address: "handle@0xfog.com"}
	f := newFixture()

	boxes, err := ListMailboxes(ctx, f, addr)
	require.NoError(t, err)
	for _, mb := range boxes {
		msgs, err := ListMessages(ctx, f, addr, mb.ID)
		require.NoError(t, err)
		total, unread := CountMessages(msgs)
		assert.Equal(t, total, mb.TotalCount, mb.ID)
		assert.Equal(t, unread, mb.UnreadCount, mb.ID)
	}
}

type failingSource struct{}

func (failingSource) ListAddresses(context.Context, model.Account) ([]model.EmailAddress, error) {
	return nil, ErrNoAccount
}

func (failingSource) ListMessages(context.Context, model.EmailAddress, string) ([]model.Message, error) {
	return nil, errors.New("connection reset")
}

func TestNoAccountErrorBecomesEmptyList(t *testing.T) {
	list, err := ListAddresses(context.Background(), failingSource{}, &model.Account{Handle: "h"})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProviderErrorIsWrapped(t *testing.T) {
	addr := &model.EmailAddress{ID: "1", Address: "h@x.com"}
	_, err := ListMessages(context.Background(), failingSource{}, addr, "inbox")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing inbox messages for h@x.com")
}

func TestDerivationsDropStaleResults(t *testing.T) {
	ctx := context.Background()
	msgs := NewMessages(newFixture())
	addr := model.EmailAddress{ID: "1", Address: "handle@0xfog.com"}

	inbox := msgs.Issue(MessageKey{Address: addr, MailboxID: "inbox"})
	trash := msgs.Issue(MessageKey{Address: addr, MailboxID: "trash"})

	assert.Equal(t, derive.Applied, msgs.Accept(trash.Run(ctx)))
	assert.Equal(t, derive.Stale, msgs.Accept(inbox.Run(ctx)))

	items := msgs.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "trash1", items[0].ID)
}

type remote struct{}

func (remote) ListMailboxes(context.Context, model.EmailAddress) ([]model.Mailbox, error) {
	return []model.Mailbox{{ID: "inbox", TotalCount: 42}}, nil
}

func (remote) ListMessages(context.Context, model.EmailAddress, string) ([]model.Message, error) {
	return []model.Message{{ID: "remote-1"}}, nil
}

func TestRouterSendsConfiguredAddressToRemote(t *testing.T) {
	ctx := context.Background()
	r := NewRouter(newFixture())
	r.Route("My.Eth@0xfog.com", remote{})

	routed := model.EmailAddress{ID: "2", Address: "my.eth@0xfog.com"}
	local := model.EmailAddress{ID: "1", Address: "handle@0xfog.com"}

	boxes, err := ListMailboxes(ctx, r, &routed)
	require.NoError(t, err)
	assert.Equal(t, 42, boxes[0].TotalCount)

	msgs, err := r.ListMessages(ctx, local, "inbox")
	require.NoError(t, err)
	assert.NotEqual(t, "remote-1", msgs[0].ID)

	addrs, err := r.ListAddresses(ctx, model.Account{Handle: "handle"})
	require.NoError(t, err)
	assert.Len(t, addrs, 3)
}
