package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailspace/internal/directory"
	"github.com/nhle/mailspace/internal/model"
	"github.com/nhle/mailspace/tests/testutil"
)

var account = model.Account{ID: "acct-1", Handle: "handle", CreatedAt: testutil.Anchor}

func primary(t *testing.T, s directory.AddressSource) model.EmailAddress {
	t.Helper()
	list, err := s.ListAddresses(context.Background(), account)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	return list[0]
}

func TestMigrationsApplied(t *testing.T) {
	s := testutil.NewTestStore(t)
	v, err := s.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestListAddressesSeedsOnce(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewSeededStore(t)

	first, err := s.ListAddresses(ctx, account)
	require.NoError(t, err)
	second, err := s.ListAddresses(ctx, account)
	require.NoError(t, err)

	require.Len(t, first, 3)
	assert.Equal(t, first, second)
	assert.Equal(t, "handle@0xfog.com", first[0].Address)
	assert.True(t, first[0].IsPrimary)
	assert.True(t, first[1].IsVerified)
	assert.False(t, first[2].IsVerified)
}

func TestListAddressesWithoutAccount(t *testing.T) {
	s := testutil.NewSeededStore(t)
	_, err := s.ListAddresses(context.Background(), model.Account{})
	require.ErrorIs(t, err, directory.ErrNoAccount)
}

func TestUnseededStoreHasEmptyCanonicalFolders(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	list, err := s.ListAddresses(ctx, account)
	require.NoError(t, err)
	assert.Empty(t, list)

	boxes, err := s.ListMailboxes(ctx, model.EmailAddress{ID: "1", Address: "a@x.com"})
	require.NoError(t, err)
	require.Len(t, boxes, 5)
	for _, mb := range boxes {
		assert.Zero(t, mb.TotalCount, mb.ID)
	}
}

func TestMailboxesMatchFixture(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewSeededStore(t)
	addr := primary(t, s)

	got, err := s.ListMailboxes(ctx, addr)
	require.NoError(t, err)

	want, err := directory.NewFixture("0xfog.com", nil, testutil.Anchor).ListMailboxes(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStarredIsInboxSubset(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewSeededStore(t)
	addr := primary(t, s)

	inbox, err := s.ListMessages(ctx, addr, "inbox")
	require.NoError(t, err)
	starred, err := s.ListMessages(ctx, addr, "starred")
	require.NoError(t, err)

	require.NotEmpty(t, starred)
	inboxIDs := map[string]bool{}
	for _, m := range inbox {
		inboxIDs[m.ID] = m.IsStarred
	}
	for _, m := range starred {
		assert.True(t, inboxIDs[m.ID], m.ID)
	}
}

func TestMessagesRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewSeededStore(t)
	addr := primary(t, s)

	inbox, err := s.ListMessages(ctx, addr, "inbox")
	require.NoError(t, err)
	require.Len(t, inbox, 4)

	assert.Equal(t, "1", inbox[0].ID)
	assert.Equal(t, "alice@example.com", inbox[0].SenderAddress)
	assert.True(t, inbox[0].Timestamp.Equal(testutil.Anchor.Add(-2*time.Hour)))

	var campaign model.Message
	for _, m := range inbox {
		if m.ID == "2" {
			campaign = m
		}
	}
	assert.Equal(t, []string{"team@company.com"}, campaign.CC)
	assert.True(t, campaign.HasAttachment)
	assert.Nil(t, campaign.BCC)
}

func TestUnknownMailboxIsEmpty(t *testing.T) {
	s := testutil.NewSeededStore(t)
	list, err := s.ListMessages(context.Background(), primary(t, s), "nope")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMarkReadUpdatesCounts(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewSeededStore(t)
	addr := primary(t, s)

	require.NoError(t, s.MarkRead(ctx, addr.Address, "starred", "1"))

	boxes, err := s.ListMailboxes(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, "inbox", boxes[0].ID)
	assert.Equal(t, 1, boxes[0].UnreadCount)
	assert.Equal(t, 0, boxes[1].UnreadCount)
}

func TestDraftLifecycle(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewSeededStore(t)
	addr := primary(t, s)

	id, err := s.SaveDraft(ctx, addr, model.Draft{
		To:         []string{"alice@example.com"},
		Subject:    "Re: Q4 Planning Meeting",
		Body:       "Thursday works",
		ActionKind: model.ActionReply,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	drafts, err := s.GetDrafts(ctx, addr.Address)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, id, drafts[0].ID)
	assert.Equal(t, []string{"alice@example.com"}, drafts[0].To)
	assert.Equal(t, model.ActionReply, drafts[0].ActionKind)

	again, err := s.SaveDraft(ctx, addr, model.Draft{ID: id, Subject: "edited"})
	require.NoError(t, err)
	assert.Equal(t, id, again)

	drafts, err = s.GetDrafts(ctx, addr.Address)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "edited", drafts[0].Subject)

	require.NoError(t, s.DeleteDraft(ctx, id))
	drafts, err = s.GetDrafts(ctx, addr.Address)
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestAppendSentFilesIntoSentMailbox(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewSeededStore(t)
	addr := primary(t, s)

	draftID, err := s.SaveDraft(ctx, addr, model.Draft{To: []string{"bob@example.com"}, Subject: "Hello"})
	require.NoError(t, err)

	at := testutil.Anchor.Add(time.Minute)
	msg, err := s.AppendSent(ctx, addr, model.Draft{
		ID:      draftID,
		To:      []string{"bob@example.com"},
		Subject: "Hello",
		Body:    "Hi Bob",
	}, at)
	require.NoError(t, err)
	assert.Equal(t, "handle", msg.Sender)

	sent, err := s.ListMessages(ctx, addr, "sent")
	require.NoError(t, err)
	require.Len(t, sent, 2)
	assert.Equal(t, msg.ID, sent[0].ID)
	assert.Equal(t, "Hello", sent[0].Subject)

	drafts, err := s.GetDrafts(ctx, addr.Address)
	require.NoError(t, err)
	assert.Empty(t, drafts)
}
