package workspace

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailspace/internal/directory"
	"github.com/nhle/mailspace/internal/model"
	"github.com/nhle/mailspace/internal/selection"
)

var anchor = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

// singleAddress serves one address with the fixture's folders and mail.
type singleAddress struct {
	*directory.Fixture
}

func (singleAddress) ListAddresses(_ context.Context, acct model.Account) ([]model.EmailAddress, error) {
	return []model.EmailAddress{{ID: "1", AccountID: acct.ID, Address: "a@x.com", IsPrimary: true}}, nil
}

func newWorkspace(src directory.Source) *Workspace {
	return New(src, WithClock(func() time.Time { return anchor }))
}

func loggedIn(t *testing.T, src directory.Source) *Workspace {
	t.Helper()
	w := newWorkspace(src)
	reqs, err := w.Login("handle")
	require.NoError(t, err)
	w.Settle(context.Background(), reqs)
	return w
}

func messageIDs(list []model.Message) []string {
	ids := make([]string, 0, len(list))
	for _, m := range list {
		ids = append(ids, m.ID)
	}
	return ids
}

func TestEndToEndSearchScenario(t *testing.T) {
	ctx := context.Background()
	w := newWorkspace(singleAddress{directory.NewFixture("x.com", nil, anchor)})

	reqs, err := w.Login("handle")
	require.NoError(t, err)
	w.Settle(ctx, reqs)

	vm := w.View()
	require.Len(t, vm.Addresses, 1)
	assert.Equal(t, "a@x.com", vm.Addresses[0].Address)

	reqs, err = w.SelectAddress("1")
	require.NoError(t, err)
	w.Settle(ctx, reqs)

	vm = w.View()
	require.NotEmpty(t, vm.Mailboxes)
	assert.Equal(t, "inbox", vm.Mailboxes[0].ID)

	reqs, err = w.SelectMailbox("inbox")
	require.NoError(t, err)
	w.Settle(ctx, reqs)

	vm = w.View()
	assert.Equal(t, []string{"1", "budget", "2", "3"}, messageIDs(vm.Messages))

	w.SetQuery("budget")
	vm = w.View()
	assert.Equal(t, []string{"budget"}, messageIDs(vm.Messages))
	assert.Equal(t, 4, vm.MailboxSize)
}

func TestLoginSelectsPrimaryAndFirstMailbox(t *testing.T) {
	w := loggedIn(t, directory.NewFixture("0xfog.com", nil, anchor))

	vm := w.View()
	require.NotNil(t, vm.Account)
	assert.Equal(t, "handle", vm.Account.Handle)
	assert.Equal(t, anchor, vm.Account.CreatedAt)
	assert.Equal(t, selection.Selection{AddressID: "1", MailboxID: "inbox"}, vm.Selection)
	require.NotNil(t, vm.SelectedAddress)
	assert.Equal(t, "handle@0xfog.com", vm.SelectedAddress.Address)
	assert.Len(t, vm.Messages, 4)
}

func TestLoginRejectsBlankHandle(t *testing.T) {
	w := newWorkspace(directory.NewFixture("", nil, anchor))
	_, err := w.Login("   ")
	require.ErrorIs(t, err, ErrEmptyHandle)
}

func TestLogoutEmptiesEverything(t *testing.T) {
	w := loggedIn(t, directory.NewFixture("", nil, anchor))
	w.Logout()

	vm := w.View()
	assert.Nil(t, vm.Account)
	assert.Empty(t, vm.Addresses)
	assert.Empty(t, vm.Mailboxes)
	assert.Empty(t, vm.Messages)
	assert.Equal(t, selection.Selection{}, vm.Selection)
}

func TestOutstandingRequestsStaleAfterLogout(t *testing.T) {
	ctx := context.Background()
	w := newWorkspace(directory.NewFixture("", nil, anchor))
	reqs, err := w.Login("handle")
	require.NoError(t, err)
	w.Logout()

	for _, r := range reqs {
		assert.Empty(t, w.Apply(r.Run(ctx)))
	}
	assert.Empty(t, w.View().Addresses)
}

func TestOutOfOrderMailboxSwitch(t *testing.T) {
	ctx := context.Background()
	w := loggedIn(t, directory.NewFixture("", nil, anchor))

	sent, err := w.SelectMailbox("sent")
	require.NoError(t, err)
	trash, err := w.SelectMailbox("trash")
	require.NoError(t, err)
	require.Len(t, sent, 1)
	require.Len(t, trash, 1)

	trashDone := trash[0].Run(ctx)
	sentDone := sent[0].Run(ctx)
	w.Apply(trashDone)
	w.Apply(sentDone)

	vm := w.View()
	assert.Equal(t, "trash", vm.Selection.MailboxID)
	assert.Equal(t, []string{"trash1"}, messageIDs(vm.Messages))
}

func TestOutOfOrderAddressSwitch(t *testing.T) {
	ctx := context.Background()
	w := loggedIn(t, directory.NewFixture("", nil, anchor))

	toSecond, err := w.SelectAddress("2")
	require.NoError(t, err)
	toThird, err := w.SelectAddress("3")
	require.NoError(t, err)

	w.Settle(ctx, toThird)
	w.Settle(ctx, toSecond)

	vm := w.View()
	require.NotNil(t, vm.SelectedAddress)
	assert.Equal(t, "crypto.wallet@0xfog.com", vm.SelectedAddress.Address)
	assert.Equal(t, "inbox", vm.Selection.MailboxID)
	for _, m := range vm.Messages {
		assert.Equal(t, []string{"crypto.wallet@0xfog.com"}, m.Recipients)
	}
}

func TestSelectAddressClearsListsUntilDerived(t *testing.T) {
	w := loggedIn(t, directory.NewFixture("", nil, anchor))

	_, err := w.SelectAddress("2")
	require.NoError(t, err)

	vm := w.View()
	assert.Equal(t, selection.Selection{AddressID: "2"}, vm.Selection)
	assert.Empty(t, vm.Mailboxes)
	assert.Empty(t, vm.Messages)
	assert.True(t, vm.LoadingMailboxes)
}

func TestSelectMailboxNotInListFails(t *testing.T) {
	w := loggedIn(t, directory.NewFixture("", nil, anchor))
	before := w.View().Selection

	_, err := w.SelectMailbox("spam")
	require.ErrorIs(t, err, selection.ErrInvalidSelection)
	assert.Equal(t, before, w.View().Selection)
}

func TestSelectAndClearMessage(t *testing.T) {
	w := loggedIn(t, directory.NewFixture("", nil, anchor))

	require.NoError(t, w.SelectMessage("2"))
	vm := w.View()
	require.NotNil(t, vm.SelectedMessage)
	assert.Equal(t, "New Campaign Performance Report", vm.SelectedMessage.Subject)

	w.ClearMessage()
	vm = w.View()
	assert.Nil(t, vm.SelectedMessage)
	assert.Equal(t, "inbox", vm.Selection.MailboxID)
}

type flakySource struct {
	*directory.Fixture
	fail bool
}

func (f *flakySource) ListMessages(ctx context.Context, a model.EmailAddress, mailboxID string) ([]model.Message, error) {
	if f.fail {
		return nil, errors.New("connection reset")
	}
	return f.Fixture.ListMessages(ctx, a, mailboxID)
}

func TestProviderFailureKeepsLastGoodList(t *testing.T) {
	src := &flakySource{Fixture: directory.NewFixture("", nil, anchor)}
	w := loggedIn(t, src)
	require.Len(t, w.View().Messages, 4)

	src.fail = true
	w.Settle(context.Background(), w.Refresh())

	vm := w.View()
	assert.Len(t, vm.Messages, 4)
	require.Error(t, vm.Err)
	assert.Contains(t, vm.Err.Error(), "connection reset")
}

// shrinkingSource drops message "2" from the inbox after the first call.
type shrinkingSource struct {
	*directory.Fixture
	calls int
}

func (s *shrinkingSource) ListMessages(ctx context.Context, a model.EmailAddress, mailboxID string) ([]model.Message, error) {
	list, err := s.Fixture.ListMessages(ctx, a, mailboxID)
	s.calls++
	if s.calls == 1 || err != nil {
		return list, err
	}
	var out []model.Message
	for _, m := range list {
		if m.ID != "2" {
			out = append(out, m)
		}
	}
	return out, nil
}

func TestRefreshClearsVanishedMessage(t *testing.T) {
	src := &shrinkingSource{Fixture: directory.NewFixture("", nil, anchor)}
	w := loggedIn(t, src)
	require.NoError(t, w.SelectMessage("2"))

	w.Settle(context.Background(), w.Refresh())

	vm := w.View()
	assert.Empty(t, vm.Selection.MessageID)
	assert.Len(t, vm.Messages, 3)
}

func TestStartComposeNeedsMessage(t *testing.T) {
	w := loggedIn(t, directory.NewFixture("", nil, anchor))
	require.ErrorIs(t, w.StartCompose(model.ActionReply, ""), ErrNoMessage)
}

func TestStartComposeBuildsDraft(t *testing.T) {
	w := loggedIn(t, directory.NewFixture("", nil, anchor))
	require.NoError(t, w.SelectMessage("2"))

	require.NoError(t, w.StartCompose(model.ActionReplyAll, ""))
	vm := w.View()
	require.NotNil(t, vm.Draft)
	assert.Equal(t, "Re: New Campaign Performance Report", vm.Draft.Subject)
	assert.Equal(t, []string{"marketing@company.com"}, vm.Draft.To)
	assert.Equal(t, []string{"team@company.com"}, vm.Draft.CC)

	err := w.StartCompose(model.ActionKind("bogus"), "")
	require.Error(t, err)
	assert.NotNil(t, w.Editor())
}

type recordingTransport struct {
	sent    []model.Draft
	from    []string
	saved   []model.Draft
	sendErr error
}

func (r *recordingTransport) Send(_ context.Context, from model.EmailAddress, d model.Draft) error {
	if r.sendErr != nil {
		return r.sendErr
	}
	r.sent = append(r.sent, d)
	r.from = append(r.from, from.Address)
	return nil
}

func (r *recordingTransport) SaveDraft(_ context.Context, _ model.EmailAddress, d model.Draft) (string, error) {
	r.saved = append(r.saved, d)
	return "draft-1", nil
}

func TestSendDiscardsDraft(t *testing.T) {
	ctx := context.Background()
	w := loggedIn(t, directory.NewFixture("", nil, anchor))
	tr := &recordingTransport{}

	_, err := w.Send(tr)
	require.ErrorIs(t, err, ErrNoDraft)

	w.NewDraft()
	_, err = w.Send(tr)
	require.Error(t, err)

	w.Editor().SetTo([]string{"bob@example.com"})
	w.Editor().SetSubject("Hello")
	req, err := w.Send(tr)
	require.NoError(t, err)

	w.Settle(ctx, []Request{req})
	require.Len(t, tr.sent, 1)
	assert.Equal(t, []string{"handle@0xfog.com"}, tr.from)
	assert.Nil(t, w.Editor())
	assert.Equal(t, "Message sent", w.View().Notice)
}

func TestSendFailureKeepsDraft(t *testing.T) {
	w := loggedIn(t, directory.NewFixture("", nil, anchor))
	tr := &recordingTransport{sendErr: errors.New("relay denied")}

	w.NewDraft()
	w.Editor().SetTo([]string{"bob@example.com"})
	w.Editor().SetSubject("Hello")
	req, err := w.Send(tr)
	require.NoError(t, err)

	w.Settle(context.Background(), []Request{req})
	assert.NotNil(t, w.Editor())
	assert.EqualError(t, w.View().Err, "relay denied")
}

func TestSaveDraftRecordsID(t *testing.T) {
	w := loggedIn(t, directory.NewFixture("", nil, anchor))
	tr := &recordingTransport{}

	w.NewDraft()
	req, err := w.SaveDraft(tr)
	require.NoError(t, err)
	w.Settle(context.Background(), []Request{req})

	assert.Equal(t, "draft-1", w.Editor().Draft().ID)
	assert.Equal(t, "Draft saved", w.View().Notice)
}

func TestViewIsSnapshot(t *testing.T) {
	w := loggedIn(t, directory.NewFixture("", nil, anchor))
	vm := w.View()
	vm.Messages[0].Subject = "mutated"
	vm.Addresses[0].Address = "mutated"

	again := w.View()
	assert.NotEqual(t, "mutated", again.Messages[0].Subject)
	assert.NotEqual(t, "mutated", again.Addresses[0].Address)
}
