package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLists struct {
	addresses []string
	addrReady bool
	mailboxes map[string][]string
	messages  map[[2]string][]string
}

func (f *fakeLists) AddressIDs() ([]string, bool) {
	return f.addresses, f.addrReady
}

func (f *fakeLists) MailboxIDs(addressID string) ([]string, bool) {
	ids, ok := f.mailboxes[addressID]
	return ids, ok
}

func (f *fakeLists) MessageIDs(addressID, mailboxID string) ([]string, bool) {
	ids, ok := f.messages[[2]string{addressID, mailboxID}]
	return ids, ok
}

func newLists() *fakeLists {
	return &fakeLists{
		addresses: []string{"1", "2"},
		addrReady: true,
		mailboxes: map[string][]string{
			"1": {"inbox", "starred", "sent", "archive", "trash"},
			"2": {"inbox", "starred", "sent", "archive", "trash", "work"},
		},
		messages: map[[2]string][]string{
			{"1", "inbox"}: {"m1", "m2"},
			{"1", "sent"}:  {"s1"},
			{"2", "work"}:  {"w1"},
		},
	}
}

func selected(t *testing.T, c *Controller) {
	t.Helper()
	_, err := c.SelectAddress("1")
	require.NoError(t, err)
	_, err = c.SelectMailbox("inbox")
	require.NoError(t, err)
	_, err = c.SelectMessage("m2")
	require.NoError(t, err)
	require.Equal(t, MessageSelected, c.State())
}

func TestSelectAddressResetsDownstream(t *testing.T) {
	c := New(newLists())
	selected(t, c)

	change, err := c.SelectAddress("2")
	require.NoError(t, err)
	assert.Equal(t, Selection{AddressID: "2", MailboxID: "inbox"}, c.Selection())
	assert.True(t, change.Address)
	assert.False(t, change.Mailbox)
	assert.True(t, change.Message)
}

func TestSelectSameAddressStillResets(t *testing.T) {
	c := New(newLists())
	selected(t, c)
	_, err := c.SelectMailbox("sent")
	require.NoError(t, err)

	_, err = c.SelectAddress("1")
	require.NoError(t, err)
	assert.Equal(t, Selection{AddressID: "1", MailboxID: "inbox"}, c.Selection())
}

func TestSelectAddressBeforeMailboxesDerived(t *testing.T) {
	lists := newLists()
	delete(lists.mailboxes, "2")
	c := New(lists)

	_, err := c.SelectAddress("2")
	require.NoError(t, err)
	assert.Equal(t, Selection{AddressID: "2"}, c.Selection())
	assert.Equal(t, AddressSelected, c.State())

	lists.mailboxes["2"] = []string{"inbox", "starred"}
	change := c.MailboxesDerived("2")
	assert.True(t, change.Mailbox)
	assert.Equal(t, "inbox", c.Selection().MailboxID)
}

func TestMailboxesDerivedForOtherAddressIgnored(t *testing.T) {
	c := New(newLists())
	_, err := c.SelectAddress("1")
	require.NoError(t, err)

	change := c.MailboxesDerived("2")
	assert.False(t, change.Any())
}

func TestSelectMailboxResetsMessageOnly(t *testing.T) {
	c := New(newLists())
	selected(t, c)

	change, err := c.SelectMailbox("sent")
	require.NoError(t, err)
	assert.Equal(t, Selection{AddressID: "1", MailboxID: "sent"}, c.Selection())
	assert.False(t, change.Address)
	assert.True(t, change.Mailbox)
	assert.True(t, change.Message)
}

func TestInvalidSelectionLeavesStateUnchanged(t *testing.T) {
	tests := []struct {
		name string
		fire func(c *Controller) error
	}{
		{"unknown address", func(c *Controller) error { _, err := c.SelectAddress("9"); return err }},
		{"empty address", func(c *Controller) error { _, err := c.SelectAddress(""); return err }},
		{"mailbox of other address", func(c *Controller) error { _, err := c.SelectMailbox("work"); return err }},
		{"unknown message", func(c *Controller) error { _, err := c.SelectMessage("s1"); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(newLists())
			selected(t, c)
			before := c.Selection()

			err := tt.fire(c)
			require.ErrorIs(t, err, ErrInvalidSelection)
			assert.Equal(t, before, c.Selection())
		})
	}
}

func TestIllegalEventInState(t *testing.T) {
	c := New(newLists())

	_, err := c.SelectMailbox("inbox")
	require.ErrorIs(t, err, ErrInvalidSelection)
	_, err = c.SelectMessage("m1")
	require.ErrorIs(t, err, ErrInvalidSelection)
	assert.Equal(t, Idle, c.State())
}

func TestSelectAddressRejectedBeforeAddressesDerived(t *testing.T) {
	lists := newLists()
	lists.addrReady = false
	c := New(lists)

	_, err := c.SelectAddress("1")
	require.ErrorIs(t, err, ErrInvalidSelection)
}

func TestClearMessageKeepsAddressAndMailbox(t *testing.T) {
	c := New(newLists())
	selected(t, c)

	change := c.ClearMessage()
	assert.Equal(t, Change{Message: true}, change)
	assert.Equal(t, Selection{AddressID: "1", MailboxID: "inbox"}, c.Selection())

	assert.False(t, c.ClearMessage().Any())
}

func TestAddressesDerivedSelectsPrimary(t *testing.T) {
	c := New(newLists())

	change := c.AddressesDerived()
	assert.True(t, change.Address)
	assert.Equal(t, Selection{AddressID: "1", MailboxID: "inbox"}, c.Selection())
}

func TestAddressesDerivedKeepsPresentAddress(t *testing.T) {
	c := New(newLists())
	selected(t, c)

	assert.False(t, c.AddressesDerived().Any())
	assert.Equal(t, "m2", c.Selection().MessageID)
}

func TestAddressesDerivedResetsVanishedAddress(t *testing.T) {
	lists := newLists()
	c := New(lists)
	_, err := c.SelectAddress("2")
	require.NoError(t, err)

	lists.addresses = []string{"1"}
	c.AddressesDerived()
	assert.Equal(t, Selection{AddressID: "1", MailboxID: "inbox"}, c.Selection())

	lists.addresses = nil
	c.AddressesDerived()
	assert.Equal(t, Idle, c.State())
}

func TestMessagesDerivedClearsVanishedMessage(t *testing.T) {
	lists := newLists()
	c := New(lists)
	selected(t, c)

	lists.messages[[2]string{"1", "inbox"}] = []string{"m1"}
	change := c.MessagesDerived("1", "inbox")
	assert.Equal(t, Change{Message: true}, change)
	assert.Equal(t, Selection{AddressID: "1", MailboxID: "inbox"}, c.Selection())
}

func TestMessagesDerivedKeepsPresentMessage(t *testing.T) {
	c := New(newLists())
	selected(t, c)

	assert.False(t, c.MessagesDerived("1", "inbox").Any())
	assert.False(t, c.MessagesDerived("1", "sent").Any())
}

func TestReset(t *testing.T) {
	c := New(newLists())
	selected(t, c)

	change := c.Reset()
	assert.Equal(t, Change{Address: true, Mailbox: true, Message: true}, change)
	assert.Equal(t, Selection{}, c.Selection())
}

func TestEveryStateAcceptsReset(t *testing.T) {
	for state, events := range transitions {
		_, ok := events[Reset]
		assert.True(t, ok, state.String())
	}
}
