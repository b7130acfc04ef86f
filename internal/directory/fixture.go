package directory

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/nhle/mailspace/internal/model"
)

// Fixture is a deterministic in-process Source. Every account gets the
// same three addresses (the handle's own address first) and every address
// the same demo mail, with timestamps anchored to a fixed clock so that
// repeated derivations are identical.
type Fixture struct {
	domain string
	custom []string
	anchor time.Time
}

// NewFixture returns a fixture for domain. Custom mailbox names are
// appended after the canonical folders of every address.
func NewFixture(domain string, custom []string, anchor time.Time) *Fixture {
	if domain == "" {
		domain = "0xfog.com"
	}
	return &Fixture{domain: domain, custom: append([]string(nil), custom...), anchor: anchor}
}

// ListAddresses implements AddressSource.
func (f *Fixture) ListAddresses(_ context.Context, account model.Account) ([]model.EmailAddress, error) {
	if account.Handle == "" {
		return nil, ErrNoAccount
	}
	entries := []struct {
		local    string
		primary  bool
		verified bool
	}{
		{account.Handle, true, true},
		{"my.eth", false, true},
		{"crypto.wallet", false, false},
	}
	out := make([]model.EmailAddress, 0, len(entries))
	for i, e := range entries {
		out = append(out, model.EmailAddress{
			ID:          strconv.Itoa(i + 1),
			AccountID:   account.ID,
			Address:     e.local + "@" + f.domain,
			DisplayName: e.local,
			IsPrimary:   e.primary,
			IsVerified:  e.verified,
		})
	}
	return out, nil
}

// ListMailboxes implements MailboxSource. Counts come from the same
// dataset ListMessages serves.
func (f *Fixture) ListMailboxes(ctx context.Context, address model.EmailAddress) ([]model.Mailbox, error) {
	ids := f.mailboxIDs()
	out := make([]model.Mailbox, 0, len(ids))
	for _, id := range ids {
		msgs, _ := f.ListMessages(ctx, address, id)
		total, unread := CountMessages(msgs)
		mb := model.Mailbox{
			ID:          id,
			Name:        id,
			Kind:        model.MailboxCustom,
			TotalCount:  total,
			UnreadCount: unread,
		}
		if model.IsCanonical(id) {
			mb.Kind = model.MailboxKind(id)
			mb.Name = mb.Kind.DisplayName()
		}
		out = append(out, mb)
	}
	return out, nil
}

func (f *Fixture) mailboxIDs() []string {
	ids := make([]string, 0, len(model.CanonicalMailboxes)+len(f.custom))
	for _, k := range model.CanonicalMailboxes {
		ids = append(ids, string(k))
	}
	for _, name := range f.custom {
		name = strings.TrimSpace(name)
		if name != "" && !model.IsCanonical(name) {
			ids = append(ids, name)
		}
	}
	return ids
}

// ListMessages implements MessageSource. Unknown mailboxes and custom
// folders are empty.
func (f *Fixture) ListMessages(_ context.Context, address model.EmailAddress, mailboxID string) ([]model.Message, error) {
	inbox := f.inbox(address.Address)
	switch model.MailboxKind(mailboxID) {
	case model.MailboxInbox:
		return inbox, nil
	case model.MailboxStarred:
		var starred []model.Message
		for _, m := range inbox {
			if m.IsStarred {
				starred = append(starred, m)
			}
		}
		return starred, nil
	case model.MailboxSent:
		return []model.Message{{
			ID:            "sent1",
			Sender:        localPart(address.Address),
			SenderAddress: address.Address,
			Recipients:    []string{"alice@example.com"},
			Subject:       "Re: Q4 Planning Meeting",
			Body:          "I can make it on Thursday, 10:00 AM - 11:00 AM. Thanks!",
			Timestamp:     f.ago(1 * time.Hour),
			IsRead:        true,
		}}, nil
	case model.MailboxArchive:
		for _, m := range inbox {
			if m.ID == "3" {
				return []model.Message{m}, nil
			}
		}
		return nil, nil
	case model.MailboxTrash:
		return []model.Message{{
			ID:            "trash1",
			Sender:        "spam",
			SenderAddress: "spam@example.com",
			Recipients:    []string{address.Address},
			Subject:       "You won the lottery!",
			Body:          "Congratulations! You have won $1,000,000...",
			Timestamp:     f.ago(48 * time.Hour),
		}}, nil
	default:
		return nil, nil
	}
}

func (f *Fixture) inbox(owner string) []model.Message {
	return []model.Message{
		{
			ID:            "1",
			Sender:        "alice",
			SenderAddress: "alice@example.com",
			Recipients:    []string{owner},
			Subject:       "Q4 Planning Meeting",
			Body:          planningBody,
			Timestamp:     f.ago(2 * time.Hour),
			IsStarred:     true,
		},
		{
			ID:            "budget",
			Sender:        "finance",
			SenderAddress: "finance@company.com",
			Recipients:    []string{owner},
			Subject:       "Budget Review",
			Body:          budgetBody,
			Timestamp:     f.ago(3 * time.Hour),
		},
		{
			ID:            "2",
			Sender:        "marketing",
			SenderAddress: "marketing@company.com",
			Recipients:    []string{owner},
			CC:            []string{"team@company.com"},
			Subject:       "New Campaign Performance Report",
			Body:          campaignBody,
			Timestamp:     f.ago(4 * time.Hour),
			IsRead:        true,
			IsStarred:     true,
			HasAttachment: true,
		},
		{
			ID:            "3",
			Sender:        "support",
			SenderAddress: "support@blockchain.com",
			Recipients:    []string{owner},
			Subject:       "Your Transaction is Complete",
			Body:          transactionBody,
			Timestamp:     f.ago(6 * time.Hour),
			IsRead:        true,
		},
	}
}

func (f *Fixture) ago(d time.Duration) time.Time {
	return f.anchor.Add(-d)
}

func localPart(address string) string {
	if i := strings.IndexByte(address, '@'); i >= 0 {
		return address[:i]
	}
	return address
}

const planningBody = `Hi team,

I wanted to schedule our Q4 planning meeting for next week. Please let me know your availability for the following times:

- Tuesday, 3:00 PM - 4:00 PM
- Wednesday, 2:00 PM - 3:00 PM
- Thursday, 10:00 AM - 11:00 AM

We will be discussing:
1. Q4 goals and objectives
2. Resource allocation
3. Timeline and milestones

Looking forward to hearing from you.

Best regards,
Alice`

const budgetBody = `Hello,

The numbers for this quarter are in. Please review the department spend before Friday so we can close the books.

Thanks,
Finance`

const campaignBody = `Hi everyone,

The latest campaign metrics are in! Overall performance exceeded expectations with a 23% increase in engagement compared to last quarter.

Key highlights:
- 23% increase in engagement
- 15% growth in conversions
- 8% improvement in click-through rates

Detailed report is attached.

Thanks,
Marketing Team`

const transactionBody = `Hello,

Your recent transaction has been successfully processed on the Ethereum blockchain.

Transaction Details:
- Hash: 0x742d35cc6bf8543f5c8e5c4d2c2f8c6f5d2c2f8c742d35cc6bf8543f5c8e5c4d
- Amount: 0.5 ETH
- Gas Fee: 0.003 ETH
- Confirmation: 12 blocks

You can view the transaction details on Etherscan.

Best regards,
Blockchain Support`
