// Package directory derives the address, mailbox and message lists that
// feed the workspace. Each list is a keyed derivation over an upstream
// selection, backed by a pluggable source.
package directory

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/nhle/mailspace/internal/derive"
	"github.com/nhle/mailspace/internal/model"
)

// ErrNoAccount is returned by sources asked about an absent account. The
// directories translate it into an empty list.
var ErrNoAccount = errors.New("no account")

// AddressSource lists the addresses owned by an account.
type AddressSource interface {
	ListAddresses(ctx context.Context, account model.Account) ([]model.EmailAddress, error)
}

// MailboxSource lists the folders of one address.
type MailboxSource interface {
	ListMailboxes(ctx context.Context, address model.EmailAddress) ([]model.Mailbox, error)
}

// MessageSource lists the messages of one (address, mailbox) pair.
type MessageSource interface {
	ListMessages(ctx context.Context, address model.EmailAddress, mailboxID string) ([]model.Message, error)
}

// Source backs all three directories.
type Source interface {
	AddressSource
	MailboxSource
	MessageSource
}

// AccountKey keys the address derivation.
type AccountKey struct {
	ID     string
	Handle string
}

// KeyForAccount returns the derivation key of a, or the zero key when a
// is nil.
func KeyForAccount(a *model.Account) AccountKey {
	if a == nil {
		return AccountKey{}
	}
	return AccountKey{ID: a.ID, Handle: a.Handle}
}

// MessageKey keys the message derivation.
type MessageKey struct {
	Address   model.EmailAddress
	MailboxID string
}

// Addresses is the AddressDirectory.
type Addresses = derive.Keyed[AccountKey, model.EmailAddress]

// Mailboxes is the MailboxDirectory.
type Mailboxes = derive.Keyed[model.EmailAddress, model.Mailbox]

// Messages is the MessageStore derivation.
type Messages = derive.Keyed[MessageKey, model.Message]

// NewAddresses returns an address derivation over src.
func NewAddresses(src AddressSource) *Addresses {
	return derive.New(func(ctx context.Context, k AccountKey) ([]model.EmailAddress, error) {
		if k.Handle == "" {
			return nil, nil
		}
		return ListAddresses(ctx, src, &model.Account{ID: k.ID, Handle: k.Handle})
	})
}

// NewMailboxes returns a mailbox derivation over src.
func NewMailboxes(src MailboxSource) *Mailboxes {
	return derive.New(func(ctx context.Context, a model.EmailAddress) ([]model.Mailbox, error) {
		if a.ID == "" {
			return nil, nil
		}
		return ListMailboxes(ctx, src, &a)
	})
}

// NewMessages returns a message derivation over src.
func NewMessages(src MessageSource) *Messages {
	return derive.New(func(ctx context.Context, k MessageKey) ([]model.Message, error) {
		if k.Address.ID == "" {
			return nil, nil
		}
		return ListMessages(ctx, src, &k.Address, k.MailboxID)
	})
}

// ListAddresses returns the addresses of account, primary first. A nil
// account yields an empty list.
func ListAddresses(ctx context.Context, src AddressSource, account *model.Account) ([]model.EmailAddress, error) {
	if account == nil || account.Handle == "" {
		return nil, nil
	}
	list, err := src.ListAddresses(ctx, *account)
	if errors.Is(err, ErrNoAccount) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing addresses for %s: %w", account.Handle, err)
	}
	return NormalizeAddresses(list), nil
}

// ListMailboxes returns the folders of address in canonical order. A nil
// address yields an empty list.
func ListMailboxes(ctx context.Context, src MailboxSource, address *model.EmailAddress) ([]model.Mailbox, error) {
	if address == nil {
		return nil, nil
	}
	list, err := src.ListMailboxes(ctx, *address)
	if err != nil {
		return nil, fmt.Errorf("listing mailboxes for %s: %w", address.Address, err)
	}
	return NormalizeMailboxes(list), nil
}

// ListMessages returns the messages of (address, mailboxID), newest first.
// An absent address or empty mailbox id yields an empty list; so does an
// unknown mailbox, which sources report as an empty list.
func ListMessages(ctx context.Context, src MessageSource, address *model.EmailAddress, mailboxID string) ([]model.Message, error) {
	if address == nil || mailboxID == "" {
		return nil, nil
	}
	list, err := src.ListMessages(ctx, *address, mailboxID)
	if err != nil {
		return nil, fmt.Errorf("listing %s messages for %s: %w", mailboxID, address.Address, err)
	}
	return NormalizeMessages(list), nil
}

// NormalizeAddresses moves the primary address to the front and makes
// sure exactly one entry is primary. If none is flagged, the first entry
// becomes primary; if several are, only the first of them stays primary.
func NormalizeAddresses(list []model.EmailAddress) []model.EmailAddress {
	if len(list) == 0 {
		return nil
	}
	out := make([]model.EmailAddress, len(list))
	copy(out, list)

	primary := -1
	for i := range out {
		if out[i].IsPrimary {
			if primary == -1 {
				primary = i
			} else {
				out[i].IsPrimary = false
			}
		}
	}
	if primary == -1 {
		primary = 0
		out[0].IsPrimary = true
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].IsPrimary && !out[j].IsPrimary
	})
	return out
}

// NormalizeMailboxes returns the five canonical folders in fixed order
// followed by every other folder in source order. Missing canonical
// folders are filled in empty, duplicates are dropped and unread counts
// are clamped to [0, total].
func NormalizeMailboxes(list []model.Mailbox) []model.Mailbox {
	canonical := make(map[string]model.Mailbox, len(model.CanonicalMailboxes))
	var custom []model.Mailbox
	seen := make(map[string]bool, len(list))

	for _, mb := range list {
		if mb.ID == "" || seen[mb.ID] {
			continue
		}
		seen[mb.ID] = true
		mb = clampCounts(mb)
		if model.IsCanonical(mb.ID) {
			mb.Kind = model.MailboxKind(mb.ID)
			if mb.Name == "" {
				mb.Name = mb.Kind.DisplayName()
			}
			canonical[mb.ID] = mb
			continue
		}
		mb.Kind = model.MailboxCustom
		if mb.Name == "" {
			mb.Name = mb.ID
		}
		custom = append(custom, mb)
	}

	out := make([]model.Mailbox, 0, len(model.CanonicalMailboxes)+len(custom))
	for _, kind := range model.CanonicalMailboxes {
		mb, ok := canonical[string(kind)]
		if !ok {
			mb = model.Mailbox{ID: string(kind), Name: kind.DisplayName(), Kind: kind}
		}
		out = append(out, mb)
	}
	return append(out, custom...)
}

func clampCounts(mb model.Mailbox) model.Mailbox {
	if mb.TotalCount < 0 {
		mb.TotalCount = 0
	}
	if mb.UnreadCount < 0 {
		mb.UnreadCount = 0
	}
	if mb.UnreadCount > mb.TotalCount {
		mb.UnreadCount = mb.TotalCount
	}
	return mb
}

// NormalizeMessages sorts a copy of list newest first. Messages with equal
// timestamps keep their source order.
func NormalizeMessages(list []model.Message) []model.Message {
	if len(list) == 0 {
		return nil
	}
	out := make([]model.Message, len(list))
	for i := range list {
		out[i] = list[i].Clone()
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// CountMessages derives (total, unread) for a message list.
func CountMessages(list []model.Message) (total, unread int) {
	for _, m := range list {
		if !m.IsRead {
			unread++
		}
	}
	return len(list), unread
}
