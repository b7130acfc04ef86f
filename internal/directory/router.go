package directory

import (
	"context"
	"strings"

	"github.com/nhle/mailspace/internal/model"
)

// RemoteSource serves the folders and mail of addresses hosted elsewhere,
// such as an IMAP server.
type RemoteSource interface {
	MailboxSource
	MessageSource
}

// Router serves addresses from a base Source and sends mailbox and message
// lookups for specific addresses to a remote source.
type Router struct {
	base    Source
	remotes map[string]RemoteSource
}

// NewRouter returns a router that falls back to base for every address
// without a registered remote.
func NewRouter(base Source) *Router {
	return &Router{base: base, remotes: make(map[string]RemoteSource)}
}

// Route registers remote for address. Matching is case-insensitive.
func (r *Router) Route(address string, remote RemoteSource) {
	r.remotes[strings.ToLower(address)] = remote
}

func (r *Router) pick(address model.EmailAddress) RemoteSource {
	if remote, ok := r.remotes[strings.ToLower(address.Address)]; ok {
		return remote
	}
	return r.base
}

// ListAddresses implements AddressSource.
func (r *Router) ListAddresses(ctx context.Context, account model.Account) ([]model.EmailAddress, error) {
	return r.base.ListAddresses(ctx, account)
}

// ListMailboxes implements MailboxSource.
func (r *Router) ListMailboxes(ctx context.Context, address model.EmailAddress) ([]model.Mailbox, error) {
	return r.pick(address).ListMailboxes(ctx, address)
}

// ListMessages implements MessageSource.
func (r *Router) ListMessages(ctx context.Context, address model.EmailAddress, mailboxID string) ([]model.Message, error) {
	return r.pick(address).ListMessages(ctx, address, mailboxID)
}
