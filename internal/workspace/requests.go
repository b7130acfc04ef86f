package workspace

import (
	"context"

	"github.com/nhle/mailspace/internal/derive"
	"github.com/nhle/mailspace/internal/directory"
	"github.com/nhle/mailspace/internal/editor"
	"github.com/nhle/mailspace/internal/model"
)

type addressRequest struct {
	req derive.Request[directory.AccountKey, model.EmailAddress]
}

func (r addressRequest) Run(ctx context.Context) Completion {
	return addressCompletion{r.req.Run(ctx)}
}

type addressCompletion struct {
	res derive.Result[directory.AccountKey, model.EmailAddress]
}

func (c addressCompletion) apply(w *Workspace) []Request {
	outcome := w.addresses.Accept(c.res)
	if !w.settled("addresses", outcome, c.res.Err, "handle", c.res.Ticket.Key.Handle) {
		return nil
	}
	return w.follow(w.sel.AddressesDerived())
}

type mailboxRequest struct {
	req derive.Request[model.EmailAddress, model.Mailbox]
}

func (r mailboxRequest) Run(ctx context.Context) Completion {
	return mailboxCompletion{r.req.Run(ctx)}
}

type mailboxCompletion struct {
	res derive.Result[model.EmailAddress, model.Mailbox]
}

func (c mailboxCompletion) apply(w *Workspace) []Request {
	outcome := w.mailboxes.Accept(c.res)
	if !w.settled("mailboxes", outcome, c.res.Err, "address", c.res.Ticket.Key.Address) {
		return nil
	}
	return w.follow(w.sel.MailboxesDerived(c.res.Ticket.Key.ID))
}

type messageRequest struct {
	req derive.Request[directory.MessageKey, model.Message]
}

func (r messageRequest) Run(ctx context.Context) Completion {
	return messageCompletion{r.req.Run(ctx)}
}

type messageCompletion struct {
	res derive.Result[directory.MessageKey, model.Message]
}

func (c messageCompletion) apply(w *Workspace) []Request {
	outcome := w.messages.Accept(c.res)
	key := c.res.Ticket.Key
	if !w.settled("messages", outcome, c.res.Err, "address", key.Address.Address, "mailbox", key.MailboxID) {
		return nil
	}
	return w.follow(w.sel.MessagesDerived(key.Address.ID, key.MailboxID))
}

// settled logs the outcome of a derivation and reports whether it was
// applied.
func (w *Workspace) settled(what string, outcome derive.Outcome, err error, attrs ...any) bool {
	switch outcome {
	case derive.Stale:
		w.logger.Debug("discarding stale "+what, attrs...)
		return false
	case derive.Failed:
		w.err = err
		w.logger.Warn("deriving "+what, append(attrs, "error", err)...)
		return false
	}
	w.err = nil
	return true
}

type sendRequest struct {
	sender Sender
	from   model.EmailAddress
	draft  model.Draft
	editor *editor.Editor
}

func (r sendRequest) Run(ctx context.Context) Completion {
	return sendCompletion{editor: r.editor, from: r.from, err: r.sender.Send(ctx, r.from, r.draft)}
}

type sendCompletion struct {
	editor *editor.Editor
	from   model.EmailAddress
	err    error
}

func (c sendCompletion) apply(w *Workspace) []Request {
	if c.err != nil {
		w.err = c.err
		w.logger.Warn("sending draft", "from", c.from.Address, "error", c.err)
		return nil
	}
	w.logger.Info("draft sent", "from", c.from.Address)
	w.err = nil
	w.notice = "Message sent"
	if w.editor == c.editor {
		w.editor = nil
	}
	return w.Refresh()
}

type saveRequest struct {
	saver  DraftSaver
	owner  model.EmailAddress
	draft  model.Draft
	editor *editor.Editor
}

func (r saveRequest) Run(ctx context.Context) Completion {
	id, err := r.saver.SaveDraft(ctx, r.owner, r.draft)
	return saveCompletion{editor: r.editor, id: id, err: err}
}

type saveCompletion struct {
	editor *editor.Editor
	id     string
	err    error
}

func (c saveCompletion) apply(w *Workspace) []Request {
	if c.err != nil {
		w.err = c.err
		w.logger.Warn("saving draft", "error", c.err)
		return nil
	}
	w.err = nil
	w.notice = "Draft saved"
	if w.editor == c.editor && c.editor != nil {
		c.editor.SetID(c.id)
	}
	w.logger.Debug("draft saved", "id", c.id)
	return nil
}

// lists exposes the derivations to the selection controller. A list is
// only ready when it was derived for exactly the key asked about.
type lists struct{ w *Workspace }

func (l lists) AddressIDs() ([]string, bool) {
	d := l.w.addresses
	key, ok := d.Key()
	if !ok || !d.Ready() || key != directory.KeyForAccount(l.w.account) {
		return nil, false
	}
	items := d.Items()
	ids := make([]string, 0, len(items))
	for _, a := range items {
		ids = append(ids, a.ID)
	}
	return ids, true
}

func (l lists) MailboxIDs(addressID string) ([]string, bool) {
	d := l.w.mailboxes
	key, ok := d.Key()
	if !ok || !d.Ready() || key.ID != addressID {
		return nil, false
	}
	items := d.Items()
	ids := make([]string, 0, len(items))
	for _, mb := range items {
		ids = append(ids, mb.ID)
	}
	return ids, true
}

func (l lists) MessageIDs(addressID, mailboxID string) ([]string, bool) {
	d := l.w.messages
	key, ok := d.Key()
	if !ok || !d.Ready() || key.Address.ID != addressID || key.MailboxID != mailboxID {
		return nil, false
	}
	items := d.Items()
	ids := make([]string, 0, len(items))
	for _, m := range items {
		ids = append(ids, m.ID)
	}
	return ids, true
}
