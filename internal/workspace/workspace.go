// Package workspace is the state core of the mail client. It owns the
// account session, the three directory derivations, the selection
// controller, the search query and the draft being composed, and hands
// the rendering layer read-only snapshots.
//
// Anything that may block is returned as a Request. The caller runs it
// wherever it likes and feeds the Completion back through Apply on the
// goroutine that owns the Workspace; results that lost a race are dropped
// there.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/mailspace/internal/compose"
	"github.com/nhle/mailspace/internal/directory"
	"github.com/nhle/mailspace/internal/editor"
	"github.com/nhle/mailspace/internal/model"
	"github.com/nhle/mailspace/internal/search"
	"github.com/nhle/mailspace/internal/selection"
)

var (
	// ErrNoMessage is returned when composing a reply without a selected message.
	ErrNoMessage = errors.New("no message selected")
	// ErrNoDraft is returned by draft operations when nothing is being composed.
	ErrNoDraft = errors.New("no draft in progress")
	// ErrNoSender is returned when sending without any address to send from.
	ErrNoSender = errors.New("no address to send from")
	// ErrEmptyHandle is returned by Login for a blank handle.
	ErrEmptyHandle = errors.New("account handle is empty")
)

// Sender delivers a draft. It is the transport collaborator.
type Sender interface {
	Send(ctx context.Context, from model.EmailAddress, d model.Draft) error
}

// DraftSaver stores a draft and returns its id.
type DraftSaver interface {
	SaveDraft(ctx context.Context, owner model.EmailAddress, d model.Draft) (string, error)
}

// Request is a pending asynchronous step.
type Request interface {
	Run(ctx context.Context) Completion
}

// Completion is the outcome of a Request, applied with Workspace.Apply.
type Completion interface {
	apply(w *Workspace) []Request
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(w *Workspace) { w.logger = l }
}

// WithClock sets the clock used for account creation times.
func WithClock(now func() time.Time) Option {
	return func(w *Workspace) { w.now = now }
}

// Workspace is not safe for concurrent use.
type Workspace struct {
	addresses *directory.Addresses
	mailboxes *directory.Mailboxes
	messages  *directory.Messages
	sel       *selection.Controller

	account *model.Account
	query   string
	editor  *editor.Editor
	err     error
	notice  string

	logger *slog.Logger
	now    func() time.Time
}

// New returns a logged-out workspace backed by src.
func New(src directory.Source, opts ...Option) *Workspace {
	w := &Workspace{
		addresses: directory.NewAddresses(src),
		mailboxes: directory.NewMailboxes(src),
		messages:  directory.NewMessages(src),
		logger:    slog.New(slog.DiscardHandler),
		now:       time.Now,
	}
	w.sel = selection.New(lists{w})
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Login starts a session for handle and returns the address derivation.
func (w *Workspace) Login(handle string) ([]Request, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, ErrEmptyHandle
	}
	w.reset()
	w.account = &model.Account{ID: uuid.New().String(), Handle: handle, CreatedAt: w.now()}
	w.logger.Info("login", "handle", handle, "account", w.account.ID)
	return []Request{w.issueAddresses()}, nil
}

// Logout ends the session. Every derived list empties and outstanding
// requests become stale.
func (w *Workspace) Logout() {
	if w.account != nil {
		w.logger.Info("logout", "handle", w.account.Handle)
	}
	w.reset()
	w.account = nil
}

func (w *Workspace) reset() {
	w.sel.Reset()
	w.addresses.Clear()
	w.mailboxes.Clear()
	w.messages.Clear()
	w.query = ""
	w.editor = nil
	w.err = nil
	w.notice = ""
}

// Account returns the logged-in account, if any.
func (w *Workspace) Account() (model.Account, bool) {
	if w.account == nil {
		return model.Account{}, false
	}
	return *w.account, true
}

// SelectAddress selects an address and returns the derivations its
// new cascade needs.
func (w *Workspace) SelectAddress(id string) ([]Request, error) {
	change, err := w.sel.SelectAddress(id)
	if err != nil {
		return nil, err
	}
	return w.follow(change), nil
}

// SelectMailbox selects a folder of the current address.
func (w *Workspace) SelectMailbox(id string) ([]Request, error) {
	change, err := w.sel.SelectMailbox(id)
	if err != nil {
		return nil, err
	}
	return w.follow(change), nil
}

// SelectMessage selects a message of the current list.
func (w *Workspace) SelectMessage(id string) error {
	_, err := w.sel.SelectMessage(id)
	return err
}

// ClearMessage returns from the detail view to the list.
func (w *Workspace) ClearMessage() {
	w.sel.ClearMessage()
}

// SetQuery sets the search query applied to the message list.
func (w *Workspace) SetQuery(q string) {
	w.query = q
}

// Query returns the search query.
func (w *Workspace) Query() string {
	return w.query
}

// Refresh re-derives every live list.
func (w *Workspace) Refresh() []Request {
	var reqs []Request
	if w.account != nil {
		reqs = append(reqs, w.issueAddresses())
	}
	sel := w.sel.Selection()
	if addr, ok := w.address(sel.AddressID); ok {
		reqs = append(reqs, w.issueMailboxes(addr))
		if sel.MailboxID != "" {
			reqs = append(reqs, w.issueMessages(addr, sel.MailboxID))
		}
	}
	return reqs
}

// Apply folds a completion into the workspace and returns any follow-up
// derivations it triggers.
func (w *Workspace) Apply(c Completion) []Request {
	if c == nil {
		return nil
	}
	return c.apply(w)
}

// Settle runs reqs and everything they trigger to completion on the
// calling goroutine.
func (w *Workspace) Settle(ctx context.Context, reqs []Request) {
	for len(reqs) > 0 {
		next := reqs[0]
		reqs = append(reqs[1:], w.Apply(next.Run(ctx))...)
	}
}

// follow issues the derivations a selection change invalidated.
func (w *Workspace) follow(change selection.Change) []Request {
	var reqs []Request
	sel := w.sel.Selection()
	addr, hasAddr := w.address(sel.AddressID)

	if change.Address {
		if hasAddr {
			reqs = append(reqs, w.issueMailboxes(addr))
		} else {
			w.mailboxes.Clear()
		}
	}
	if change.Address || change.Mailbox {
		if hasAddr && sel.MailboxID != "" {
			reqs = append(reqs, w.issueMessages(addr, sel.MailboxID))
		} else {
			w.messages.Clear()
		}
	}
	return reqs
}

func (w *Workspace) address(id string) (model.EmailAddress, bool) {
	if id == "" {
		return model.EmailAddress{}, false
	}
	for _, a := range w.addresses.Items() {
		if a.ID == id {
			return a, true
		}
	}
	return model.EmailAddress{}, false
}

func (w *Workspace) issueAddresses() Request {
	return addressRequest{w.addresses.Issue(directory.KeyForAccount(w.account))}
}

func (w *Workspace) issueMailboxes(addr model.EmailAddress) Request {
	return mailboxRequest{w.mailboxes.Issue(addr)}
}

func (w *Workspace) issueMessages(addr model.EmailAddress, mailboxID string) Request {
	return messageRequest{w.messages.Issue(directory.MessageKey{Address: addr, MailboxID: mailboxID})}
}

// StartCompose begins a reply, reply-all or forward of the selected
// message. A non-empty excerpt is quoted instead of the whole body.
func (w *Workspace) StartCompose(kind model.ActionKind, excerpt string) error {
	msg, ok := w.selectedMessage()
	if !ok {
		return ErrNoMessage
	}
	d, err := compose.BuildDraft(msg, kind, excerpt)
	if err != nil {
		return fmt.Errorf("starting %s: %w", kind, err)
	}
	w.editor = editor.New(d)
	w.notice = ""
	return nil
}

// NewDraft begins a blank message.
func (w *Workspace) NewDraft() {
	w.editor = editor.New(model.Draft{To: []string{}})
	w.notice = ""
}

// Editor returns the draft editor, or nil when nothing is being composed.
func (w *Workspace) Editor() *editor.Editor {
	return w.editor
}

// DiscardDraft leaves compose without sending.
func (w *Workspace) DiscardDraft() {
	w.editor = nil
}

// Send validates the draft and returns the request that delivers it
// through s. The draft is discarded once delivery succeeds.
func (w *Workspace) Send(s Sender) (Request, error) {
	if w.editor == nil {
		return nil, ErrNoDraft
	}
	d := w.editor.Draft()
	if err := compose.ValidateForSend(d); err != nil {
		return nil, err
	}
	from, ok := w.sendingAddress()
	if !ok {
		return nil, ErrNoSender
	}
	return sendRequest{sender: s, from: from, draft: d, editor: w.editor}, nil
}

// SaveDraft returns the request that stores the draft through s.
func (w *Workspace) SaveDraft(s DraftSaver) (Request, error) {
	if w.editor == nil {
		return nil, ErrNoDraft
	}
	owner, ok := w.sendingAddress()
	if !ok {
		return nil, ErrNoSender
	}
	return saveRequest{saver: s, owner: owner, draft: w.editor.Draft(), editor: w.editor}, nil
}

func (w *Workspace) sendingAddress() (model.EmailAddress, bool) {
	if addr, ok := w.address(w.sel.Selection().AddressID); ok {
		return addr, true
	}
	if list := w.addresses.Items(); len(list) > 0 {
		return list[0], true
	}
	return model.EmailAddress{}, false
}

func (w *Workspace) selectedMessage() (model.Message, bool) {
	id := w.sel.Selection().MessageID
	if id == "" {
		return model.Message{}, false
	}
	for _, m := range w.messages.Items() {
		if m.ID == id {
			return m, true
		}
	}
	return model.Message{}, false
}

// ViewModel is a read-only snapshot for rendering. Slices are copies.
type ViewModel struct {
	Account   *model.Account
	Addresses []model.EmailAddress
	Mailboxes []model.Mailbox
	// Messages is the selected mailbox filtered by Query.
	Messages []model.Message
	// MailboxSize is the unfiltered length of the selected mailbox.
	MailboxSize int

	Selection       selection.Selection
	SelectedAddress *model.EmailAddress
	SelectedMailbox *model.Mailbox
	SelectedMessage *model.Message

	Query string
	Draft *model.Draft

	LoadingAddresses bool
	LoadingMailboxes bool
	LoadingMessages  bool

	Err    error
	Notice string
}

// View returns the current snapshot.
func (w *Workspace) View() ViewModel {
	sel := w.sel.Selection()
	all := w.messages.Items()
	vm := ViewModel{
		Addresses:        w.addresses.Items(),
		Mailboxes:        w.mailboxes.Items(),
		Messages:         search.Filter(all, w.query),
		MailboxSize:      len(all),
		Selection:        sel,
		Query:            w.query,
		LoadingAddresses: w.addresses.Pending(),
		LoadingMailboxes: w.mailboxes.Pending(),
		LoadingMessages:  w.messages.Pending(),
		Err:              w.err,
		Notice:           w.notice,
	}
	if w.account != nil {
		acct := *w.account
		vm.Account = &acct
	}
	if addr, ok := w.address(sel.AddressID); ok {
		vm.SelectedAddress = &addr
	}
	for _, mb := range vm.Mailboxes {
		if mb.ID == sel.MailboxID {
			mb := mb
			vm.SelectedMailbox = &mb
			break
		}
	}
	if msg, ok := w.selectedMessage(); ok {
		vm.SelectedMessage = &msg
	}
	if w.editor != nil {
		d := w.editor.Draft()
		vm.Draft = &d
	}
	return vm
}
