// Package app is the root Bubble Tea model. It routes input to the
// focused view, turns workspace requests into commands, and feeds their
// completions back into the workspace on the UI goroutine.
package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	mailcompose "github.com/nhle/mailspace/internal/compose"
	"github.com/nhle/mailspace/internal/keys"
	"github.com/nhle/mailspace/internal/model"
	"github.com/nhle/mailspace/internal/sync"
	"github.com/nhle/mailspace/internal/theme"
	"github.com/nhle/mailspace/internal/ui"
	"github.com/nhle/mailspace/internal/ui/command"
	composeview "github.com/nhle/mailspace/internal/ui/compose"
	"github.com/nhle/mailspace/internal/ui/detail"
	helpview "github.com/nhle/mailspace/internal/ui/help"
	"github.com/nhle/mailspace/internal/ui/login"
	"github.com/nhle/mailspace/internal/ui/messagelist"
	"github.com/nhle/mailspace/internal/ui/sidebar"
	"github.com/nhle/mailspace/internal/workspace"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewMail
	ViewCompose
	ViewHelp
	ViewCommand
)

// Pane is a column of the mail view.
type Pane int

const (
	PaneSidebar Pane = iota
	PaneList
	PaneReader
	paneCount
)

// ReadMarker flags a message as read once it is opened.
type ReadMarker interface {
	MarkRead(ctx context.Context, owner, mailboxID, id string) error
}

// Options wires the collaborators of the root model.
type Options struct {
	Sender workspace.Sender
	Drafts workspace.DraftSaver
	Reader ReadMarker
	// Poller re-derives the open lists periodically when set.
	Poller *sync.Poller

	// Handle logs in without showing the form when set.
	Handle string
	Domain string
	Logger *slog.Logger
}

// completionMsg carries a finished workspace request back to Update.
type completionMsg struct {
	completion workspace.Completion
}

// showLoginMsg resets the login form from Update, where the form can be kept.
type showLoginMsg struct{}

// markedReadMsg reports that a message was flagged as read.
type markedReadMsg struct {
	err error
}

// Model is the root Bubble Tea model that manages view routing,
// layout, and the workspace.
type Model struct {
	currentView  ViewState
	previousView ViewState
	focus        Pane
	layout       ui.Layout
	ws           *workspace.Workspace
	opts         Options
	keys         *keys.KeyMap
	ctx          context.Context

	loginView   login.Model
	sidebar     sidebar.Model
	messageList messagelist.Model
	detail      detail.Model
	composeView composeview.Model
	helpView    helpview.Model
	commandView command.Model

	status string
	ready  bool
}

// New creates the root model around ws.
func New(ws *workspace.Workspace, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	k := keys.DefaultKeyMap()
	return Model{
		currentView: ViewLogin,
		focus:       PaneSidebar,
		ws:          ws,
		opts:        opts,
		keys:        k,
		ctx:         context.Background(),
		loginView:   login.New(opts.Domain, 80, 24),
		sidebar:     sidebar.New(k, 24, 22),
		messageList: messagelist.New(k, 36, 22),
		detail:      detail.New(k, 40, 22),
		composeView: composeview.New(k, 80, 22),
		helpView:    helpview.New(k, 80, 22),
		commandView: command.New(80, 22),
	}
}

// Init logs in with the configured handle or shows the login form, and
// starts the poller.
func (m Model) Init() tea.Cmd {
	var first tea.Cmd
	if m.opts.Handle != "" {
		handle := m.opts.Handle
		first = func() tea.Msg { return login.SubmittedMsg{Handle: handle} }
	} else {
		first = func() tea.Msg { return showLoginMsg{} }
	}
	if m.opts.Poller == nil {
		return first
	}
	return tea.Batch(first, m.opts.Poller.Start())
}

// run turns workspace requests into commands. Each runs off the UI
// goroutine and reports back as a completionMsg.
func (m Model) run(reqs []workspace.Request) tea.Cmd {
	if len(reqs) == 0 {
		return nil
	}
	ctx := m.ctx
	cmds := make([]tea.Cmd, 0, len(reqs))
	for _, req := range reqs {
		cmds = append(cmds, func() tea.Msg {
			return completionMsg{completion: req.Run(ctx)}
		})
	}
	return tea.Batch(cmds...)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m.updateActiveView(msg)

	case completionMsg:
		reqs := m.ws.Apply(msg.completion)
		m.sync()
		return m, m.run(reqs)

	case showLoginMsg:
		m.currentView = ViewLogin
		return m, m.loginView.Start()

	case sync.RefreshMsg:
		var wait tea.Cmd
		if m.opts.Poller != nil {
			wait = m.opts.Poller.Wait()
		}
		return m, tea.Batch(m.run(m.ws.Refresh()), wait)

	case markedReadMsg:
		if msg.err != nil {
			m.opts.Logger.Warn("marking message read", "error", msg.err)
			return m, nil
		}
		return m, m.run(m.ws.Refresh())

	case login.SubmittedMsg:
		reqs, err := m.ws.Login(msg.Handle)
		if err != nil {
			m.status = err.Error()
			return m, m.loginView.Start()
		}
		m.currentView = ViewMail
		m.focus = PaneSidebar
		m.status = ""
		m.sync()
		return m, m.run(reqs)

	case login.CancelMsg:
		return m, tea.Quit

	case sidebar.AddressChosenMsg:
		reqs, err := m.ws.SelectAddress(msg.ID)
		m.report(err)
		m.sync()
		return m, m.run(reqs)

	case sidebar.MailboxChosenMsg:
		reqs, err := m.ws.SelectMailbox(msg.ID)
		if m.report(err) {
			m.focus = PaneList
		}
		m.sync()
		return m, m.run(reqs)

	case messagelist.QueryChangedMsg:
		m.ws.SetQuery(msg.Query)
		m.sync()
		return m, nil

	case messagelist.SelectedMessageMsg:
		if !m.report(m.ws.SelectMessage(msg.MessageID)) {
			return m, nil
		}
		m.focus = PaneReader
		m.sync()
		return m, m.markRead()

	case detail.BackMsg:
		m.ws.ClearMessage()
		m.focus = PaneList
		m.sync()
		return m, nil

	case detail.ComposeMsg:
		if !m.report(m.ws.StartCompose(msg.Kind, "")) {
			return m, nil
		}
		return m, m.openCompose(mailcompose.Title(msg.Kind))

	case composeview.SendMsg:
		if m.opts.Sender == nil {
			m.status = "no transport configured"
			return m, nil
		}
		req, err := m.ws.Send(m.opts.Sender)
		if !m.report(err) {
			return m, nil
		}
		m.status = "Sending..."
		return m, m.run([]workspace.Request{req})

	case composeview.SaveMsg:
		if m.opts.Drafts == nil {
			m.status = "draft storage unavailable"
			return m, nil
		}
		req, err := m.ws.SaveDraft(m.opts.Drafts)
		if !m.report(err) {
			return m, nil
		}
		return m, m.run([]workspace.Request{req})

	case composeview.DiscardMsg:
		m.ws.DiscardDraft()
		m.currentView = ViewMail
		m.sync()
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m.executeCommand(string(msg))

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.currentView == ViewMail && !m.messageList.Searching() {
			if next, cmd, ok := m.handleMailKeys(msg); ok {
				return next, cmd
			}
		}
		if m.currentView == ViewHelp && (key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Back)) {
			m.currentView = m.previousView
			return m, nil
		}
		if m.currentView == ViewCommand && key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			return m, nil
		}
	}

	return m.updateActiveView(msg)
}

// handleMailKeys processes global keys of the mail view. ok is false when
// the key belongs to the focused pane.
func (m Model) handleMailKeys(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit, true
	case key.Matches(msg, m.keys.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true
	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m, m.commandView.Focus(), true
	case key.Matches(msg, m.keys.Refresh):
		return m, m.run(m.ws.Refresh()), true
	case key.Matches(msg, m.keys.New):
		m.ws.NewDraft()
		return m, m.openCompose(mailcompose.Title("")), true
	case key.Matches(msg, m.keys.NextPane):
		m.focus = (m.focus + 1) % paneCount
		return m, nil, true
	case key.Matches(msg, m.keys.PrevPane):
		m.focus = (m.focus + paneCount - 1) % paneCount
		return m, nil, true
	}
	return m, nil, false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewMail:
		switch m.focus {
		case PaneSidebar:
			m.sidebar, cmd = m.sidebar.Update(msg)
		case PaneList:
			m.messageList, cmd = m.messageList.Update(msg)
		case PaneReader:
			m.detail, cmd = m.detail.Update(msg)
		}
	case ViewCompose:
		m.composeView, cmd = m.composeView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// executeCommand handles a command string from the command palette.
func (m Model) executeCommand(cmd string) (Model, tea.Cmd) {
	switch cmd {
	case "refresh", "sync":
		return m, m.run(m.ws.Refresh())
	case "new", "compose":
		m.ws.NewDraft()
		return m, m.openCompose(mailcompose.Title(""))
	case "logout":
		m.ws.Logout()
		m.currentView = ViewLogin
		m.sync()
		return m, m.loginView.Start()
	case "quit", "q":
		return m, tea.Quit
	default:
		m.status = "unknown command: " + cmd
		return m, nil
	}
}

func (m *Model) openCompose(title string) tea.Cmd {
	m.currentView = ViewCompose
	m.status = ""
	return m.composeView.Start(m.ws.Editor(), title)
}

// markRead flags the selected message as read when it was unread.
func (m Model) markRead() tea.Cmd {
	vm := m.ws.View()
	if m.opts.Reader == nil || vm.SelectedMessage == nil || vm.SelectedMessage.IsRead || vm.SelectedAddress == nil {
		return nil
	}
	reader, ctx := m.opts.Reader, m.ctx
	owner, mailbox, id := vm.SelectedAddress.Address, vm.Selection.MailboxID, vm.SelectedMessage.ID
	return func() tea.Msg {
		return markedReadMsg{err: reader.MarkRead(ctx, owner, mailbox, id)}
	}
}

// report shows err in the status bar and reports whether there was none.
func (m *Model) report(err error) bool {
	if err == nil {
		return true
	}
	m.status = err.Error()
	m.opts.Logger.Debug("action rejected", "error", err)
	return false
}

// sync pushes the workspace snapshot into the views.
func (m *Model) sync() {
	vm := m.ws.View()

	m.sidebar.SetData(vm.Addresses, vm.Mailboxes, vm.Selection.AddressID, vm.Selection.MailboxID,
		vm.LoadingAddresses || vm.LoadingMailboxes)

	title := ""
	if vm.SelectedMailbox != nil {
		title = vm.SelectedMailbox.Name
	}
	m.messageList.SetMessages(title, vm.Messages, vm.MailboxSize, vm.LoadingMessages)
	m.detail.SetMessage(vm.SelectedMessage)

	if m.currentView == ViewCompose && vm.Draft == nil {
		m.currentView = ViewMail
	}

	switch {
	case vm.Err != nil:
		m.status = vm.Err.Error()
	case vm.Notice != "":
		m.status = vm.Notice
	case m.status == "Sending...":
		m.status = ""
	}
}

func (m *Model) resize(width, height int) {
	m.layout = ui.NewLayout(width, height)
	m.ready = true

	contentWidth := m.layout.ContentWidth()
	contentHeight := m.layout.ContentHeight()

	w, h := m.layout.PanelInner(m.layout.SidebarWidth())
	m.sidebar.SetSize(w, h)
	w, h = m.layout.PanelInner(m.layout.ListWidth())
	m.messageList.SetSize(w, h)
	w, h = m.layout.PanelInner(m.layout.ReaderWidth())
	m.detail.SetSize(w, h)

	m.loginView.SetSize(contentWidth, contentHeight)
	m.composeView.SetSize(contentWidth, contentHeight)
	m.helpView.SetSize(contentWidth, contentHeight)
	m.commandView.SetSize(contentWidth, contentHeight)
}

// CurrentView returns the active view.
func (m Model) CurrentView() ViewState {
	return m.currentView
}

// Focus returns the focused pane of the mail view.
func (m Model) Focus() Pane {
	return m.focus
}

// Status returns the status bar text.
func (m Model) Status() string {
	return m.status
}

var _ tea.Model = Model{}

// View renders the full application UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	vm := m.ws.View()
	header := m.layout.RenderHeader("mailspace", headerAccount(vm.Account, vm.SelectedAddress))

	var content string
	switch m.currentView {
	case ViewLogin:
		content = m.loginView.View()
	case ViewMail:
		content = m.layout.RenderColumns(int(m.focus),
			m.sidebar.View(), m.messageList.View(), m.detail.View())
	case ViewCompose:
		content = m.composeView.View()
	case ViewHelp:
		content = m.helpView.View()
	case ViewCommand:
		content = m.commandView.View()
	}

	return m.layout.RenderWithFrame(header, content, m.layout.RenderStatusBar(m.statusLine(vm)))
}

func (m Model) statusLine(vm workspace.ViewModel) string {
	if vm.Err != nil {
		return theme.ErrorStyle.Render(vm.Err.Error())
	}
	if m.status != "" {
		return m.status
	}
	switch m.currentView {
	case ViewLogin:
		return "enter: sign in • esc: quit"
	case ViewCompose:
		return "ctrl+s: send • ctrl+d: save draft • esc: discard"
	}
	hints := []string{"tab: pane", "enter: open", "/: search", "n: new", "R: refresh", "?: help", "q: quit"}
	if m.focus == PaneReader {
		hints = []string{"r: reply", "a: reply all", "f: forward", "esc: back", "?: help"}
	}
	return strings.Join(hints, " • ")
}

// headerAccount describes the session for the header bar.
func headerAccount(acct *model.Account, addr *model.EmailAddress) string {
	switch {
	case acct == nil:
		return "signed out"
	case addr != nil:
		return acct.Handle + " · " + addr.Address
	default:
		return acct.Handle
	}
}
