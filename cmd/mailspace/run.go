package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/mailspace/internal/app"
	"github.com/nhle/mailspace/internal/credential"
	"github.com/nhle/mailspace/internal/directory"
	"github.com/nhle/mailspace/internal/model"
	"github.com/nhle/mailspace/internal/source/email"
	"github.com/nhle/mailspace/internal/store"
	"github.com/nhle/mailspace/internal/sync"
	"github.com/nhle/mailspace/internal/transport"
	"github.com/nhle/mailspace/internal/workspace"
)

// session is everything a command needs to talk to the workspace.
type session struct {
	ws     *workspace.Workspace
	store  *store.SQLiteStore
	mailer *transport.Mailer
	logger *slog.Logger
	close  func()
}

// openSession wires the store, the optional IMAP and SMTP servers and the
// workspace from cfg.
func openSession(cfg *model.AppConfig) (*session, error) {
	logger, closeLog, err := openLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	seed := directory.NewFixture(cfg.Account.Domain, cfg.Workspace.CustomMailboxes, time.Now())
	st, err := store.NewSQLiteStore(cfg.Store.Path, store.WithSeed(seed))
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("opening store: %w", err)
	}

	var creds *credential.Store
	if cfg.IMAP.Enabled() || cfg.SMTP.Enabled() {
		creds, err = credential.Open()
		if err != nil {
			st.Close()
			closeLog()
			return nil, err
		}
	}

	router := directory.NewRouter(st)
	if cfg.IMAP.Enabled() {
		client := email.NewClient(cfg.IMAP, creds.Lookup(credential.KeyIMAP), cfg.Workspace.MessageLimit, logger)
		router.Route(cfg.IMAP.Address, client)
		logger.Info("imap routed", "address", cfg.IMAP.Address, "host", cfg.IMAP.Host)
	}

	var remote transport.Sender
	if cfg.SMTP.Enabled() {
		remote = transport.NewSMTPSender(cfg.SMTP, creds.Lookup(credential.KeySMTP))
		logger.Info("smtp enabled", "host", cfg.SMTP.Host)
	}

	ws := workspace.New(router, workspace.WithLogger(logger))
	return &session{
		ws:     ws,
		store:  st,
		mailer: transport.NewMailer(remote, st, logger),
		logger: logger,
		close: func() {
			st.Close()
			closeLog()
		},
	}, nil
}

func runWorkspace(ctx context.Context, cfg *model.AppConfig) error {
	s, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer s.close()

	var poller *sync.Poller
	if secs := cfg.Workspace.RefreshIntervalSec; secs > 0 {
		poller = sync.New(time.Duration(secs) * time.Second)
		defer poller.Stop()
	}

	m := app.New(s.ws, app.Options{
		Sender: s.mailer,
		Drafts: s.store,
		Reader: s.store,
		Poller: poller,
		Handle: cfg.Account.Handle,
		Domain: cfg.Account.Domain,
		Logger: s.logger,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running workspace: %w", err)
	}
	return nil
}
