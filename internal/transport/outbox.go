package transport

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nhle/mailspace/internal/model"
)

// SentStore files sent drafts into a sent mailbox.
type SentStore interface {
	AppendSent(ctx context.Context, from model.EmailAddress, d model.Draft, at time.Time) (model.Message, error)
}

// Sender delivers a draft from an address.
type Sender interface {
	Send(ctx context.Context, from model.EmailAddress, d model.Draft) error
}

// Mailer delivers through an optional remote sender and then files the
// message into the local sent mailbox, so the Sent folder re-derives
// with it.
type Mailer struct {
	remote Sender
	sent   SentStore
	logger *slog.Logger
	now    func() time.Time
}

// NewMailer returns a mailer. A nil remote only files locally.
func NewMailer(remote Sender, sent SentStore, logger *slog.Logger) *Mailer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Mailer{remote: remote, sent: sent, logger: logger, now: time.Now}
}

// Send implements workspace.Sender. A remote failure is returned and
// nothing is filed.
func (m *Mailer) Send(ctx context.Context, from model.EmailAddress, d model.Draft) error {
	if m.remote != nil {
		if err := m.remote.Send(ctx, from, d); err != nil {
			return err
		}
		m.logger.Info("delivered via smtp", "from", from.Address, "to", len(d.To)+len(d.CC)+len(d.BCC))
	}
	msg, err := m.sent.AppendSent(ctx, from, d, m.now())
	if err != nil {
		return fmt.Errorf("filing sent message: %w", err)
	}
	m.logger.Debug("filed sent message", "id", msg.ID, "owner", from.Address)
	return nil
}
