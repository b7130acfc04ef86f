// Package transport sends drafts. SMTPSender delivers through a mail
// server and Mailer files what was sent into the local store.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"github.com/nhle/mailspace/internal/model"
	"github.com/nhle/mailspace/internal/source"
)

// SMTPSender delivers drafts to an SMTP server. TLS selects an implicit
// TLS connection; otherwise STARTTLS is used when the server offers it.
type SMTPSender struct {
	cfg      model.SMTPConfig
	password source.PasswordFunc
	now      func() time.Time
}

// NewSMTPSender returns a sender for cfg. password may be nil for servers
// that accept mail without authentication.
func NewSMTPSender(cfg model.SMTPConfig, password source.PasswordFunc) *SMTPSender {
	return &SMTPSender{cfg: cfg, password: password, now: time.Now}
}

// Send implements workspace.Sender. The envelope includes Bcc recipients;
// the headers do not.
func (s *SMTPSender) Send(ctx context.Context, from model.EmailAddress, d model.Draft) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := BuildMessage(from, d, s.now())
	if err != nil {
		return err
	}

	var auth sasl.Client
	if s.cfg.Username != "" && s.password != nil {
		pw, err := s.password()
		if err != nil {
			return fmt.Errorf("reading SMTP password: %w", err)
		}
		auth = sasl.NewPlainClient("", s.cfg.Username, pw)
	}

	rcpts := make([]string, 0, len(d.To)+len(d.CC)+len(d.BCC))
	rcpts = append(rcpts, d.To...)
	rcpts = append(rcpts, d.CC...)
	rcpts = append(rcpts, d.BCC...)

	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	send := smtp.SendMail
	if s.cfg.TLS {
		send = smtp.SendMailTLS
	}
	if err := send(addr, auth, from.Address, rcpts, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("sending via %s: %w", addr, err)
	}
	return nil
}

// BuildMessage renders d as a plain-text RFC 5322 message from from.
func BuildMessage(from model.EmailAddress, d model.Draft, at time.Time) ([]byte, error) {
	var h mail.Header
	h.SetDate(at)
	h.SetSubject(d.Subject)
	h.SetAddressList("From", []*mail.Address{{Name: from.DisplayName, Address: from.Address}})
	h.SetAddressList("To", addressList(d.To))
	if len(d.CC) > 0 {
		h.SetAddressList("Cc", addressList(d.CC))
	}
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("generating message id: %w", err)
	}

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("creating message writer: %w", err)
	}
	if _, err := io.WriteString(w, d.Body); err != nil {
		return nil, fmt.Errorf("writing message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing message writer: %w", err)
	}
	return buf.Bytes(), nil
}

func addressList(list []string) []*mail.Address {
	out := make([]*mail.Address, 0, len(list))
	for _, s := range list {
		if a, err := mail.ParseAddress(s); err == nil {
			out = append(out, a)
			continue
		}
		out = append(out, &mail.Address{Address: s})
	}
	return out
}
