package email

import (
	"bytes"
	"io"
	"strings"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-message/mail"

	"github.com/nhle/mailspace/internal/model"
)

// folder pairs a server mailbox name with the mailbox it derives.
type folder struct {
	name    string
	mailbox model.Mailbox
}

// folderFromList maps a LIST entry. Non-selectable entries are skipped,
// as are \Flagged and \All folders, which would duplicate mail that
// Starred and Inbox already show.
func folderFromList(ld *imap.ListData) (folder, bool) {
	if ld == nil || ld.Mailbox == "" {
		return folder{}, false
	}

	kind := model.MailboxCustom
	if strings.EqualFold(ld.Mailbox, inboxName) {
		kind = model.MailboxInbox
	}
	for _, attr := range ld.Attrs {
		switch attr {
		case imap.MailboxAttrNoSelect, imap.MailboxAttrNonExistent,
			imap.MailboxAttrFlagged, imap.MailboxAttrAll:
			return folder{}, false
		case imap.MailboxAttrSent:
			kind = model.MailboxSent
		case imap.MailboxAttrArchive:
			kind = model.MailboxArchive
		case imap.MailboxAttrTrash:
			kind = model.MailboxTrash
		}
	}

	if kind == model.MailboxCustom {
		kind = kindByName(ld.Mailbox, ld.Delim)
	}

	mb := model.Mailbox{ID: ld.Mailbox, Name: ld.Mailbox, Kind: kind}
	if kind != model.MailboxCustom {
		mb.ID = string(kind)
		mb.Name = kind.DisplayName()
	}
	return folder{name: ld.Mailbox, mailbox: mb}, true
}

// nameFallbacks maps common folder names of servers without special-use
// attributes.
var nameFallbacks = map[string]model.MailboxKind{
	"sent":          model.MailboxSent,
	"sent items":    model.MailboxSent,
	"sent mail":     model.MailboxSent,
	"sent messages": model.MailboxSent,
	"archive":       model.MailboxArchive,
	"archives":      model.MailboxArchive,
	"trash":         model.MailboxTrash,
	"deleted items": model.MailboxTrash,
	"deleted":       model.MailboxTrash,
}

func kindByName(name string, delim rune) model.MailboxKind {
	leaf := name
	if delim != 0 {
		if i := strings.LastIndex(name, string(delim)); i >= 0 {
			leaf = name[i+len(string(delim)):]
		}
	}
	if k, ok := nameFallbacks[strings.ToLower(leaf)]; ok {
		return k
	}
	return model.MailboxCustom
}

// resolve returns the server name behind a mailbox id.
func resolve(folders []folder, mailboxID string) (string, bool) {
	for _, f := range folders {
		if f.mailbox.ID == mailboxID {
			return f.name, true
		}
	}
	return "", false
}

func withStatus(mb model.Mailbox, st *imap.StatusData) model.Mailbox {
	if st == nil {
		return mb
	}
	if st.NumMessages != nil {
		mb.TotalCount = int(*st.NumMessages)
	}
	if st.NumUnseen != nil {
		mb.UnreadCount = int(*st.NumUnseen)
	}
	return mb
}

// buildMessage assembles a message from fetched envelope, flags and the
// raw RFC 5322 body.
func buildMessage(id string, flags []imap.Flag, env *imap.Envelope, raw []byte) model.Message {
	m := model.Message{ID: id}
	if env != nil {
		m.Subject = env.Subject
		m.Timestamp = env.Date
		if len(env.From) > 0 {
			from := env.From[0]
			m.SenderAddress = from.Addr()
			m.Sender = from.Name
			if m.Sender == "" {
				m.Sender = from.Addr()
			}
		}
		m.Recipients = addrs(env.To)
		m.CC = addrs(env.Cc)
	}
	for _, f := range flags {
		switch f {
		case imap.FlagSeen:
			m.IsRead = true
		case imap.FlagFlagged:
			m.IsStarred = true
		}
	}
	if raw != nil {
		m.Body, m.HasAttachment = parseBody(raw)
	}
	return m
}

func addrs(list []imap.Address) []string {
	if len(list) == 0 {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.Addr())
	}
	return out
}

// parseBody extracts the text/plain part of a message, falling back to
// text/html, and reports whether any attachment part is present.
func parseBody(raw []byte) (body string, hasAttachment bool) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return string(raw), false
	}
	defer mr.Close()

	var text, html string
	for {
		part, err := mr.NextPart()
		if err != nil {
			break
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ := h.ContentType()
			b, readErr := io.ReadAll(part.Body)
			if readErr != nil {
				continue
			}
			switch {
			case strings.HasPrefix(contentType, "text/plain") && text == "":
				text = string(b)
			case strings.HasPrefix(contentType, "text/html") && html == "":
				html = string(b)
			}
		case *mail.AttachmentHeader:
			hasAttachment = true
		}
	}

	if text == "" {
		text = html
	}
	return strings.TrimRight(text, "\r\n"), hasAttachment
}
