// Package compose turns an original message and a compose action into a
// pre-filled draft.
package compose

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"

	"github.com/nhle/mailspace/internal/model"
)

var (
	// ErrInvalidActionKind is returned for an action other than reply,
	// replyAll or forward.
	ErrInvalidActionKind = errors.New("invalid action kind")
	// ErrNoRecipients is returned when a draft has nothing in To.
	ErrNoRecipients = errors.New("draft has no recipients")
	// ErrNoSubject is returned when a draft has a blank subject.
	ErrNoSubject = errors.New("draft has no subject")
)

const (
	replyPrefix   = "Re: "
	forwardPrefix = "Fwd: "

	// Divider separates the new content area from the quoted message.
	Divider = "------- Original Message -------"

	// DateLayout formats the original timestamp in the attribution block.
	DateLayout = time.RFC1123Z
)

// BuildDraft returns the draft for replying to, replying to all of, or
// forwarding original. A non-empty excerpt is quoted instead of the full
// body.
func BuildDraft(original model.Message, kind model.ActionKind, excerpt string) (model.Draft, error) {
	if !kind.Valid() {
		return model.Draft{}, fmt.Errorf("%w: %q", ErrInvalidActionKind, string(kind))
	}

	draft := model.Draft{
		Subject:        Subject(original.Subject, kind),
		Body:           Attribution(original, excerpt),
		OriginalSender: original.SenderAddress,
		ActionKind:     kind,
	}

	switch kind {
	case model.ActionReply:
		draft.To = []string{original.SenderAddress}
	case model.ActionReplyAll:
		draft.To = []string{original.SenderAddress}
		if len(original.CC) > 0 {
			draft.CC = append([]string(nil), original.CC...)
		}
	case model.ActionForward:
		draft.To = []string{}
	}
	return draft, nil
}

// Subject applies the prefix rule of kind. A subject that already carries
// the prefix is returned unchanged, so applying it twice is harmless.
func Subject(subject string, kind model.ActionKind) string {
	prefix := replyPrefix
	if kind == model.ActionForward {
		prefix = forwardPrefix
	}
	if strings.HasPrefix(subject, prefix) {
		return subject
	}
	return prefix + subject
}

// Attribution renders the quoted block placed beneath the empty new
// content area.
func Attribution(original model.Message, excerpt string) string {
	quoted := excerpt
	if quoted == "" {
		quoted = original.Body
	}
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(Divider)
	b.WriteString("\n")
	fmt.Fprintf(&b, "From: %s <%s>\n", original.Sender, original.SenderAddress)
	fmt.Fprintf(&b, "Date: %s\n", original.Timestamp.Format(DateLayout))
	fmt.Fprintf(&b, "Subject: %s\n", original.Subject)
	b.WriteString("\n")
	b.WriteString(quoted)
	return b.String()
}

// Title returns the compose screen heading for kind.
func Title(kind model.ActionKind) string {
	switch kind {
	case model.ActionForward:
		return "Forward Message"
	case model.ActionReplyAll:
		return "Reply All"
	case model.ActionReply:
		return "Reply"
	default:
		return "New Message"
	}
}

// ValidateForSend checks a draft is ready to go out: at least one
// recipient, a non-blank subject and parseable addresses in every field.
func ValidateForSend(d model.Draft) error {
	if len(nonBlank(d.To)) == 0 {
		return ErrNoRecipients
	}
	if strings.TrimSpace(d.Subject) == "" {
		return ErrNoSubject
	}
	for _, field := range [][]string{d.To, d.CC, d.BCC} {
		for _, addr := range nonBlank(field) {
			if _, err := mail.ParseAddress(addr); err != nil {
				return fmt.Errorf("parsing address %q: %w", addr, err)
			}
		}
	}
	return nil
}

// SplitAddresses parses a comma-separated recipient field, dropping blank
// entries.
func SplitAddresses(field string) []string {
	return nonBlank(strings.Split(field, ","))
}

// JoinAddresses renders a recipient list for editing.
func JoinAddresses(list []string) string {
	return strings.Join(list, ", ")
}

func nonBlank(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
