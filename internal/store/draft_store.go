package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/mailspace/internal/model"
)

type draftRow struct {
	ID             string    `db:"id"`
	Recipients     string    `db:"recipients"`
	CC             string    `db:"cc"`
	BCC            string    `db:"bcc"`
	Subject        string    `db:"subject"`
	Body           string    `db:"body"`
	OriginalSender string    `db:"original_sender"`
	ActionKind     string    `db:"action_kind"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// SaveDraft inserts or replaces a draft owned by owner. If the draft has
// no ID, a new UUID is generated. The stored id is returned.
func (s *SQLiteStore) SaveDraft(ctx context.Context, owner model.EmailAddress, d model.Draft) (string, error) {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}

	to, err := marshalList(d.To)
	if err != nil {
		return "", fmt.Errorf("marshaling draft recipients: %w", err)
	}
	cc, err := marshalList(d.CC)
	if err != nil {
		return "", fmt.Errorf("marshaling draft cc: %w", err)
	}
	bcc, err := marshalList(d.BCC)
	if err != nil {
		return "", fmt.Errorf("marshaling draft bcc: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO drafts (
			id, owner, recipients, cc, bcc, subject, body,
			original_sender, action_kind, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, owner.Address, to, cc, bcc, d.Subject, d.Body,
		d.OriginalSender, string(d.ActionKind), time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("saving draft %s: %w", d.ID, err)
	}
	return d.ID, nil
}

// GetDrafts returns the drafts of owner, most recently saved first.
func (s *SQLiteStore) GetDrafts(ctx context.Context, owner string) ([]model.Draft, error) {
	var rows []draftRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, recipients, cc, bcc, subject, body, original_sender, action_kind, updated_at
		FROM drafts WHERE owner = ? ORDER BY updated_at DESC`, owner)
	if err != nil {
		return nil, fmt.Errorf("querying drafts: %w", err)
	}

	drafts := make([]model.Draft, 0, len(rows))
	for _, r := range rows {
		d := model.Draft{
			ID:             r.ID,
			Subject:        r.Subject,
			Body:           r.Body,
			OriginalSender: r.OriginalSender,
			ActionKind:     model.ActionKind(r.ActionKind),
		}
		if d.To, err = unmarshalList(r.Recipients); err != nil {
			return nil, fmt.Errorf("unmarshaling draft %s recipients: %w", r.ID, err)
		}
		if d.CC, err = unmarshalList(r.CC); err != nil {
			return nil, fmt.Errorf("unmarshaling draft %s cc: %w", r.ID, err)
		}
		if d.BCC, err = unmarshalList(r.BCC); err != nil {
			return nil, fmt.Errorf("unmarshaling draft %s bcc: %w", r.ID, err)
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

// DeleteDraft removes a draft by ID.
func (s *SQLiteStore) DeleteDraft(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM drafts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting draft %s: %w", id, err)
	}
	return nil
}

// AppendSent files d into the sent mailbox of from and drops the stored
// draft it came from, if any.
func (s *SQLiteStore) AppendSent(ctx context.Context, from model.EmailAddress, d model.Draft, at time.Time) (model.Message, error) {
	if err := s.ensureMail(ctx, from); err != nil {
		return model.Message{}, err
	}

	sender := from.Address
	if i := strings.IndexByte(sender, '@'); i >= 0 {
		sender = sender[:i]
	}
	msg := model.Message{
		ID:            uuid.New().String(),
		Sender:        sender,
		SenderAddress: from.Address,
		Recipients:    d.To,
		CC:            d.CC,
		BCC:           d.BCC,
		Subject:       d.Subject,
		Body:          d.Body,
		Timestamp:     at,
		IsRead:        true,
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Message{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertMessage(ctx, tx, from.Address, string(model.MailboxSent), msg); err != nil {
		return model.Message{}, err
	}
	if d.ID != "" {
		if _, err := tx.ExecContext(ctx, "DELETE FROM drafts WHERE id = ?", d.ID); err != nil {
			return model.Message{}, fmt.Errorf("deleting sent draft %s: %w", d.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return model.Message{}, fmt.Errorf("committing sent message: %w", err)
	}
	return msg, nil
}
