package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/mailspace/internal/directory"
	"github.com/nhle/mailspace/internal/model"
)

// messageRow mirrors the messages table; recipient lists are JSON arrays.
type messageRow struct {
	ID            string    `db:"id"`
	Sender        string    `db:"sender"`
	SenderAddress string    `db:"sender_address"`
	Recipients    string    `db:"recipients"`
	CC            string    `db:"cc"`
	BCC           string    `db:"bcc"`
	Subject       string    `db:"subject"`
	Body          string    `db:"body"`
	Timestamp     time.Time `db:"timestamp"`
	IsRead        bool      `db:"is_read"`
	IsStarred     bool      `db:"is_starred"`
	HasAttachment bool      `db:"has_attachment"`
}

const messageColumns = `id, sender, sender_address, recipients, cc, bcc,
	subject, body, timestamp, is_read, is_starred, has_attachment`

func (r messageRow) toModel() (model.Message, error) {
	m := model.Message{
		ID:            r.ID,
		Sender:        r.Sender,
		SenderAddress: r.SenderAddress,
		Subject:       r.Subject,
		Body:          r.Body,
		Timestamp:     r.Timestamp,
		IsRead:        r.IsRead,
		IsStarred:     r.IsStarred,
		HasAttachment: r.HasAttachment,
	}
	var err error
	if m.Recipients, err = unmarshalList(r.Recipients); err != nil {
		return model.Message{}, fmt.Errorf("unmarshaling recipients of %s: %w", r.ID, err)
	}
	if m.CC, err = unmarshalList(r.CC); err != nil {
		return model.Message{}, fmt.Errorf("unmarshaling cc of %s: %w", r.ID, err)
	}
	if m.BCC, err = unmarshalList(r.BCC); err != nil {
		return model.Message{}, fmt.Errorf("unmarshaling bcc of %s: %w", r.ID, err)
	}
	return m, nil
}

// ListAddresses implements directory.AddressSource. An account seen for
// the first time is recorded and, with a seed, given the seed's addresses.
func (s *SQLiteStore) ListAddresses(ctx context.Context, acct model.Account) ([]model.EmailAddress, error) {
	if acct.Handle == "" {
		return nil, directory.ErrNoAccount
	}
	if acct.ID == "" {
		acct.ID = "handle:" + acct.Handle
	}
	if acct.CreatedAt.IsZero() {
		acct.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO accounts (id, handle, created_at) VALUES (?, ?, ?)",
		acct.ID, acct.Handle, acct.CreatedAt.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("recording account %s: %w", acct.Handle, err)
	}

	list, err := s.addresses(ctx, acct.ID)
	if err != nil || len(list) > 0 || s.seed == nil {
		return list, err
	}

	seeded, err := s.seed.ListAddresses(ctx, acct)
	if err != nil {
		return nil, fmt.Errorf("seeding addresses for %s: %w", acct.Handle, err)
	}
	if err := s.insertAddresses(ctx, acct.ID, seeded); err != nil {
		return nil, err
	}
	return s.addresses(ctx, acct.ID)
}

func (s *SQLiteStore) addresses(ctx context.Context, accountID string) ([]model.EmailAddress, error) {
	var list []model.EmailAddress
	err := s.db.SelectContext(ctx, &list, `
		SELECT id, account_id, address, display_name, is_primary, is_verified
		FROM addresses WHERE account_id = ?
		ORDER BY is_primary DESC, position`, accountID)
	if err != nil {
		return nil, fmt.Errorf("querying addresses: %w", err)
	}
	return list, nil
}

func (s *SQLiteStore) insertAddresses(ctx context.Context, accountID string, list []model.EmailAddress) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i, a := range list {
		_, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO addresses (
				account_id, id, address, display_name, is_primary, is_verified, position
			) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			accountID, a.ID, a.Address, a.DisplayName,
			boolToInt(a.IsPrimary), boolToInt(a.IsVerified), i,
		)
		if err != nil {
			return fmt.Errorf("inserting address %s: %w", a.Address, err)
		}
	}
	return tx.Commit()
}

// ListMailboxes implements directory.MailboxSource. Counts are computed
// from the stored messages; starred counts the starred part of the inbox.
func (s *SQLiteStore) ListMailboxes(ctx context.Context, addr model.EmailAddress) ([]model.Mailbox, error) {
	if err := s.ensureMail(ctx, addr); err != nil {
		return nil, err
	}

	var boxes []model.Mailbox
	err := s.db.SelectContext(ctx, &boxes,
		"SELECT id, name, kind FROM mailboxes WHERE owner = ? ORDER BY position", addr.Address)
	if err != nil {
		return nil, fmt.Errorf("querying mailboxes: %w", err)
	}

	type count struct {
		MailboxID string `db:"mailbox_id"`
		Total     int    `db:"total"`
		Unread    int    `db:"unread"`
	}
	var counts []count
	err = s.db.SelectContext(ctx, &counts, `
		SELECT mailbox_id, COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN is_read = 0 THEN 1 ELSE 0 END), 0) AS unread
		FROM messages WHERE owner = ? GROUP BY mailbox_id
		UNION ALL
		SELECT 'starred', COUNT(*),
			COALESCE(SUM(CASE WHEN is_read = 0 THEN 1 ELSE 0 END), 0)
		FROM messages WHERE owner = ? AND mailbox_id = 'inbox' AND is_starred = 1`,
		addr.Address, addr.Address)
	if err != nil {
		return nil, fmt.Errorf("counting messages: %w", err)
	}

	byID := make(map[string]count, len(counts))
	for _, c := range counts {
		byID[c.MailboxID] = c
	}
	for i := range boxes {
		c := byID[boxes[i].ID]
		boxes[i].TotalCount = c.Total
		boxes[i].UnreadCount = c.Unread
	}
	return boxes, nil
}

// ListMessages implements directory.MessageSource, newest first.
func (s *SQLiteStore) ListMessages(ctx context.Context, addr model.EmailAddress, mailboxID string) ([]model.Message, error) {
	if err := s.ensureMail(ctx, addr); err != nil {
		return nil, err
	}

	query := "SELECT " + messageColumns + " FROM messages WHERE owner = ? AND mailbox_id = ?"
	args := []any{addr.Address, mailboxID}
	if mailboxID == string(model.MailboxStarred) {
		query = "SELECT " + messageColumns + " FROM messages WHERE owner = ? AND mailbox_id = ? AND is_starred = 1"
		args = []any{addr.Address, string(model.MailboxInbox)}
	}
	query += " ORDER BY timestamp DESC"

	var rows []messageRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("querying %s messages: %w", mailboxID, err)
	}

	out := make([]model.Message, 0, len(rows))
	for _, r := range rows {
		m, err := r.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// MarkRead flags one message as read.
func (s *SQLiteStore) MarkRead(ctx context.Context, owner, mailboxID, id string) error {
	if mailboxID == string(model.MailboxStarred) {
		mailboxID = string(model.MailboxInbox)
	}
	_, err := s.db.ExecContext(ctx,
		"UPDATE messages SET is_read = 1 WHERE owner = ? AND mailbox_id = ? AND id = ?",
		owner, mailboxID, id,
	)
	if err != nil {
		return fmt.Errorf("marking message %s as read: %w", id, err)
	}
	return nil
}

// ensureMail populates the folders and mail of addr the first time it is
// asked about: from the seed when there is one, otherwise with the empty
// canonical folders.
func (s *SQLiteStore) ensureMail(ctx context.Context, addr model.EmailAddress) error {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM mailboxes WHERE owner = ?", addr.Address); err != nil {
		return fmt.Errorf("checking mailboxes for %s: %w", addr.Address, err)
	}
	if n > 0 {
		return nil
	}

	boxes := make([]model.Mailbox, 0, len(model.CanonicalMailboxes))
	for _, k := range model.CanonicalMailboxes {
		boxes = append(boxes, model.Mailbox{ID: string(k), Name: k.DisplayName(), Kind: k})
	}
	mail := map[string][]model.Message{}
	if s.seed != nil {
		seeded, err := s.seed.ListMailboxes(ctx, addr)
		if err != nil {
			return fmt.Errorf("seeding mailboxes for %s: %w", addr.Address, err)
		}
		boxes = directory.NormalizeMailboxes(seeded)
		for _, mb := range boxes {
			if mb.ID == string(model.MailboxStarred) {
				continue
			}
			msgs, err := s.seed.ListMessages(ctx, addr, mb.ID)
			if err != nil {
				return fmt.Errorf("seeding %s messages for %s: %w", mb.ID, addr.Address, err)
			}
			mail[mb.ID] = msgs
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i, mb := range boxes {
		_, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO mailboxes (owner, id, name, kind, position) VALUES (?, ?, ?, ?, ?)",
			addr.Address, mb.ID, mb.Name, string(mb.Kind), i,
		)
		if err != nil {
			return fmt.Errorf("inserting mailbox %s: %w", mb.ID, err)
		}
		for _, m := range mail[mb.ID] {
			if err := insertMessage(ctx, tx, addr.Address, mb.ID, m); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func insertMessage(ctx context.Context, tx *sqlx.Tx, owner, mailboxID string, m model.Message) error {
	to, err := marshalList(m.Recipients)
	if err != nil {
		return fmt.Errorf("marshaling recipients of %s: %w", m.ID, err)
	}
	cc, err := marshalList(m.CC)
	if err != nil {
		return fmt.Errorf("marshaling cc of %s: %w", m.ID, err)
	}
	bcc, err := marshalList(m.BCC)
	if err != nil {
		return fmt.Errorf("marshaling bcc of %s: %w", m.ID, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO messages (
			owner, mailbox_id, id, sender, sender_address,
			recipients, cc, bcc, subject, body,
			timestamp, is_read, is_starred, has_attachment
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		owner, mailboxID, m.ID, m.Sender, m.SenderAddress,
		to, cc, bcc, m.Subject, m.Body,
		m.Timestamp.UTC(), boolToInt(m.IsRead), boolToInt(m.IsStarred), boolToInt(m.HasAttachment),
	)
	if err != nil {
		return fmt.Errorf("inserting message %s into %s: %w", m.ID, mailboxID, err)
	}
	return nil
}
