package model

import "time"

// Message is a single email record within one (address, mailbox) pair.
// IDs are only unique within the mailbox they were derived from.
type Message struct {
	ID            string    `json:"id" db:"id"`
	Sender        string    `json:"sender" db:"sender"`
	SenderAddress string    `json:"sender_address" db:"sender_address"`
	Recipients    []string  `json:"recipients" db:"-"`
	CC            []string  `json:"cc,omitempty" db:"-"`
	BCC           []string  `json:"bcc,omitempty" db:"-"`
	Subject       string    `json:"subject" db:"subject"`
	Body          string    `json:"body" db:"body"`
	Timestamp     time.Time `json:"timestamp" db:"timestamp"`
	IsRead        bool      `json:"is_read" db:"is_read"`
	IsStarred     bool      `json:"is_starred" db:"is_starred"`
	HasAttachment bool      `json:"has_attachment" db:"has_attachment"`
}

// Clone returns a deep copy of m.
func (m Message) Clone() Message {
	m.Recipients = cloneStrings(m.Recipients)
	m.CC = cloneStrings(m.CC)
	m.BCC = cloneStrings(m.BCC)
	return m
}
