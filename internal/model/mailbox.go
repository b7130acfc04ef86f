package model

// MailboxKind classifies a mailbox folder.
type MailboxKind string

const (
	MailboxInbox   MailboxKind = "inbox"
	MailboxStarred MailboxKind = "starred"
	MailboxSent    MailboxKind = "sent"
	MailboxArchive MailboxKind = "archive"
	MailboxTrash   MailboxKind = "trash"
	MailboxCustom  MailboxKind = "custom"
)

// CanonicalMailboxes is the fixed folder order every address carries.
// The mailbox id of a canonical folder equals its kind.
var CanonicalMailboxes = []MailboxKind{
	MailboxInbox,
	MailboxStarred,
	MailboxSent,
	MailboxArchive,
	MailboxTrash,
}

// IsCanonical reports whether id names one of the five canonical folders.
func IsCanonical(id string) bool {
	for _, k := range CanonicalMailboxes {
		if string(k) == id {
			return true
		}
	}
	return false
}

// Mailbox is a named folder scoped to one EmailAddress.
type Mailbox struct {
	ID          string      `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	Kind        MailboxKind `json:"kind" db:"kind"`
	TotalCount  int         `json:"total_count" db:"total_count"`
	UnreadCount int         `json:"unread_count" db:"unread_count"`
}

// DisplayName returns the capitalized label of a canonical mailbox kind.
func (k MailboxKind) DisplayName() string {
	switch k {
	case MailboxInbox:
		return "Inbox"
	case MailboxStarred:
		return "Starred"
	case MailboxSent:
		return "Sent"
	case MailboxArchive:
		return "Archive"
	case MailboxTrash:
		return "Trash"
	default:
		return "Custom"
	}
}
