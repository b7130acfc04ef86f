package store

import (
	"context"
	"time"

	"github.com/nhle/mailspace/internal/directory"
	"github.com/nhle/mailspace/internal/model"
)

// Store defines the persistence interface the workspace and transports use.
type Store interface {
	directory.Source

	// === Drafts ===

	SaveDraft(ctx context.Context, owner model.EmailAddress, d model.Draft) (string, error)
	GetDrafts(ctx context.Context, owner string) ([]model.Draft, error)
	DeleteDraft(ctx context.Context, id string) error

	// === Mail ===

	AppendSent(ctx context.Context, from model.EmailAddress, d model.Draft, at time.Time) (model.Message, error)
	MarkRead(ctx context.Context, owner, mailboxID, id string) error

	Close() error
}

var _ Store = (*SQLiteStore)(nil)
