package testutil

import (
	"testing"
	"time"

	"github.com/nhle/mailspace/internal/directory"
	"github.com/nhle/mailspace/internal/store"
)

// Anchor is the fixed clock the seeded fixture mail is dated against.
var Anchor = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T, opts ...store.Option) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:", opts...)
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewSeededStore creates an in-memory store seeded from the demo fixture
// for the 0xfog.com domain.
func NewSeededStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	return NewTestStore(t, store.WithSeed(directory.NewFixture("0xfog.com", nil, Anchor)))
}
