package credential

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	s := NewStore(keyring.NewArrayKeyring(nil))

	require.NoError(t, s.Set(KeyIMAP, "hunter2"))
	got, err := s.Get(KeyIMAP)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", got)

	require.NoError(t, s.Delete(KeyIMAP))
	_, err = s.Get(KeyIMAP)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLookupReadsLazily(t *testing.T) {
	s := NewStore(keyring.NewArrayKeyring(nil))
	lookup := s.Lookup(KeySMTP)

	_, err := lookup()
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(KeySMTP, "s3cret"))
	got, err := lookup()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)
}
