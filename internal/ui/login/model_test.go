package login

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateHandle(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"satoshi", false},
		{"  satoshi  ", false},
		{"", true},
		{"   ", true},
		{"a@b", true},
		{"two words", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			err := validateHandle(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInactiveUntilStarted(t *testing.T) {
	m := New("0xfog.com", 80, 24)
	assert.False(t, m.Active())
	assert.Empty(t, m.View())

	m.Start()
	assert.True(t, m.Active())
	assert.Contains(t, m.View(), "Sign in")
}
