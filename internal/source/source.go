// Package source holds what remote mail servers share.
package source

import (
	"errors"
	"fmt"
)

// AuthError indicates that a server rejected the configured credentials.
type AuthError struct {
	Server  string
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %s", e.Server, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// PasswordFunc returns a server password when a connection needs it.
type PasswordFunc func() (string, error)
