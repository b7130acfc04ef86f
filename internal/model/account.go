package model

import "time"

// Account is the logged-in identity owning one or more email addresses.
// It exists only for the duration of a session.
type Account struct {
	ID        string    `json:"id" db:"id"`
	Handle    string    `json:"handle" db:"handle"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// EmailAddress is a sending/receiving address belonging to one Account.
type EmailAddress struct {
	ID          string `json:"id" db:"id"`
	AccountID   string `json:"account_id" db:"account_id"`
	Address     string `json:"address" db:"address"`
	DisplayName string `json:"display_name" db:"display_name"`
	IsPrimary   bool   `json:"is_primary" db:"is_primary"`
	IsVerified  bool   `json:"is_verified" db:"is_verified"`
}
