package auth

import "time"

// User represents a registered account. The token is assigned once at
// registration and stays stable for the lifetime of the account.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Token        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
