package domain

import "time"

// User models a registered account. The password digest is a keyed
// HMAC, never the plaintext, and is excluded from JSON output.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	PasswordDigest string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}
