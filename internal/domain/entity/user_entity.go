package entity

import (
	"time"
)

// User is a registered account.
// Password holds the encoded hash produced by the configured hasher, never the plaintext.
type User struct {
	ID        string
	Email     string
	Password  string
	CreatedAt time.Time
}
