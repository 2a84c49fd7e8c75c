package models

import (
	"fmt"
	"time"
)

// User is a registered account. PasswordHash holds the encoded adaptive hash,
// never the raw password. Records are created once and never mutated.
type User struct {
	ID           string
	UserName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Equal compares users field by field; CreatedAt is compared as an instant.
func (u *User) Equal(other *User) bool {
	if u == nil || other == nil {
		return u == other
	}
	return u.ID == other.ID &&
		u.UserName == other.UserName &&
		u.Email == other.Email &&
		u.PasswordHash == other.PasswordHash &&
		u.CreatedAt.Equal(other.CreatedAt)
}

// String renders the user without its password hash.
func (u *User) String() string {
	if u == nil {
		return "User(nil)"
	}
	return fmt.Sprintf("User(id=%s, username=%s, email=%s)", u.ID, u.UserName, u.Email)
}
