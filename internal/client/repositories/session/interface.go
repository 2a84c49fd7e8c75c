// Package session persists the CLI's logged-in session (username, bearer
// token, expiry) as key/value pairs in the local SQLite database.
package session

import "context"

// Keys stored by the CLI.
const (
	KeyUsername  = "username"
	KeyToken     = "token"
	KeyExpiresAt = "expires_at"
)

// Repository is a small key/value store.
//
// Get returns common.ErrorNotFound for an absent key. SetAll writes every pair
// in one statement so a session is never stored half-way.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	SetAll(ctx context.Context, values map[string]string) error
	Clear(ctx context.Context) error
}
