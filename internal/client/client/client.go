package client

import (
	"context"
	"time"
)

// User is the public part of a registered account.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Session is an issued bearer token.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Client interface {
	Register(ctx context.Context, username, password, email string) (*User, error)
	Login(ctx context.Context, username, password string) (*Session, error)
	Profile(ctx context.Context, token string) (string, error)
	Protected(ctx context.Context, token string) (string, error)
}

// HealthChecker probes server liveness.
type HealthChecker interface {
	Ping(ctx context.Context) error
	Close() error
}
