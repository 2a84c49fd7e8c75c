// Package services contains application services for the AuthKeeper client.
// This file defines the authentication service: register, login and logout,
// calls to protected endpoints with the saved bearer token, and a liveness
// probe. The session is kept in memory and mirrored to the local database so
// it survives CLI restarts.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/client/client"
	"github.com/dmitrijs2005/authkeeper/internal/client/repositories/session"
	"github.com/dmitrijs2005/authkeeper/internal/common"
)

var ErrNotLoggedIn = errors.New("not logged in")

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register: create an account on the server.
//   - Login: obtain a token and persist the session.
//   - Restore: reload a saved, unexpired session.
//   - Logout: forget the session locally (tokens are not revoked server-side).
//   - Profile / Protected: call bearer-protected endpoints; a 401 drops the session.
//   - Ping: check server liveness.
//   - Close: release underlying client resources.
type AuthService interface {
	Register(ctx context.Context, username, email string, password []byte) (*client.User, error)
	Login(ctx context.Context, username string, password []byte) (*client.Session, error)
	Restore(ctx context.Context) (bool, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (string, error)
	Protected(ctx context.Context) (string, error)
	Username() string
	IsLoggedIn() bool
	Ping(ctx context.Context) error
	Close() error
}

type state struct {
	username  string
	token     string
	expiresAt time.Time
}

type authService struct {
	client client.Client
	health client.HealthChecker
	store  session.Repository
	now    func() time.Time

	mu      sync.RWMutex
	current *state
}

// NewAuthService constructs an AuthService bound to the REST client, the
// liveness probe and the local session store.
func NewAuthService(c client.Client, h client.HealthChecker, store session.Repository) AuthService {
	return &authService{client: c, health: h, store: store, now: time.Now}
}

func (a *authService) Register(ctx context.Context, username, email string, password []byte) (*client.User, error) {
	return a.client.Register(ctx, username, string(password), email)
}

func (a *authService) Login(ctx context.Context, username string, password []byte) (*client.Session, error) {
	s, err := a.client.Login(ctx, username, string(password))
	if err != nil {
		return nil, err
	}

	err = a.store.SetAll(ctx, map[string]string{
		session.KeyUsername:  username,
		session.KeyToken:     s.Token,
		session.KeyExpiresAt: s.ExpiresAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}

	a.set(&state{username: username, token: s.Token, expiresAt: s.ExpiresAt})
	return s, nil
}

// Restore loads the saved session. An expired or unreadable session is
// cleared and reported as not restored.
func (a *authService) Restore(ctx context.Context) (bool, error) {
	username, err := a.store.Get(ctx, session.KeyUsername)
	if errors.Is(err, common.ErrorNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	token, err := a.store.Get(ctx, session.KeyToken)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return false, err
	}
	rawExp, err := a.store.Get(ctx, session.KeyExpiresAt)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return false, err
	}

	exp, perr := time.Parse(time.RFC3339, rawExp)
	if token == "" || perr != nil || !a.now().Before(exp) {
		return false, a.store.Clear(ctx)
	}

	a.set(&state{username: username, token: token, expiresAt: exp})
	return true, nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.set(nil)
	return a.store.Clear(ctx)
}

func (a *authService) Profile(ctx context.Context) (string, error) {
	return a.authorized(ctx, a.client.Profile)
}

func (a *authService) Protected(ctx context.Context) (string, error) {
	return a.authorized(ctx, a.client.Protected)
}

func (a *authService) authorized(ctx context.Context, call func(context.Context, string) (string, error)) (string, error) {
	token := a.token()
	if token == "" {
		return "", ErrNotLoggedIn
	}

	res, err := call(ctx, token)
	if errors.Is(err, client.ErrUnauthorized) {
		a.set(nil)
		if cerr := a.store.Clear(ctx); cerr != nil {
			return "", errors.Join(err, cerr)
		}
	}
	return res, err
}

func (a *authService) Username() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.current == nil {
		return ""
	}
	return a.current.username
}

func (a *authService) IsLoggedIn() bool {
	return a.token() != ""
}

// Ping proxies a liveness check to the gRPC health probe.
func (a *authService) Ping(ctx context.Context) error {
	return a.health.Ping(ctx)
}

func (a *authService) Close() error {
	return a.health.Close()
}

func (a *authService) token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.current == nil {
		return ""
	}
	return a.current.token
}

func (a *authService) set(s *state) {
	a.mu.Lock()
	a.current = s
	a.mu.Unlock()
}
