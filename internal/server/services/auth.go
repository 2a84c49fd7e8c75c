// Package services contains server-side business logic. AuthService runs the
// login flow on top of the credential store and the token service, and
// classifies results into outcomes for the transports.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

// CredentialStore is the subset of users.CredentialStore used here.
type CredentialStore interface {
	Register(ctx context.Context, username, password, email string) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

// TokenIssuer mints and checks bearer tokens.
type TokenIssuer interface {
	Issue(subject string) (*auth.Token, error)
	Validate(raw string) auth.ValidationResult
}

// AuthService provides authentication-related operations:
// - Register: create users
// - Login: verify credentials and mint a token
// - Authorize: check a bearer token presented on a protected request
type AuthService struct {
	store  CredentialStore
	tokens TokenIssuer
}

func NewAuthService(store CredentialStore, tokens TokenIssuer) *AuthService {
	return &AuthService{store: store, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, username, password, email string) (*models.User, error) {
	return s.store.Register(ctx, username, password, email)
}

// Login authenticates the user and issues a token for its username.
func (s *AuthService) Login(ctx context.Context, username, password string) (*auth.Token, error) {
	user, err := s.store.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.UserName)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}

	return token, nil
}

// Authorize validates a bearer token. The subject is not re-checked against
// the user store.
func (s *AuthService) Authorize(raw string) auth.ValidationResult {
	return s.tokens.Validate(raw)
}
