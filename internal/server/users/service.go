// Package users implements the credential store: registration and password
// authentication of user records.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	usersrepo "github.com/dmitrijs2005/authkeeper/internal/server/repositories/users"
)

// CredentialStore registers and authenticates users. It holds no state of
// its own and is safe for concurrent use.
//
// The uniqueness check in Register is not atomic with the insert: two
// concurrent registrations may both pass it. The storage-level unique
// constraint is the source of truth, and its violation is reported as
// common.ErrDuplicateIdentity as well.
type CredentialStore struct {
	repo   usersrepo.Repository
	hasher auth.PasswordHasher
}

func NewCredentialStore(repo usersrepo.Repository, hasher auth.PasswordHasher) *CredentialStore {
	return &CredentialStore{repo: repo, hasher: hasher}
}

// Register creates a user. It returns common.ErrDuplicateIdentity when the
// username or email is already taken and common.ErrInvalidPassword when the
// hasher refuses the password.
func (s *CredentialStore) Register(ctx context.Context, username, password, email string) (*models.User, error) {

	if err := s.ensureAbsent(ctx, s.repo.GetByUsername, username); err != nil {
		return nil, err
	}
	if err := s.ensureAbsent(ctx, s.repo.GetByEmail, email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if errors.Is(err, auth.ErrEmptyPassword) || errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidPassword, err)
	}
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		UserName:     username,
		Email:        email,
		PasswordHash: hash,
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Authenticate verifies the password of username. It returns
// common.ErrUnknownIdentity for a missing user and
// common.ErrInvalidCredentials for a wrong password.
func (s *CredentialStore) Authenticate(ctx context.Context, username, password string) (*models.User, error) {

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnknownIdentity
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("error verifying password: %w", err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	return user, nil
}

func (s *CredentialStore) ensureAbsent(ctx context.Context, lookup func(context.Context, string) (*models.User, error), key string) error {
	_, err := lookup(ctx, key)
	switch {
	case err == nil:
		return common.ErrDuplicateIdentity
	case errors.Is(err, common.ErrorNotFound):
		return nil
	default:
		return fmt.Errorf("error searching user: %w", err)
	}
}
