// Package users contains storage implementations for user records.
package users

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

// Repository persists users. Lookups return common.ErrorNotFound when no
// record matches; Create returns common.ErrorAlreadyExists when the username
// or email violates the storage uniqueness constraint.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
