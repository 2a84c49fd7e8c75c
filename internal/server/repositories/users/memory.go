package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps users in process memory. Uniqueness of username and
// email is enforced under the same lock as the insert, mirroring the table
// constraints of the PostgreSQL schema.
type MemoryRepository struct {
	mu         sync.RWMutex
	byUsername map[string]*models.User
	byEmail    map[string]*models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byUsername: make(map[string]*models.User),
		byEmail:    make(map[string]*models.User),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[user.UserName]; ok {
		return nil, common.ErrorAlreadyExists
	}
	if _, ok := r.byEmail[user.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}

	created := *user
	created.ID = uuid.NewString()
	created.CreatedAt = time.Now().UTC()

	r.byUsername[created.UserName] = &created
	r.byEmail[created.Email] = &created

	out := created
	return &out, nil
}

func (r *MemoryRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.get(ctx, r.byUsername, username)
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.get(ctx, r.byEmail, email)
}

func (r *MemoryRepository) get(ctx context.Context, index map[string]*models.User, key string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := index[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

// Len returns the number of stored users.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUsername)
}
