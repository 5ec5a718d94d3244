package users

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gradebook/internal/common"
	"github.com/dmitrijs2005/gradebook/internal/models"
)

// MemoryRepository keeps users in a map. It is safe for concurrent use
// and hands out copies, so callers cannot mutate stored records.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
	now   func() time.Time
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository(users ...*models.User) *MemoryRepository {
	r := &MemoryRepository{users: make(map[string]models.User, len(users)), now: time.Now}
	for _, u := range users {
		r.users[u.UserName] = *u
	}
	return r
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.UserName]; ok {
		return nil, common.ErrorLoginAlreadyExists
	}
	u := *user
	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.now().UTC()
	}
	r.users[u.UserName] = u
	return &u, nil
}

func (r *MemoryRepository) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[login]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, &u)
	}
	slices.SortFunc(out, func(a, b *models.User) int { return strings.Compare(a.UserName, b.UserName) })
	return out, nil
}

func (r *MemoryRepository) UpdatePasswordHash(ctx context.Context, login string, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[login]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = hash
	r.users[login] = u
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, login string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[login]; !ok {
		return common.ErrorNotFound
	}
	delete(r.users, login)
	return nil
}

func (r *MemoryRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), nil
}
