package repository

import (
	"context"
	"sync"
	"time"

	"github.com/AlibekovAA/bearer-auth/internal/user/domain"
)

// MemoryRepository keeps users in process memory. Used for tests and local
// runs with STORE_DRIVER=memory.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID domain.ID
	users  map[string]domain.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users: make(map[string]domain.User),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Username]; exists {
		return domain.User{}, ErrUsernameAlreadyExists
	}

	r.nextID++
	user.ID = r.nextID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	r.users[user.Username] = user
	return user, nil
}

func (r *MemoryRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[username]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return user, nil
}

func (r *MemoryRepository) DeleteByUsername(ctx context.Context, username string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[username]; !ok {
		return ErrUserNotFound
	}
	delete(r.users, username)
	return nil
}

func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
