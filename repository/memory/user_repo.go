package memory

import (
	"context"
	"sync"
	"time"

	"github.com/activityhub/backend/domain"
	"github.com/activityhub/backend/repository"
)

type userRepository struct {
	mu    sync.RWMutex
	users map[domain.Address]domain.User
}

// NewUserRepository returns an in-memory user store. State mutations are
// serialized by a single mutex so each operation observes a consistent ledger.
func NewUserRepository() repository.UserRepository {
	return &userRepository{users: make(map[domain.Address]domain.User)}
}

func (r *userRepository) GetByAddress(_ context.Context, addr domain.Address) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[addr]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (r *userRepository) Create(_ context.Context, user *domain.User) error {
	if user == nil || user.Address.IsZero() {
		return domain.ErrInvalidPayload
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Address]; exists {
		return domain.ErrAlreadyRegistered
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.Address] = *user
	return nil
}

func (r *userRepository) Update(_ context.Context, user *domain.User) error {
	if user == nil || user.Address.IsZero() {
		return domain.ErrInvalidPayload
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Address]; !exists {
		return domain.ErrUserNotFound
	}
	user.UpdatedAt = time.Now().UTC()
	r.users[user.Address] = *user
	return nil
}

func (r *userRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}
