package repository

import (
	"context"

	"github.com/activityhub/backend/domain"
)

type UserRepository interface {
	GetByAddress(ctx context.Context, addr domain.Address) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Count(ctx context.Context) (int64, error)
}
