package repository

import (
	"context"

	"github.com/activityhub/backend/domain"
)

type ActivityRepository interface {
	// Create assigns the next monotonic 1-based id and stores the activity.
	Create(ctx context.Context, activity *domain.Activity) error
	GetByID(ctx context.Context, id int64) (*domain.Activity, error)
	Update(ctx context.Context, activity *domain.Activity) error
	Count(ctx context.Context) (int64, error)
}
