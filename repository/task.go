package repository

import (
	"context"

	"github.com/activityhub/backend/domain"
)

type TaskRepository interface {
	// Create assigns the next sequential task id within the activity.
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, activityID, taskID int64) (*domain.Task, error)
	ListByActivity(ctx context.Context, activityID int64) ([]domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
}
