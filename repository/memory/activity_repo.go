package memory

import (
	"context"
	"sync"
	"time"

	"github.com/activityhub/backend/domain"
	"github.com/activityhub/backend/repository"
)

type activityRepository struct {
	mu         sync.RWMutex
	nextID     int64
	activities map[int64]domain.Activity
}

// NewActivityRepository returns an in-memory activity arena keyed by the
// monotonic 1-based id. Reads hand out deep copies so callers can stage
// mutations and commit them with Update.
func NewActivityRepository() repository.ActivityRepository {
	return &activityRepository{
		nextID:     1,
		activities: make(map[int64]domain.Activity),
	}
}

func (r *activityRepository) Create(_ context.Context, activity *domain.Activity) error {
	if activity == nil {
		return domain.ErrInvalidPayload
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	activity.ID = r.nextID
	activity.CreatedAt = now
	activity.UpdatedAt = now
	r.nextID++

	r.activities[activity.ID] = cloneActivity(activity)
	return nil
}

func (r *activityRepository) GetByID(_ context.Context, id int64) (*domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	activity, ok := r.activities[id]
	if !ok {
		return nil, domain.ErrActivityNotFound
	}
	copied := cloneActivity(&activity)
	return &copied, nil
}

func (r *activityRepository) Update(_ context.Context, activity *domain.Activity) error {
	if activity == nil || activity.ID == 0 {
		return domain.ErrInvalidPayload
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.activities[activity.ID]; !exists {
		return domain.ErrActivityNotFound
	}
	activity.UpdatedAt = time.Now().UTC()
	r.activities[activity.ID] = cloneActivity(activity)
	return nil
}

func (r *activityRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.activities)), nil
}

func cloneActivity(a *domain.Activity) domain.Activity {
	copied := *a
	copied.Members = append([]domain.Address(nil), a.Members...)
	copied.Whitelist = append([]domain.Address(nil), a.Whitelist...)
	copied.Terms = make([]domain.Term, len(a.Terms))
	for i, term := range a.Terms {
		copied.Terms[i] = domain.Term{
			Titles:       append([]string(nil), term.Titles...),
			Descriptions: append([]string(nil), term.Descriptions...),
			AddedAt:      term.AddedAt,
		}
	}
	return copied
}
