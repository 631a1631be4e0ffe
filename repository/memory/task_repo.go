package memory

import (
	"context"
	"sync"
	"time"

	"github.com/activityhub/backend/domain"
	"github.com/activityhub/backend/repository"
)

type taskKey struct {
	activityID int64
	taskID     int64
}

type taskRepository struct {
	mu     sync.RWMutex
	nextID map[int64]int64
	tasks  map[taskKey]domain.Task
	order  map[int64][]int64
}

// NewTaskRepository returns an in-memory task store with per-activity
// sequential 1-based task ids.
func NewTaskRepository() repository.TaskRepository {
	return &taskRepository{
		nextID: make(map[int64]int64),
		tasks:  make(map[taskKey]domain.Task),
		order:  make(map[int64][]int64),
	}
}

func (r *taskRepository) Create(_ context.Context, task *domain.Task) error {
	if task == nil || task.ActivityID == 0 {
		return domain.ErrInvalidPayload
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.nextID[task.ActivityID]
	if next == 0 {
		next = 1
	}

	now := time.Now().UTC()
	task.ID = next
	task.CreatedAt = now
	task.UpdatedAt = now
	r.nextID[task.ActivityID] = next + 1

	key := taskKey{activityID: task.ActivityID, taskID: task.ID}
	r.tasks[key] = *task
	r.order[task.ActivityID] = append(r.order[task.ActivityID], task.ID)
	return nil
}

func (r *taskRepository) GetByID(_ context.Context, activityID, taskID int64) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[taskKey{activityID: activityID, taskID: taskID}]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return &task, nil
}

func (r *taskRepository) ListByActivity(_ context.Context, activityID int64) ([]domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.order[activityID]
	tasks := make([]domain.Task, 0, len(ids))
	for _, id := range ids {
		tasks = append(tasks, r.tasks[taskKey{activityID: activityID, taskID: id}])
	}
	return tasks, nil
}

func (r *taskRepository) Update(_ context.Context, task *domain.Task) error {
	if task == nil || task.ActivityID == 0 || task.ID == 0 {
		return domain.ErrInvalidPayload
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := taskKey{activityID: task.ActivityID, taskID: task.ID}
	if _, exists := r.tasks[key]; !exists {
		return domain.ErrTaskNotFound
	}
	task.UpdatedAt = time.Now().UTC()
	r.tasks[key] = *task
	return nil
}
