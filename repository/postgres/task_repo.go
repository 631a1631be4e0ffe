package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/activityhub/backend/domain"
	"github.com/activityhub/backend/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	if task == nil || task.ActivityID == 0 {
		return domain.ErrInvalidPayload
	}

	// Operations are serialized by the execution model, so the max+1 id
	// assignment cannot race with another insert for the same activity.
	const query = `
	INSERT INTO tasks (
		activity_id, id, assignee, title, description,
		reward_amount, credit_score_reward, due_date, completed
	)
	VALUES (
		$1,
		COALESCE((SELECT MAX(id) FROM tasks WHERE activity_id = $1), 0) + 1,
		$2, $3, $4, $5, $6, $7, FALSE
	)
	RETURNING id, created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ActivityID,
		string(task.Assignee),
		task.Title,
		task.Description,
		task.RewardAmount,
		task.CreditScoreReward,
		task.DueDate,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt); err != nil {
		return err
	}
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, activityID, taskID int64) (*domain.Task, error) {
	const query = `
	SELECT activity_id, id, assignee, title, description,
		reward_amount, credit_score_reward, due_date, completed, completed_at,
		created_at, updated_at
	FROM tasks
	WHERE activity_id = $1 AND id = $2
	`
	row := r.pool.QueryRow(ctx, query, activityID, taskID)
	return scanTask(row)
}

func (r *taskRepository) ListByActivity(ctx context.Context, activityID int64) ([]domain.Task, error) {
	const query = `
	SELECT activity_id, id, assignee, title, description,
		reward_amount, credit_score_reward, due_date, completed, completed_at,
		created_at, updated_at
	FROM tasks
	WHERE activity_id = $1
	ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil || task.ActivityID == 0 || task.ID == 0 {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET completed = $3,
		completed_at = $4,
		updated_at = NOW()
	WHERE activity_id = $1 AND id = $2
	RETURNING updated_at
	`

	var completedAt interface{}
	if !task.CompletedAt.IsZero() {
		completedAt = task.CompletedAt
	}

	if err := r.pool.QueryRow(ctx, query,
		task.ActivityID,
		task.ID,
		task.Completed,
		completedAt,
	).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}
	return nil
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var (
		task        domain.Task
		completedAt *time.Time
	)

	if err := row.Scan(
		&task.ActivityID,
		&task.ID,
		&task.Assignee,
		&task.Title,
		&task.Description,
		&task.RewardAmount,
		&task.CreditScoreReward,
		&task.DueDate,
		&task.Completed,
		&completedAt,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	if completedAt != nil {
		task.CompletedAt = *completedAt
	}
	return &task, nil
}
