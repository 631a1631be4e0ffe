package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/activityhub/backend/domain"
	"github.com/activityhub/backend/repository"
)

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) GetByAddress(ctx context.Context, addr domain.Address) (*domain.User, error) {
	const query = `
		SELECT address, registered, credits, created_at, updated_at
		FROM users
		WHERE address = $1
	`
	row := r.pool.QueryRow(ctx, query, string(addr))

	var user domain.User
	if err := row.Scan(&user.Address, &user.Registered, &user.Credits, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user == nil || user.Address.IsZero() {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO users (address, registered, credits)
	VALUES ($1, $2, $3)
	ON CONFLICT (address) DO NOTHING
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		string(user.Address),
		user.Registered,
		user.Credits,
	).Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrAlreadyRegistered
		}
		return err
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	if user == nil || user.Address.IsZero() {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE users
	SET registered = $2,
		credits = $3,
		updated_at = NOW()
	WHERE address = $1
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		string(user.Address),
		user.Registered,
		user.Credits,
	).Scan(&user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		return err
	}
	return nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM users`
	var count int64
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
