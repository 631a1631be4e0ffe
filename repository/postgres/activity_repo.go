package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/activityhub/backend/domain"
	"github.com/activityhub/backend/repository"
)

type activityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository returns a Postgres-backed implementation of
// ActivityRepository. Member, whitelist and term lists are stored as jsonb.
func NewActivityRepository(pool *pgxpool.Pool) repository.ActivityRepository {
	return &activityRepository{pool: pool}
}

func (r *activityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	if activity == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO activities (
		owner_address, public_id, username, title, description, level,
		fiat_price, join_price, max_members, total_time_months,
		waiting_period_months, members, whitelist, terms,
		donation_balance, total_donation_received
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	RETURNING id, created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		string(activity.Owner),
		activity.PublicID,
		activity.Username,
		activity.Title,
		activity.Description,
		int(activity.Level),
		activity.FiatPrice,
		activity.JoinPrice,
		activity.MaxMembers,
		activity.TotalTimeInMonths,
		activity.WaitingPeriodInMonths,
		marshalJSON(activity.Members),
		marshalJSON(activity.Whitelist),
		marshalJSON(activity.Terms),
		activity.DonationBalance,
		activity.TotalDonationReceived,
	).Scan(&activity.ID, &activity.CreatedAt, &activity.UpdatedAt); err != nil {
		return err
	}
	return nil
}

func (r *activityRepository) GetByID(ctx context.Context, id int64) (*domain.Activity, error) {
	const query = `
	SELECT id, owner_address, public_id, username, title, description, level,
		fiat_price, join_price, max_members, total_time_months,
		waiting_period_months, members, whitelist, terms,
		donation_balance, total_donation_received, created_at, updated_at
	FROM activities
	WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)

	var (
		activity  domain.Activity
		level     int
		members   []byte
		whitelist []byte
		terms     []byte
	)

	if err := row.Scan(
		&activity.ID,
		&activity.Owner,
		&activity.PublicID,
		&activity.Username,
		&activity.Title,
		&activity.Description,
		&level,
		&activity.FiatPrice,
		&activity.JoinPrice,
		&activity.MaxMembers,
		&activity.TotalTimeInMonths,
		&activity.WaitingPeriodInMonths,
		&members,
		&whitelist,
		&terms,
		&activity.DonationBalance,
		&activity.TotalDonationReceived,
		&activity.CreatedAt,
		&activity.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrActivityNotFound
		}
		return nil, err
	}

	activity.Level = domain.Level(level)
	if len(members) > 0 {
		_ = json.Unmarshal(members, &activity.Members)
	}
	if len(whitelist) > 0 {
		_ = json.Unmarshal(whitelist, &activity.Whitelist)
	}
	if len(terms) > 0 {
		_ = json.Unmarshal(terms, &activity.Terms)
	}

	return &activity, nil
}

func (r *activityRepository) Update(ctx context.Context, activity *domain.Activity) error {
	if activity == nil || activity.ID == 0 {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE activities
	SET title = $2,
		description = $3,
		join_price = $4,
		members = $5,
		whitelist = $6,
		terms = $7,
		donation_balance = $8,
		total_donation_received = $9,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		activity.ID,
		activity.Title,
		activity.Description,
		activity.JoinPrice,
		marshalJSON(activity.Members),
		marshalJSON(activity.Whitelist),
		marshalJSON(activity.Terms),
		activity.DonationBalance,
		activity.TotalDonationReceived,
	).Scan(&activity.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrActivityNotFound
		}
		return err
	}
	return nil
}

func (r *activityRepository) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM activities`
	var count int64
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
