package donation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/activityhub/backend/domain"
	"github.com/activityhub/backend/internal/infrastructure/bank"
	"github.com/activityhub/backend/internal/permit"
	"github.com/activityhub/backend/repository"
	"github.com/activityhub/backend/repository/memory"
)

type fixture struct {
	uc         *UseCase
	activities repository.ActivityRepository
	bank       *bank.Memory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	activities := memory.NewActivityRepository()
	accounts := bank.NewMemory()
	uc := New(activities, accounts, permit.NewRegistry("operator"), nil, nil, Config{
		Vault:    "vault",
		Treasury: "treasury",
	})
	return &fixture{uc: uc, activities: activities, bank: accounts}
}

func (f *fixture) seedActivity(t *testing.T, owner domain.Address) *domain.Activity {
	t.Helper()
	activity := &domain.Activity{
		Owner:      owner,
		Title:      "book club",
		Level:      1,
		MaxMembers: 10,
	}
	require.NoError(t, f.activities.Create(context.Background(), activity))
	return activity
}

func TestDonateSplitsFee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	activity := f.seedActivity(t, "alice")
	require.NoError(t, f.bank.Deposit(ctx, "dave", 100_00000000))

	err := f.uc.Donate(ctx, "dave", "dave", activity.ID, "dave-public", 100_00000000)
	require.NoError(t, err)

	treasury, err := f.bank.BalanceOf(ctx, "treasury")
	require.NoError(t, err)
	assert.Equal(t, int64(25_00000000), treasury, "25 percent platform fee")

	vault, err := f.bank.BalanceOf(ctx, "vault")
	require.NoError(t, err)
	assert.Equal(t, int64(75_00000000), vault)

	updated, err := f.activities.GetByID(ctx, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(75_00000000), updated.DonationBalance)
	assert.Equal(t, int64(100_00000000), updated.TotalDonationReceived, "the gross counter includes the fee")
}

func TestDonateRoundsCustodyDown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	activity := f.seedActivity(t, "alice")
	require.NoError(t, f.bank.Deposit(ctx, "dave", 10))

	// 2 units do not split evenly at 25 percent. The custody share
	// truncates to 1 and the fee takes the remainder.
	require.NoError(t, f.uc.Donate(ctx, "dave", "dave", activity.ID, "", 2))

	updated, err := f.activities.GetByID(ctx, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.DonationBalance)
	assert.Equal(t, int64(2), updated.TotalDonationReceived)
	assert.LessOrEqual(t, updated.DonationBalance, updated.TotalDonationReceived*75/100)

	treasury, err := f.bank.BalanceOf(ctx, "treasury")
	require.NoError(t, err)
	assert.Equal(t, int64(1), treasury)
}

func TestDonateZeroAmount(t *testing.T) {
	f := newFixture(t)
	activity := f.seedActivity(t, "alice")

	err := f.uc.Donate(context.Background(), "dave", "dave", activity.ID, "", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrZeroAmount)
}

func TestDonateUnknownActivity(t *testing.T) {
	f := newFixture(t)

	err := f.uc.Donate(context.Background(), "dave", "dave", 42, "", 100)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestDonateWithoutFunds(t *testing.T) {
	f := newFixture(t)
	activity := f.seedActivity(t, "alice")

	err := f.uc.Donate(context.Background(), "dave", "dave", activity.ID, "", 100)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
}

func TestWithdrawAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	activity := f.seedActivity(t, "alice")
	require.NoError(t, f.bank.Deposit(ctx, "dave", 100))
	require.NoError(t, f.uc.Donate(ctx, "dave", "dave", activity.ID, "", 100))

	amount, err := f.uc.WithdrawAll(ctx, "alice", "alice", activity.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(75), amount)

	owner, err := f.bank.BalanceOf(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(75), owner)

	updated, err := f.activities.GetByID(ctx, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated.DonationBalance)
	assert.Equal(t, int64(100), updated.TotalDonationReceived, "the gross counter never decreases")
}

func TestWithdrawPartial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	activity := f.seedActivity(t, "alice")
	require.NoError(t, f.bank.Deposit(ctx, "dave", 100))
	require.NoError(t, f.uc.Donate(ctx, "dave", "dave", activity.ID, "", 100))

	require.NoError(t, f.uc.Withdraw(ctx, "alice", "alice", activity.ID, 50))

	updated, err := f.activities.GetByID(ctx, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(25), updated.DonationBalance)

	err = f.uc.Withdraw(ctx, "alice", "alice", activity.ID, 26)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	err = f.uc.Withdraw(ctx, "alice", "alice", activity.ID, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrZeroAmount)
}

func TestWithdrawOwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	activity := f.seedActivity(t, "alice")
	require.NoError(t, f.bank.Deposit(ctx, "dave", 100))
	require.NoError(t, f.uc.Donate(ctx, "dave", "dave", activity.ID, "", 100))

	_, err := f.uc.WithdrawAll(ctx, "bob", "bob", activity.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotActivityOwner)
}

func TestWithdrawAllEmptyBalance(t *testing.T) {
	f := newFixture(t)
	activity := f.seedActivity(t, "alice")

	amount, err := f.uc.WithdrawAll(context.Background(), "alice", "alice", activity.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), amount)
}
