package task

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/activityhub/backend/domain"
	"github.com/activityhub/backend/internal/infrastructure/bank"
	"github.com/activityhub/backend/internal/infrastructure/pricefeed"
	"github.com/activityhub/backend/internal/permit"
	"github.com/activityhub/backend/repository"
	"github.com/activityhub/backend/repository/memory"
	"github.com/activityhub/backend/usecase"
	registrationUC "github.com/activityhub/backend/usecase/registration"
)

type fixture struct {
	uc           *UseCase
	registration *registrationUC.UseCase
	activities   repository.ActivityRepository
	bank         *bank.Memory
}

// newFixture wires the ledger against in-memory stores with a fixed quote
// of 2.00 fiat per native unit.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	registration := registrationUC.New(memory.NewUserRepository(), permit.NewRegistry("operator"), nil, nil)
	activities := memory.NewActivityRepository()
	accounts := bank.NewMemory()
	uc := New(
		memory.NewTaskRepository(),
		activities,
		registration,
		pricefeed.NewStatic(2_00000000, 8),
		accounts,
		permit.NewRegistry("operator"),
		nil,
		nil,
		Config{Vault: "vault"},
	)
	return &fixture{uc: uc, registration: registration, activities: activities, bank: accounts}
}

func (f *fixture) seedActivity(t *testing.T, owner domain.Address, members ...domain.Address) *domain.Activity {
	t.Helper()
	activity := &domain.Activity{
		Owner:      owner,
		Title:      "garden duty",
		Level:      1,
		MaxMembers: 10,
		Members:    members,
	}
	require.NoError(t, f.activities.Create(context.Background(), activity))
	return activity
}

func taskParams(activityID int64, assignee domain.Address) usecase.CreateTaskParams {
	return usecase.CreateTaskParams{
		ActivityID:        activityID,
		Assignee:          assignee,
		Title:             "water the plants",
		FiatReward:        4,
		DueInDays:         7,
		CreditScoreReward: 3,
		Payment:           2_00000000,
	}
}

func TestCreateTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	activity := f.seedActivity(t, "alice", "bob")
	require.NoError(t, f.bank.Deposit(ctx, "alice", 5_00000000))

	task, err := f.uc.CreateTask(ctx, "alice", "alice", taskParams(activity.ID, "bob"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), task.ID, "task ids are per-activity and 1-based")
	assert.Equal(t, int64(2_00000000), task.RewardAmount, "4 fiat at 2.00/native")
	assert.False(t, task.Completed)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), task.DueDate, time.Minute)

	vault, err := f.bank.BalanceOf(ctx, "vault")
	require.NoError(t, err)
	assert.Equal(t, int64(2_00000000), vault, "the reward is escrowed at creation")

	second, err := f.uc.CreateTask(ctx, "alice", "alice", taskParams(activity.ID, "bob"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)
}

func TestCreateTaskOwnerOnly(t *testing.T) {
	f := newFixture(t)
	activity := f.seedActivity(t, "alice", "bob")

	_, err := f.uc.CreateTask(context.Background(), "bob", "bob", taskParams(activity.ID, "bob"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotActivityOwner)
}

func TestCreateTaskAssigneeMustBeMember(t *testing.T) {
	f := newFixture(t)
	activity := f.seedActivity(t, "alice", "bob")

	_, err := f.uc.CreateTask(context.Background(), "alice", "alice", taskParams(activity.ID, "carol"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAssigneeNotMember)
}

func TestCreateTaskUnderfundedEscrow(t *testing.T) {
	f := newFixture(t)
	activity := f.seedActivity(t, "alice", "bob")

	params := taskParams(activity.ID, "bob")
	params.Payment = 1_00000000
	_, err := f.uc.CreateTask(context.Background(), "alice", "alice", params)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientPayment)
}

func TestCompleteTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	activity := f.seedActivity(t, "alice", "bob")
	require.NoError(t, f.bank.Deposit(ctx, "alice", 5_00000000))
	_, err := f.registration.Register(ctx, "bob", "bob")
	require.NoError(t, err)

	task, err := f.uc.CreateTask(ctx, "alice", "alice", taskParams(activity.ID, "bob"))
	require.NoError(t, err)

	require.NoError(t, f.uc.CompleteTask(ctx, "alice", "alice", activity.ID, task.ID))

	bobBalance, err := f.bank.BalanceOf(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(2_00000000), bobBalance, "the escrow is released to the assignee")

	credits, _, err := f.registration.Credits(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, domain.StartingCredits+3, credits)

	tasks, err := f.uc.TasksFor(ctx, activity.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed)
	assert.False(t, tasks[0].CompletedAt.IsZero())
}

func TestCompleteTaskTwiceFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	activity := f.seedActivity(t, "alice", "bob")
	require.NoError(t, f.bank.Deposit(ctx, "alice", 5_00000000))
	_, err := f.registration.Register(ctx, "bob", "bob")
	require.NoError(t, err)

	task, err := f.uc.CreateTask(ctx, "alice", "alice", taskParams(activity.ID, "bob"))
	require.NoError(t, err)
	require.NoError(t, f.uc.CompleteTask(ctx, "alice", "alice", activity.ID, task.ID))

	err = f.uc.CompleteTask(ctx, "alice", "alice", activity.ID, task.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)

	bobBalance, err := f.bank.BalanceOf(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(2_00000000), bobBalance, "a repeat completion never double-pays")
}

func TestCompleteTaskOwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	activity := f.seedActivity(t, "alice", "bob")
	require.NoError(t, f.bank.Deposit(ctx, "alice", 5_00000000))

	task, err := f.uc.CreateTask(ctx, "alice", "alice", taskParams(activity.ID, "bob"))
	require.NoError(t, err)

	err = f.uc.CompleteTask(ctx, "bob", "bob", activity.ID, task.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotActivityOwner)
}

func TestCompleteTaskNotFound(t *testing.T) {
	f := newFixture(t)
	activity := f.seedActivity(t, "alice")

	err := f.uc.CompleteTask(context.Background(), "alice", "alice", activity.ID, 9)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestTaxAmountForTask(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		amount int64
		tax    int64
	}{
		{1000, 200},
		{500, 100},
		{7505, 1501},
		{0, 0},
		{-10, 0},
		{3, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.tax, f.uc.TaxAmountForTask(tc.amount), "amount %d", tc.amount)
	}
}

func TestTasksForUnknownActivity(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.TasksFor(context.Background(), 77)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}
