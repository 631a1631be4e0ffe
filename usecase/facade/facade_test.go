package facade

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/activityhub/backend/domain"
	"github.com/activityhub/backend/internal/infrastructure/bank"
	"github.com/activityhub/backend/internal/infrastructure/pricefeed"
	"github.com/activityhub/backend/internal/permit"
	"github.com/activityhub/backend/repository/memory"
	"github.com/activityhub/backend/usecase"
	activityUC "github.com/activityhub/backend/usecase/activity"
	donationUC "github.com/activityhub/backend/usecase/donation"
	registrationUC "github.com/activityhub/backend/usecase/registration"
	taskUC "github.com/activityhub/backend/usecase/task"
)

const operator = domain.Address("operator")

type fixture struct {
	hub          *Facade
	registration *registrationUC.UseCase
	bank         *bank.Memory
}

// newFixture composes the four ledgers behind a façade the way the server
// wires them: per-module registries owned by the operator, with the façade
// granted relay status on each.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	users := memory.NewUserRepository()
	activities := memory.NewActivityRepository()
	tasks := memory.NewTaskRepository()
	oracle := pricefeed.NewStatic(2_00000000, 8)
	accounts := bank.NewMemory()

	registration := registrationUC.New(users, permit.NewRegistry(operator), nil, nil)
	activity := activityUC.New(activities, registration, oracle, accounts,
		permit.NewRegistry(operator), nil, nil,
		activityUC.Config{JoinVault: "vault:join"})
	donation := donationUC.New(activities, accounts,
		permit.NewRegistry(operator), nil, nil,
		donationUC.Config{Vault: "vault:donations", Treasury: "treasury"})
	task := taskUC.New(tasks, activities, registration, oracle, accounts,
		permit.NewRegistry(operator), nil, nil,
		taskUC.Config{Vault: "vault:tasks"})

	hub := New("facade", registration, activity, task, donation, nil)
	require.NoError(t, hub.Grant(operator,
		registration.Permits(),
		activity.Permits(),
		task.Permits(),
		donation.Permits(),
	))

	return &fixture{hub: hub, registration: registration, bank: accounts}
}

func TestGrantRequiresRegistryOwner(t *testing.T) {
	hub := New("facade", nil, nil, nil, nil, nil)

	err := hub.Grant("stranger", permit.NewRegistry(operator))
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
}

func TestRelayedCallsCarryCallerIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.hub.Register(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.Address("alice"), user.Address)

	// The same ledgers reject an unpermitted relay forwarding a principal.
	_, err = f.registration.Register(ctx, "mallory", "bob")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotPermitted)
}

func TestJoinActivityWhitelistGating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.hub.Register(ctx, "alice")
	require.NoError(t, err)
	_, err = f.hub.Register(ctx, "bob")
	require.NoError(t, err)
	require.NoError(t, f.bank.Deposit(ctx, "bob", 10_00000000))

	activity, err := f.hub.CreateActivity(ctx, "alice", usecase.CreateActivityParams{
		Title:      "chess nights",
		Level:      1,
		FiatPrice:  4,
		MaxMembers: 5,
	})
	require.NoError(t, err)

	join := usecase.JoinActivityParams{ActivityID: activity.ID, Payment: 2_00000000}

	err = f.hub.JoinActivity(ctx, "bob", join)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotPermitted, "relayed joins require a whitelist entry")

	require.NoError(t, f.hub.AddToWhitelist(ctx, "alice", activity.ID, []domain.Address{"bob"}))
	require.NoError(t, f.hub.JoinActivity(ctx, "bob", join))

	updated, err := f.hub.GetActivity(ctx, activity.ID)
	require.NoError(t, err)
	assert.True(t, updated.HasMember("bob"))
}

func TestEndToEndLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.hub.Register(ctx, "alice")
	require.NoError(t, err)
	_, err = f.hub.Register(ctx, "bob")
	require.NoError(t, err)

	require.NoError(t, f.bank.Deposit(ctx, "bob", 200_00000000))
	require.NoError(t, f.bank.Deposit(ctx, "alice", 10_00000000))

	activity, err := f.hub.CreateActivity(ctx, "alice", usecase.CreateActivityParams{
		Title:      "community garden",
		Level:      1,
		FiatPrice:  4,
		MaxMembers: 5,
	})
	require.NoError(t, err)

	credits, _, err := f.hub.Credits(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(8), credits)

	// Bob is whitelisted and joins for 4 fiat = 2.0 native.
	require.NoError(t, f.hub.AddToWhitelist(ctx, "alice", activity.ID, []domain.Address{"bob"}))
	price, err := f.hub.JoinPriceInNative(ctx, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2_00000000), price)
	require.NoError(t, f.hub.JoinActivity(ctx, "bob", usecase.JoinActivityParams{
		ActivityID: activity.ID,
		Payment:    price,
	}))

	// Bob donates 100 native units; 75 percent lands in custody.
	require.NoError(t, f.hub.Donate(ctx, "bob", activity.ID, "bob-public", 100_00000000))
	funded, err := f.hub.GetActivity(ctx, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(75_00000000), funded.DonationBalance)

	// Alice assigns bob a task with an escrowed reward and completes it.
	task, err := f.hub.CreateTask(ctx, "alice", usecase.CreateTaskParams{
		ActivityID:        activity.ID,
		Assignee:          "bob",
		Title:             "weed the beds",
		FiatReward:        4,
		DueInDays:         3,
		CreditScoreReward: 2,
		Payment:           2_00000000,
	})
	require.NoError(t, err)
	require.NoError(t, f.hub.CompleteTask(ctx, "alice", activity.ID, task.ID))

	bobCredits, _, err := f.hub.Credits(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, domain.StartingCredits+2, bobCredits)

	// Alice drains the donation custody.
	withdrawn, err := f.hub.WithdrawAll(ctx, "alice", activity.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(75_00000000), withdrawn)

	drained, err := f.hub.GetActivity(ctx, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), drained.DonationBalance)

	aliceBalance, err := f.bank.BalanceOf(ctx, "alice")
	require.NoError(t, err)
	// 10 funded, 2 escrowed for the task, 75 withdrawn.
	assert.Equal(t, int64(83_00000000), aliceBalance)

	count, err := f.hub.UserCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	activityCount, err := f.hub.ActivityCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), activityCount)

	tasks, err := f.hub.TasksFor(ctx, activity.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed)

	assert.Equal(t, int64(200), f.hub.TaxAmountForTask(1000))
}
