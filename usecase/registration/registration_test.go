package registration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/activityhub/backend/domain"
	"github.com/activityhub/backend/internal/permit"
	"github.com/activityhub/backend/repository/memory"
)

func newTestUseCase() *UseCase {
	permits := permit.NewRegistry("operator")
	return New(memory.NewUserRepository(), permits, nil, nil)
}

func TestRegisterGrantsStartingCredits(t *testing.T) {
	uc := newTestUseCase()
	ctx := context.Background()

	user, err := uc.Register(ctx, "alice", "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.Address("alice"), user.Address)
	assert.True(t, user.Registered)
	assert.Equal(t, domain.StartingCredits, user.Credits)

	credits, registered, err := uc.Credits(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, registered)
	assert.Equal(t, domain.StartingCredits, credits)
}

func TestRegisterTwiceFails(t *testing.T) {
	uc := newTestUseCase()
	ctx := context.Background()

	_, err := uc.Register(ctx, "alice", "alice")
	require.NoError(t, err)

	_, err = uc.Register(ctx, "alice", "alice")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConflict))
}

func TestRegisterRelayAuthorization(t *testing.T) {
	uc := newTestUseCase()
	ctx := context.Background()

	_, err := uc.Register(ctx, "mallory", "alice")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))

	require.NoError(t, uc.Permits().AddPermittedAddress("operator", "relay"))
	_, err = uc.Register(ctx, "relay", "alice")
	require.NoError(t, err)
}

func TestCreditsUnknownAddress(t *testing.T) {
	uc := newTestUseCase()

	credits, registered, err := uc.Credits(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, registered)
	assert.Equal(t, int64(0), credits)
}

func TestDebitCredits(t *testing.T) {
	uc := newTestUseCase()
	ctx := context.Background()

	_, err := uc.Register(ctx, "alice", "alice")
	require.NoError(t, err)

	require.NoError(t, uc.DebitCredits(ctx, "alice", 4))

	credits, _, err := uc.Credits(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(6), credits)

	err = uc.DebitCredits(ctx, "alice", 7)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeEconomicLimit))

	credits, _, err = uc.Credits(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(6), credits, "a failed debit must not mutate the balance")
}

func TestAddCredits(t *testing.T) {
	uc := newTestUseCase()
	ctx := context.Background()

	_, err := uc.Register(ctx, "alice", "alice")
	require.NoError(t, err)

	require.NoError(t, uc.AddCredits(ctx, "alice", 5))

	credits, _, err := uc.Credits(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(15), credits)

	assert.Error(t, uc.AddCredits(ctx, "nobody", 5))
}

func TestUserCount(t *testing.T) {
	uc := newTestUseCase()
	ctx := context.Background()

	count, err := uc.UserCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	_, err = uc.Register(ctx, "alice", "alice")
	require.NoError(t, err)
	_, err = uc.Register(ctx, "bob", "bob")
	require.NoError(t, err)

	count, err = uc.UserCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
