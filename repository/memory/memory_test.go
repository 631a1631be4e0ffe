package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/activityhub/backend/domain"
)

func TestActivityIDsAreMonotonic(t *testing.T) {
	repo := NewActivityRepository()
	ctx := context.Background()

	first := &domain.Activity{Owner: "alice", Title: "one", Level: 1, MaxMembers: 5}
	second := &domain.Activity{Owner: "alice", Title: "two", Level: 1, MaxMembers: 5}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
}

func TestActivityReadsAreIsolated(t *testing.T) {
	repo := NewActivityRepository()
	ctx := context.Background()

	activity := &domain.Activity{Owner: "alice", Title: "club", Level: 1, MaxMembers: 5}
	require.NoError(t, repo.Create(ctx, activity))

	read, err := repo.GetByID(ctx, activity.ID)
	require.NoError(t, err)
	read.Members = append(read.Members, "bob")

	// The staged mutation is invisible until committed with Update.
	again, err := repo.GetByID(ctx, activity.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Members)

	require.NoError(t, repo.Update(ctx, read))
	committed, err := repo.GetByID(ctx, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.Address{"bob"}, committed.Members)
}

func TestTaskIDsArePerActivity(t *testing.T) {
	repo := NewTaskRepository()
	ctx := context.Background()

	a1 := &domain.Task{ActivityID: 1, Assignee: "bob", Title: "x"}
	a2 := &domain.Task{ActivityID: 1, Assignee: "bob", Title: "y"}
	b1 := &domain.Task{ActivityID: 2, Assignee: "carol", Title: "z"}
	require.NoError(t, repo.Create(ctx, a1))
	require.NoError(t, repo.Create(ctx, a2))
	require.NoError(t, repo.Create(ctx, b1))

	assert.Equal(t, int64(1), a1.ID)
	assert.Equal(t, int64(2), a2.ID)
	assert.Equal(t, int64(1), b1.ID, "each activity has its own sequence")

	tasks, err := repo.ListByActivity(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "x", tasks[0].Title)
	assert.Equal(t, "y", tasks[1].Title)
}

func TestUserCreateConflict(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.User{Address: "alice", Registered: true}))

	err := repo.Create(ctx, &domain.User{Address: "alice"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)
}
