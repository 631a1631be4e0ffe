package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/activityhub/backend/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "journal.db"), "journal")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Minute)

	for i, op := range []string{"register", "create", "join"} {
		err := store.Record(ctx, domain.LedgerEvent{
			Module:    "activity",
			Operation: op,
			Principal: "alice",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 3, size)

	events, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "register", events[0].Operation, "events replay oldest first")
	assert.Equal(t, "join", events[2].Operation)
	assert.NotEmpty(t, events[0].ID, "ids are assigned on record")
}

func TestRecentLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(ctx, domain.LedgerEvent{Operation: "op"}))
	}

	events, err := store.Recent(2)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestCleanup(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Record(ctx, domain.LedgerEvent{
		Operation: "old",
		CreatedAt: now.Add(-2 * time.Hour),
	}))
	require.NoError(t, store.Record(ctx, domain.LedgerEvent{
		Operation: "fresh",
		CreatedAt: now,
	}))

	require.NoError(t, store.Cleanup(now.Add(-time.Hour)))

	events, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "fresh", events[0].Operation)
}
