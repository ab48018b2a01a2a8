package sync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/dashsync/internal/models"
)

func TestResolver_DeleteLocalNewer(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	local := newRecord(models.CollectionEvents, "e1", 300)
	require.NoError(t, store.AddRecord(ctx, models.CollectionEvents, local))
	entry := apply(t, store, models.ActionDelete, local)

	remote := okAPI()
	r := NewResolver(remote, store, testLogger())

	require.NoError(t, r.Resolve(ctx, entry, newRecord(models.CollectionEvents, "e1", 200)))

	calls := remote.ForceDeleteCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, models.CollectionEvents, calls[0].Collection)
	assert.Equal(t, "e1", calls[0].ID)
	assert.Empty(t, remote.ForceUpdateCalls())

	_, err := store.GetRecord(ctx, models.CollectionEvents, "e1")
	assert.Error(t, err)
}

func TestResolver_DeleteServerNewerRestoresRecord(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	local := newRecord(models.CollectionEvents, "e1", 100)
	require.NoError(t, store.AddRecord(ctx, models.CollectionEvents, local))
	entry := apply(t, store, models.ActionDelete, local)

	server := newRecord(models.CollectionEvents, "e1", 200)
	r := NewResolver(okAPI(), store, testLogger())
	require.NoError(t, r.Resolve(ctx, entry, server))

	got, err := store.GetRecord(ctx, models.CollectionEvents, "e1")
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusSynced, got.SyncStatus)
	assert.Equal(t, int64(200), got.LastModified)
}

func TestResolver_EqualTimestampsServerWins(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	local := newRecord(models.CollectionTasks, "t1", 200)
	entry := apply(t, store, models.ActionCreate, local)

	remote := okAPI()
	r := NewResolver(remote, store, testLogger())
	require.NoError(t, r.Resolve(ctx, entry, newRecord(models.CollectionTasks, "t1", 200)))

	assert.Empty(t, remote.ForceUpdateCalls())
}

func TestResolver_EntryWithoutRecord(t *testing.T) {
	r := NewResolver(okAPI(), newTestStore(t), testLogger())
	err := r.Resolve(context.Background(), &models.QueueEntry{ID: "x"}, newRecord(models.CollectionTasks, "t1", 1))
	assert.Error(t, err)
}

func TestResolver_ServerWinsKeepsLaterQueuedMutation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	local := newRecord(models.CollectionMeals, "m1", 100)
	first := apply(t, store, models.ActionCreate, local)

	later := newRecord(models.CollectionMeals, "m1", 300)
	apply(t, store, models.ActionUpdate, later)

	server := newRecord(models.CollectionMeals, "m1", 200)
	server.Version = 9
	r := NewResolver(okAPI(), store, testLogger())
	require.NoError(t, r.Resolve(ctx, first, server))

	got, err := store.GetRecord(ctx, models.CollectionMeals, "m1")
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusPending, got.SyncStatus)
	assert.Equal(t, int64(300), got.LastModified)
	assert.Equal(t, int64(1), got.Version)

	entries, err := store.Drain(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionUpdate, entries[0].Action)
}
