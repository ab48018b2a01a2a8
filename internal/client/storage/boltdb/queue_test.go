package boltdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/dashsync/internal/client/storage"
	"github.com/iudanet/dashsync/internal/models"
)

func TestEnqueueAndDrain_Order(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	rec1 := newTestRecord(models.CollectionTasks, "t1", time.Now())
	rec2 := newTestRecord(models.CollectionMeals, "m1", time.Now())
	rec3 := newTestRecord(models.CollectionTasks, "t2", time.Now())

	e1, err := store.Enqueue(ctx, models.ActionCreate, models.CollectionTasks, rec1)
	require.NoError(t, err)
	e2, err := store.Enqueue(ctx, models.ActionUpdate, models.CollectionMeals, rec2)
	require.NoError(t, err)
	e3, err := store.Enqueue(ctx, models.ActionDelete, models.CollectionTasks, rec3)
	require.NoError(t, err)

	assert.Equal(t, models.NewQueueEntryID(models.CollectionTasks, "t1", time.UnixMilli(e1.Timestamp)), e1.ID)
	assert.Zero(t, e1.RetryCount)
	assert.Less(t, e1.Timestamp, e2.Timestamp)

	entries, err := store.Drain(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []string{e1.ID, e2.ID, e3.ID}, []string{entries[0].ID, entries[1].ID, entries[2].ID})
	assert.Equal(t, "m1", entries[1].RecordID())
	assert.Equal(t, models.ActionDelete, entries[2].Action)

	// Drain не удаляет записи
	n, err := store.QueueLength(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestEnqueue_SameMillisecond(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	fixed := time.UnixMilli(1_700_000_000_000)
	store.now = func() time.Time { return fixed }

	rec := newTestRecord(models.CollectionEvents, "e1", fixed)
	first, err := store.Enqueue(ctx, models.ActionCreate, models.CollectionEvents, rec)
	require.NoError(t, err)
	second, err := store.Enqueue(ctx, models.ActionUpdate, models.CollectionEvents, rec)
	require.NoError(t, err)
	other, err := store.Enqueue(ctx, models.ActionCreate, models.CollectionEvents, newTestRecord(models.CollectionEvents, "e0", fixed))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Timestamp+1, second.Timestamp)
	// Время не уходит назад относительно последней записи очереди
	assert.Equal(t, second.Timestamp, other.Timestamp)

	entries, err := store.Drain(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	// Порядок совпадает с порядком добавления
	assert.Equal(t, first.ID, entries[0].ID)
	assert.Equal(t, second.ID, entries[1].ID)
	assert.Equal(t, other.ID, entries[2].ID)
}

func TestEnqueue_Validation(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	_, err := store.Enqueue(ctx, models.ActionCreate, models.Collection("notes"), newTestRecord("notes", "n", time.Now()))
	assert.ErrorIs(t, err, storage.ErrUnknownCollection)

	_, err = store.Enqueue(ctx, models.ActionCreate, models.CollectionTasks, &models.Record{})
	assert.Error(t, err)
}

func TestIncrementRetryAndRemove(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	entry, err := store.Enqueue(ctx, models.ActionCreate, models.CollectionTasks, newTestRecord(models.CollectionTasks, "t1", time.Now()))
	require.NoError(t, err)

	require.NoError(t, store.IncrementRetry(ctx, entry.ID, "HTTP 500: server error"))
	require.NoError(t, store.IncrementRetry(ctx, entry.ID, "network down"))

	entries, err := store.Drain(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].RetryCount)
	assert.Equal(t, "network down", entries[0].LastError)

	require.NoError(t, store.RemoveEntry(ctx, entry.ID))
	// Повторное удаление не ошибка
	require.NoError(t, store.RemoveEntry(ctx, entry.ID))

	entries, err = store.Drain(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	err = store.IncrementRetry(ctx, entry.ID, "x")
	assert.ErrorIs(t, err, storage.ErrEntryNotFound)
}

func TestApplyMutation_Create(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	rec := newTestRecord(models.CollectionMeals, "m1", time.Now())
	entry, err := store.ApplyMutation(ctx, models.ActionCreate, rec)
	require.NoError(t, err)
	assert.Equal(t, models.ActionCreate, entry.Action)
	assert.Equal(t, "m1", entry.Data.ID)
	assert.Equal(t, models.SyncStatusPending, entry.Data.SyncStatus)

	got, err := store.GetRecord(ctx, models.CollectionMeals, "m1")
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusPending, got.SyncStatus)

	// Создание существующей записи не добавляет запись в очередь
	_, err = store.ApplyMutation(ctx, models.ActionCreate, rec)
	assert.ErrorIs(t, err, storage.ErrRecordExists)

	n, err := store.QueueLength(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestApplyMutation_UpdateDeleteMissing(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	rec := newTestRecord(models.CollectionTasks, "nope", time.Now())

	_, err := store.ApplyMutation(ctx, models.ActionUpdate, rec)
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)
	_, err = store.ApplyMutation(ctx, models.ActionDelete, rec)
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)
	_, err = store.ApplyMutation(ctx, models.Action("merge"), rec)
	assert.Error(t, err)

	n, err := store.QueueLength(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestApplyMutation_Delete(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	rec := newTestRecord(models.CollectionEvents, "e1", time.Now())
	require.NoError(t, store.AddRecord(ctx, models.CollectionEvents, rec))

	entry, err := store.ApplyMutation(ctx, models.ActionDelete, rec)
	require.NoError(t, err)
	assert.Equal(t, "e1", entry.RecordID())

	_, err = store.GetRecord(ctx, models.CollectionEvents, "e1")
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)

	// Завершение delete не воскрешает запись
	require.NoError(t, store.CompleteEntry(ctx, entry.ID))
	_, err = store.GetRecord(ctx, models.CollectionEvents, "e1")
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)
}

func TestCompleteEntry_WaitsForLaterMutations(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	rec := newTestRecord(models.CollectionWorkouts, "w1", time.Now())
	created, err := store.ApplyMutation(ctx, models.ActionCreate, rec)
	require.NoError(t, err)

	rec.Version = 2
	updated, err := store.ApplyMutation(ctx, models.ActionUpdate, rec)
	require.NoError(t, err)

	require.NoError(t, store.CompleteEntry(ctx, created.ID))

	got, err := store.GetRecord(ctx, models.CollectionWorkouts, "w1")
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusPending, got.SyncStatus)

	require.NoError(t, store.CompleteEntry(ctx, updated.ID))

	got, err = store.GetRecord(ctx, models.CollectionWorkouts, "w1")
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusSynced, got.SyncStatus)

	n, err := store.QueueLength(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	// Отсутствующая запись очереди
	assert.NoError(t, store.CompleteEntry(ctx, "missing"))
}

func TestResolveEntry(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	rec := newTestRecord(models.CollectionTasks, "t1", time.UnixMilli(100))
	entry, err := store.ApplyMutation(ctx, models.ActionUpdate, mustAdd(t, store, rec))
	require.NoError(t, err)

	server := newTestRecord(models.CollectionTasks, "t1", time.UnixMilli(200))
	server.Data = []byte(`{"title":"server"}`)
	server.SyncStatus = ""

	require.NoError(t, store.ResolveEntry(ctx, entry.ID, server))

	got, err := store.GetRecord(ctx, models.CollectionTasks, "t1")
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusSynced, got.SyncStatus)
	assert.Equal(t, int64(200), got.LastModified)
	assert.JSONEq(t, `{"title":"server"}`, string(got.Data))

	n, err := store.QueueLength(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	// Запись очереди уже удалена
	assert.NoError(t, store.ResolveEntry(ctx, entry.ID, server))
}

func TestResolveEntry_KeepsPendingWhileQueued(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	rec := newTestRecord(models.CollectionTasks, "t1", time.UnixMilli(100))
	first, err := store.ApplyMutation(ctx, models.ActionCreate, rec)
	require.NoError(t, err)
	_, err = store.ApplyMutation(ctx, models.ActionUpdate, rec)
	require.NoError(t, err)

	server := newTestRecord(models.CollectionTasks, "t1", time.UnixMilli(200))
	server.Data = []byte(`{"title":"server"}`)
	require.NoError(t, store.ResolveEntry(ctx, first.ID, server))

	// Локальная запись не трогается, пока в очереди есть ее более поздняя мутация
	got, err := store.GetRecord(ctx, models.CollectionTasks, "t1")
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusPending, got.SyncStatus)
	assert.Equal(t, int64(100), got.LastModified)
	assert.JSONEq(t, `{"title":"t1"}`, string(got.Data))

	n, err := store.QueueLength(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestResolveEntry_DoesNotResurrectQueuedDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	rec := mustAdd(t, store, newTestRecord(models.CollectionTasks, "t1", time.UnixMilli(100)))
	updated, err := store.ApplyMutation(ctx, models.ActionUpdate, rec)
	require.NoError(t, err)
	deleted, err := store.ApplyMutation(ctx, models.ActionDelete, rec)
	require.NoError(t, err)

	require.NoError(t, store.ResolveEntry(ctx, updated.ID, newTestRecord(models.CollectionTasks, "t1", time.UnixMilli(200))))

	_, err = store.GetRecord(ctx, models.CollectionTasks, "t1")
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)

	require.NoError(t, store.CompleteEntry(ctx, deleted.ID))

	_, err = store.GetRecord(ctx, models.CollectionTasks, "t1")
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)

	orphans, err := store.FindOrphanedPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, orphans)
}

func TestCompleteEntry_DeleteRemovesLocalCopy(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	rec := mustAdd(t, store, newTestRecord(models.CollectionMeals, "m1", time.UnixMilli(100)))
	entry, err := store.ApplyMutation(ctx, models.ActionDelete, rec)
	require.NoError(t, err)

	// Копия записи появилась после удаления, например при восстановлении с сервера
	stale := newTestRecord(models.CollectionMeals, "m1", time.UnixMilli(200))
	stale.SyncStatus = models.SyncStatusPending
	require.NoError(t, store.PutRecord(ctx, models.CollectionMeals, stale))

	require.NoError(t, store.CompleteEntry(ctx, entry.ID))

	_, err = store.GetRecord(ctx, models.CollectionMeals, "m1")
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)

	pending, err := store.GetRecordsByStatus(ctx, models.CollectionMeals, models.SyncStatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func mustAdd(t *testing.T, store *Storage, rec *models.Record) *models.Record {
	t.Helper()
	require.NoError(t, store.AddRecord(context.Background(), rec.Collection, rec))
	return rec
}

func TestFindOrphanedPending(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	queued := newTestRecord(models.CollectionTasks, "queued", time.Now())
	_, err := store.ApplyMutation(ctx, models.ActionCreate, queued)
	require.NoError(t, err)

	orphan := newTestRecord(models.CollectionTransactions, "orphan", time.Now())
	orphan.SyncStatus = models.SyncStatusPending
	require.NoError(t, store.PutRecord(ctx, models.CollectionTransactions, orphan))

	synced := newTestRecord(models.CollectionTransactions, "synced", time.Now())
	require.NoError(t, store.PutRecord(ctx, models.CollectionTransactions, synced))

	orphans, err := store.FindOrphanedPending(ctx)
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Equal(t, "orphan", orphans[0].ID)
	assert.Equal(t, models.CollectionTransactions, orphans[0].Collection)
}
