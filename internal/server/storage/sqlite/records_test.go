package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/dashsync/internal/models"
	"github.com/iudanet/dashsync/internal/server/storage"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, s.Close())
	})

	return s
}

func newRecord(collection models.Collection, lastModified int64) *models.Record {
	return &models.Record{
		ID:           uuid.New().String(),
		Collection:   collection,
		Data:         json.RawMessage(`{"title":"write report","priority":"high"}`),
		Date:         time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		SyncStatus:   models.SyncStatusPending,
		LastModified: lastModified,
		Version:      1,
	}
}

func TestStorage_New_RunsMigrations(t *testing.T) {
	s := setupTestStorage(t)

	var name string
	err := s.db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'records'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "records", name)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestStorage_SaveRecord_Create(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	record := newRecord(models.CollectionTasks, 1000)
	stored, err := s.SaveRecord(ctx, record, false)
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusSynced, stored.SyncStatus)

	got, err := s.GetRecord(ctx, models.CollectionTasks, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, models.CollectionTasks, got.Collection)
	assert.JSONEq(t, string(record.Data), string(got.Data))
	assert.True(t, record.Date.Equal(got.Date))
	assert.Equal(t, int64(1000), got.LastModified)
	assert.Equal(t, int64(1), got.Version)
	assert.Equal(t, models.SyncStatusSynced, got.SyncStatus)
}

func TestStorage_SaveRecord_LastWriterWins(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		incoming     int64
		force        bool
		wantConflict bool
		wantStored   int64
	}{
		{name: "newer incoming overwrites", incoming: 2000, wantStored: 2000},
		{name: "equal incoming is accepted", incoming: 1500, wantStored: 1500},
		{name: "older incoming conflicts", incoming: 1000, wantConflict: true, wantStored: 1500},
		{name: "older incoming with force overwrites", incoming: 1000, force: true, wantStored: 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupTestStorage(t)

			original := newRecord(models.CollectionMeals, 1500)
			_, err := s.SaveRecord(ctx, original, false)
			require.NoError(t, err)

			incoming := original.Clone()
			incoming.LastModified = tt.incoming
			incoming.Version = 2
			incoming.Data = json.RawMessage(`{"name":"oatmeal"}`)

			_, err = s.SaveRecord(ctx, incoming, tt.force)
			if tt.wantConflict {
				var conflict *storage.ConflictError
				require.True(t, errors.As(err, &conflict), "expected conflict, got %v", err)
				assert.Equal(t, original.ID, conflict.Current.ID)
				assert.Equal(t, int64(1500), conflict.Current.LastModified)
			} else {
				require.NoError(t, err)
			}

			got, err := s.GetRecord(ctx, models.CollectionMeals, original.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStored, got.LastModified)
		})
	}
}

func TestStorage_SaveRecord_Invalid(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	record := newRecord("notes", 1)
	_, err := s.SaveRecord(ctx, record, false)
	assert.ErrorIs(t, err, storage.ErrUnknownCollection)

	record = newRecord(models.CollectionTasks, 1)
	record.ID = ""
	_, err = s.SaveRecord(ctx, record, false)
	assert.Error(t, err)
}

func TestStorage_SaveRecord_EmptyDataStoredAsObject(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	record := newRecord(models.CollectionEvents, 1)
	record.Data = nil
	_, err := s.SaveRecord(ctx, record, false)
	require.NoError(t, err)

	got, err := s.GetRecord(ctx, models.CollectionEvents, record.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(got.Data))
}

func TestStorage_GetRecord_NotFound(t *testing.T) {
	s := setupTestStorage(t)

	_, err := s.GetRecord(context.Background(), models.CollectionTasks, "missing")
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)
}

func TestStorage_ListRecords(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	later := newRecord(models.CollectionWorkouts, 1)
	later.Date = time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
	earlier := newRecord(models.CollectionWorkouts, 1)
	earlier.Date = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	other := newRecord(models.CollectionTransactions, 1)

	for _, r := range []*models.Record{later, earlier, other} {
		_, err := s.SaveRecord(ctx, r, false)
		require.NoError(t, err)
	}

	records, err := s.ListRecords(ctx, models.CollectionWorkouts)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, earlier.ID, records[0].ID)
	assert.Equal(t, later.ID, records[1].ID)

	empty, err := s.ListRecords(ctx, models.CollectionEvents)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestStorage_DeleteRecord(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	record := newRecord(models.CollectionTasks, 1000)
	_, err := s.SaveRecord(ctx, record, false)
	require.NoError(t, err)

	require.NoError(t, s.DeleteRecord(ctx, models.CollectionTasks, record.ID))

	_, err = s.GetRecord(ctx, models.CollectionTasks, record.ID)
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)

	records, err := s.ListRecords(ctx, models.CollectionTasks)
	require.NoError(t, err)
	assert.Empty(t, records)

	// Повторное удаление и удаление несуществующей записи не являются ошибкой
	assert.NoError(t, s.DeleteRecord(ctx, models.CollectionTasks, record.ID))
	assert.NoError(t, s.DeleteRecord(ctx, models.CollectionTasks, "missing"))
}

func TestStorage_SaveRecord_AfterDeleteSkipsConflict(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	record := newRecord(models.CollectionTasks, 5000)
	_, err := s.SaveRecord(ctx, record, false)
	require.NoError(t, err)
	require.NoError(t, s.DeleteRecord(ctx, models.CollectionTasks, record.ID))

	restored := record.Clone()
	restored.LastModified = 10
	_, err = s.SaveRecord(ctx, restored, false)
	require.NoError(t, err)

	got, err := s.GetRecord(ctx, models.CollectionTasks, record.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.LastModified)
}
