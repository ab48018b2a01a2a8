package data

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/dashsync/internal/client/storage"
	"github.com/iudanet/dashsync/internal/models"
	"github.com/iudanet/dashsync/internal/validation"
)

// mockStore - простой hand-written mock для Store интерфейса
type mockStore struct {
	applyErr  error
	orphanErr error
	records   map[string]*models.Record
	applied   []models.Action
	orphans   []*models.Record
}

func newMockStore() *mockStore {
	return &mockStore{records: make(map[string]*models.Record)}
}

func key(c models.Collection, id string) string { return string(c) + "/" + id }

func (m *mockStore) ApplyMutation(ctx context.Context, action models.Action, record *models.Record) (*models.QueueEntry, error) {
	if m.applyErr != nil {
		return nil, m.applyErr
	}
	m.applied = append(m.applied, action)
	if action == models.ActionDelete {
		delete(m.records, key(record.Collection, record.ID))
	} else {
		rec := record.Clone()
		rec.SyncStatus = models.SyncStatusPending
		m.records[key(record.Collection, record.ID)] = rec
	}
	return &models.QueueEntry{ID: "entry", Action: action, Collection: record.Collection, Data: record.Clone()}, nil
}

func (m *mockStore) GetRecord(ctx context.Context, c models.Collection, id string) (*models.Record, error) {
	rec, ok := m.records[key(c, id)]
	if !ok {
		return nil, storage.ErrRecordNotFound
	}
	return rec.Clone(), nil
}

func (m *mockStore) GetAllRecords(ctx context.Context, c models.Collection) ([]*models.Record, error) {
	var out []*models.Record
	for _, rec := range m.records {
		if rec.Collection == c {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockStore) GetRecordsByStatus(ctx context.Context, c models.Collection, status models.SyncStatus) ([]*models.Record, error) {
	all, _ := m.GetAllRecords(ctx, c)
	var out []*models.Record
	for _, rec := range all {
		if rec.SyncStatus == status {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *mockStore) GetRecordsByDate(ctx context.Context, c models.Collection, from, to time.Time) ([]*models.Record, error) {
	all, _ := m.GetAllRecords(ctx, c)
	var out []*models.Record
	for _, rec := range all {
		if !rec.Date.Before(from) && rec.Date.Before(to) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *mockStore) FindOrphanedPending(ctx context.Context) ([]*models.Record, error) {
	return m.orphans, m.orphanErr
}

func newTestService(store Store, now time.Time) *service {
	return &service{store: store, now: func() time.Time { return now }}
}

func TestNewService(t *testing.T) {
	store := newMockStore()
	svc := NewService(store)
	require.NotNil(t, svc)
	assert.Equal(t, store, svc.(*service).store)
}

func TestCreate_Success(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestService(store, now)

	meal := &models.Meal{Name: "Salad", MealType: models.MealLunch, Calories: 420, Date: now}
	rec, err := svc.Create(ctx, meal)
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, models.CollectionMeals, rec.Collection)
	assert.Equal(t, int64(1), rec.Version)
	assert.Equal(t, now.UnixMilli(), rec.LastModified)
	assert.True(t, now.Equal(rec.Date))
	assert.Equal(t, []models.Action{models.ActionCreate}, store.applied)

	var decoded models.Meal
	require.NoError(t, json.Unmarshal(rec.Data, &decoded))
	assert.Equal(t, "Salad", decoded.Name)

	stored, err := svc.Get(ctx, models.CollectionMeals, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusPending, stored.SyncStatus)
}

func TestCreate_ValidationError(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store, time.Now())

	_, err := svc.Create(context.Background(), &models.Task{Priority: models.PriorityLow, CreatedAt: time.Now()})
	assert.ErrorIs(t, err, validation.ErrInvalidPayload)
	assert.Empty(t, store.applied)
}

func TestCreate_StorageError(t *testing.T) {
	store := newMockStore()
	store.applyErr = &storage.StorageError{Op: "apply mutation", Err: errors.New("disk full")}
	svc := newTestService(store, time.Now())

	_, err := svc.Create(context.Background(), &models.Task{Title: "x", Priority: models.PriorityLow, CreatedAt: time.Now()})
	var se *storage.StorageError
	assert.ErrorAs(t, err, &se)
}

func TestUpdate_IncrementsVersion(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	created := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestService(store, created)

	task := &models.Task{Title: "Draft", Priority: models.PriorityLow, CreatedAt: created}
	rec, err := svc.Create(ctx, task)
	require.NoError(t, err)

	due := created.Add(48 * time.Hour)
	task.Title = "Final"
	task.DueDate = &due

	// Часы не сдвинулись, lastModified всё равно должен вырасти
	updated, err := svc.Update(ctx, rec.ID, task)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, updated.ID)
	assert.Equal(t, int64(2), updated.Version)
	assert.Greater(t, updated.LastModified, rec.LastModified)
	assert.True(t, due.Equal(updated.Date))
	assert.Contains(t, string(updated.Data), "Final")
}

func TestUpdate_NotFound(t *testing.T) {
	svc := newTestService(newMockStore(), time.Now())

	_, err := svc.Update(context.Background(), "missing", &models.Event{Title: "x", StartTime: time.Now()})
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestService(store, now)

	rec, err := svc.Create(ctx, &models.Workout{Kind: "yoga", DurationMinutes: 45, Date: now})
	require.NoError(t, err)

	svc.now = func() time.Time { return now.Add(time.Hour) }
	require.NoError(t, svc.Delete(ctx, models.CollectionWorkouts, rec.ID))
	assert.Equal(t, []models.Action{models.ActionCreate, models.ActionDelete}, store.applied)

	_, err = svc.Get(ctx, models.CollectionWorkouts, rec.ID)
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)

	err = svc.Delete(ctx, models.CollectionWorkouts, rec.ID)
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestService(store, now)

	_, err := svc.Create(ctx, &models.Event{Title: "A", StartTime: now})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &models.Event{Title: "B", StartTime: now.Add(24 * time.Hour)})
	require.NoError(t, err)

	all, err := svc.List(ctx, models.CollectionEvents, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := svc.List(ctx, models.CollectionEvents, models.SyncStatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	synced, err := svc.List(ctx, models.CollectionEvents, models.SyncStatusSynced)
	require.NoError(t, err)
	assert.Empty(t, synced)

	day, err := svc.ListByDate(ctx, models.CollectionEvents, now, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, day, 1)

	_, err = svc.ListByDate(ctx, models.CollectionEvents, now, now)
	assert.Error(t, err)
}

func TestRepairConsistency(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	svc := newTestService(store, time.Now())

	store.orphans = []*models.Record{
		{ID: "a", Collection: models.CollectionTasks, SyncStatus: models.SyncStatusPending},
		{ID: "b", Collection: models.CollectionMeals, SyncStatus: models.SyncStatusPending},
	}

	orphans, err := svc.CheckConsistency(ctx)
	require.NoError(t, err)
	assert.Len(t, orphans, 2)

	n, err := svc.RepairConsistency(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []models.Action{models.ActionUpdate, models.ActionUpdate}, store.applied)

	store.orphanErr = errors.New("boom")
	_, err = svc.RepairConsistency(ctx)
	assert.Error(t, err)
}
