package data

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/dashsync/internal/models"
	"github.com/iudanet/dashsync/internal/validation"
)

//go:generate moq -out service_mock.go . Service

// Service определяет интерфейс для локальных мутаций и чтения записей
type Service interface {
	Create(ctx context.Context, payload models.Payload) (*models.Record, error)
	Update(ctx context.Context, id string, payload models.Payload) (*models.Record, error)
	Delete(ctx context.Context, collection models.Collection, id string) error

	Get(ctx context.Context, collection models.Collection, id string) (*models.Record, error)
	// List returns records of a collection, status "" means all records
	List(ctx context.Context, collection models.Collection, status models.SyncStatus) ([]*models.Record, error)
	ListByDate(ctx context.Context, collection models.Collection, from, to time.Time) ([]*models.Record, error)

	// CheckConsistency returns pending records that have no queue entry
	CheckConsistency(ctx context.Context) ([]*models.Record, error)
	// RepairConsistency re-enqueues an update for every orphaned pending record
	RepairConsistency(ctx context.Context) (int, error)
}

// Store is the part of the record store used by the data service
type Store interface {
	ApplyMutation(ctx context.Context, action models.Action, record *models.Record) (*models.QueueEntry, error)
	GetRecord(ctx context.Context, collection models.Collection, id string) (*models.Record, error)
	GetAllRecords(ctx context.Context, collection models.Collection) ([]*models.Record, error)
	GetRecordsByStatus(ctx context.Context, collection models.Collection, status models.SyncStatus) ([]*models.Record, error)
	GetRecordsByDate(ctx context.Context, collection models.Collection, from, to time.Time) ([]*models.Record, error)
	FindOrphanedPending(ctx context.Context) ([]*models.Record, error)
}

// service записывает локальные мутации в хранилище вместе с записью в очередь синхронизации
type service struct {
	store Store
	now   func() time.Time
}

// NewService creates a new data service
func NewService(store Store) Service {
	return &service{
		store: store,
		now:   time.Now,
	}
}

// Create validates the payload and stores a new pending record
func (s *service) Create(ctx context.Context, payload models.Payload) (*models.Record, error) {
	if err := validation.ValidatePayload(payload); err != nil {
		return nil, err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	record := &models.Record{
		ID:           uuid.New().String(),
		Collection:   payload.Collection(),
		Data:         data,
		Date:         payload.IndexTime().UTC(),
		LastModified: s.now().UnixMilli(),
		Version:      1,
	}

	if _, err := s.store.ApplyMutation(ctx, models.ActionCreate, record); err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}

	return record, nil
}

// Update replaces domain fields of an existing record
func (s *service) Update(ctx context.Context, id string, payload models.Payload) (*models.Record, error) {
	if err := validation.ValidatePayload(payload); err != nil {
		return nil, err
	}

	existing, err := s.store.GetRecord(ctx, payload.Collection(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	record := existing.Clone()
	record.Data = data
	record.Date = payload.IndexTime().UTC()
	s.touch(record, existing)

	if _, err := s.store.ApplyMutation(ctx, models.ActionUpdate, record); err != nil {
		return nil, fmt.Errorf("failed to update record: %w", err)
	}

	return record, nil
}

// Delete removes a record locally and queues the deletion
func (s *service) Delete(ctx context.Context, collection models.Collection, id string) error {
	existing, err := s.store.GetRecord(ctx, collection, id)
	if err != nil {
		return fmt.Errorf("failed to get record: %w", err)
	}

	// Снимок удаляемой записи с временем удаления нужен для разрешения конфликта
	record := existing.Clone()
	s.touch(record, existing)

	if _, err := s.store.ApplyMutation(ctx, models.ActionDelete, record); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

func (s *service) Get(ctx context.Context, collection models.Collection, id string) (*models.Record, error) {
	return s.store.GetRecord(ctx, collection, id)
}

func (s *service) List(ctx context.Context, collection models.Collection, status models.SyncStatus) ([]*models.Record, error) {
	if status == "" {
		return s.store.GetAllRecords(ctx, collection)
	}
	return s.store.GetRecordsByStatus(ctx, collection, status)
}

func (s *service) ListByDate(ctx context.Context, collection models.Collection, from, to time.Time) ([]*models.Record, error) {
	if !from.Before(to) {
		return nil, fmt.Errorf("invalid date range: %s is not before %s", from.Format(time.RFC3339), to.Format(time.RFC3339))
	}
	return s.store.GetRecordsByDate(ctx, collection, from, to)
}

func (s *service) CheckConsistency(ctx context.Context) ([]*models.Record, error) {
	return s.store.FindOrphanedPending(ctx)
}

func (s *service) RepairConsistency(ctx context.Context) (int, error) {
	orphans, err := s.store.FindOrphanedPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to find orphaned records: %w", err)
	}

	for i, record := range orphans {
		if _, err := s.store.ApplyMutation(ctx, models.ActionUpdate, record); err != nil {
			return i, fmt.Errorf("failed to re-enqueue %s/%s: %w", record.Collection, record.ID, err)
		}
	}

	return len(orphans), nil
}

// touch увеличивает версию и обновляет lastModified так, чтобы он строго рос
func (s *service) touch(record, existing *models.Record) {
	record.Version = existing.Version + 1
	record.Touch(s.now())
	if record.LastModified <= existing.LastModified {
		record.LastModified = existing.LastModified + 1
	}
}
