package storage

import (
	"context"
	"time"

	"github.com/iudanet/dashsync/internal/models"
)

// RecordStorage defines durable per-collection CRUD with status and date indexes
type RecordStorage interface {
	// GetRecord retrieves a record by ID
	// Returns ErrRecordNotFound if record doesn't exist
	GetRecord(ctx context.Context, collection models.Collection, id string) (*models.Record, error)

	// GetAllRecords returns all records of a collection in storage order
	GetAllRecords(ctx context.Context, collection models.Collection) ([]*models.Record, error)

	// AddRecord inserts a new record
	// Returns ErrRecordExists if record with the same ID exists
	AddRecord(ctx context.Context, collection models.Collection, record *models.Record) error

	// PutRecord inserts or overwrites a record by ID
	PutRecord(ctx context.Context, collection models.Collection, record *models.Record) error

	// DeleteRecord removes a record, missing records are ignored
	DeleteRecord(ctx context.Context, collection models.Collection, id string) error

	// ClearRecords removes all records of a collection
	ClearRecords(ctx context.Context, collection models.Collection) error

	// CountRecords returns number of records in a collection
	CountRecords(ctx context.Context, collection models.Collection) (int, error)

	// GetRecordsByStatus returns records whose SyncStatus equals status
	GetRecordsByStatus(ctx context.Context, collection models.Collection, status models.SyncStatus) ([]*models.Record, error)

	// GetRecordsByDate returns records with Date in [from, to), ordered by date
	GetRecordsByDate(ctx context.Context, collection models.Collection, from, to time.Time) ([]*models.Record, error)

	// MarkSynced sets status synced and refreshes LastModified; no-op if record is absent
	MarkSynced(ctx context.Context, collection models.Collection, id string) error

	// MarkFailed sets status failed with error message; no-op if record is absent
	MarkFailed(ctx context.Context, collection models.Collection, id string, errMsg string) error
}
