package storage

import (
	"context"

	"github.com/iudanet/dashsync/internal/models"
)

// RecordStorage defines interface for server-side record persistence
type RecordStorage interface {
	// SaveRecord creates or updates a record using Last-Writer-Wins:
	// an incoming record older than the stored one is rejected with *ConflictError
	// unless force is set. Returns the stored state on success.
	SaveRecord(ctx context.Context, record *models.Record, force bool) (*models.Record, error)

	// GetRecord retrieves a single record
	// Returns ErrRecordNotFound if record doesn't exist or is deleted
	GetRecord(ctx context.Context, collection models.Collection, id string) (*models.Record, error)

	// ListRecords retrieves all non-deleted records of a collection ordered by date
	// Returns empty slice if no records found
	ListRecords(ctx context.Context, collection models.Collection) ([]*models.Record, error)

	// DeleteRecord marks record as deleted. Deleting a missing record is not an error.
	DeleteRecord(ctx context.Context, collection models.Collection, id string) error

	// Ping checks that the database is reachable
	Ping(ctx context.Context) error
}
