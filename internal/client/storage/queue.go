package storage

import (
	"context"

	"github.com/iudanet/dashsync/internal/models"
)

// QueueStorage defines the durable sync queue of pending mutations
type QueueStorage interface {
	// Enqueue appends a mutation with RetryCount 0 and Timestamp now
	Enqueue(ctx context.Context, action models.Action, collection models.Collection, record *models.Record) (*models.QueueEntry, error)

	// Drain returns all entries ordered by Timestamp ascending without removing them
	Drain(ctx context.Context) ([]*models.QueueEntry, error)

	// RemoveEntry deletes an entry, missing entries are ignored
	RemoveEntry(ctx context.Context, id string) error

	// IncrementRetry increments RetryCount and stores the error
	// Returns ErrEntryNotFound if entry doesn't exist
	IncrementRetry(ctx context.Context, id string, errMsg string) error

	// QueueLength returns number of pending entries
	QueueLength(ctx context.Context) (int, error)
}

// MutationStorage couples record writes with queue writes in one transaction,
// so a record is pending exactly while a queue entry references it
type MutationStorage interface {
	// ApplyMutation stores the record as pending (or removes it for delete)
	// and enqueues the mutation atomically
	ApplyMutation(ctx context.Context, action models.Action, record *models.Record) (*models.QueueEntry, error)

	// CompleteEntry removes an entry. Unless another entry still references the record,
	// the record is marked synced, or removed locally when the entry was a delete
	CompleteEntry(ctx context.Context, id string) error

	// ResolveEntry removes an entry and replaces the local record with the synced server version.
	// While another entry still references the record it is left untouched
	ResolveEntry(ctx context.Context, id string, server *models.Record) error

	// FindOrphanedPending returns pending records without a queue entry
	FindOrphanedPending(ctx context.Context) ([]*models.Record, error)
}
