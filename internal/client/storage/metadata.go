package storage

import "context"

//go:generate moq -out metadata_mock.go . MetadataStorage

// MetadataStorage defines interface for storing client metadata
type MetadataStorage interface {
	// SetMetadata overwrites the value of a key
	SetMetadata(ctx context.Context, key string, value []byte) error

	// GetMetadata returns the value of a key
	// Returns ErrMetadataNotFound if key is not set
	GetMetadata(ctx context.Context, key string) ([]byte, error)

	// SaveLastSyncTimestamp saves the timestamp of the last successful sync
	SaveLastSyncTimestamp(ctx context.Context, timestamp int64) error

	// GetLastSyncTimestamp retrieves the timestamp of the last successful sync
	// Returns 0 if no sync has been performed yet
	GetLastSyncTimestamp(ctx context.Context) (int64, error)
}

// Store объединяет все интерфейсы клиентского хранилища
type Store interface {
	RecordStorage
	QueueStorage
	MutationStorage
	MetadataStorage
}
