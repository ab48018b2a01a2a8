package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/dashsync/internal/client/storage"
)

const (
	keyLastSyncTimestamp = "last_sync_timestamp"
	keyKDFSalt           = "kdf_salt"
	keyKDFCheck          = "kdf_check"
)

// SetMetadata overwrites the value of a metadata key
func (s *Storage) SetMetadata(ctx context.Context, key string, value []byte) error {
	return s.update("set metadata", func(tx *bbolt.Tx) error {
		return putMetadataTx(tx, key, value)
	})
}

// GetMetadata returns the value of a metadata key or ErrMetadataNotFound
func (s *Storage) GetMetadata(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	err := s.view("get metadata", func(tx *bbolt.Tx) error {
		var err error
		value, err = getMetadataTx(tx, key)
		return err
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

// SaveLastSyncTimestamp saves the timestamp of the last successful sync
func (s *Storage) SaveLastSyncTimestamp(ctx context.Context, timestamp int64) error {
	// Конвертируем int64 в bytes
	timestampBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(timestampBytes, uint64(timestamp))

	return s.SetMetadata(ctx, keyLastSyncTimestamp, timestampBytes)
}

// GetLastSyncTimestamp retrieves the timestamp of the last successful sync
// Returns 0 if no sync has been performed yet
func (s *Storage) GetLastSyncTimestamp(ctx context.Context) (int64, error) {
	timestampBytes, err := s.GetMetadata(ctx, keyLastSyncTimestamp)
	if err == storage.ErrMetadataNotFound {
		// Первая синхронизация еще не выполнялась
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get last sync timestamp: %w", err)
	}
	if len(timestampBytes) != 8 {
		return 0, fmt.Errorf("invalid last sync timestamp length %d", len(timestampBytes))
	}

	return int64(binary.BigEndian.Uint64(timestampBytes)), nil
}

func putMetadataTx(tx *bbolt.Tx, key string, value []byte) error {
	b, err := bucket(tx, bucketMetadata)
	if err != nil {
		return err
	}
	if err := b.Put([]byte(key), value); err != nil {
		return fmt.Errorf("failed to save metadata %s: %w", key, err)
	}
	return nil
}

func getMetadataTx(tx *bbolt.Tx, key string) ([]byte, error) {
	b, err := bucket(tx, bucketMetadata)
	if err != nil {
		return nil, err
	}
	value := b.Get([]byte(key))
	if value == nil {
		return nil, storage.ErrMetadataNotFound
	}
	// Значение валидно только внутри транзакции, копируем
	return append([]byte(nil), value...), nil
}
