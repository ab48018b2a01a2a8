package storage

import (
	"errors"
	"fmt"
)

// Common client storage errors
var (
	// ErrRecordNotFound indicates that record was not found in collection
	ErrRecordNotFound = errors.New("record not found")

	// ErrRecordExists indicates that record with the same ID already exists
	ErrRecordExists = errors.New("record already exists")

	// ErrEntryNotFound indicates that sync queue entry was not found
	ErrEntryNotFound = errors.New("queue entry not found")

	// ErrMetadataNotFound indicates that metadata key is not set
	ErrMetadataNotFound = errors.New("metadata not found")

	// ErrUnknownCollection indicates that collection name is not one of the record collections
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")

	// ErrWrongPassphrase indicates that passphrase does not match encrypted storage
	ErrWrongPassphrase = errors.New("wrong passphrase")

	// ErrNotEncrypted indicates that storage holds plaintext data and cannot be encrypted in place
	ErrNotEncrypted = errors.New("storage contains unencrypted data")
)

// domainErrors не являются отказами носителя и возвращаются как есть
var domainErrors = []error{
	ErrRecordNotFound,
	ErrRecordExists,
	ErrEntryNotFound,
	ErrMetadataNotFound,
	ErrUnknownCollection,
	ErrStorageClosed,
	ErrWrongPassphrase,
	ErrNotEncrypted,
}

// StorageError wraps a failure of the persistent medium
// (database cannot be opened, transaction aborted, bucket missing).
type StorageError struct {
	Err error
	Op  string
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Wrap оборачивает ошибку в StorageError, пропуская nil и доменные ошибки
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, domainErr := range domainErrors {
		if errors.Is(err, domainErr) {
			return err
		}
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
