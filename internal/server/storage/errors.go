package storage

import (
	"errors"
	"fmt"

	"github.com/iudanet/dashsync/internal/models"
)

// Common storage errors
var (
	// ErrRecordNotFound indicates that record was not found or is deleted
	ErrRecordNotFound = errors.New("record not found")

	// ErrUnknownCollection indicates that collection name is not one of the known collections
	ErrUnknownCollection = errors.New("unknown collection")
)

// ConflictError возвращается, когда входящая запись старше сохраненной.
// Current содержит запись, которая сейчас хранится на сервере.
type ConflictError struct {
	Current *models.Record
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: stored %s/%s is newer (lastModified %d)",
		e.Current.Collection, e.Current.ID, e.Current.LastModified)
}
