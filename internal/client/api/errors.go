package api

import (
	"fmt"

	"github.com/iudanet/dashsync/internal/models"
)

// NetworkError - сервер недоступен: ошибка транспорта, таймаут, отказ в соединении
type NetworkError struct {
	Err    error
	Method string
	URL    string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// StatusError is returned for any non-2xx response other than a decodable 409
type StatusError struct {
	Body       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// ConflictError is returned for HTTP 409; Server holds the record stored on the server
type ConflictError struct {
	Server *models.Record
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: server holds %s/%s modified at %d", e.Server.Collection, e.Server.ID, e.Server.LastModified)
}
