package sync

import (
	"errors"
	"fmt"
)

// Сообщения результата для отклоненных проходов синхронизации
const (
	MsgSyncInProgress = "Sync already in progress"
	MsgDeviceOffline  = "Device is offline"
)

// ErrAlreadyStarted is returned by Start when the background loop is running
var ErrAlreadyStarted = errors.New("sync manager already started")

// RetryExhaustedError - запись очереди отброшена после MaxRetryAttempts неудачных попыток
type RetryExhaustedError struct {
	EntryID   string
	LastError string
	Attempts  int
}

func (e *RetryExhaustedError) Error() string {
	if e.LastError == "" {
		return fmt.Sprintf("abandoned after %d failed attempts", e.Attempts)
	}
	return fmt.Sprintf("abandoned after %d failed attempts, last error: %s", e.Attempts, e.LastError)
}
