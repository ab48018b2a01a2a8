package models

import (
	"fmt"
	"time"
)

// Action тип мутации, ожидающей отправки на сервер.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ParseAction проверяет имя действия и возвращает его значение.
func ParseAction(name string) (Action, error) {
	switch Action(name) {
	case ActionCreate, ActionUpdate, ActionDelete:
		return Action(name), nil
	default:
		return "", fmt.Errorf("unknown action %q", name)
	}
}

// QueueEntry описывает одну локальную мутацию, ожидающую применения на сервере.
// Записи очереди обрабатываются строго в порядке Timestamp.
type QueueEntry struct {
	Data       *Record    `json:"data"`                // Data снимок записи на момент мутации (содержит ID)
	ID         string     `json:"id"`                  // ID идентификатор записи очереди
	Action     Action     `json:"action"`              // Action create, update или delete
	Collection Collection `json:"collection"`          // Collection коллекция записи
	LastError  string     `json:"lastError,omitempty"` // LastError текст последней ошибки отправки
	Timestamp  int64      `json:"timestamp"`           // Timestamp время постановки в очередь (unix ms)
	RetryCount int        `json:"retryCount"`          // RetryCount количество неудачных попыток
	Seq        uint64     `json:"seq"`                 // Seq порядковый номер постановки, упорядочивает записи с одинаковым Timestamp
}

// NewQueueEntryID формирует идентификатор записи очереди из коллекции,
// ID записи и времени постановки в очередь.
// Уникальность не гарантируется при переводе часов назад.
func NewQueueEntryID(c Collection, recordID string, ts time.Time) string {
	return fmt.Sprintf("%s-%s-%d", c, recordID, ts.UnixMilli())
}

// RecordID возвращает ID записи, на которую ссылается мутация.
func (e *QueueEntry) RecordID() string {
	if e.Data == nil {
		return ""
	}
	return e.Data.ID
}
