package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Collection определяет коллекцию записей, в которой хранится запись.
type Collection string

// Коллекции дашборда: финансы, здоровье, расписание.
const (
	CollectionTransactions Collection = "transactions"
	CollectionMeals        Collection = "meals"
	CollectionWorkouts     Collection = "workouts"
	CollectionTasks        Collection = "tasks"
	CollectionEvents       Collection = "events"
)

// Collections возвращает все коллекции записей в фиксированном порядке.
func Collections() []Collection {
	return []Collection{
		CollectionTransactions,
		CollectionMeals,
		CollectionWorkouts,
		CollectionTasks,
		CollectionEvents,
	}
}

// ParseCollection проверяет имя коллекции и возвращает её значение.
func ParseCollection(name string) (Collection, error) {
	for _, c := range Collections() {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown collection %q", name)
}

// Valid сообщает, является ли коллекция одной из известных.
func (c Collection) Valid() bool {
	_, err := ParseCollection(string(c))
	return err == nil
}

// SyncStatus состояние записи относительно удалённой системы.
type SyncStatus string

const (
	SyncStatusSynced  SyncStatus = "synced"  // запись совпадает с сервером
	SyncStatusPending SyncStatus = "pending" // есть неотправленная мутация в очереди
	SyncStatusFailed  SyncStatus = "failed"  // последняя попытка отправки завершилась ошибкой
)

// SyncStatuses возвращает все статусы синхронизации.
func SyncStatuses() []SyncStatus {
	return []SyncStatus{SyncStatusSynced, SyncStatusPending, SyncStatusFailed}
}

// ParseSyncStatus проверяет имя статуса и возвращает его значение.
func ParseSyncStatus(name string) (SyncStatus, error) {
	for _, s := range SyncStatuses() {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown sync status %q", name)
}

// Record представляет запись одной из коллекций дашборда.
// Доменные поля хранятся в Data как JSON объект, остальные поля общие
// для всех коллекций и описывают жизненный цикл синхронизации.
type Record struct {
	Date         time.Time       `json:"date"`                // Date доменная дата записи (для индекса по дате)
	ID           string          `json:"id"`                  // ID уникальный идентификатор записи (UUID)
	Collection   Collection      `json:"collection"`          // Collection коллекция, которой принадлежит запись
	SyncStatus   SyncStatus      `json:"syncStatus"`          // SyncStatus состояние синхронизации
	LastError    string          `json:"lastError,omitempty"` // LastError текст последней ошибки отправки
	Data         json.RawMessage `json:"data"`                // Data доменные поля коллекции
	LastModified int64           `json:"lastModified"`        // LastModified время последней локальной мутации (unix ms)
	Version      int64           `json:"version"`             // Version номер версии, растёт при каждой локальной мутации
}

// IsNewerThan сравнивает две записи по правилу Last-Writer-Wins.
// Возвращает true, если текущая запись была изменена строго позже other.
func (r *Record) IsNewerThan(other *Record) bool {
	return r.LastModified > other.LastModified
}

// Touch обновляет LastModified текущим временем.
func (r *Record) Touch(now time.Time) {
	r.LastModified = now.UnixMilli()
}

// Clone создает глубокую копию записи
func (r *Record) Clone() *Record {
	data := make(json.RawMessage, len(r.Data))
	copy(data, r.Data)

	clone := *r
	clone.Data = data
	return &clone
}

// DecodePayload десериализует доменные поля записи в payload.
func (r *Record) DecodePayload(payload Payload) error {
	if payload.Collection() != r.Collection {
		return fmt.Errorf("payload for %s cannot decode %s record", payload.Collection(), r.Collection)
	}
	if err := json.Unmarshal(r.Data, payload); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", r.Collection, err)
	}
	return nil
}
