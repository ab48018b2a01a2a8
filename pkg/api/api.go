package api

import "net/url"

// ForceUpdateHeader заставляет сервер принять запись без проверки конфликта
const ForceUpdateHeader = "X-Force-Update"

// HealthPath - эндпоинт проверки доступности сервера
const HealthPath = "/api/health"

// CollectionPath returns the endpoint of a record collection
func CollectionPath(collection string) string {
	return "/api/" + url.PathEscape(collection)
}

// RecordPath returns the endpoint of a single record
func RecordPath(collection, id string) string {
	return CollectionPath(collection) + "/" + url.PathEscape(id)
}

// HealthResponse представляет ответ эндпоинта /api/health
type HealthResponse struct {
	Status string `json:"status"` // "ok" если хранилище доступно
	Time   int64  `json:"time"`   // текущее время сервера в unix millis
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
