package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/iudanet/dashsync/internal/models"
	"github.com/iudanet/dashsync/internal/server/middleware"
	"github.com/iudanet/dashsync/internal/server/storage"
	"github.com/iudanet/dashsync/internal/validation"
	"github.com/iudanet/dashsync/pkg/api"
)

// maxRecordBody ограничивает размер тела запроса с записью
const maxRecordBody = 1 << 20

// RecordsHandler обрабатывает CRUD запросы к коллекциям записей
type RecordsHandler struct {
	logger  *slog.Logger
	storage storage.RecordStorage
}

// NewRecordsHandler creates a new records handler
func NewRecordsHandler(logger *slog.Logger, storage storage.RecordStorage) *RecordsHandler {
	return &RecordsHandler{
		logger:  logger,
		storage: storage,
	}
}

// RegisterRoutes регистрирует маршруты коллекций.
// protect оборачивает каждый маршрут (аутентификация, rate limit).
func (h *RecordsHandler) RegisterRoutes(mux *http.ServeMux, protect func(http.Handler) http.Handler) {
	if protect == nil {
		protect = func(next http.Handler) http.Handler { return next }
	}

	mux.Handle("GET /api/{collection}", protect(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/{collection}", protect(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/{collection}/{id}", protect(http.HandlerFunc(h.Get)))
	mux.Handle("PUT /api/{collection}/{id}", protect(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/{collection}/{id}", protect(http.HandlerFunc(h.Delete)))
}

// List обрабатывает GET /api/{collection}
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	collection, ok := h.collection(w, r)
	if !ok {
		return
	}

	records, err := h.storage.ListRecords(r.Context(), collection)
	if err != nil {
		h.logger.Error("Failed to list records", "collection", collection, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, records)
}

// Get обрабатывает GET /api/{collection}/{id}
func (h *RecordsHandler) Get(w http.ResponseWriter, r *http.Request) {
	collection, ok := h.collection(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	record, err := h.storage.GetRecord(r.Context(), collection, id)
	if errors.Is(err, storage.ErrRecordNotFound) {
		writeError(w, h.logger, http.StatusNotFound, "record not found")
		return
	}
	if err != nil {
		h.logger.Error("Failed to get record", "collection", collection, "id", id, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, record)
}

// Create обрабатывает POST /api/{collection}.
// Запись без ID получает новый UUID; повторная отправка той же записи принимается.
func (h *RecordsHandler) Create(w http.ResponseWriter, r *http.Request) {
	collection, ok := h.collection(w, r)
	if !ok {
		return
	}

	record, ok := h.decodeRecord(w, r, collection)
	if !ok {
		return
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	h.save(w, r, record, "create", http.StatusCreated)
}

// Update обрабатывает PUT /api/{collection}/{id}.
// Отсутствующая запись создается, чтобы обновление после потерянного create не терялось.
func (h *RecordsHandler) Update(w http.ResponseWriter, r *http.Request) {
	collection, ok := h.collection(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	record, ok := h.decodeRecord(w, r, collection)
	if !ok {
		return
	}
	if record.ID == "" {
		record.ID = id
	}
	if record.ID != id {
		writeError(w, h.logger, http.StatusBadRequest, fmt.Sprintf("record id %q does not match path id %q", record.ID, id))
		return
	}

	h.save(w, r, record, "update", http.StatusOK)
}

// Delete обрабатывает DELETE /api/{collection}/{id}.
// Удаление идемпотентно: 204 возвращается и для отсутствующей записи.
func (h *RecordsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	collection, ok := h.collection(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	if err := h.storage.DeleteRecord(r.Context(), collection, id); err != nil {
		h.logger.Error("Failed to delete record", "collection", collection, "id", id, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	recordWritesTotal.WithLabelValues(string(collection), "delete").Inc()
	h.logger.Info("Record deleted", "collection", collection, "id", id, "device", device(r))

	w.WriteHeader(http.StatusNoContent)
}

// save применяет правило Last-Writer-Wins: более старая запись отклоняется с 409
// и телом, содержащим сохраненную запись, если не передан X-Force-Update: true.
func (h *RecordsHandler) save(w http.ResponseWriter, r *http.Request, record *models.Record, op string, status int) {
	force := isForced(r)
	if force {
		forcedWritesTotal.WithLabelValues(string(record.Collection)).Inc()
	}

	stored, err := h.storage.SaveRecord(r.Context(), record, force)
	var conflict *storage.ConflictError
	if errors.As(err, &conflict) {
		recordConflictsTotal.WithLabelValues(string(record.Collection)).Inc()
		h.logger.Info("Record conflict",
			"collection", record.Collection,
			"id", record.ID,
			"incoming_last_modified", record.LastModified,
			"stored_last_modified", conflict.Current.LastModified,
			"device", device(r),
		)
		writeJSON(w, h.logger, http.StatusConflict, conflict.Current)
		return
	}
	if err != nil {
		h.logger.Error("Failed to save record", "collection", record.Collection, "id", record.ID, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	recordWritesTotal.WithLabelValues(string(record.Collection), op).Inc()
	h.logger.Info("Record saved",
		"op", op,
		"collection", record.Collection,
		"id", record.ID,
		"last_modified", record.LastModified,
		"forced", force,
		"device", device(r),
	)

	writeJSON(w, h.logger, status, stored)
}

// collection извлекает коллекцию из пути, неизвестная коллекция дает 404
func (h *RecordsHandler) collection(w http.ResponseWriter, r *http.Request) (models.Collection, bool) {
	collection, err := models.ParseCollection(r.PathValue("collection"))
	if err != nil {
		writeError(w, h.logger, http.StatusNotFound, err.Error())
		return "", false
	}
	return collection, true
}

// decodeRecord читает запись из тела и проверяет ее доменные поля
func (h *RecordsHandler) decodeRecord(w http.ResponseWriter, r *http.Request, collection models.Collection) (*models.Record, bool) {
	var record models.Record

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRecordBody))
	if err := decoder.Decode(&record); err != nil {
		h.logger.Warn("Invalid record body", "collection", collection, "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}

	if record.Collection == "" {
		record.Collection = collection
	}
	if record.Collection != collection {
		writeError(w, h.logger, http.StatusBadRequest,
			fmt.Sprintf("record collection %q does not match path collection %q", record.Collection, collection))
		return nil, false
	}

	payload, err := models.DecodePayloadJSON(collection, record.Data)
	if err == nil {
		err = validation.ValidatePayload(payload)
	}
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return nil, false
	}

	return &record, true
}

func isForced(r *http.Request) bool {
	force, err := strconv.ParseBool(r.Header.Get(api.ForceUpdateHeader))
	return err == nil && force
}

func device(r *http.Request) string {
	name, _ := middleware.DeviceFromContext(r.Context())
	return name
}
