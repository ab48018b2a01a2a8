package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/dashsync/internal/models"
	"github.com/iudanet/dashsync/internal/server/storage"
)

const recordColumns = `collection, id, data, date, last_modified, version, deleted`

// rowScanner общий интерфейс для *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// SaveRecord creates or updates a record in one transaction.
// An incoming record older than the stored one is rejected with *storage.ConflictError
// unless force is set. Deleted records are overwritten without a conflict check.
func (s *Storage) SaveRecord(ctx context.Context, record *models.Record, force bool) (*models.Record, error) {
	if err := checkCollection(record.Collection); err != nil {
		return nil, err
	}
	if record.ID == "" {
		return nil, fmt.Errorf("record ID cannot be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `SELECT ` + recordColumns + ` FROM records WHERE collection = ? AND id = ?`
	existing, deleted, err := scanRecord(tx.QueryRowContext(ctx, query, record.Collection, record.ID))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		existing = nil
	case err != nil:
		return nil, fmt.Errorf("failed to check existing record: %w", err)
	}

	// Last-Writer-Wins: равные lastModified принимаются, это повтор той же мутации
	if existing != nil && !deleted && !force && existing.IsNewerThan(record) {
		return nil, &storage.ConflictError{Current: existing}
	}

	data := []byte(record.Data)
	if len(data) == 0 {
		data = []byte("{}")
	}
	now := s.now().UnixMilli()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO records (
			collection, id, data, date, last_modified, version, deleted,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET
			data = excluded.data,
			date = excluded.date,
			last_modified = excluded.last_modified,
			version = excluded.version,
			deleted = 0,
			updated_at = excluded.updated_at
	`,
		record.Collection,
		record.ID,
		string(data),
		record.Date.UnixMilli(),
		record.LastModified,
		record.Version,
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit record: %w", err)
	}

	stored := record.Clone()
	stored.Data = data
	stored.SyncStatus = models.SyncStatusSynced
	stored.LastError = ""
	return stored, nil
}

// GetRecord retrieves a single record
// Returns ErrRecordNotFound if record doesn't exist or is deleted
func (s *Storage) GetRecord(ctx context.Context, collection models.Collection, id string) (*models.Record, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	query := `SELECT ` + recordColumns + ` FROM records WHERE collection = ? AND id = ?`
	record, deleted, err := scanRecord(s.db.QueryRowContext(ctx, query, collection, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	if deleted {
		return nil, storage.ErrRecordNotFound
	}

	return record, nil
}

// ListRecords retrieves all non-deleted records of a collection ordered by date
func (s *Storage) ListRecords(ctx context.Context, collection models.Collection) ([]*models.Record, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + recordColumns + `
		FROM records
		WHERE collection = ? AND deleted = 0
		ORDER BY date ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	records := make([]*models.Record, 0)
	for rows.Next() {
		record, _, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return records, nil
}

// DeleteRecord marks record as deleted (soft delete)
// Deleting a missing or already deleted record is not an error
func (s *Storage) DeleteRecord(ctx context.Context, collection models.Collection, id string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}

	query := `UPDATE records SET deleted = 1, updated_at = ? WHERE collection = ? AND id = ? AND deleted = 0`
	if _, err := s.db.ExecContext(ctx, query, s.now().UnixMilli(), collection, id); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	return nil
}

func scanRecord(row rowScanner) (*models.Record, bool, error) {
	var (
		record  models.Record
		data    string
		date    int64
		deleted int
	)

	err := row.Scan(
		&record.Collection,
		&record.ID,
		&data,
		&date,
		&record.LastModified,
		&record.Version,
		&deleted,
	)
	if err != nil {
		return nil, false, err
	}

	record.Data = json.RawMessage(data)
	record.Date = time.UnixMilli(date).UTC()
	record.SyncStatus = models.SyncStatusSynced

	return &record, deleted != 0, nil
}

func checkCollection(c models.Collection) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", storage.ErrUnknownCollection, c)
	}
	return nil
}
