package boltdb

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/dashsync/internal/client/storage"
	"github.com/iudanet/dashsync/internal/models"
)

// GetRecord retrieves a record by ID
func (s *Storage) GetRecord(ctx context.Context, collection models.Collection, id string) (*models.Record, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	var record *models.Record

	err := s.view("get record", func(tx *bbolt.Tx) error {
		var err error
		record, err = s.getRecordTx(tx, collection, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// GetAllRecords returns all records of a collection in key order
func (s *Storage) GetAllRecords(ctx context.Context, collection models.Collection) ([]*models.Record, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	var records []*models.Record

	err := s.view("get all records", func(tx *bbolt.Tx) error {
		b, err := bucket(tx, recordsBucket(collection))
		if err != nil {
			return err
		}

		return b.ForEach(func(k, v []byte) error {
			var record models.Record
			if err := s.decode(v, &record); err != nil {
				return fmt.Errorf("record %s: %w", k, err)
			}
			records = append(records, &record)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// AddRecord inserts a new record, failing if the ID is taken
func (s *Storage) AddRecord(ctx context.Context, collection models.Collection, record *models.Record) error {
	if err := checkCollection(collection); err != nil {
		return err
	}

	return s.update("add record", func(tx *bbolt.Tx) error {
		b, err := bucket(tx, recordsBucket(collection))
		if err != nil {
			return err
		}
		if b.Get([]byte(record.ID)) != nil {
			return fmt.Errorf("%w: %s/%s", storage.ErrRecordExists, collection, record.ID)
		}
		return s.putRecordTx(tx, collection, record)
	})
}

// PutRecord inserts or overwrites a record by ID
func (s *Storage) PutRecord(ctx context.Context, collection models.Collection, record *models.Record) error {
	if err := checkCollection(collection); err != nil {
		return err
	}

	return s.update("put record", func(tx *bbolt.Tx) error {
		return s.putRecordTx(tx, collection, record)
	})
}

// DeleteRecord removes a record together with its index keys
func (s *Storage) DeleteRecord(ctx context.Context, collection models.Collection, id string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}

	return s.update("delete record", func(tx *bbolt.Tx) error {
		return s.deleteRecordTx(tx, collection, id)
	})
}

// ClearRecords removes all records of a collection
func (s *Storage) ClearRecords(ctx context.Context, collection models.Collection) error {
	if err := checkCollection(collection); err != nil {
		return err
	}

	return s.update("clear records", func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{recordsBucket(collection), statusIndexBucket(collection), dateIndexBucket(collection)} {
			// Удаляем bucket полностью и создаем заново пустой
			if err := tx.DeleteBucket(name); err != nil && err != bbolt.ErrBucketNotFound {
				return fmt.Errorf("failed to delete %s bucket: %w", name, err)
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

// CountRecords returns number of records in a collection
func (s *Storage) CountRecords(ctx context.Context, collection models.Collection) (int, error) {
	if err := checkCollection(collection); err != nil {
		return 0, err
	}

	var count int

	err := s.view("count records", func(tx *bbolt.Tx) error {
		b, err := bucket(tx, recordsBucket(collection))
		if err != nil {
			return err
		}
		count = b.Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

// GetRecordsByStatus returns records with the given sync status using the status index
func (s *Storage) GetRecordsByStatus(ctx context.Context, collection models.Collection, status models.SyncStatus) ([]*models.Record, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	var records []*models.Record

	err := s.view("get records by status", func(tx *bbolt.Tx) error {
		idx, err := bucket(tx, statusIndexBucket(collection))
		if err != nil {
			return err
		}

		prefix := statusKey(status, "")
		c := idx.Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			record, err := s.getRecordTx(tx, collection, string(k[len(prefix):]))
			if err != nil {
				return fmt.Errorf("status index points to missing record: %w", err)
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// GetRecordsByDate returns records with Date in [from, to) ordered by date
func (s *Storage) GetRecordsByDate(ctx context.Context, collection models.Collection, from, to time.Time) ([]*models.Record, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	var records []*models.Record

	err := s.view("get records by date", func(tx *bbolt.Tx) error {
		idx, err := bucket(tx, dateIndexBucket(collection))
		if err != nil {
			return err
		}

		upper := sortableMillis(to)
		c := idx.Cursor()
		for k, _ := c.Seek(sortableMillis(from)); k != nil && bytes.Compare(k[:8], upper) < 0; k, _ = c.Next() {
			record, err := s.getRecordTx(tx, collection, string(k[8:]))
			if err != nil {
				return fmt.Errorf("date index points to missing record: %w", err)
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// MarkSynced sets status synced and clears the last error; no-op if record is absent
func (s *Storage) MarkSynced(ctx context.Context, collection models.Collection, id string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}

	return s.update("mark synced", func(tx *bbolt.Tx) error {
		return s.markSyncedTx(tx, collection, id)
	})
}

// MarkFailed sets status failed and stores the error; no-op if record is absent
func (s *Storage) MarkFailed(ctx context.Context, collection models.Collection, id string, errMsg string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}

	return s.update("mark failed", func(tx *bbolt.Tx) error {
		record, err := s.getRecordTx(tx, collection, id)
		if err == storage.ErrRecordNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		record.SyncStatus = models.SyncStatusFailed
		record.LastError = errMsg
		record.Touch(s.now())

		return s.putRecordTx(tx, collection, record)
	})
}

func (s *Storage) markSyncedTx(tx *bbolt.Tx, collection models.Collection, id string) error {
	record, err := s.getRecordTx(tx, collection, id)
	if err == storage.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	record.SyncStatus = models.SyncStatusSynced
	record.LastError = ""
	record.Touch(s.now())

	return s.putRecordTx(tx, collection, record)
}

func (s *Storage) getRecordTx(tx *bbolt.Tx, collection models.Collection, id string) (*models.Record, error) {
	b, err := bucket(tx, recordsBucket(collection))
	if err != nil {
		return nil, err
	}

	data := b.Get([]byte(id))
	if data == nil {
		return nil, storage.ErrRecordNotFound
	}

	record := &models.Record{}
	if err := s.decode(data, record); err != nil {
		return nil, fmt.Errorf("record %s: %w", id, err)
	}

	return record, nil
}

// putRecordTx сохраняет запись и обновляет индексы по статусу и дате
func (s *Storage) putRecordTx(tx *bbolt.Tx, collection models.Collection, record *models.Record) error {
	if record.ID == "" {
		return fmt.Errorf("record ID cannot be empty")
	}
	record.Collection = collection

	// Старые ключи индексов нужно удалить, иначе запись найдется по прежнему статусу
	if err := s.removeIndexesTx(tx, collection, record.ID); err != nil {
		return err
	}

	b, err := bucket(tx, recordsBucket(collection))
	if err != nil {
		return err
	}
	data, err := s.encode(record)
	if err != nil {
		return err
	}
	if err := b.Put([]byte(record.ID), data); err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}

	statusIdx, err := bucket(tx, statusIndexBucket(collection))
	if err != nil {
		return err
	}
	if err := statusIdx.Put(statusKey(record.SyncStatus, record.ID), nil); err != nil {
		return fmt.Errorf("failed to update status index: %w", err)
	}

	dateIdx, err := bucket(tx, dateIndexBucket(collection))
	if err != nil {
		return err
	}
	if err := dateIdx.Put(dateKey(record.Date, record.ID), nil); err != nil {
		return fmt.Errorf("failed to update date index: %w", err)
	}

	return nil
}

func (s *Storage) deleteRecordTx(tx *bbolt.Tx, collection models.Collection, id string) error {
	if err := s.removeIndexesTx(tx, collection, id); err != nil {
		return err
	}

	b, err := bucket(tx, recordsBucket(collection))
	if err != nil {
		return err
	}
	if err := b.Delete([]byte(id)); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

func (s *Storage) removeIndexesTx(tx *bbolt.Tx, collection models.Collection, id string) error {
	existing, err := s.getRecordTx(tx, collection, id)
	if err == storage.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	statusIdx, err := bucket(tx, statusIndexBucket(collection))
	if err != nil {
		return err
	}
	if err := statusIdx.Delete(statusKey(existing.SyncStatus, id)); err != nil {
		return fmt.Errorf("failed to update status index: %w", err)
	}

	dateIdx, err := bucket(tx, dateIndexBucket(collection))
	if err != nil {
		return err
	}
	if err := dateIdx.Delete(dateKey(existing.Date, id)); err != nil {
		return fmt.Errorf("failed to update date index: %w", err)
	}

	return nil
}

func checkCollection(c models.Collection) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", storage.ErrUnknownCollection, c)
	}
	return nil
}

// statusKey формирует ключ индекса: status \x00 id
func statusKey(status models.SyncStatus, id string) []byte {
	return []byte(string(status) + "\x00" + id)
}

// dateKey формирует ключ индекса: 8 bytes sortable millis + id
func dateKey(t time.Time, id string) []byte {
	return append(sortableMillis(t), id...)
}

// sortableMillis кодирует время так, что побайтовый порядок совпадает с хронологическим,
// включая даты до 1970 года
func sortableMillis(t time.Time) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(t.UnixMilli())^(1<<63))
	return b
}
