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

// Enqueue appends a mutation to the sync queue
func (s *Storage) Enqueue(ctx context.Context, action models.Action, collection models.Collection, record *models.Record) (*models.QueueEntry, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	var entry *models.QueueEntry

	err := s.update("enqueue", func(tx *bbolt.Tx) error {
		var err error
		entry, err = s.enqueueTx(tx, action, collection, record)
		return err
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// Drain returns all queue entries ordered by timestamp, entries stay in the queue
func (s *Storage) Drain(ctx context.Context) ([]*models.QueueEntry, error) {
	var entries []*models.QueueEntry

	err := s.view("drain queue", func(tx *bbolt.Tx) error {
		q, err := bucket(tx, bucketQueue)
		if err != nil {
			return err
		}
		byTime, err := bucket(tx, bucketQueueByTime)
		if err != nil {
			return err
		}

		// Индекс упорядочен по (timestamp, seq), значения - ID записей очереди
		return byTime.ForEach(func(k, v []byte) error {
			data := q.Get(v)
			if data == nil {
				return fmt.Errorf("timestamp index points to missing entry %s", v)
			}
			var entry models.QueueEntry
			if err := s.decode(data, &entry); err != nil {
				return fmt.Errorf("queue entry %s: %w", v, err)
			}
			entries = append(entries, &entry)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// RemoveEntry deletes a queue entry with its index keys
func (s *Storage) RemoveEntry(ctx context.Context, id string) error {
	return s.update("remove entry", func(tx *bbolt.Tx) error {
		entry, err := s.getEntryTx(tx, id)
		if err == storage.ErrEntryNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return s.removeEntryTx(tx, entry)
	})
}

// IncrementRetry increments retry counter and stores the last error
func (s *Storage) IncrementRetry(ctx context.Context, id string, errMsg string) error {
	return s.update("increment retry", func(tx *bbolt.Tx) error {
		entry, err := s.getEntryTx(tx, id)
		if err != nil {
			return err
		}

		entry.RetryCount++
		entry.LastError = errMsg

		return s.putEntryTx(tx, entry)
	})
}

// QueueLength returns number of entries in the queue
func (s *Storage) QueueLength(ctx context.Context) (int, error) {
	var n int

	err := s.view("queue length", func(tx *bbolt.Tx) error {
		q, err := bucket(tx, bucketQueue)
		if err != nil {
			return err
		}
		n = q.Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, err
	}

	return n, nil
}

// ApplyMutation writes the record state and the queue entry in one transaction
func (s *Storage) ApplyMutation(ctx context.Context, action models.Action, record *models.Record) (*models.QueueEntry, error) {
	collection := record.Collection
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	var entry *models.QueueEntry

	err := s.update("apply mutation", func(tx *bbolt.Tx) error {
		_, err := s.getRecordTx(tx, collection, record.ID)
		exists := err == nil
		if err != nil && err != storage.ErrRecordNotFound {
			return err
		}

		switch action {
		case models.ActionCreate:
			if exists {
				return fmt.Errorf("%w: %s/%s", storage.ErrRecordExists, collection, record.ID)
			}
		case models.ActionUpdate, models.ActionDelete:
			if !exists {
				return fmt.Errorf("%w: %s/%s", storage.ErrRecordNotFound, collection, record.ID)
			}
		default:
			return fmt.Errorf("unknown action %q", action)
		}

		if action == models.ActionDelete {
			if err := s.deleteRecordTx(tx, collection, record.ID); err != nil {
				return err
			}
		} else {
			record.SyncStatus = models.SyncStatusPending
			record.LastError = ""
			if err := s.putRecordTx(tx, collection, record); err != nil {
				return err
			}
		}

		entry, err = s.enqueueTx(tx, action, collection, record)
		return err
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// CompleteEntry removes a delivered entry. When no other entry references the record
// it is marked synced, or removed locally for a delivered delete
func (s *Storage) CompleteEntry(ctx context.Context, id string) error {
	return s.update("complete entry", func(tx *bbolt.Tx) error {
		entry, err := s.getEntryTx(tx, id)
		if err == storage.ErrEntryNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		if err := s.removeEntryTx(tx, entry); err != nil {
			return err
		}

		referenced, err := hasEntriesForRecordTx(tx, entry.Collection, entry.RecordID())
		if err != nil {
			return err
		}
		if referenced {
			// Более поздняя мутация еще в очереди, запись остается pending
			return nil
		}

		if entry.Action == models.ActionDelete {
			// Удаление доставлено: локальной копии быть не должно
			return s.deleteRecordTx(tx, entry.Collection, entry.RecordID())
		}

		return s.markSyncedTx(tx, entry.Collection, entry.RecordID())
	})
}

// ResolveEntry removes an entry and stores the server version of its record.
// While later entries for the same record are queued the local record is left as is
func (s *Storage) ResolveEntry(ctx context.Context, id string, server *models.Record) error {
	return s.update("resolve entry", func(tx *bbolt.Tx) error {
		entry, err := s.getEntryTx(tx, id)
		if err == storage.ErrEntryNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		if err := s.removeEntryTx(tx, entry); err != nil {
			return err
		}

		referenced, err := hasEntriesForRecordTx(tx, entry.Collection, entry.RecordID())
		if err != nil {
			return err
		}
		if referenced {
			// Итоговое состояние записи определит более поздняя мутация
			return nil
		}

		record := server.Clone()
		record.ID = entry.RecordID()
		record.LastError = ""
		record.SyncStatus = models.SyncStatusSynced

		// lastModified сервера сохраняется как есть
		return s.putRecordTx(tx, entry.Collection, record)
	})
}

// FindOrphanedPending returns pending records that no queue entry references
func (s *Storage) FindOrphanedPending(ctx context.Context) ([]*models.Record, error) {
	var orphans []*models.Record

	err := s.view("find orphaned pending", func(tx *bbolt.Tx) error {
		for _, collection := range models.Collections() {
			idx, err := bucket(tx, statusIndexBucket(collection))
			if err != nil {
				return err
			}

			prefix := statusKey(models.SyncStatusPending, "")
			c := idx.Cursor()
			for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
				id := string(k[len(prefix):])
				referenced, err := hasEntriesForRecordTx(tx, collection, id)
				if err != nil {
					return err
				}
				if referenced {
					continue
				}
				record, err := s.getRecordTx(tx, collection, id)
				if err != nil {
					return err
				}
				orphans = append(orphans, record)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return orphans, nil
}

func (s *Storage) enqueueTx(tx *bbolt.Tx, action models.Action, collection models.Collection, record *models.Record) (*models.QueueEntry, error) {
	if record == nil || record.ID == "" {
		return nil, fmt.Errorf("queued record must carry an ID")
	}

	q, err := bucket(tx, bucketQueue)
	if err != nil {
		return nil, err
	}

	byTime, err := bucket(tx, bucketQueueByTime)
	if err != nil {
		return nil, err
	}

	// Время записи не меньше времени последней записи в очереди,
	// поэтому порядок по timestamp совпадает с порядком добавления
	ts := s.now().UnixMilli()
	if k, _ := byTime.Cursor().Last(); k != nil {
		if last := int64(binary.BigEndian.Uint64(k[:8])); last > ts {
			ts = last
		}
	}

	// ID строится из коллекции, ID записи и времени; при совпадении сдвигаем время
	id := models.NewQueueEntryID(collection, record.ID, time.UnixMilli(ts))
	for q.Get([]byte(id)) != nil {
		ts++
		id = models.NewQueueEntryID(collection, record.ID, time.UnixMilli(ts))
	}

	seq, err := q.NextSequence()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate queue sequence: %w", err)
	}

	data := record.Clone()
	data.Collection = collection

	entry := &models.QueueEntry{
		ID:         id,
		Action:     action,
		Collection: collection,
		Data:       data,
		Timestamp:  ts,
		RetryCount: 0,
		Seq:        seq,
	}

	if err := s.putEntryTx(tx, entry); err != nil {
		return nil, err
	}

	if err := byTime.Put(queueTimeKey(entry), []byte(entry.ID)); err != nil {
		return nil, fmt.Errorf("failed to update timestamp index: %w", err)
	}

	byRecord, err := bucket(tx, bucketQueueByRecord)
	if err != nil {
		return nil, err
	}
	if err := byRecord.Put(queueRecordKey(collection, record.ID, entry.ID), nil); err != nil {
		return nil, fmt.Errorf("failed to update record index: %w", err)
	}

	return entry, nil
}

func (s *Storage) getEntryTx(tx *bbolt.Tx, id string) (*models.QueueEntry, error) {
	q, err := bucket(tx, bucketQueue)
	if err != nil {
		return nil, err
	}

	data := q.Get([]byte(id))
	if data == nil {
		return nil, storage.ErrEntryNotFound
	}

	entry := &models.QueueEntry{}
	if err := s.decode(data, entry); err != nil {
		return nil, fmt.Errorf("queue entry %s: %w", id, err)
	}
	return entry, nil
}

func (s *Storage) putEntryTx(tx *bbolt.Tx, entry *models.QueueEntry) error {
	q, err := bucket(tx, bucketQueue)
	if err != nil {
		return err
	}

	data, err := s.encode(entry)
	if err != nil {
		return err
	}
	if err := q.Put([]byte(entry.ID), data); err != nil {
		return fmt.Errorf("failed to save queue entry: %w", err)
	}
	return nil
}

func (s *Storage) removeEntryTx(tx *bbolt.Tx, entry *models.QueueEntry) error {
	q, err := bucket(tx, bucketQueue)
	if err != nil {
		return err
	}
	byTime, err := bucket(tx, bucketQueueByTime)
	if err != nil {
		return err
	}
	byRecord, err := bucket(tx, bucketQueueByRecord)
	if err != nil {
		return err
	}

	if err := byTime.Delete(queueTimeKey(entry)); err != nil {
		return fmt.Errorf("failed to update timestamp index: %w", err)
	}
	if err := byRecord.Delete(queueRecordKey(entry.Collection, entry.RecordID(), entry.ID)); err != nil {
		return fmt.Errorf("failed to update record index: %w", err)
	}
	if err := q.Delete([]byte(entry.ID)); err != nil {
		return fmt.Errorf("failed to delete queue entry: %w", err)
	}
	return nil
}

func hasEntriesForRecordTx(tx *bbolt.Tx, collection models.Collection, recordID string) (bool, error) {
	byRecord, err := bucket(tx, bucketQueueByRecord)
	if err != nil {
		return false, err
	}

	prefix := queueRecordKey(collection, recordID, "")
	k, _ := byRecord.Cursor().Seek(prefix)
	return k != nil && bytes.HasPrefix(k, prefix), nil
}

// queueTimeKey: 8 bytes timestamp + 8 bytes seq
func queueTimeKey(entry *models.QueueEntry) []byte {
	key := make([]byte, 16)
	binary.BigEndian.PutUint64(key[:8], uint64(entry.Timestamp))
	binary.BigEndian.PutUint64(key[8:], entry.Seq)
	return key
}

// queueRecordKey: collection \x00 recordID \x00 entryID
func queueRecordKey(collection models.Collection, recordID, entryID string) []byte {
	return []byte(string(collection) + "\x00" + recordID + "\x00" + entryID)
}
