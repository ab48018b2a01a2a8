package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/dashsync/internal/client/storage"
	"github.com/iudanet/dashsync/internal/crypto"
	"github.com/iudanet/dashsync/internal/models"
)

var (
	// BoltDB bucket names
	bucketMetadata      = []byte("metadata")
	bucketQueue         = []byte("sync_queue")
	bucketQueueByTime   = []byte("idx_sync_queue_timestamp")
	bucketQueueByRecord = []byte("idx_sync_queue_record")
)

const (
	recordsBucketPrefix = "records_"
	statusIndexPrefix   = "idx_status_"
	dateIndexPrefix     = "idx_date_"

	openTimeout = 5 * time.Second
)

var _ storage.Store = (*Storage)(nil)

// Storage represents BoltDB storage implementation for client
type Storage struct {
	db     *bbolt.DB
	cipher *crypto.Cipher
	now    func() time.Time
}

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Открываем BoltDB. Timeout не даёт зависнуть, если файл заблокирован другим процессом
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, &storage.StorageError{Op: "open", Err: err}
	}

	s := &Storage{db: db, now: time.Now}

	// Инициализируем buckets
	if err := s.initBuckets(); err != nil {
		db.Close()
		return nil, &storage.StorageError{Op: "init buckets", Err: err}
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		names := [][]byte{bucketMetadata, bucketQueue, bucketQueueByTime, bucketQueueByRecord}
		for _, c := range models.Collections() {
			names = append(names, recordsBucket(c), statusIndexBucket(c), dateIndexBucket(c))
		}

		for _, name := range names {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}

		return nil
	})
}

// view и update проверяют, что хранилище открыто, и оборачивают ошибки БД
func (s *Storage) view(op string, fn func(tx *bbolt.Tx) error) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	return storage.Wrap(op, s.db.View(fn))
}

func (s *Storage) update(op string, fn func(tx *bbolt.Tx) error) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	return storage.Wrap(op, s.db.Update(fn))
}

func recordsBucket(c models.Collection) []byte {
	return []byte(recordsBucketPrefix + string(c))
}

func statusIndexBucket(c models.Collection) []byte {
	return []byte(statusIndexPrefix + string(c))
}

func dateIndexBucket(c models.Collection) []byte {
	return []byte(dateIndexPrefix + string(c))
}

// bucket возвращает bucket или ошибку, если он отсутствует
func bucket(tx *bbolt.Tx, name []byte) (*bbolt.Bucket, error) {
	b := tx.Bucket(name)
	if b == nil {
		return nil, fmt.Errorf("%s bucket not found", name)
	}
	return b, nil
}

// encode сериализует значение в JSON и шифрует его, если задан ключ
func (s *Storage) encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value: %w", err)
	}
	if s.cipher == nil {
		return data, nil
	}
	return s.cipher.Seal(data)
}

// decode расшифровывает (если нужно) и десериализует значение
func (s *Storage) decode(data []byte, v any) error {
	if s.cipher != nil {
		plain, err := s.cipher.Open(data)
		if err != nil {
			return err
		}
		data = plain
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return nil
}
