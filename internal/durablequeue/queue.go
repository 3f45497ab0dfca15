// Package durablequeue implements a single-writer, file-backed FIFO queue
// used to stage outgoing MQTT publishes while a client is disconnected.
package durablequeue

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

// ErrEmpty is returned by GetNoWait when the queue has nothing staged.
var ErrEmpty = errors.New("durablequeue: empty")

// ErrPersistenceUnavailable is returned by Open when neither the primary
// nor the backup path could be opened after retrying.
var ErrPersistenceUnavailable = errors.New("durablequeue: persistence unavailable")

var bucketName = []byte("batches")

// Entry is one staged batch together with the sequence key it was stored
// under. TaskDone must be called with this Entry's ID to remove it.
type Entry struct {
	ID   uint64
	Data []byte
}

// Queue is a durable FIFO backed by a bbolt file: PutNoWait appends,
// GetNoWait peeks the oldest entry without removing it, and TaskDone
// commits the removal. Nothing is deleted until TaskDone is called, so a
// crash between GetNoWait and TaskDone simply redelivers the batch.
type Queue struct {
	db   *bbolt.DB
	path string
}

// RetryConfig controls the open-retry backoff used by Open.
type RetryConfig struct {
	Tries      int
	Delay      time.Duration
	MaxDelay   time.Duration
	Backoff    float64
}

// DefaultRetryConfig mirrors the persistence engine's own init retry
// policy so both layers fail over on the same schedule.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{Tries: 3, Delay: time.Second, MaxDelay: 8 * time.Second, Backoff: 2}
}

// Open opens (creating if needed) the bbolt file at mainPath, retrying
// with backoff on failure. If every attempt against mainPath fails and
// backupPath is non-empty, one attempt against backupPath is made before
// giving up with ErrPersistenceUnavailable.
func Open(mainPath, backupPath string, retry RetryConfig) (*Queue, error) {
	q, err := openWithRetry(mainPath, retry)
	if err == nil {
		return q, nil
	}

	if backupPath != "" {
		if q, backupErr := openOnce(backupPath); backupErr == nil {
			return q, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrPersistenceUnavailable, err)
}

func openWithRetry(path string, retry RetryConfig) (*Queue, error) {
	delay := retry.Delay
	var lastErr error
	for attempt := 0; attempt < retry.Tries; attempt++ {
		if attempt > 0 {
			time.Sleep(delay)
			delay = time.Duration(float64(delay) * retry.Backoff)
			if delay > retry.MaxDelay {
				delay = retry.MaxDelay
			}
		}
		q, err := openOnce(path)
		if err == nil {
			return q, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func openOnce(path string) (*Queue, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &Queue{db: db, path: path}, nil
}

// PutNoWait appends data as a new entry at the tail of the queue.
func (q *Queue) PutNoWait(data []byte) error {
	return q.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		id, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(encodeKey(id), data)
	})
}

// GetNoWait returns the oldest staged entry without removing it, or
// ErrEmpty if the queue has nothing staged.
func (q *Queue) GetNoWait() (*Entry, error) {
	var entry *Entry
	err := q.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketName).Cursor()
		k, v := c.First()
		if k == nil {
			return ErrEmpty
		}
		data := make([]byte, len(v))
		copy(data, v)
		entry = &Entry{ID: decodeKey(k), Data: data}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// TaskDone commits the removal of the entry with the given id. Calling it
// on an id that has already been removed, or was never staged, is a no-op.
func (q *Queue) TaskDone(id uint64) error {
	return q.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Delete(encodeKey(id))
	})
}

// Len returns the number of staged entries.
func (q *Queue) Len() (int, error) {
	var n int
	err := q.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketName).Stats().KeyN
		return nil
	})
	return n, err
}

// Close releases the underlying file handle.
func (q *Queue) Close() error {
	return q.db.Close()
}

func encodeKey(id uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, id)
	return buf
}

func decodeKey(buf []byte) uint64 {
	return binary.BigEndian.Uint64(buf)
}
