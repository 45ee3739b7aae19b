package metadata

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var bucketMetadata = []byte("metadata")

// BoltRepository stores metadata in a single bbolt bucket.
type BoltRepository struct {
	db *bbolt.DB
}

// OpenBolt opens (or creates) the bbolt file at path and makes sure the
// metadata bucket exists.
func OpenBolt(path string) (*BoltRepository, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketMetadata)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create buckets: %w", err)
	}

	return &BoltRepository{db: db}, nil
}

func (r *BoltRepository) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketMetadata).Get([]byte(key))
		if v != nil {
			// bbolt memory is only valid inside the transaction.
			value = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

func (r *BoltRepository) Set(_ context.Context, key string, value []byte) error {
	err := r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMetadata).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *BoltRepository) Delete(_ context.Context, key string) error {
	err := r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMetadata).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *BoltRepository) Close() error {
	return r.db.Close()
}
