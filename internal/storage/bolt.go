package storage

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var blobBucket = []byte("blobs")

// BoltBlobs stores blobs in a single bbolt bucket.
type BoltBlobs struct {
	db *bolt.DB
}

var _ BlobStore = (*BoltBlobs)(nil)

// OpenBoltBlobs opens (or creates) the bbolt file at path.
func OpenBoltBlobs(path string) (*BoltBlobs, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating data dir")
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "bbolt open")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(blobBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating blob bucket")
	}
	return &BoltBlobs{db: db}, nil
}

func (b *BoltBlobs) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var data []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(blobBucket).Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		// v is only valid for the life of the transaction.
		data = slices.Clone(v)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "reading blob %s", key)
	}
	return data, nil
}

func (b *BoltBlobs) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(blobBucket).Put([]byte(key), data)
	})
	return errors.Wrapf(err, "writing blob %s", key)
}

func (b *BoltBlobs) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(blobBucket).Delete([]byte(key))
	})
	return errors.Wrapf(err, "removing blob %s", key)
}

// Close closes the underlying database file.
func (b *BoltBlobs) Close() error {
	return b.db.Close()
}
