package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/five82/studydesk/internal/model"
)

const pingTimeout = 5 * time.Second

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// RedisStore keeps the document and blobs in Redis under separate
// namespaces: <prefix>:document and <prefix>:blob:<key>.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

var (
	_ DocumentStore = (*RedisStore)(nil)
	_ BlobStore     = (*RedisStore)(nil)
)

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	if opts.Addr == "" {
		return nil, errors.New("missing redis address")
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "studydesk"
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: pingTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrap(err, "redis ping")
	}
	return &RedisStore{rdb: rdb, prefix: prefix}, nil
}

func (r *RedisStore) documentKey() string { return r.prefix + ":document" }

func (r *RedisStore) blobKey(key string) string { return r.prefix + ":blob:" + key }

func (r *RedisStore) Load(ctx context.Context) (*model.AppState, error) {
	data, err := r.rdb.Get(ctx, r.documentKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "reading document")
	}
	return decodeDocument(data)
}

func (r *RedisStore) Save(ctx context.Context, doc *model.AppState) error {
	data, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, r.documentKey(), data, 0).Err(); err != nil {
		return errors.Wrap(err, "writing document")
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.rdb.Del(ctx, r.documentKey()).Err(); err != nil {
		return errors.Wrap(err, "removing document")
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.rdb.Get(ctx, r.blobKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "reading blob %s", key)
	}
	return data, nil
}

func (r *RedisStore) Put(ctx context.Context, key string, data []byte) error {
	if err := r.rdb.Set(ctx, r.blobKey(key), data, 0).Err(); err != nil {
		return errors.Wrapf(err, "writing blob %s", key)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, r.blobKey(key)).Err(); err != nil {
		return errors.Wrapf(err, "removing blob %s", key)
	}
	return nil
}

// Close releases the Redis connection pool.
func (r *RedisStore) Close() error {
	return r.rdb.Close()
}
