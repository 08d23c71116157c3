package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisRepository stores encoded records in Redis.
type RedisRepository struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedisRepository returns a repository that namespaces its keys with prefix.
func NewRedisRepository(client redis.UniversalClient, prefix string) *RedisRepository {
	return &RedisRepository{
		redis:  client,
		prefix: prefix,
	}
}

func (r *RedisRepository) key(username string) string {
	return r.prefix + ":user:" + username
}

// Get loads and decodes the record for username.
func (r *RedisRepository) Get(ctx context.Context, username string) (Record, error) {
	data, err := r.redis.Get(ctx, r.key(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	rec, err := Decode(data)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if rec.Username != username {
		return Record{}, fmt.Errorf("%w: key/username mismatch", ErrCorrupt)
	}

	return rec, nil
}

// Contains reports whether a record key exists for username.
func (r *RedisRepository) Contains(ctx context.Context, username string) (bool, error) {
	n, err := r.redis.Exists(ctx, r.key(username)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return n == 1, nil
}

// Put writes rec with SETNX so a concurrent duplicate registration loses.
// Records carry no expiry.
func (r *RedisRepository) Put(ctx context.Context, rec Record) error {
	data, err := Encode(rec)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	ok, err := r.redis.SetNX(ctx, r.key(rec.Username), data, 0).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !ok {
		return ErrExists
	}
	return nil
}
