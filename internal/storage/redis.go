package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/skyvoyage-seatmap/internal/logger"
)

// RedisStore keeps values as plain Redis strings without expiry.
type RedisStore struct {
	rdb *redis.Client
	log *logger.Logger
}

// NewRedisStore wraps an existing client.
func NewRedisStore(rdb *redis.Client, log *logger.Logger) *RedisStore {
	return &RedisStore{rdb: rdb, log: log}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		s.log.Debug("redis GET key not found", "key", key)
		return nil, false, nil
	}
	if err != nil {
		s.log.Warn("redis GET failed", "key", key, "error", err)
		return nil, false, fmt.Errorf("%w: get %s: %v", ErrUnavailable, key, err)
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		s.log.Warn("redis SET failed", "key", key, "error", err)
		return fmt.Errorf("%w: set %s: %v", ErrPersist, key, err)
	}
	s.log.Debug("redis SET", "key", key, "bytes", len(value))
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.log.Warn("redis DEL failed", "keys", keys, "error", err)
		return fmt.Errorf("%w: delete %v: %v", ErrPersist, keys, err)
	}
	s.log.Debug("redis DEL", "keys", keys)
	return nil
}
