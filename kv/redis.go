package kv

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

var _ Store = (*RedisStore)(nil)

type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(config *RedisConfig) *RedisStore {
	return &RedisStore{
		client: createRedisClient(config),
	}
}

func (s *RedisStore) Get(ctx context.Context, key []byte) ([]byte, error) {
	res, err := s.client.Get(ctx, string(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return []byte(res), nil
}

func (s *RedisStore) Set(ctx context.Context, key []byte, value []byte) error {
	return s.client.Set(ctx, string(key), value, 0).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key []byte) error {
	return s.client.Del(ctx, string(key)).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
