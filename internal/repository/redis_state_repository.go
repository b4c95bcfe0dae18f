package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

type redisStateRepository struct {
	client *redis.Client
	key    string
}

// NewRedisStateRepository stores the document as a plain string value under key.
func NewRedisStateRepository(client *redis.Client, key string) StateRepository {
	return &redisStateRepository{client: client, key: key}
}

func (r *redisStateRepository) Load(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (r *redisStateRepository) Save(ctx context.Context, document []byte) error {
	return r.client.Set(ctx, r.key, document, 0).Err()
}

func (r *redisStateRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
