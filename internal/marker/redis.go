package marker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "marker:"

// RedisStore shares markers across gateway instances so concurrent
// sessions of the same identity observe one classification.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, externalID string) (*Marker, error) {
	val, err := s.client.Get(ctx, redisPrefix+externalID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var m Marker
	if err := json.Unmarshal([]byte(val), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *RedisStore) Set(ctx context.Context, m Marker) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisPrefix+m.ExternalID, data, s.ttl).Err()
}

func (s *RedisStore) Clear(ctx context.Context, externalID string) error {
	return s.client.Del(ctx, redisPrefix+externalID).Err()
}
