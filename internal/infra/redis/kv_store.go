package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// KVStore persists user preferences (chosen language, analytics opt-in)
// behind the opaque key-value surface the i18n manager consumes.
type KVStore struct {
	client *redis.Client
	prefix string
}

func NewKVStore(client *redis.Client) *KVStore {
	return &KVStore{client: client, prefix: "lingoquest:kv:"}
}

func (s *KVStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *KVStore) SetItem(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.prefix+key, value, 0).Err()
}

func (s *KVStore) RemoveItem(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}
