// Package cache provides the TTL cache abstraction used by reporting.
// Entries expire on their own; callers never invalidate on write, so reads
// may be stale up to the TTL. The cache is a cost-reduction layer, not a
// correctness mechanism.
package cache

import (
	"context"
	"time"

	"github.com/avinashm/sparkcart-backend/pkg/redis"
)

// Store is a string-keyed TTL cache.
type Store interface {
	// Get returns the cached value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type redisStore struct {
	client *redis.Client
}

// NewRedisStore adapts the shared redis client to the Store interface.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, key)
	if err != nil {
		if redis.IsNil(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *redisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl)
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key)
}
