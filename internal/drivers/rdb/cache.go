package rdb

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cached returns the value stored under key or, on a miss,
// calls fetch and stores its result for ttl.
// A nil service skips Redis and always calls fetch.
// Redis failures are logged and fall through to fetch,
// so the cache never changes what the caller gets.
// Non-string types need to implement encoding.BinaryMarshaler
// and encoding.BinaryUnmarshaler.
func Cached[T any](
	ctx context.Context,
	rs *Service,
	key string,
	ttl time.Duration,
	fetch func() (T, error),
) (T, error) {

	var zero, data T

	if rs == nil {
		return fetch()
	}

	err := rs.Client.Get(ctx, key).Scan(&data)
	if err == nil {
		return data, nil
	}

	if err != redis.Nil {
		log.Printf("Failed to read cache key '%s': %v", key, err)
	}

	data, err = fetch()
	if err != nil {
		return zero, err
	}

	if err := rs.Client.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Printf("Failed to write cache key '%s': %v", key, err)
	}

	return data, nil
}
