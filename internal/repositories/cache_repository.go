package repositories

import (
	"context"
	"time"
)

// CacheRepositoryInterface is the cache port used by the statistics
// engine. Failures are treated as misses by the callers.
type CacheRepositoryInterface interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
