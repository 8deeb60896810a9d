// Package redis wraps go-redis/v9 behind a narrow Client interface, so the
// snapshot store depends on an interface it can fake in tests rather than a
// concrete *redis.Client.
package redis

import (
	"context"
	"time"
)

// Client is the subset of Redis operations the snapshot store needs:
// connection lifecycle plus a plain key-value Get/Set/Del. The matching
// engine has no use for hashes, sorted sets, streams, or pub/sub, unlike
// the wider exchange this package's shape is grounded on.
type Client interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Ping(ctx context.Context) error
	Reconnect(ctx context.Context) bool

	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) (int64, error)
}
