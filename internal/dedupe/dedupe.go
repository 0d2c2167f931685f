// Package dedupe suppresses replayed webhook deliveries. Carriers retry
// webhooks on slow or failed acknowledgments; processing is not idempotent
// past admission, so a delivery seen twice within the TTL is dropped.
package dedupe

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper answers whether a carrier message SID was already processed.
type Deduper interface {
	// Seen atomically checks and marks the key. Returns true when the key
	// was already marked (duplicate), false when it is new and now marked.
	Seen(ctx context.Context, key string) bool
	// Forget releases a mark so the carrier's redelivery is processed
	// again. Called when the delivery was acknowledged as retryable;
	// only terminal outcomes keep their mark.
	Forget(ctx context.Context, key string)
}

type redisDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a Deduper backed by redis SET NX with a TTL.
func NewRedis(client *redis.Client, ttl time.Duration) Deduper {
	return &redisDeduper{client: client, ttl: ttl}
}

func (d *redisDeduper) Seen(ctx context.Context, key string) bool {
	set, err := d.client.SetNX(ctx, "dedupe:"+key, 1, d.ttl).Result()
	if err != nil {
		// Redis down must not take the webhook path with it; fail open and
		// let the message through.
		slog.WarnContext(ctx, "dedupe check failed, allowing message", "error", err)
		return false
	}
	return !set
}

func (d *redisDeduper) Forget(ctx context.Context, key string) {
	if err := d.client.Del(ctx, "dedupe:"+key).Err(); err != nil {
		// Worst case the key expires on its own and the redelivery is
		// suppressed until then.
		slog.WarnContext(ctx, "dedupe release failed", "error", err, "key", key)
	}
}

type noopDeduper struct{}

// NewNoop returns a Deduper that never reports duplicates. Used when no
// redis is configured.
func NewNoop() Deduper {
	return noopDeduper{}
}

func (noopDeduper) Seen(context.Context, string) bool { return false }

func (noopDeduper) Forget(context.Context, string) {}
