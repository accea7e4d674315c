package util

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Deduper collapses duplicate in-flight work onto a single caller.
// Keys are scoped by operation plus an arbitrary identity, e.g.
// "insight:<uid>:<content_hash>".
type Deduper struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewDeduper(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Deduper {
	return &Deduper{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

// AcquireOnce tries to acquire an in-flight marker for operation + identity.
// Returns true if this caller is the FIRST one; false for a duplicate.
func (d *Deduper) AcquireOnce(ctx context.Context, operation, identity string) bool {
	key := d.key(operation, identity)

	ok, err := d.rdb.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		// Redis 挂了？为了安全：当 redis 不可用时，不阻止处理，返回 true
		if d.logger != nil {
			d.logger.Warn("Redis dedup check failed, allowing processing",
				zap.String("operation", operation),
				zap.String("identity", identity),
				zap.Error(err),
			)
		}
		return true
	}

	if !ok && d.logger != nil {
		d.logger.Info("Collapsed duplicate in-flight request",
			zap.String("operation", operation),
			zap.String("identity", identity),
			zap.String("dedup_key", key),
		)
	}

	return ok
}

// Release drops the in-flight marker once the work has finished, so the
// next content change is free to regenerate without waiting out the TTL.
func (d *Deduper) Release(ctx context.Context, operation, identity string) {
	if err := d.rdb.Del(ctx, d.key(operation, identity)).Err(); err != nil && d.logger != nil {
		d.logger.Warn("Failed to release in-flight marker",
			zap.String("operation", operation),
			zap.String("identity", identity),
			zap.Error(err),
		)
	}
}

func (d *Deduper) key(operation, identity string) string {
	return fmt.Sprintf("inflight:%s:%s", operation, identity)
}
