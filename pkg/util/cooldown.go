package util

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CooldownGate enforces a minimum interval between accepted triggers for a
// scope (e.g. one mailbox). A trigger arriving inside the window is rejected
// rather than queued.
type CooldownGate struct {
	rdb    *redis.Client
	window time.Duration
}

func NewCooldownGate(rdb *redis.Client, window time.Duration) *CooldownGate {
	return &CooldownGate{rdb: rdb, window: window}
}

// TryAcquire returns true when the scope is outside its cooldown window and
// atomically starts a new window. The gate fails open if Redis is down.
func (g *CooldownGate) TryAcquire(ctx context.Context, scope string) (bool, error) {
	key := fmt.Sprintf("cooldown:%s", scope)
	ok, err := g.rdb.SetNX(ctx, key, time.Now().Unix(), g.window).Result()
	if err != nil {
		return true, err
	}
	return ok, nil
}

// Clear ends the cooldown window early, used when the guarded work failed
// before doing anything.
func (g *CooldownGate) Clear(ctx context.Context, scope string) error {
	return g.rdb.Del(ctx, fmt.Sprintf("cooldown:%s", scope)).Err()
}
