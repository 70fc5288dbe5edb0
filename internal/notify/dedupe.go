package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReminderDeduper guards against a reminder being delivered twice for the
// same appointment and window, e.g. when overlapping cron runs scan the
// same hour.
type ReminderDeduper interface {
	// Claim returns true exactly once per (appointmentID, hoursAhead)
	// within the TTL. A false return means another run already claimed it.
	Claim(ctx context.Context, appointmentID string, hoursAhead int) (bool, error)
}

// RedisDeduper claims reminders with SETNX so concurrent runs agree on a
// single winner.
type RedisDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDeduper(client *redis.Client, ttl time.Duration) *RedisDeduper {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &RedisDeduper{client: client, ttl: ttl}
}

func (d *RedisDeduper) Claim(ctx context.Context, appointmentID string, hoursAhead int) (bool, error) {
	key := fmt.Sprintf("reminder:%s:%d", appointmentID, hoursAhead)
	ok, err := d.client.SetNX(ctx, key, "1", d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim reminder %s: %w", key, err)
	}
	return ok, nil
}

// NoopDeduper claims everything. Used when redis is not configured; a
// single scheduled run needs no cross-run coordination.
type NoopDeduper struct{}

func (NoopDeduper) Claim(ctx context.Context, appointmentID string, hoursAhead int) (bool, error) {
	return true, nil
}
