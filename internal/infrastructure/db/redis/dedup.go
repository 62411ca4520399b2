package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DedupChecker suppresses repeated keys for a short window.
// Key format: dedup:<caller key>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether key was marked and has not yet expired.
func (d *DedupChecker) IsDuplicate(ctx context.Context, key string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records key for ttl.
func (d *DedupChecker) Mark(ctx context.Context, key string, ttl time.Duration) error {
	return d.client.Set(ctx, d.key(key), "1", ttl).Err()
}

func (d *DedupChecker) key(key string) string {
	return "dedup:" + key
}
