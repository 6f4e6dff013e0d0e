package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Client wraps the redis operations the engine relies on: per-warehouse
// tick locks and at-most-once dedupe keys for notifications.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// AcquireWarehouseLock serializes simulation runs per warehouse. The engine
// assumes no two ticks for one warehouse run concurrently; this lock is how
// callers keep that promise across instances.
func (c *Client) AcquireWarehouseLock(ctx context.Context, warehouseID int64, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, warehouseLockKey(warehouseID), "1", ttl).Result()
}

// ReleaseWarehouseLock releases the per-warehouse lock
func (c *Client) ReleaseWarehouseLock(ctx context.Context, warehouseID int64) error {
	return c.rdb.Del(ctx, warehouseLockKey(warehouseID)).Err()
}

// MarkOnce sets a dedupe key and reports whether this caller was first.
// Notification emitters use it so repeats are silently skipped instead of
// duplicated.
func (c *Client) MarkOnce(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, fmt.Sprintf("dedupe:%s", key), "1", ttl).Result()
}

func warehouseLockKey(warehouseID int64) string {
	return fmt.Sprintf("lock:warehouse:%d", warehouseID)
}
