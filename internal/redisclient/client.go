package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const dashboardStatsKey = "dashboard:stats"

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

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// SetProductStock mirrors a product's on-hand quantity
func (c *Client) SetProductStock(ctx context.Context, productID int64, onHand int) error {
	return c.rdb.Set(ctx, fmt.Sprintf("stock:%d", productID), onHand, 0).Err()
}

// GetProductStock reads the mirrored on-hand quantity.
// Returns redis.Nil wrapped when the product is not mirrored.
func (c *Client) GetProductStock(ctx context.Context, productID int64) (int, error) {
	val, err := c.rdb.Get(ctx, fmt.Sprintf("stock:%d", productID)).Int()
	if err != nil {
		return 0, fmt.Errorf("stock mirror miss for product %d: %w", productID, err)
	}
	return val, nil
}

// DeleteProductStock drops the mirror entry for a deleted product
func (c *Client) DeleteProductStock(ctx context.Context, productID int64) error {
	return c.rdb.Del(ctx, fmt.Sprintf("stock:%d", productID)).Err()
}

// SetDashboardStats caches the dashboard stats payload with a TTL
func (c *Client) SetDashboardStats(ctx context.Context, stats interface{}, ttl time.Duration) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	return c.rdb.Set(ctx, dashboardStatsKey, data, ttl).Err()
}

// GetDashboardStats loads cached dashboard stats into dest.
// Returns false on a cache miss.
func (c *Client) GetDashboardStats(ctx context.Context, dest interface{}) (bool, error) {
	data, err := c.rdb.Get(ctx, dashboardStatsKey).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached stats: %w", err)
	}
	return true, nil
}

// InvalidateDashboardStats drops the cached stats after a write
func (c *Client) InvalidateDashboardStats(ctx context.Context) error {
	return c.rdb.Del(ctx, dashboardStatsKey).Err()
}
