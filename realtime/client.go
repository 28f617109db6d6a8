// Package realtime wraps the Redis connection used for push-style order
// feeds and short-lived verification codes. Every method is safe to call
// on a nil client so the API keeps working without Redis; events are
// simply dropped and codes fall back to the store-backed path.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

// OrderEvent is published to the order feed whenever an order changes.
// Agent clients subscribe to their zone's channel instead of polling.
type OrderEvent struct {
	Type     string    `json:"type"` // "created", "accepted", "delivered", "cancelled"
	OrderID  uint      `json:"order_id"`
	Location string    `json:"location"`
	At       time.Time `json:"at"`
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// OrderChannel names the pub/sub channel carrying events for one zone.
func OrderChannel(location string) string {
	return "orders:" + location
}

// PublishOrderEvent pushes an order change onto its zone channel.
func (c *Client) PublishOrderEvent(ev OrderEvent) error {
	if c == nil {
		return nil
	}
	ctx := context.Background()
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}
	return c.rdb.Publish(ctx, OrderChannel(ev.Location), payload).Err()
}

// SetVerificationCode stores an email verification code for a user.
func (c *Client) SetVerificationCode(userID uint, code string, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	ctx := context.Background()
	key := fmt.Sprintf("verify:%d", userID)
	return c.rdb.Set(ctx, key, code, ttl).Err()
}

// GetVerificationCode fetches the pending code for a user; empty string
// means no code is outstanding (expired, consumed, or Redis absent).
func (c *Client) GetVerificationCode(userID uint) (string, error) {
	if c == nil {
		return "", nil
	}
	ctx := context.Background()
	key := fmt.Sprintf("verify:%d", userID)
	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get verification code: %w", err)
	}
	return val, nil
}

// DeleteVerificationCode consumes a user's code.
func (c *Client) DeleteVerificationCode(userID uint) error {
	if c == nil {
		return nil
	}
	ctx := context.Background()
	return c.rdb.Del(ctx, fmt.Sprintf("verify:%d", userID)).Err()
}

// Close shuts the Redis connection.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
