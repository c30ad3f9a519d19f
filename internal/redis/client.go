package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	lockRetryInterval = 25 * time.Millisecond
	// leaseMargin keeps a lock alive past the deadline of the ctx that took it.
	leaseMargin = 5 * time.Second
)

// unlockScript deletes the lock only if it still carries our token.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

type Client struct {
	rdb     *redis.Client
	lockTTL time.Duration
}

func Initialize(redisURL string, lockTTL time.Duration) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if lockTTL <= 0 {
		lockTTL = 10 * time.Second
	}
	return &Client{rdb: rdb, lockTTL: lockTTL}, nil
}

// Lock acquires a distributed lock on key, polling until ctx is done. The
// lock expires if the holder never releases it, but never before ctx's
// deadline has passed.
func (c *Client) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	lockKey := "lock:" + key
	ttl := c.lease(ctx)

	for {
		ok, err := c.rdb.SetNX(ctx, lockKey, token, ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}

		t := time.NewTimer(lockRetryInterval)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	return func() {
		// released on a fresh context so a cancelled request still frees the key
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		// on failure the TTL reclaims the key
		_ = unlockScript.Run(ctx, c.rdb, []string{lockKey}, token).Err()
	}, nil
}

// lease is the configured TTL, stretched to cover ctx's deadline.
func (c *Client) lease(ctx context.Context) time.Duration {
	ttl := c.lockTTL
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline) + leaseMargin; d > ttl {
			ttl = d
		}
	}
	return ttl
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
