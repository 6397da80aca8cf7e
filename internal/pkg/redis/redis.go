package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/config"
)

// Client wraps go-redis for the two things the API keeps in redis: revoked
// token ids and per-user request counters.
type Client struct {
	rdb *goredis.Client
}

func NewClient(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	slog.Info("redis connected", "addr", cfg.Addr)

	return &Client{rdb: rdb}, nil
}

const blacklistPrefix = "token:blacklist:"

// BlacklistToken stores a token id until the token would have expired anyway.
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

const rateLimitPrefix = "ratelimit:"

// RateLimitResult is the state of a fixed window after counting one request.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Allow counts one hit against key in a fixed window and reports whether it
// stays within limit.
func (c *Client) Allow(ctx context.Context, key string, limit int, window time.Duration) (RateLimitResult, error) {
	windowStart := time.Now().Truncate(window)
	redisKey := fmt.Sprintf("%s%s:%d", rateLimitPrefix, key, windowStart.Unix())

	var incr *goredis.IntCmd
	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.Expire(ctx, redisKey, window)
		return nil
	})
	if err != nil {
		return RateLimitResult{}, fmt.Errorf("failed to count request: %w", err)
	}

	return evaluateWindow(int(incr.Val()), limit, windowStart.Add(window).Sub(time.Now())), nil
}

func evaluateWindow(count, limit int, untilReset time.Duration) RateLimitResult {
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	res := RateLimitResult{Allowed: count <= limit, Remaining: remaining}
	if !res.Allowed {
		res.RetryAfter = untilReset
	}
	return res
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
