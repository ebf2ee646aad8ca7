// Package redis implements Redis-backed boundary helpers.
//
// The engagement core itself never touches Redis; only the HTTP boundary uses
// it to rate-limit reaction toggles per actor across instances.
package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"
)

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, redisURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// tokenBucketScript atomically refills a per-actor token bucket based on
// elapsed time and consumes one token if available.
// ARGV: [1]=now_ms, [2]=capacity, [3]=rate_per_minute
// Returns 1 if the request is allowed, 0 if rate limited.
var tokenBucketScript = goredis.NewScript(`
local tokens = tonumber(redis.call('HGET', KEYS[1], 'tokens'))
local last_refill = tonumber(redis.call('HGET', KEYS[1], 'last_refill')) or tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
if tokens == nil then tokens = capacity end
local elapsed_min = (tonumber(ARGV[1]) - last_refill) / 60000.0
tokens = math.min(capacity, tokens + elapsed_min * tonumber(ARGV[3]))
local allowed = 0
if tokens >= 1 then
	tokens = tokens - 1
	allowed = 1
end
redis.call('HSET', KEYS[1], 'tokens', tostring(tokens), 'last_refill', ARGV[1])
redis.call('EXPIRE', KEYS[1], 3600)
return allowed
`)

// ToggleRateLimiter implements token bucket rate limiting for reaction toggles.
type ToggleRateLimiter struct {
	rdb      *goredis.Client
	clock    clockwork.Clock
	capacity int
	rate     int // tokens per minute
}

// NewToggleRateLimiter creates a toggle rate limiter.
// capacity: maximum burst size (tokens)
// rate: sustained rate (tokens per minute)
func NewToggleRateLimiter(rdb *goredis.Client, clock clockwork.Clock, capacity, rate int) *ToggleRateLimiter {
	return &ToggleRateLimiter{rdb: rdb, clock: clock, capacity: capacity, rate: rate}
}

// Allow checks whether the actor may toggle another reaction.
// Returns true if allowed (token consumed), false if rate limited.
func (l *ToggleRateLimiter) Allow(ctx context.Context, actorID uuid.UUID) (bool, error) {
	key := fmt.Sprintf("rate_limit:toggles:%s", actorID)

	result, err := tokenBucketScript.Run(ctx, l.rdb, []string{key},
		strconv.FormatInt(l.clock.Now().UnixMilli(), 10),
		strconv.Itoa(l.capacity),
		strconv.Itoa(l.rate),
	).Int()
	if err != nil {
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}

	return result == 1, nil
}
