package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// LimitResult reports the outcome of one rate limit check.
type LimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

type Limiter interface {
	Allow(ctx context.Context, key string) (*LimitResult, error)
}

// KEYS[1] = window key, ARGV = window start, now, limit, window seconds, member.
const luaSlidingWindow = `
local key = KEYS[1]
local window_start = tonumber(ARGV[1])
local now = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local window_seconds = tonumber(ARGV[4])

redis.call("ZREMRANGEBYSCORE", key, "-inf", window_start)

local count = redis.call("ZCARD", key)
if count >= limit then
    redis.call("EXPIRE", key, window_seconds)
    return {0, 0}
end

redis.call("ZADD", key, now, ARGV[5])
redis.call("EXPIRE", key, window_seconds)

return {1, limit - count - 1}
`

var slidingWindowScript = redis.NewScript(luaSlidingWindow)

type redisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewLimiter allows limit requests per key in any sliding window.
func NewLimiter(client *redis.Client, limit int, window time.Duration) Limiter {
	return &redisLimiter{
		client: client,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (*LimitResult, error) {
	now := l.now()
	windowStart := now.Add(-l.window)

	result, err := slidingWindowScript.Run(ctx, l.client, []string{"ratelimit:" + key},
		windowStart.UnixMicro(),
		now.UnixMicro(),
		l.limit,
		int(l.window.Seconds()),
		uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit check: %w", err)
	}
	if len(result) != 2 {
		return nil, fmt.Errorf("rate limit check: unexpected script result")
	}

	return &LimitResult{
		Allowed:   result[0] == 1,
		Limit:     l.limit,
		Remaining: int(result[1]),
		ResetAt:   now.Add(l.window),
	}, nil
}

type unlimited struct{}

// NewUnlimited returns a Limiter that allows every request.
func NewUnlimited() Limiter {
	return unlimited{}
}

func (unlimited) Allow(context.Context, string) (*LimitResult, error) {
	return &LimitResult{Allowed: true}, nil
}
