package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asca-arts/gatekeeper/pkg/domain/ratelimit"
	"github.com/go-redis/redis/v8"
)

const RedisKeyPattern = "ratelimit:%s:%s"

// incrementScript counts a hit and starts the window on the first one. A key
// left without a TTL gets one so it cannot live forever.
const incrementScript = `
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {count, ttl}
`

var ErrUnexpectedReply = errors.New("unexpected redis reply")

// RedisStore shares counters between instances. Expiry is left to redis, so
// Sweep has nothing to do and Len is unknown.
type RedisStore struct {
	client  redis.Cmdable
	limiter string
}

func NewRedisStore(client redis.Cmdable, limiter string) *RedisStore {
	return &RedisStore{client: client, limiter: limiter}
}

func (s *RedisStore) key(key string) string {
	return fmt.Sprintf(RedisKeyPattern, s.limiter, key)
}

func (s *RedisStore) Increment(ctx context.Context, key string, now time.Time, window time.Duration) (ratelimit.Entry, error) {
	res, err := s.client.Eval(ctx, incrementScript, []string{s.key(key)}, window.Milliseconds()).Result()
	if err != nil {
		return ratelimit.Entry{}, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	values, ok := res.([]interface{})
	if !ok || len(values) != 2 {
		return ratelimit.Entry{}, fmt.Errorf("%w: %v", ErrUnexpectedReply, res)
	}
	count, ok := values[0].(int64)
	if !ok {
		return ratelimit.Entry{}, fmt.Errorf("%w: count %v", ErrUnexpectedReply, values[0])
	}
	ttl, ok := values[1].(int64)
	if !ok {
		return ratelimit.Entry{}, fmt.Errorf("%w: ttl %v", ErrUnexpectedReply, values[1])
	}

	return ratelimit.Entry{
		Key:           key,
		Count:         int(count),
		WindowResetAt: now.Add(time.Duration(ttl) * time.Millisecond),
	}, nil
}

func (s *RedisStore) Sweep(context.Context, time.Time) (int, error) {
	return 0, nil
}

func (s *RedisStore) Len() int {
	return -1
}
