package ratelimit

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// takeScript mirrors MemoryStore.Take atomically on the server.
// Returns {allowed, scope (0 none, 1 user, 2 global), pttl}.
var takeScript = redis.NewScript(`
local userCount = tonumber(redis.call('GET', KEYS[1]) or '0')
if userCount >= tonumber(ARGV[1]) then
	return {0, 1, redis.call('PTTL', KEYS[1])}
end
local globalLimit = tonumber(ARGV[2])
if globalLimit > 0 then
	local globalCount = tonumber(redis.call('GET', KEYS[2]) or '0')
	if globalCount >= globalLimit then
		return {0, 2, redis.call('PTTL', KEYS[2])}
	end
end
if redis.call('INCR', KEYS[1]) == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[3])
end
if globalLimit > 0 then
	if redis.call('INCR', KEYS[2]) == 1 then
		redis.call('PEXPIRE', KEYS[2], ARGV[3])
	end
end
return {1, 0, 0}
`)

// RedisStore shares counters between bot instances. Windows are enforced with
// key TTLs, so the now argument is ignored.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Take(ctx context.Context, userKey, globalKey string, rule Rule, _ time.Time) (Decision, error) {
	res, err := takeScript.Run(ctx, s.client,
		[]string{userKey, globalKey},
		rule.UserLimit, rule.GlobalLimit, rule.Window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return Decision{}, errors.Wrap(err, "run rate limit script")
	}
	if len(res) != 3 {
		return Decision{}, errors.Errorf("unexpected rate limit script reply: %v", res)
	}

	if res[0] == 1 {
		return Decision{Allowed: true, Limit: rule.UserLimit}, nil
	}

	retryAfter := time.Duration(res[2]) * time.Millisecond
	if retryAfter <= 0 {
		retryAfter = rule.Window
	}
	if res[1] == 2 {
		return Decision{Allowed: false, Scope: ScopeGlobal, RetryAfter: retryAfter, Limit: rule.GlobalLimit}, nil
	}
	return Decision{Allowed: false, Scope: ScopeUser, RetryAfter: retryAfter, Limit: rule.UserLimit}, nil
}

// Cleanup is a no-op, expired windows vanish with their TTL.
func (s *RedisStore) Cleanup(context.Context, time.Time) (int, error) {
	return 0, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
