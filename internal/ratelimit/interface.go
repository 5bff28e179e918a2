package ratelimit

import (
	"context"
	"time"
)

const (
	ScopeUser   = "user"
	ScopeGlobal = "global"
)

// Rule bounds one command type. A zero GlobalLimit disables the global counter.
type Rule struct {
	UserLimit   int
	GlobalLimit int
	Window      time.Duration
}

type Decision struct {
	Allowed    bool          `json:"allowed"`
	Scope      string        `json:"scope,omitempty"`
	RetryAfter time.Duration `json:"retry_after,omitempty"`
	Limit      int           `json:"limit,omitempty"`
}

// CounterStore keeps the (count, windowReset) pairs. Take must check the user
// counter, then the global counter, and increment both only when both pass.
type CounterStore interface {
	Take(ctx context.Context, userKey, globalKey string, rule Rule, now time.Time) (Decision, error)
	Cleanup(ctx context.Context, now time.Time) (int, error)
}

type ILimiter interface {
	Check(ctx context.Context, userID, commandType string) (Decision, error)
	Cleanup(ctx context.Context) (int, error)
}
