package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/dwarvesf/justthetip/internal/utils/logger"
)

type Limiter struct {
	store  CounterStore
	rules  map[string]Rule
	logger *logger.Logger
	now    func() time.Time
}

func New(store CounterStore, rules map[string]Rule, logger *logger.Logger) *Limiter {
	return &Limiter{
		store:  store,
		rules:  rules,
		logger: logger,
		now:    time.Now,
	}
}

func userKey(commandType, userID string) string {
	return fmt.Sprintf("ratelimit:user:%s:%s", commandType, userID)
}

func globalKey(commandType string) string {
	return "ratelimit:global:" + commandType
}

// Check consumes one slot of commandType for userID. Rejected calls consume nothing.
func (l *Limiter) Check(ctx context.Context, userID, commandType string) (Decision, error) {
	rule, ok := l.rules[commandType]
	if !ok {
		l.logger.Warn("[Limiter.Check] unknown command type, allowing", map[string]string{
			"command_type": commandType,
			"user_id":      userID,
		})
		return Decision{Allowed: true}, nil
	}

	decision, err := l.store.Take(ctx, userKey(commandType, userID), globalKey(commandType), rule, l.now())
	if err != nil {
		l.logger.Error("[Limiter.Check][Take] counter store failed", map[string]string{
			"command_type": commandType,
			"user_id":      userID,
			"error":        err.Error(),
		})
		return Decision{}, errors.Wrap(err, "rate limit counter store")
	}

	if !decision.Allowed {
		l.logger.Info("[Limiter.Check] rate limited", map[string]string{
			"command_type": commandType,
			"user_id":      userID,
			"scope":        decision.Scope,
			"retry_after":  decision.RetryAfter.String(),
		})
	}
	return decision, nil
}

// Cleanup drops counters whose window has elapsed.
func (l *Limiter) Cleanup(ctx context.Context) (int, error) {
	removed, err := l.store.Cleanup(ctx, l.now())
	if err != nil {
		return 0, errors.Wrap(err, "rate limit cleanup")
	}
	if removed > 0 {
		l.logger.Debug("[Limiter.Cleanup] removed expired counters", map[string]string{
			"removed": fmt.Sprint(removed),
		})
	}
	return removed, nil
}
