package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

type counter struct {
	Count   int
	ResetAt time.Time
}

// MemoryStore keeps counters in process. Suitable for a single bot instance.
type MemoryStore struct {
	mu       sync.Mutex
	counters *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		counters: cache.New(cache.NoExpiration, 0),
	}
}

func (s *MemoryStore) window(key string, rule Rule, now time.Time) counter {
	if v, found := s.counters.Get(key); found {
		c := v.(counter)
		if now.Before(c.ResetAt) {
			return c
		}
	}
	return counter{Count: 0, ResetAt: now.Add(rule.Window)}
}

func (s *MemoryStore) Take(_ context.Context, userKey, globalKey string, rule Rule, now time.Time) (Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.window(userKey, rule, now)
	if user.Count >= rule.UserLimit {
		return Decision{Allowed: false, Scope: ScopeUser, RetryAfter: user.ResetAt.Sub(now), Limit: rule.UserLimit}, nil
	}

	global := s.window(globalKey, rule, now)
	if rule.GlobalLimit > 0 && global.Count >= rule.GlobalLimit {
		return Decision{Allowed: false, Scope: ScopeGlobal, RetryAfter: global.ResetAt.Sub(now), Limit: rule.GlobalLimit}, nil
	}

	user.Count++
	s.counters.Set(userKey, user, cache.NoExpiration)
	if rule.GlobalLimit > 0 {
		global.Count++
		s.counters.Set(globalKey, global, cache.NoExpiration)
	}

	return Decision{Allowed: true, Limit: rule.UserLimit}, nil
}

func (s *MemoryStore) Cleanup(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, item := range s.counters.Items() {
		c, ok := item.Object.(counter)
		if !ok || !now.Before(c.ResetAt) {
			s.counters.Delete(key)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryStore) Len() int {
	return s.counters.ItemCount()
}
