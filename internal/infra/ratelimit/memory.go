package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/Ramcharan1706/BlockEstate/internal/domain"
)

type memoryLimiter struct {
	mu      sync.Mutex
	now     func() time.Time
	buckets map[string]*bucket
	maxKeys int
}

type bucket struct {
	count     int
	windowEnd time.Time
}

// NewMemoryLimiter is a fixed-window limiter for single-process
// deployments. An injectable clock keeps the window math testable.
func NewMemoryLimiter(now func() time.Time, maxKeys int) domain.RateLimiter {
	if now == nil {
		now = time.Now
	}
	if maxKeys <= 0 {
		maxKeys = 10000
	}
	return &memoryLimiter{
		now:     now,
		buckets: make(map[string]*bucket),
		maxKeys: maxKeys,
	}
}

func (m *memoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (domain.RateLimitDecision, error) {
	if limit <= 0 {
		return domain.RateLimitDecision{Allowed: true, Limit: limit, Remaining: limit}, nil
	}
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.buckets[key]
	if ok && now.After(b.windowEnd) {
		delete(m.buckets, key)
		b = nil
		ok = false
	}
	if !ok {
		if len(m.buckets) >= m.maxKeys {
			m.evictExpired(now)
		}
		b = &bucket{windowEnd: now.Add(window)}
		m.buckets[key] = b
	}
	b.count++

	remaining := limit - b.count
	if remaining < 0 {
		remaining = 0
	}
	return domain.RateLimitDecision{
		Allowed:   b.count <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   b.windowEnd,
	}, nil
}

func (m *memoryLimiter) evictExpired(now time.Time) {
	for key, b := range m.buckets {
		if now.After(b.windowEnd) {
			delete(m.buckets, key)
		}
	}
}
