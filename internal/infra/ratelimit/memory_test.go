package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiterWindow(t *testing.T) {
	current := time.Unix(1000, 0)
	limiter := NewMemoryLimiter(func() time.Time { return current }, 0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		decision, err := limiter.Allow(ctx, "client-1", 3, time.Minute)
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !decision.Allowed {
			t.Fatalf("expected request %d allowed", i)
		}
		if decision.Remaining != 2-i {
			t.Fatalf("expected remaining %d, got %d", 2-i, decision.Remaining)
		}
	}

	decision, err := limiter.Allow(ctx, "client-1", 3, time.Minute)
	if err != nil {
		t.Fatalf("allow over limit: %v", err)
	}
	if decision.Allowed {
		t.Fatal("expected fourth request to be denied")
	}

	// A separate key has its own window.
	decision, err = limiter.Allow(ctx, "client-2", 3, time.Minute)
	if err != nil || !decision.Allowed {
		t.Fatalf("expected other client allowed, got %+v err %v", decision, err)
	}

	// Window expiry resets the counter.
	current = current.Add(2 * time.Minute)
	decision, err = limiter.Allow(ctx, "client-1", 3, time.Minute)
	if err != nil || !decision.Allowed {
		t.Fatalf("expected allowed after window reset, got %+v err %v", decision, err)
	}
}

func TestMemoryLimiterZeroLimitDisables(t *testing.T) {
	limiter := NewMemoryLimiter(nil, 0)
	for i := 0; i < 100; i++ {
		decision, err := limiter.Allow(context.Background(), "client", 0, time.Second)
		if err != nil || !decision.Allowed {
			t.Fatalf("expected disabled limiter to always allow")
		}
	}
}
