package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterAllowConsumesBurst(t *testing.T) {
	now := time.Now()
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 1, Burst: 3}

	for i := 0; i < 3; i++ {
		allowed, _ := limiter.Allow("client", rule)
		if !allowed {
			t.Fatalf("request %d within burst rejected", i+1)
		}
	}

	allowed, retryAfter := limiter.Allow("client", rule)
	if allowed {
		t.Fatalf("request beyond burst allowed")
	}
	if retryAfter <= 0 {
		t.Fatalf("expected positive retry-after, got %v", retryAfter)
	}
}

func TestRateLimiterRefills(t *testing.T) {
	now := time.Now()
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 1, Burst: 1}

	if allowed, _ := limiter.Allow("client", rule); !allowed {
		t.Fatalf("first request rejected")
	}
	if allowed, _ := limiter.Allow("client", rule); allowed {
		t.Fatalf("second immediate request allowed")
	}

	now = now.Add(2 * time.Second)
	if allowed, _ := limiter.Allow("client", rule); !allowed {
		t.Fatalf("request after refill rejected")
	}
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	now := time.Now()
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 1, Burst: 1}

	if allowed, _ := limiter.Allow("a", rule); !allowed {
		t.Fatalf("first key rejected")
	}
	if allowed, _ := limiter.Allow("b", rule); !allowed {
		t.Fatalf("second key throttled by first key's bucket")
	}
}
