package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestThrottle(t *testing.T, limit int) (*LoginThrottle, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewLoginThrottle(client, limit, time.Minute), mr
}

func TestLoginThrottleBlocksAfterLimit(t *testing.T) {
	throttle, _ := newTestThrottle(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		blocked, err := throttle.Blocked(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("blocked check: %v", err)
		}
		if blocked {
			t.Fatalf("blocked after %d failures", i)
		}
		if err := throttle.RecordFailure(ctx, "10.0.0.1"); err != nil {
			t.Fatalf("record failure: %v", err)
		}
	}

	blocked, err := throttle.Blocked(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("blocked check: %v", err)
	}
	if !blocked {
		t.Fatalf("expected client blocked after exhausting budget")
	}

	blocked, err = throttle.Blocked(ctx, "10.0.0.2")
	if err != nil || blocked {
		t.Fatalf("other clients must not share the counter")
	}
}

func TestLoginThrottleResetClearsCounter(t *testing.T) {
	throttle, _ := newTestThrottle(t, 1)
	ctx := context.Background()

	if err := throttle.RecordFailure(ctx, "10.0.0.1"); err != nil {
		t.Fatalf("record failure: %v", err)
	}
	blocked, _ := throttle.Blocked(ctx, "10.0.0.1")
	if !blocked {
		t.Fatalf("expected blocked")
	}

	if err := throttle.Reset(ctx, "10.0.0.1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	blocked, _ = throttle.Blocked(ctx, "10.0.0.1")
	if blocked {
		t.Fatalf("expected counter cleared after reset")
	}
}

func TestLoginThrottleWindowExpiry(t *testing.T) {
	throttle, mr := newTestThrottle(t, 1)
	ctx := context.Background()

	if err := throttle.RecordFailure(ctx, "10.0.0.1"); err != nil {
		t.Fatalf("record failure: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	blocked, err := throttle.Blocked(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("blocked check: %v", err)
	}
	if blocked {
		t.Fatalf("expected failures to age out of the window")
	}
}

func TestLoginThrottleNilSafe(t *testing.T) {
	ctx := context.Background()
	var throttle *LoginThrottle

	blocked, err := throttle.Blocked(ctx, "10.0.0.1")
	if err != nil || blocked {
		t.Fatalf("nil throttle must never block")
	}
	if err := throttle.RecordFailure(ctx, "10.0.0.1"); err != nil {
		t.Fatalf("record failure on nil throttle: %v", err)
	}
	if err := throttle.Reset(ctx, "10.0.0.1"); err != nil {
		t.Fatalf("reset on nil throttle: %v", err)
	}
}
