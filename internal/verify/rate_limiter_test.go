package verify

import (
	"testing"
	"time"
)

func TestRateLimiterEnforcesQuota(t *testing.T) {
	rl := NewRateLimiter(2, 50*time.Millisecond)

	if ok, _ := rl.Allow("a"); !ok {
		t.Fatalf("first request should pass")
	}
	if ok, _ := rl.Allow("a"); !ok {
		t.Fatalf("second request should pass")
	}
	ok, retry := rl.Allow("a")
	if ok {
		t.Fatalf("third request should be limited")
	}
	if retry <= 0 {
		t.Fatalf("expected positive retry hint, got %v", retry)
	}

	// Other clients have their own window.
	if ok, _ := rl.Allow("b"); !ok {
		t.Fatalf("other client should pass")
	}

	time.Sleep(60 * time.Millisecond)
	if ok, _ := rl.Allow("a"); !ok {
		t.Fatalf("request after window reset should pass")
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(0, time.Second)
	for i := 0; i < 100; i++ {
		if ok, _ := rl.Allow("a"); !ok {
			t.Fatalf("disabled limiter should always allow")
		}
	}
}
