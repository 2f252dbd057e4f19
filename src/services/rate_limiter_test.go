package services

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestLoginRateLimiter_AllowsUnderThreshold(t *testing.T) {
	limiter := NewLoginRateLimiter(5, 15*time.Minute)
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		if !limiter.Allow("1.2.3.4", "test-agent") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
		limiter.Record("1.2.3.4", "test-agent")
	}
}

func TestLoginRateLimiter_BlocksAtThreshold(t *testing.T) {
	limiter := NewLoginRateLimiter(5, 15*time.Minute)
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		limiter.Record("1.2.3.4", "test-agent")
	}

	if limiter.Allow("1.2.3.4", "test-agent") {
		t.Error("6th attempt within window should be blocked")
	}
}

func TestLoginRateLimiter_OriginsAreIndependent(t *testing.T) {
	limiter := NewLoginRateLimiter(5, 15*time.Minute)
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		limiter.Record("1.2.3.4", "test-agent")
	}

	// Same IP, different user agent is a distinct origin
	if !limiter.Allow("1.2.3.4", "other-agent") {
		t.Error("different user agent should not be limited")
	}
	if !limiter.Allow("5.6.7.8", "test-agent") {
		t.Error("different IP should not be limited")
	}
}

func TestLoginRateLimiter_WindowSlides(t *testing.T) {
	limiter := NewLoginRateLimiter(2, 50*time.Millisecond)
	defer limiter.Stop()

	limiter.Record("1.2.3.4", "test-agent")
	limiter.Record("1.2.3.4", "test-agent")

	if limiter.Allow("1.2.3.4", "test-agent") {
		t.Fatal("attempt at threshold should be blocked")
	}

	// After the window elapses the old attempts age out
	time.Sleep(80 * time.Millisecond)

	if !limiter.Allow("1.2.3.4", "test-agent") {
		t.Error("attempt after window should be allowed again")
	}
}

func TestLoginRateLimiter_CleanupRemovesAgedOrigins(t *testing.T) {
	limiter := NewLoginRateLimiter(5, 10*time.Millisecond)
	defer limiter.Stop()

	limiter.Record("1.2.3.4", "test-agent")
	time.Sleep(30 * time.Millisecond)
	limiter.cleanup()

	limiter.mu.Lock()
	size := len(limiter.attempts)
	limiter.mu.Unlock()

	if size != 0 {
		t.Errorf("expected empty attempts map after cleanup, got %d entries", size)
	}
}

func TestLoginRateLimiter_ConcurrentAccess(t *testing.T) {
	limiter := NewLoginRateLimiter(100, time.Minute)
	defer limiter.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ip := fmt.Sprintf("10.0.0.%d", n)
			for j := 0; j < 50; j++ {
				limiter.Allow(ip, "agent")
				limiter.Record(ip, "agent")
			}
		}(i)
	}
	wg.Wait()
}

func TestLoginRateLimiter_StopIsIdempotent(t *testing.T) {
	limiter := NewLoginRateLimiter(5, time.Minute)
	limiter.Stop()
	limiter.Stop()
}
