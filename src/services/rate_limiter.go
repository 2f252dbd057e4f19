package services

import (
	"sync"
	"time"
)

// Rate limit defaults: 5 attempts per trailing 15 minutes per origin
const (
	DefaultRateLimitThreshold = 5
	DefaultRateLimitWindow    = 15 * time.Minute
)

// LoginRateLimiter tracks login attempts per (ip, user-agent) origin over a
// sliding window. It is process-local: each instance enforces its own limit
// and state is lost on restart. Soft protection, not a security boundary.
type LoginRateLimiter struct {
	mu        sync.Mutex
	attempts  map[string][]time.Time
	threshold int
	window    time.Duration
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// NewLoginRateLimiter creates a limiter and starts its cleanup goroutine
func NewLoginRateLimiter(threshold int, window time.Duration) *LoginRateLimiter {
	if threshold <= 0 {
		threshold = DefaultRateLimitThreshold
	}
	if window <= 0 {
		window = DefaultRateLimitWindow
	}
	l := &LoginRateLimiter{
		attempts:  make(map[string][]time.Time),
		threshold: threshold,
		window:    window,
		stopCh:    make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

func limiterKey(ip, userAgent string) string {
	return ip + ":" + userAgent
}

// Allow reports whether an attempt from the given origin is under the limit.
// It must be consulted before Record for the same attempt.
func (l *LoginRateLimiter) Allow(ip, userAgent string) bool {
	key := limiterKey(ip, userAgent)

	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.prune(key, time.Now())
	return len(recent) < l.threshold
}

// Record registers an attempt from the given origin
func (l *LoginRateLimiter) Record(ip, userAgent string) {
	key := limiterKey(ip, userAgent)
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.prune(key, now)
	l.attempts[key] = append(recent, now)
}

// prune drops attempts older than the window; caller must hold the lock
func (l *LoginRateLimiter) prune(key string, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	kept := l.attempts[key][:0]
	for _, at := range l.attempts[key] {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	if len(kept) == 0 {
		delete(l.attempts, key)
		return nil
	}
	l.attempts[key] = kept
	return kept
}

// cleanupLoop removes fully-aged origins every 5 minutes so the map does not
// grow without bound under scanning traffic
func (l *LoginRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stopCh:
			return
		}
	}
}

func (l *LoginRateLimiter) cleanup() {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key := range l.attempts {
		l.prune(key, now)
	}
}

// Stop terminates the cleanup goroutine
func (l *LoginRateLimiter) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopCh)
	})
}
