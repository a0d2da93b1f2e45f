package middleware

import (
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// tokenBucket tracks the remaining request budget for a single client.
type tokenBucket struct {
	mu         sync.Mutex
	tokens     int
	lastRefill time.Time
}

// RateLimiter applies per-client token bucket rate limiting keyed by
// remote address. Buckets idle for over an hour are evicted.
type RateLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*tokenBucket
	maxTokens  int
	refillRate time.Duration
	stopCh     chan struct{}
	logger     *zap.Logger
}

// NewRateLimiter creates a rate limiter allowing requestsPerMinute
// sustained requests per client with bursts up to the same amount.
func NewRateLimiter(requestsPerMinute int, logger *zap.Logger) *RateLimiter {
	limiter := &RateLimiter{
		buckets:    make(map[string]*tokenBucket),
		maxTokens:  requestsPerMinute,
		refillRate: time.Minute / time.Duration(requestsPerMinute),
		stopCh:     make(chan struct{}),
		logger:     logger,
	}

	go limiter.cleanup()

	return limiter
}

// Stop shuts down the bucket eviction goroutine.
func (l *RateLimiter) Stop() {
	close(l.stopCh)
}

// Handler wraps an http.Handler with rate limiting.
func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(r.RemoteAddr) {
			l.logger.Warn("rate limit exceeded",
				zap.String("remote_addr", r.RemoteAddr),
				zap.String("path", r.URL.Path),
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"success":false,"error":{"code":"RATE_LIMITED","message":"Too many requests"}}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) allow(key string) bool {
	l.mu.Lock()
	b, exists := l.buckets[key]
	if !exists {
		b = &tokenBucket{
			tokens:     l.maxTokens,
			lastRefill: time.Now(),
		}
		l.buckets[key] = b
	}
	l.mu.Unlock()

	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	refill := int(now.Sub(b.lastRefill) / l.refillRate)
	if refill > 0 {
		b.tokens = min(b.tokens+refill, l.maxTokens)
		b.lastRefill = now
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}

	return false
}

func (l *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			l.mu.Lock()
			now := time.Now()
			for key, b := range l.buckets {
				b.mu.Lock()
				stale := now.Sub(b.lastRefill) > time.Hour
				b.mu.Unlock()
				if stale {
					delete(l.buckets, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
