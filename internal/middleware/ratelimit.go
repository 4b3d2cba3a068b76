// ratelimit.go implements a per-IP fixed-window rate limiter. Counters live
// in Redis when it is configured so every replica shares the same budget,
// and in process memory otherwise.
package middleware

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/chronospace/internal/apperror"
)

// RateLimitStore counts hits per key inside a fixed window.
type RateLimitStore interface {
	// Hit records one request for key and returns the number of requests
	// seen in the current window and the time until the window resets.
	Hit(ctx context.Context, key string, window time.Duration) (count int, resetIn time.Duration, err error)
}

// RateLimit returns middleware that limits requests per client IP to
// maxRequests within window. Returns 429 when exceeded. Store failures are
// logged and the request is let through.
func RateLimit(store RateLimitStore, maxRequests int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if maxRequests <= 0 {
			return next
		}
		return func(c echo.Context) error {
			count, resetIn, err := store.Hit(c.Request().Context(), "ratelimit:"+c.RealIP(), window)
			if err != nil {
				GetLogger(c).Warn().Err(err).Msg("rate limit store unavailable, allowing request")
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(maxRequests))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(max(maxRequests-count, 0)))

			if count > maxRequests {
				h.Set("Retry-After", strconv.Itoa(int((resetIn+time.Second-1)/time.Second)))
				return apperror.NewTooManyRequests("Rate limit exceeded. Please try again later.")
			}
			return next(c)
		}
	}
}

// --- In-memory store ---

// rateLimitEntry tracks request counts for a single key within a window.
type rateLimitEntry struct {
	count       int
	windowStart time.Time
}

// MemoryStore keeps counters in a map. Suitable for a single instance.
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string]*rateLimitEntry
	lastSweep time.Time
	now       func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*rateLimitEntry),
		now:     time.Now,
	}
}

// Hit implements RateLimitStore.
func (s *MemoryStore) Hit(_ context.Context, key string, window time.Duration) (int, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now, window)

	entry, ok := s.entries[key]
	if !ok || now.Sub(entry.windowStart) >= window {
		entry = &rateLimitEntry{windowStart: now}
		s.entries[key] = entry
	}
	entry.count++
	return entry.count, entry.windowStart.Add(window).Sub(now), nil
}

// sweep drops expired entries at most once per window. Caller holds mu.
func (s *MemoryStore) sweep(now time.Time, window time.Duration) {
	if now.Sub(s.lastSweep) < window {
		return
	}
	for key, entry := range s.entries {
		if now.Sub(entry.windowStart) >= window {
			delete(s.entries, key)
		}
	}
	s.lastSweep = now
}

// --- Redis store ---

// hitScript increments the counter and starts the window on the first hit
// in one round trip, so a key can never be left without an expiry.
var hitScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return {n, redis.call('PTTL', KEYS[1])}
`)

// RedisStore keeps counters in Redis, shared by every replica.
type RedisStore struct {
	client redis.Scripter
}

// NewRedisStore creates a store backed by client.
func NewRedisStore(client redis.Scripter) *RedisStore {
	return &RedisStore{client: client}
}

// Hit implements RateLimitStore.
func (s *RedisStore) Hit(ctx context.Context, key string, window time.Duration) (int, time.Duration, error) {
	res, err := hitScript.Run(ctx, s.client, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	ttl := time.Duration(res[1]) * time.Millisecond
	if ttl < 0 {
		ttl = window
	}
	return int(res[0]), ttl, nil
}
