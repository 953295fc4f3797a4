package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/casework/casework/internal/platform/auth"
)

// RateLimitConfig sets a per-caller token bucket. RouteCosts charges more
// than one token for expensive routes, keyed by echo route path
// (e.g. "/api/v1/resources/export"). Costs above BurstSize are capped so the
// route stays reachable with a full bucket.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
	RouteCosts        map[string]float64
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100,
		BurstSize:         200,
	}
}

// cost returns the tokens charged for a route path.
func (cfg RateLimitConfig) cost(path string) float64 {
	n, ok := cfg.RouteCosts[path]
	if !ok || n <= 0 {
		return 1
	}
	return math.Min(n, float64(cfg.BurstSize))
}

type tokenBucket struct {
	mu         sync.Mutex
	tokens     float64
	capacity   float64
	refillRate float64
	updated    time.Time
	now        func() time.Time
}

func newTokenBucket(rate float64, burst int, now func() time.Time) *tokenBucket {
	return &tokenBucket{
		tokens:     float64(burst),
		capacity:   float64(burst),
		refillRate: rate,
		updated:    now(),
		now:        now,
	}
}

// take removes n tokens if available. Otherwise it reports how many whole
// seconds until n tokens will be.
func (b *tokenBucket) take(n float64) (ok bool, retryAfter int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.tokens = math.Min(b.capacity, b.tokens+now.Sub(b.updated).Seconds()*b.refillRate)
	b.updated = now

	if b.tokens >= n {
		b.tokens -= n
		return true, 0
	}
	if b.refillRate <= 0 {
		return false, 1
	}
	return false, int(math.Ceil((n - b.tokens) / b.refillRate))
}

type rateLimiterStore struct {
	mu      sync.RWMutex
	buckets map[string]*tokenBucket
	config  RateLimitConfig
	now     func() time.Time
}

func newRateLimiterStore(cfg RateLimitConfig) *rateLimiterStore {
	return &rateLimiterStore{
		buckets: make(map[string]*tokenBucket),
		config:  cfg,
		now:     time.Now,
	}
}

func (s *rateLimiterStore) size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buckets)
}

func (s *rateLimiterStore) bucket(key string) *tokenBucket {
	s.mu.RLock()
	b, ok := s.buckets[key]
	s.mu.RUnlock()
	if ok {
		return b
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.buckets[key]; ok {
		return b
	}
	b = newTokenBucket(s.config.RequestsPerSecond, s.config.BurstSize, s.now)
	s.buckets[key] = b
	return b
}

// rateLimitKey buckets authenticated caseworkers by user and everyone else
// by IP.
func rateLimitKey(c echo.Context) string {
	if uid := auth.UserIDFromContext(c.Request().Context()); uid != "" {
		return "user:" + uid
	}
	return "ip:" + c.RealIP()
}

// RateLimit rejects callers whose bucket cannot cover the route's cost with
// 429 and a Retry-After header.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	return rateLimit(newRateLimiterStore(cfg))
}

func rateLimit(store *rateLimiterStore) echo.MiddlewareFunc {
	limit := strconv.FormatFloat(store.config.RequestsPerSecond, 'f', -1, 64)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", limit)

			ok, retryAfter := store.bucket(rateLimitKey(c)).take(store.config.cost(c.Path()))
			if !ok {
				h.Set("Retry-After", strconv.Itoa(retryAfter))
				h.Set("X-RateLimit-Remaining", "0")
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
