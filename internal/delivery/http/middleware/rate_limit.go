package middleware

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"brittlebones-backend/internal/delivery/http/response"
	"brittlebones-backend/pkg/apperror"
	"brittlebones-backend/pkg/logger"
)

const msgRateLimited = "Too many requests. Please try again later."

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Custom key extractor (default: IP-based)
	KeyFunc func(*gin.Context) string
	// Key prefix for Redis (default: "rl:form:")
	KeyPrefix string
	// Redis counts across instances; nil means per-process memory
	Redis *goredis.Client
}

// rateLimitEntry tracks request count for a key (in-memory fallback)
type rateLimitEntry struct {
	count   int
	resetAt time.Time
	mu      sync.Mutex
}

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: [current_count, ttl_remaining]
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

// FormRateLimitConfig returns the config for the public POST routes.
func FormRateLimitConfig(limit int, window time.Duration, client *goredis.Client) RateLimitConfig {
	if limit <= 0 {
		limit = 5
	}
	if window <= 0 {
		window = time.Minute
	}
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:form:",
		Redis:     client,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// RateLimiter counts requests per key in Redis when available and in memory
// otherwise. A Redis failure falls back to memory for that request.
type RateLimiter struct {
	config RateLimitConfig
	store  sync.Map
	now    func() time.Time
}

func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	return &RateLimiter{config: config, now: time.Now}
}

// Middleware rejects requests over the limit with a 429 pushed through the
// error handler so the route keeps its JSON shape.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		fullKey := rl.config.KeyPrefix + rl.config.KeyFunc(c)
		count, resetAt := rl.Allow(c.Request.Context(), fullKey)

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if count > rl.config.Limit {
			retryAfter := int(resetAt.Sub(rl.now()).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			logger.Log.Warn("Rate limit triggered",
				zap.String("request_id", c.GetString(response.RequestIDKey)),
				zap.String("client_ip", c.ClientIP()),
				zap.String("path", c.FullPath()),
			)

			_ = c.Error(apperror.TooManyRequests(msgRateLimited))
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(rl.config.Limit-count))
		c.Next()
	}
}

// Allow records one hit for key and returns the count in the current window
// and when the window resets.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (int, time.Time) {
	if rl.config.Redis != nil {
		count, resetAt, err := rl.checkRedis(ctx, key)
		if err == nil {
			return count, resetAt
		}
		logger.Log.Warn("Rate limit redis check failed, using memory", zap.Error(err))
	}
	return rl.checkInMemory(key)
}

// checkRedis checks rate limit using Redis with atomic Lua script
func (rl *RateLimiter) checkRedis(ctx context.Context, key string) (int, time.Time, error) {
	ttlSeconds := int(rl.config.Window.Seconds())
	if ttlSeconds < 1 {
		ttlSeconds = 1
	}

	result, err := rl.config.Redis.Eval(ctx, rateLimitLuaScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	// Parse result [count, ttl]
	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}

	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	return int(count), rl.now().Add(time.Duration(ttl) * time.Second), nil
}

// checkInMemory checks rate limit using the in-memory store
func (rl *RateLimiter) checkInMemory(key string) (int, time.Time) {
	now := rl.now()
	entryI, _ := rl.store.LoadOrStore(key, &rateLimitEntry{
		resetAt: now.Add(rl.config.Window),
	})
	entry := entryI.(*rateLimitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	// Reset if window expired
	if now.After(entry.resetAt) {
		entry.count = 0
		entry.resetAt = now.Add(rl.config.Window)
	}
	entry.count++

	return entry.count, entry.resetAt
}

// Cleanup drops expired in-memory entries until ctx is done.
func (rl *RateLimiter) Cleanup(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.prune()
		}
	}
}

func (rl *RateLimiter) prune() {
	now := rl.now()
	rl.store.Range(func(key, value interface{}) bool {
		entry := value.(*rateLimitEntry)
		entry.mu.Lock()
		if now.After(entry.resetAt) {
			rl.store.Delete(key)
		}
		entry.mu.Unlock()
		return true
	})
}
