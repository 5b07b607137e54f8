package middleware

import (
	"strconv"
	"sync"
	"time"

	"celebstyle-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// KeyedRateLimiter giữ một token bucket cho mỗi key (client IP).
// Limiter không dùng tới sau idleTTL sẽ bị dọn.
type KeyedRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*visitor
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration

	done     chan struct{}
	stopOnce sync.Once
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewKeyedRateLimiter tạo limiter rps requests/giây, burst tokens
func NewKeyedRateLimiter(rps float64, burst int) *KeyedRateLimiter {
	krl := &KeyedRateLimiter{
		limiters: make(map[string]*visitor),
		limit:    rate.Limit(rps),
		burst:    burst,
		idleTTL:  10 * time.Minute,
		done:     make(chan struct{}),
	}
	go krl.cleanupLoop(time.Minute)
	return krl
}

// Allow kiểm tra request của key có được phép không (non-blocking)
func (krl *KeyedRateLimiter) Allow(key string) bool {
	krl.mu.Lock()
	v, ok := krl.limiters[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(krl.limit, krl.burst)}
		krl.limiters[key] = v
	}
	v.lastSeen = time.Now()
	krl.mu.Unlock()

	return v.limiter.Allow()
}

// Stop shuts down the cleanup goroutine
func (krl *KeyedRateLimiter) Stop() {
	krl.stopOnce.Do(func() { close(krl.done) })
}

func (krl *KeyedRateLimiter) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-krl.done:
			return
		case now := <-ticker.C:
			krl.evictIdle(now)
		}
	}
}

func (krl *KeyedRateLimiter) evictIdle(now time.Time) {
	krl.mu.Lock()
	defer krl.mu.Unlock()
	for key, v := range krl.limiters {
		if now.Sub(v.lastSeen) > krl.idleTTL {
			delete(krl.limiters, key)
		}
	}
}

// RateLimit chặn request vượt quá limit theo client IP
func RateLimit(limiter *KeyedRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetString(ContextKeyClientIP)
		if key == "" {
			key = c.ClientIP()
		}

		if !limiter.Allow(key) {
			c.Header("Retry-After", strconv.Itoa(1))
			response.TooManyRequests(c, "Too many requests, please slow down")
			return
		}
		c.Next()
	}
}
