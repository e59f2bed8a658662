package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/error/code"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/error/response"
)

// RateLimiterConfig configures RateLimiter
type RateLimiterConfig struct {
	Rate       float64                   // requests per second
	Burst      int                       // bucket size
	ExpiryTime time.Duration             // idle limiters are dropped after this
	LimitType  string                    // "ip", "path", "combined" or "custom"
	KeyFunc    func(*gin.Context) string // used when LimitType is "custom"
}

// DefaultRateLimiterConfig allows 1 request per second with bursts of 5 per IP
var DefaultRateLimiterConfig = RateLimiterConfig{
	Rate:       1,
	Burst:      5,
	ExpiryTime: 1 * time.Hour,
	LimitType:  "ip",
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterSet keeps one token bucket per key
type limiterSet struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	cfg      RateLimiterConfig
	now      func() time.Time
	swept    time.Time
}

func newLimiterSet(cfg RateLimiterConfig) *limiterSet {
	return &limiterSet{
		limiters: make(map[string]*limiterEntry),
		cfg:      cfg,
		now:      time.Now,
	}
}

// allow takes one token from the bucket of key
func (s *limiterSet) allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)
	entry, exists := s.limiters[key]
	if !exists {
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(s.cfg.Rate), s.cfg.Burst)}
		s.limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// sweep drops limiters idle for longer than ExpiryTime. Called with mu held.
func (s *limiterSet) sweep(now time.Time) {
	if s.cfg.ExpiryTime <= 0 || now.Sub(s.swept) < s.cfg.ExpiryTime {
		return
	}
	s.swept = now
	for key, entry := range s.limiters {
		if now.Sub(entry.lastSeen) > s.cfg.ExpiryTime {
			delete(s.limiters, key)
		}
	}
}

func (s *limiterSet) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}

// RateLimiter creates the rate limiting middleware
func RateLimiter(config ...RateLimiterConfig) gin.HandlerFunc {
	return newLimiterSet(normalizeRateConfig(config...)).handler()
}

func normalizeRateConfig(config ...RateLimiterConfig) RateLimiterConfig {
	cfg := DefaultRateLimiterConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Rate <= 0 {
		cfg.Rate = DefaultRateLimiterConfig.Rate
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultRateLimiterConfig.Burst
	}
	if cfg.LimitType == "" {
		cfg.LimitType = DefaultRateLimiterConfig.LimitType
	}
	return cfg
}

func (s *limiterSet) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var key string
		switch s.cfg.LimitType {
		case "path":
			key = c.FullPath()
		case "combined":
			key = c.ClientIP() + ":" + c.FullPath()
		case "custom":
			if s.cfg.KeyFunc != nil {
				key = s.cfg.KeyFunc(c)
				break
			}
			key = c.ClientIP()
		default:
			key = c.ClientIP()
		}

		if !s.allow(key) {
			response.AbortWithMessage(c, code.ErrTooManyRequests, "Too many requests, please try again later")
			return
		}
		c.Next()
	}
}

// IPRateLimiter limits per client IP
func IPRateLimiter(r float64, burst int) gin.HandlerFunc {
	return RateLimiter(RateLimiterConfig{
		Rate:       r,
		Burst:      burst,
		ExpiryTime: time.Hour,
		LimitType:  "ip",
	})
}

// PathRateLimiter limits per route
func PathRateLimiter(r float64, burst int) gin.HandlerFunc {
	return RateLimiter(RateLimiterConfig{
		Rate:      r,
		Burst:     burst,
		LimitType: "path",
	})
}

// CombinedRateLimiter limits per client IP and route
func CombinedRateLimiter(r float64, burst int) gin.HandlerFunc {
	return RateLimiter(RateLimiterConfig{
		Rate:       r,
		Burst:      burst,
		ExpiryTime: time.Hour,
		LimitType:  "combined",
	})
}

// CustomRateLimiter limits per key returned by keyFunc
func CustomRateLimiter(r float64, burst int, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return RateLimiter(RateLimiterConfig{
		Rate:       r,
		Burst:      burst,
		ExpiryTime: time.Hour,
		LimitType:  "custom",
		KeyFunc:    keyFunc,
	})
}
