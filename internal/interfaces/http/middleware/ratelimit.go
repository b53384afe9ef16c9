package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smartfarm/backend/internal/infrastructure/cache"
	"github.com/smartfarm/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// RateLimitConfig holds rate limit middleware configuration
type RateLimitConfig struct {
	Store  cache.RateLimitStore
	Limit  int           // Maximum requests per window
	Window time.Duration // Fixed window length
	// Prefix namespaces the keys of one limiter within a shared store
	Prefix string
	// KeyFunc extracts the client key; defaults to the client IP
	KeyFunc func(*gin.Context) string
	Logger  *zap.Logger
}

// RateLimit returns a fixed-window rate limiting middleware. When the store
// fails the request is let through and the failure logged.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	limit := strconv.Itoa(cfg.Limit)

	return func(c *gin.Context) {
		key := cfg.Prefix + cfg.KeyFunc(c)

		count, resetIn, err := cfg.Store.Hit(c.Request.Context(), key, cfg.Window)
		if err != nil {
			cfg.Logger.Error("Rate limit store failed, allowing request",
				zap.String("key", key),
				zap.Error(err))
			c.Next()
			return
		}

		remaining := max(int64(cfg.Limit)-count, 0)
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(cfg.Limit) {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(resetIn.Seconds()))))
			cfg.Logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.Int64("count", count))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRateLimited,
				"Too many requests. Please try again later.",
				GetRequestID(c),
			))
			return
		}

		c.Next()
	}
}
