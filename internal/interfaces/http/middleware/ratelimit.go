package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Store counts hits per key; Redis-backed in production so limits
	// hold across replicas
	Store cache.RateLimitStore
	// Limit is the maximum number of requests per window
	Limit int64
	// Window is the fixed counting window
	Window time.Duration
	// Logger for store failures
	Logger *zap.Logger
}

// RateLimit limits requests per client address. Store failures let the
// request through: losing a counter is better than refusing all traffic.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		key := c.ClientIP()

		count, err := cfg.Store.Hit(c.Request.Context(), key, cfg.Window)
		if err != nil {
			logger.Warn("Rate limit store unavailable", zap.Error(err))
			c.Next()
			return
		}

		remaining := cfg.Limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Writer.Header().Set("X-RateLimit-Limit", strconv.FormatInt(cfg.Limit, 10))
		c.Writer.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > cfg.Limit {
			c.Writer.Header().Set("Retry-After", strconv.Itoa(int(cfg.Window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponse(dto.ErrCodeRateLimited, "Too many requests. Please try again later."))
			return
		}

		c.Next()
	}
}
