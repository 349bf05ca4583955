package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RanchesW/KazRPG/internal/ratelimit"
	"github.com/RanchesW/KazRPG/pkg/apperrors"
)

// RateLimitMiddleware считает запросы по IP клиента в фиксированном окне.
// Заголовки X-RateLimit-* выставляются на каждый ответ, включая отказ.
func RateLimitMiddleware(limiter *ratelimit.Limiter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := limiter.Admit(c.ClientIP(), limit, window)

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if !decision.Allowed {
			retryAfter := int(time.Until(decision.ResetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			appErr := apperrors.RateLimited(gin.H{
				"retry_after_seconds": retryAfter,
			})
			c.AbortWithStatusJSON(appErr.HTTPCode, gin.H{"error": appErr})
			return
		}

		c.Next()
	}
}
