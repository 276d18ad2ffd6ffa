package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/nimeshabuddhika/mock-error-api/pkg"
)

// RateLimit returns Gin middleware rejecting requests once the limiter runs dry.
// An unlimited limiter makes this a passthrough.
func RateLimit(limiter *pkg.RequestLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(pkg.ErrRateLimitedCode.Status, pkg.ErrorResponse{
				Code:    pkg.ErrRateLimitedCode.Code,
				Message: pkg.ErrRateLimitedCode.Message,
			})
			return
		}
		c.Next()
	}
}
