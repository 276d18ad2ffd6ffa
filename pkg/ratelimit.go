package pkg

import (
	"errors"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Errors
var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// RequestLimiter guards the simulation endpoint with a process-local token bucket.
type RequestLimiter struct {
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewRequestLimiter creates a limiter; if perSecond=0, it's unlimited.
func NewRequestLimiter(perSecond, burst int, logger *zap.Logger) *RequestLimiter {
	var l *rate.Limiter
	if perSecond > 0 {
		if burst <= 0 {
			burst = perSecond
		}
		l = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
	return &RequestLimiter{limiter: l, logger: logger}
}

// Allow checks if a token is available.
func (r *RequestLimiter) Allow() bool {
	if r.limiter == nil {
		return true // Unlimited
	}
	if !r.limiter.Allow() {
		r.logger.Warn("Rate limit exceeded")
		return false
	}
	return true
}
