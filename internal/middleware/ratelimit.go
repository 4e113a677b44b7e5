package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// OTPRateLimiter throttles code requests per mobile number so the SMS
// gateway cannot be used as a spam cannon. The default budget is 5
// requests per 15 minutes.
type OTPRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*otpLimiterEntry
	limit    rate.Limit
	burst    int
}

type otpLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewOTPRateLimiter() *OTPRateLimiter {
	return &OTPRateLimiter{
		limiters: make(map[string]*otpLimiterEntry),
		limit:    rate.Every(15 * time.Minute / 5),
		burst:    5,
	}
}

func (l *OTPRateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.limiters[key]
	if !ok {
		entry = &otpLimiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = time.Now()

	// Opportunistic cleanup of numbers not seen for an hour.
	if len(l.limiters) > 1000 {
		cutoff := time.Now().Add(-time.Hour)
		for k, e := range l.limiters {
			if e.lastSeen.Before(cutoff) {
				delete(l.limiters, k)
			}
		}
	}

	return entry.limiter.Allow()
}

// Middleware reads the mobile number from the JSON body without consuming
// it, falling back to the client IP when absent.
func (l *OTPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Mobile string `json:"mobile"`
		}
		key := c.ClientIP()
		if err := c.ShouldBindBodyWithJSON(&body); err == nil && body.Mobile != "" {
			key = body.Mobile
		}

		if !l.allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many OTP requests. Please try again later.",
			})
			return
		}
		c.Next()
	}
}
