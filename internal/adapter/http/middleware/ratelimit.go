package middleware

import (
	"fmt"
	"strconv"
	"time"

	"wager-settlement/internal/core/ports"
	"wager-settlement/pkg/apperror"
	"wager-settlement/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RateLimitRule defines a rate limit for an endpoint group.
type RateLimitRule struct {
	Limit  int64
	Window time.Duration
}

// DefaultRateLimitRules returns the per-caller limits of each endpoint group.
func DefaultRateLimitRules() map[string]RateLimitRule {
	return map[string]RateLimitRule{
		"wallets":     {Limit: 60, Window: time.Minute},
		"withdraw":    {Limit: 10, Window: time.Minute},
		"matchmaking": {Limit: 30, Window: time.Minute},
		"games":       {Limit: 120, Window: time.Minute},
		"webhooks":    {Limit: 600, Window: time.Minute},
	}
}

// RateLimiter counts requests per caller in fixed windows on the shared
// counter store. Store failures let the request through; the velocity guard
// on money movement still fails closed.
func RateLimiter(store ports.VelocityStore, group string, rule RateLimitRule, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		windowStart := now.Truncate(rule.Window)
		resetAt := windowStart.Add(rule.Window)
		key := fmt.Sprintf("ratelimit:%s:%s:%d", group, extractIdentifier(c), windowStart.Unix())

		count, err := store.Increment(c.Request.Context(), key, resetAt)
		if err != nil {
			log.Warn().Err(err).Str("group", group).Msg("rate limit check failed, allowing request (degraded mode)")
			c.Next()
			return
		}

		remaining := rule.Limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.FormatInt(rule.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if count > rule.Limit {
			retryAfter := int64(time.Until(resetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			response.Error(c, apperror.ErrRateLimitExceeded())
			c.Abort()
			return
		}

		c.Next()
	}
}

// extractIdentifier determines the rate limit key source.
func extractIdentifier(c *gin.Context) string {
	if userID, ok := UserID(c); ok {
		return userID
	}
	if userID := c.GetHeader(HeaderUserID); userID != "" && userIDRe.MatchString(userID) {
		return userID
	}
	return c.ClientIP()
}
