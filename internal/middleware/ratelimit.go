package middleware

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"vidtube/internal/apperrors"
)

// NewRedisLimiter builds a limiter whose counters live in redis so every API
// instance shares them. rate uses the "<limit>-<period>" format, e.g. "10-M".
func NewRedisLimiter(client *redis.Client, rate, prefix string) (*limiter.Limiter, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("parse rate %q: %w", rate, err)
	}
	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   prefix,
		MaxRetry: 3,
	})
	if err != nil {
		return nil, fmt.Errorf("limiter store: %w", err)
	}
	return limiter.New(store, parsed), nil
}

// RateLimit limits requests per client IP.
func RateLimit(l *limiter.Limiter, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		limit, err := l.Get(c.Request.Context(), ip)
		if err != nil {
			log.Error().Err(err).Str("ip", ip).Msg("rate limit lookup failed")
			_ = c.Error(apperrors.Internal("rate limit check failed", err))
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(limit.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(limit.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(limit.Reset, 10))

		if limit.Reached {
			log.Warn().Str("ip", ip).Int64("limit", limit.Limit).Msg("rate limit exceeded")
			_ = c.Error(apperrors.New(apperrors.KindRateLimited, "too many requests, please try again later"))
			c.Abort()
			return
		}

		c.Next()
	}
}
