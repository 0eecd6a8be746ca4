package middleware

import (
	"math"
	"strconv"

	"github.com/dmitrymomot/simplecdn/core/handler"
	"github.com/dmitrymomot/simplecdn/core/response"
	"github.com/dmitrymomot/simplecdn/pkg/clientip"
	"github.com/dmitrymomot/simplecdn/pkg/ratelimiter"
)

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool

	// Limiter decides whether a request may proceed. Required.
	Limiter ratelimiter.RateLimiter

	// KeyFunc builds the bucket key. Defaults to the client IP stored by the
	// ClientIP middleware, or RemoteAddr.
	KeyFunc func(ctx handler.Context) string

	// SetHeaders adds X-RateLimit-* headers to responses.
	SetHeaders bool
}

// RateLimit limits requests per client IP.
func RateLimit[C handler.Context](limiter ratelimiter.RateLimiter) handler.Middleware[C] {
	return RateLimitWithConfig[C](RateLimitConfig{Limiter: limiter, SetHeaders: true})
}

// RateLimitWithConfig creates a rate limiting middleware with custom configuration.
// Limiter errors fail open: the request proceeds.
func RateLimitWithConfig[C handler.Context](cfg RateLimitConfig) handler.Middleware[C] {
	if cfg.Limiter == nil {
		panic("middleware: rate limiter is required")
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(ctx handler.Context) string {
			if ip, ok := GetClientIP(ctx); ok {
				return ip
			}
			return clientip.GetIP(ctx.Request(), false)
		}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			res, err := cfg.Limiter.Allow(ctx, cfg.KeyFunc(ctx))
			if err != nil {
				return next(ctx)
			}

			if cfg.SetHeaders {
				h := ctx.ResponseWriter().Header()
				h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
				h.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, res.Remaining)))
				h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
			}

			if !res.Allowed() {
				retry := int(math.Ceil(res.RetryAfter().Seconds()))
				ctx.ResponseWriter().Header().Set("Retry-After", strconv.Itoa(max(1, retry)))
				return response.Error(response.ErrTooManyRequests.WithDetails(map[string]any{
					"retry_after": max(1, retry),
				}))
			}

			return next(ctx)
		}
	}
}
