// Package ratelimiter implements a token bucket rate limiter with a pluggable
// Store.
//
// A bucket holds up to Capacity tokens and regains RefillRate tokens every
// RefillInterval. Each request consumes one token; when none are left the
// request is denied until the next refill.
//
//	store := ratelimiter.NewMemoryStore()
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       10,
//		RefillRate:     1,
//		RefillInterval: 6 * time.Second,
//	})
//	res, err := limiter.Allow(ctx, clientIP)
//	if !res.Allowed() {
//		// retry after res.RetryAfter()
//	}
//
// MemoryStore keeps buckets in process memory and evicts idle ones in a
// background loop started with Run.
package ratelimiter
