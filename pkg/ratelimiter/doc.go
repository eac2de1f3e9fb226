// Package ratelimiter throttles requests with a token bucket.
//
// A Bucket holds the limits and delegates state to a Store. MemoryStore keeps
// buckets in process; RedisStore keeps them in Redis so that several API
// replicas share one budget per key.
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//
//	bucket, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       30,
//		RefillRate:     1,
//		RefillInterval: 2 * time.Second,
//	})
//	if err != nil {
//		return err
//	}
//
//	r.With(ratelimiter.Middleware(bucket, ratelimiter.ByClientIP)).Post("/notifications", h)
//
// The middleware sets X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset on every response and answers 429 with Retry-After once
// the bucket is empty. Store failures are logged and the request is let
// through.
package ratelimiter
