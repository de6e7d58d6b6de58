// Package redisstore provides Redis-backed implementations of the pipeline
// store collaborators: the cache store and the idempotency store.
//
// The idempotency store claims keys with SET NX, so concurrent first-time
// callers race on Redis itself and exactly one wins. Records carry their
// expiry as the Redis key TTL; Redis evicts them, no sweeper is needed.
package redisstore
