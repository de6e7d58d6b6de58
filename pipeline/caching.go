package pipeline

import (
	"context"
	"fmt"
)

const (
	logMsgCacheGetFailed = "cache lookup failed, treating as miss"
	logMsgCacheSetFailed = "failed to store query result in cache"

	cacheTenantDefault = "default"
	cacheUserAnonymous = "anonymous"
)

// cachingBehavior serves cacheable queries from the cache store. The
// composite key segments by request type, tenant, and user so one
// caller's cached result never leaks to another tenant or user. Both
// success and failure Results are cached; the declared duration is the
// caller's invalidation contract.
//
// Cache store errors never fail the call: a failing lookup degrades to a
// miss and a failing write is logged and dropped.
type cachingBehavior struct {
	loggers      loggers
	applies      bool
	store        CacheStore
	userProvider CurrentUserProvider
	requestType  string
}

func (b *cachingBehavior) Order() int {
	return OrderCaching
}

func (b *cachingBehavior) Handle(ctx context.Context, request any, next Next) (Result, error) {
	if !b.applies || b.store == nil {
		return next(ctx)
	}

	cacheable := request.(Cacheable)
	if cacheable.CacheKey() == "" || cacheable.CacheDuration() <= 0 {
		return next(ctx)
	}

	key := b.compositeKey(ctx, cacheable.CacheKey())

	cached, hit, err := b.store.Get(ctx, key)
	if err != nil {
		b.loggers.warn(ctx, logMsgCacheGetFailed, "key", key, "error", err)
	} else if hit {
		return cached, nil
	}

	result, err := next(ctx)
	if err != nil {
		return Result{}, err
	}

	if setErr := b.store.Set(ctx, key, result, cacheable.CacheDuration()); setErr != nil {
		b.loggers.warn(ctx, logMsgCacheSetFailed, "key", key, "error", setErr)
	}

	return result, nil
}

func (b *cachingBehavior) compositeKey(ctx context.Context, requestKey string) string {
	tenant := cacheTenantDefault
	user := cacheUserAnonymous

	if b.userProvider != nil {
		if t := b.userProvider.TenantID(ctx); t != "" {
			tenant = t
		}

		if u := b.userProvider.UserID(ctx); u != "" {
			user = u
		}
	}

	return fmt.Sprintf("%s:%s:%s:%s", b.requestType, tenant, user, requestKey)
}
