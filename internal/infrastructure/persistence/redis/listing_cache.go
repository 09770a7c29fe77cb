package redis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/civic-hub/civic-site/internal/domain/event"
	"github.com/civic-hub/civic-site/internal/domain/news"
	"github.com/civic-hub/civic-site/internal/domain/project"
	"github.com/civic-hub/civic-site/internal/domain/shared"
	"github.com/civic-hub/civic-site/pkg/circuitbreaker"
	"github.com/civic-hub/civic-site/pkg/logger"
)

// ListingCache adapts Cache to the hit/miss contract used by the listing
// queries. All listing keys live under "listing:".
//
// With a breaker attached, reads and writes fail fast with
// circuitbreaker.ErrCircuitOpen while redis is unhealthy; the queries log
// that and fall back to the repositories.
type ListingCache struct {
	cache   *Cache
	breaker *circuitbreaker.CircuitBreaker
}

const listingPrefix = "listing:"

// NewListingCache wraps cache. breaker may be nil.
func NewListingCache(cache *Cache, breaker *circuitbreaker.CircuitBreaker) *ListingCache {
	return &ListingCache{cache: cache, breaker: breaker}
}

func (l *ListingCache) guard(ctx context.Context, fn func(context.Context) error) error {
	if l.breaker == nil {
		return fn(ctx)
	}
	return l.breaker.Execute(ctx, fn)
}

// Get reports a miss as ok=false with a nil error.
func (l *ListingCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	hit := false
	err := l.guard(ctx, func(ctx context.Context) error {
		err := l.cache.Get(ctx, listingPrefix+key, dest)
		switch {
		case err == nil:
			hit = true
			return nil
		case errors.Is(err, ErrCacheMiss):
			// A miss means redis answered.
			return nil
		default:
			return err
		}
	})
	return hit, err
}

func (l *ListingCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl == 0 {
		ttl = TTLListing
	}
	return l.guard(ctx, func(ctx context.Context) error {
		return l.cache.Set(ctx, listingPrefix+key, value, ttl)
	})
}

// Invalidate drops every listing key starting with prefix.
func (l *ListingCache) Invalidate(ctx context.Context, prefix string) (int, error) {
	var n int
	err := l.guard(ctx, func(ctx context.Context) error {
		var err error
		n, err = l.cache.DeleteByPattern(ctx, listingPrefix+prefix+"*")
		return err
	})
	return n, err
}

// ══════════════════════════════════════════════════════════════════════════════
// EVENT-DRIVEN INVALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// listingPrefixes maps an aggregate type to the listing keys it feeds.
var listingPrefixes = map[string]string{
	project.AggregateType: "projects:",
	event.AggregateType:   "events:",
	news.AggregateType:    "news:",
}

// ListingPrefixFor returns the listing key prefix affected by events of the
// given aggregate type, or "" when none is.
func ListingPrefixFor(aggregateType string) string {
	return listingPrefixes[aggregateType]
}

// InvalidationHandler returns a catch-all event handler that drops the
// listings affected by each event. Failures are logged and swallowed; the
// periodic refresh repairs a stale key.
func InvalidationHandler(l *ListingCache, log *slog.Logger) shared.EventHandler {
	log = logger.OrDefault(log).With(logger.Component("listing_invalidation"))
	return func(ctx context.Context, e shared.DomainEvent) error {
		prefix := ListingPrefixFor(e.AggregateType())
		if prefix == "" {
			return nil
		}
		n, err := l.Invalidate(ctx, prefix)
		if err != nil {
			log.WarnContext(ctx, "listing invalidation failed",
				logger.EventType(string(e.EventType())), logger.Err(err))
			return nil
		}
		log.DebugContext(ctx, "listings invalidated",
			logger.EventType(string(e.EventType())), slog.Int("keys", n))
		return nil
	}
}
