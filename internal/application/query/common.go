// Package query contains read operations (CQRS - Queries).
//
// Query inputs come straight from listing pages, so they are normalized
// rather than rejected: unknown enum values are dropped, paging is clamped
// and unknown sort fields fall back to a default. An empty listing is a
// successful result with zero items.
package query

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/civic-hub/civic-site/internal/domain/shared"
	"github.com/civic-hub/civic-site/pkg/logger"
)

// MaxSearchLength bounds free-text search input; longer input is cut.
const MaxSearchLength = 200

var validate = validator.New()

// ══════════════════════════════════════════════════════════════════════════════
// NORMALIZATION
// ══════════════════════════════════════════════════════════════════════════════

// parseOr returns the parsed value, or the zero value when raw is blank or
// invalid.
func parseOr[T any](raw string, parse func(string) (T, error)) T {
	var zero T
	if strings.TrimSpace(raw) == "" {
		return zero
	}
	v, err := parse(raw)
	if err != nil {
		return zero
	}
	return v
}

func normalizeSearch(q string) string {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) <= MaxSearchLength {
		return q
	}
	return string([]rune(q)[:MaxSearchLength])
}

// normalizeTags drops blank entries and entries longer than a tag can be.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if validate.Var(t, fmt.Sprintf("required,max=%d", shared.MaxTagLength)) != nil {
			continue
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func normalizeSort(field, direction string, allowed []string, def shared.SortOptions) shared.SortOptions {
	if !slices.Contains(allowed, field) {
		return def
	}
	return shared.SortOptions{Field: field, Direction: shared.ParseSortDirection(direction)}
}

// collect pages through a repository listing until every item is loaded.
func collect[T any](ctx context.Context, fetch func(context.Context, shared.Pagination) (shared.Page[T], error)) ([]T, error) {
	var out []T
	for page := 1; ; page++ {
		p, err := fetch(ctx, shared.NewPagination(page, shared.MaxPageSize))
		if err != nil {
			return nil, err
		}
		out = append(out, p.Items...)
		if !p.HasMore() {
			return out, nil
		}
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// LISTING CACHE
// ══════════════════════════════════════════════════════════════════════════════

// ListingCache stores computed listings (featured items, statistics) as
// JSON. Implementations must be safe for concurrent use.
type ListingCache interface {
	// Get decodes the cached value into dest. ok is false on a miss.
	Get(ctx context.Context, key string, dest any) (ok bool, err error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Cache keys.
func FeaturedProjectsKey(limit int) string { return fmt.Sprintf("projects:featured:%d", limit) }
func FeaturedNewsKey(limit int) string     { return fmt.Sprintf("news:featured:%d", limit) }
func UpcomingEventsKey(limit int) string   { return fmt.Sprintf("events:upcoming:%d", limit) }

const (
	ProjectStatsKey = "projects:stats"
	EventStatsKey   = "events:stats"
	NewsStatsKey    = "news:stats"
)

// CacheOptions wires an optional ListingCache into the cached queries.
type CacheOptions struct {
	Cache ListingCache
	TTL   time.Duration
}

// cached serves key from the cache when possible, otherwise loads and stores
// it. Cache failures are logged and never fail the query.
func cached[T any](ctx context.Context, opts CacheOptions, log *slog.Logger, key string, load func(context.Context) (T, error)) (T, error) {
	if opts.Cache != nil {
		var v T
		hit, err := opts.Cache.Get(ctx, key, &v)
		if err != nil {
			log.WarnContext(ctx, "listing cache read failed", slog.String("key", key), logger.Err(err))
		} else if hit {
			return v, nil
		}
	}

	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if opts.Cache != nil {
		if err := opts.Cache.Set(ctx, key, v, opts.TTL); err != nil {
			log.WarnContext(ctx, "listing cache write failed", slog.String("key", key), logger.Err(err))
		}
	}
	return v, nil
}
