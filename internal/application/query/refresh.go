package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/civic-hub/civic-site/internal/domain/event"
	"github.com/civic-hub/civic-site/internal/domain/news"
	"github.com/civic-hub/civic-site/internal/domain/project"
	"github.com/civic-hub/civic-site/pkg/logger"
	"github.com/civic-hub/civic-site/pkg/timeutil"
)

// ListingRefresher recomputes every cached listing and overwrites the cache,
// so readers rarely hit a cold key.
type ListingRefresher struct {
	projects project.Repository
	events   event.Repository
	news     news.Repository
	cache    CacheOptions
	limit    int
	log      *slog.Logger
}

// RefreshResult reports which keys were written.
type RefreshResult struct {
	Keys     []string
	Failed   []string
	Duration time.Duration
}

func NewListingRefresher(
	projects project.Repository,
	events event.Repository,
	articles news.Repository,
	cache CacheOptions,
	featuredLimit int,
	log *slog.Logger,
) *ListingRefresher {
	if featuredLimit <= 0 {
		featuredLimit = DefaultFeaturedLimit
	}
	return &ListingRefresher{
		projects: projects,
		events:   events,
		news:     articles,
		cache:    cache,
		limit:    featuredLimit,
		log:      logger.OrDefault(log).With(logger.Component("listing_refresher")),
	}
}

// Refresh rebuilds all listings. It continues past individual failures and
// returns them joined.
func (r *ListingRefresher) Refresh(ctx context.Context) (RefreshResult, error) {
	start := time.Now()
	var result RefreshResult
	if r.cache.Cache == nil {
		return result, nil
	}

	now := timeutil.Now()
	steps := []struct {
		key  string
		load func(context.Context) (any, error)
	}{
		{FeaturedProjectsKey(r.limit), func(ctx context.Context) (any, error) { return loadFeaturedProjects(ctx, r.projects, r.limit) }},
		{ProjectStatsKey, func(ctx context.Context) (any, error) { return loadProjectStats(ctx, r.projects) }},
		{UpcomingEventsKey(r.limit), func(ctx context.Context) (any, error) { return loadUpcomingEvents(ctx, r.events, now, r.limit) }},
		{EventStatsKey, func(ctx context.Context) (any, error) { return loadEventStats(ctx, r.events, now) }},
		{FeaturedNewsKey(r.limit), func(ctx context.Context) (any, error) { return loadFeaturedNews(ctx, r.news, r.limit) }},
		{NewsStatsKey, func(ctx context.Context) (any, error) { return loadNewsStats(ctx, r.news) }},
	}

	var errs []error
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		value, err := step.load(ctx)
		if err == nil {
			err = r.cache.Cache.Set(ctx, step.key, value, r.cache.TTL)
		}
		if err != nil {
			result.Failed = append(result.Failed, step.key)
			errs = append(errs, fmt.Errorf("%s: %w", step.key, err))
			continue
		}
		result.Keys = append(result.Keys, step.key)
	}

	result.Duration = time.Since(start)
	r.log.InfoContext(ctx, "listings refreshed",
		slog.Int("written", len(result.Keys)),
		slog.Int("failed", len(result.Failed)),
		logger.Latency(result.Duration))
	return result, errors.Join(errs...)
}
