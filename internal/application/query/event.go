package query

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/civic-hub/civic-site/internal/application/dto"
	"github.com/civic-hub/civic-site/internal/domain/event"
	"github.com/civic-hub/civic-site/internal/domain/shared"
	"github.com/civic-hub/civic-site/pkg/logger"
	"github.com/civic-hub/civic-site/pkg/timeutil"
)

var eventSortFields = []string{
	event.SortByTitle, event.SortByStartDate, event.SortByEndDate, event.SortByCreatedAt,
	event.SortByParticipants, event.SortByAvailableSpot, event.SortByType,
}

// ListEventsQuery holds raw listing input. Sort defaults to startDate asc.
// StartsBefore earlier than StartsAfter is treated as unset.
type ListEventsQuery struct {
	Type              string
	Status            string
	Upcoming          *bool
	Online            *bool
	HasAvailableSpots *bool
	RegistrationOpen  *bool
	City              string
	Tags              []string
	StartsAfter       time.Time
	StartsBefore      time.Time
	Search            string
	SortBy            string
	SortDir           string
	Page              int
	Limit             int
}

func (q ListEventsQuery) filters() event.Filters {
	f := event.Filters{
		Type:              parseOr(q.Type, event.ParseType),
		Status:            parseOr(q.Status, event.ParseStatus),
		Upcoming:          q.Upcoming,
		Online:            q.Online,
		HasAvailableSpots: q.HasAvailableSpots,
		RegistrationOpen:  q.RegistrationOpen,
		City:              normalizeSearch(q.City),
		Tags:              normalizeTags(q.Tags),
		StartsAfter:       q.StartsAfter,
		StartsBefore:      q.StartsBefore,
		Search:            normalizeSearch(q.Search),
	}
	if !f.StartsAfter.IsZero() && !f.StartsBefore.IsZero() && f.StartsBefore.Before(f.StartsAfter) {
		f.StartsBefore = time.Time{}
	}
	return f
}

type ListEventsHandler struct {
	repo event.Repository
}

func NewListEventsHandler(repo event.Repository) *ListEventsHandler {
	return &ListEventsHandler{repo: repo}
}

func (h *ListEventsHandler) Handle(ctx context.Context, q ListEventsQuery) (dto.PageDto[dto.EventDto], error) {
	now := timeutil.Now()
	sort := normalizeSort(q.SortBy, q.SortDir, eventSortFields,
		shared.SortOptions{Field: event.SortByStartDate, Direction: shared.SortAsc})

	page, err := h.repo.FindAll(ctx, q.filters(), sort, shared.NewPagination(q.Page, q.Limit), now)
	if err != nil {
		return dto.PageDto[dto.EventDto]{}, fmt.Errorf("list events: %w", err)
	}
	return dto.FromPage(page, func(e *event.Event) dto.EventDto { return dto.FromEvent(e, now) }), nil
}

// ══════════════════════════════════════════════════════════════════════════════
// UPCOMING & STATS
// ══════════════════════════════════════════════════════════════════════════════

type GetUpcomingEventsHandler struct {
	repo  event.Repository
	cache CacheOptions
	log   *slog.Logger
}

func NewGetUpcomingEventsHandler(repo event.Repository, cache CacheOptions, log *slog.Logger) *GetUpcomingEventsHandler {
	return &GetUpcomingEventsHandler{repo: repo, cache: cache, log: logger.OrDefault(log)}
}

func (h *GetUpcomingEventsHandler) Handle(ctx context.Context, limit int) ([]dto.EventDto, error) {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	return cached(ctx, h.cache, h.log, UpcomingEventsKey(limit), func(ctx context.Context) ([]dto.EventDto, error) {
		return loadUpcomingEvents(ctx, h.repo, timeutil.Now(), limit)
	})
}

func loadUpcomingEvents(ctx context.Context, repo event.Repository, now time.Time, limit int) ([]dto.EventDto, error) {
	events, err := repo.FindUpcoming(ctx, now, limit)
	if err != nil {
		return nil, fmt.Errorf("upcoming events: %w", err)
	}
	out := make([]dto.EventDto, len(events))
	for i, e := range events {
		out[i] = dto.FromEvent(e, now)
	}
	return out, nil
}

type GetEventStatsHandler struct {
	repo  event.Repository
	cache CacheOptions
	log   *slog.Logger
}

func NewGetEventStatsHandler(repo event.Repository, cache CacheOptions, log *slog.Logger) *GetEventStatsHandler {
	return &GetEventStatsHandler{repo: repo, cache: cache, log: logger.OrDefault(log)}
}

func (h *GetEventStatsHandler) Handle(ctx context.Context) (dto.EventStatsDto, error) {
	return cached(ctx, h.cache, h.log, EventStatsKey, func(ctx context.Context) (dto.EventStatsDto, error) {
		return loadEventStats(ctx, h.repo, timeutil.Now())
	})
}

func loadEventStats(ctx context.Context, repo event.Repository, now time.Time) (dto.EventStatsDto, error) {
	all, err := collect(ctx, func(ctx context.Context, p shared.Pagination) (shared.Page[*event.Event], error) {
		return repo.FindAll(ctx, event.Filters{}, shared.SortOptions{Field: event.SortByStartDate}, p, now)
	})
	if err != nil {
		return dto.EventStatsDto{}, fmt.Errorf("event stats: %w", err)
	}
	stats := dto.FromEventStats(event.GetEventStats(all, now))
	stats.PopularTags = dto.FromTagCounts(event.GetPopularTags(all, PopularTagLimit))
	return stats, nil
}
