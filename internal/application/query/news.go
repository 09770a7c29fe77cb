package query

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/civic-hub/civic-site/internal/application/dto"
	"github.com/civic-hub/civic-site/internal/domain/news"
	"github.com/civic-hub/civic-site/internal/domain/shared"
	"github.com/civic-hub/civic-site/pkg/logger"
)

// RelatedNewsLimit is the number of related articles on an article page.
const RelatedNewsLimit = 3

var newsSortFields = []string{
	news.SortByTitle, news.SortByPublishedAt, news.SortByCreatedAt,
	news.SortByUpdatedAt, news.SortByReadingTime, news.SortByCategory,
}

// ListNewsQuery holds raw listing input. Drafts are hidden unless
// IncludeDrafts is set. Sort defaults to publishedAt desc.
type ListNewsQuery struct {
	Category       string
	Tags           []string
	AuthorID       string
	Featured       *bool
	IncludeDrafts  bool
	PublishedAfter time.Time
	Search         string
	SortBy         string
	SortDir        string
	Page           int
	Limit          int
}

func (q ListNewsQuery) filters() news.Filters {
	f := news.Filters{
		Category:       parseOr(q.Category, news.ParseCategory),
		Tags:           normalizeTags(q.Tags),
		Featured:       q.Featured,
		PublishedAfter: q.PublishedAfter,
		Search:         normalizeSearch(q.Search),
	}
	if id, err := shared.ParseAuthorID(q.AuthorID); err == nil {
		f.AuthorID = id
	}
	if !q.IncludeDrafts {
		yes := true
		f.Published = &yes
	}
	return f
}

type ListNewsHandler struct {
	repo news.Repository
}

func NewListNewsHandler(repo news.Repository) *ListNewsHandler {
	return &ListNewsHandler{repo: repo}
}

// Handle returns article summaries without content.
func (h *ListNewsHandler) Handle(ctx context.Context, q ListNewsQuery) (dto.PageDto[dto.NewsDto], error) {
	sort := normalizeSort(q.SortBy, q.SortDir, newsSortFields,
		shared.SortOptions{Field: news.SortByPublishedAt, Direction: shared.SortDesc})

	page, err := h.repo.FindAll(ctx, q.filters(), sort, shared.NewPagination(q.Page, q.Limit))
	if err != nil {
		return dto.PageDto[dto.NewsDto]{}, fmt.Errorf("list news: %w", err)
	}
	return dto.FromPage(page, dto.FromArticleSummary), nil
}

// ══════════════════════════════════════════════════════════════════════════════
// GET BY SLUG
// ══════════════════════════════════════════════════════════════════════════════

type GetNewsBySlugQuery struct {
	Slug          string
	IncludeDrafts bool
}

type GetNewsBySlugHandler struct {
	repo news.Repository
}

func NewGetNewsBySlugHandler(repo news.Repository) *GetNewsBySlugHandler {
	return &GetNewsBySlugHandler{repo: repo}
}

// Handle returns the article with up to RelatedNewsLimit related published
// articles. Drafts are reported as not found unless IncludeDrafts is set.
func (h *GetNewsBySlugHandler) Handle(ctx context.Context, q GetNewsBySlugQuery) (dto.NewsDetailDto, error) {
	raw := strings.ToLower(strings.TrimSpace(q.Slug))
	slug, err := shared.NewSlug(raw)
	if err != nil {
		return dto.NewsDetailDto{}, shared.NotFound("news", "GetNewsBySlug", raw)
	}
	article, err := h.repo.FindBySlug(ctx, slug)
	if err != nil {
		return dto.NewsDetailDto{}, err
	}
	if !article.IsPublished() && !q.IncludeDrafts {
		return dto.NewsDetailDto{}, shared.NotFound("news", "GetNewsBySlug", raw)
	}

	yes := true
	published, err := collect(ctx, func(ctx context.Context, p shared.Pagination) (shared.Page[*news.Article], error) {
		return h.repo.FindAll(ctx, news.Filters{Published: &yes}, shared.SortOptions{Field: news.SortByPublishedAt, Direction: shared.SortDesc}, p)
	})
	if err != nil {
		return dto.NewsDetailDto{}, fmt.Errorf("related news: %w", err)
	}

	related := news.GetRelatedNews(article, published, RelatedNewsLimit)
	detail := dto.NewsDetailDto{Article: dto.FromArticle(article), Related: make([]dto.NewsDto, len(related))}
	for i, r := range related {
		detail.Related[i] = dto.FromArticleSummary(r)
	}
	return detail, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// FEATURED & STATS
// ══════════════════════════════════════════════════════════════════════════════

type GetFeaturedNewsHandler struct {
	repo  news.Repository
	cache CacheOptions
	log   *slog.Logger
}

func NewGetFeaturedNewsHandler(repo news.Repository, cache CacheOptions, log *slog.Logger) *GetFeaturedNewsHandler {
	return &GetFeaturedNewsHandler{repo: repo, cache: cache, log: logger.OrDefault(log)}
}

func (h *GetFeaturedNewsHandler) Handle(ctx context.Context, limit int) ([]dto.NewsDto, error) {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	return cached(ctx, h.cache, h.log, FeaturedNewsKey(limit), func(ctx context.Context) ([]dto.NewsDto, error) {
		return loadFeaturedNews(ctx, h.repo, limit)
	})
}

func loadFeaturedNews(ctx context.Context, repo news.Repository, limit int) ([]dto.NewsDto, error) {
	articles, err := repo.FindFeatured(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("featured news: %w", err)
	}
	out := make([]dto.NewsDto, len(articles))
	for i, a := range articles {
		out[i] = dto.FromArticleSummary(a)
	}
	return out, nil
}

type GetNewsStatsHandler struct {
	repo  news.Repository
	cache CacheOptions
	log   *slog.Logger
}

func NewGetNewsStatsHandler(repo news.Repository, cache CacheOptions, log *slog.Logger) *GetNewsStatsHandler {
	return &GetNewsStatsHandler{repo: repo, cache: cache, log: logger.OrDefault(log)}
}

func (h *GetNewsStatsHandler) Handle(ctx context.Context) (dto.NewsStatsDto, error) {
	return cached(ctx, h.cache, h.log, NewsStatsKey, func(ctx context.Context) (dto.NewsStatsDto, error) {
		return loadNewsStats(ctx, h.repo)
	})
}

func loadNewsStats(ctx context.Context, repo news.Repository) (dto.NewsStatsDto, error) {
	all, err := collect(ctx, func(ctx context.Context, p shared.Pagination) (shared.Page[*news.Article], error) {
		return repo.FindAll(ctx, news.Filters{}, shared.SortOptions{Field: news.SortByCreatedAt}, p)
	})
	if err != nil {
		return dto.NewsStatsDto{}, fmt.Errorf("news stats: %w", err)
	}
	stats := dto.FromNewsStats(news.GetNewsStats(all))
	stats.PopularTags = dto.FromTagCounts(news.GetPopularTags(all, PopularTagLimit))
	return stats, nil
}
