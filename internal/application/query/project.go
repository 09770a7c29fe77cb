package query

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/civic-hub/civic-site/internal/application/dto"
	"github.com/civic-hub/civic-site/internal/domain/project"
	"github.com/civic-hub/civic-site/internal/domain/shared"
	"github.com/civic-hub/civic-site/pkg/logger"
)

// DefaultFeaturedLimit is used when a featured query asks for no limit.
const DefaultFeaturedLimit = 6

var projectSortFields = []string{
	project.SortByTitle, project.SortByCreatedAt, project.SortByUpdatedAt, project.SortByStars,
	project.SortByForks, project.SortByPopularity, project.SortByStatus, project.SortByCategory,
}

// ══════════════════════════════════════════════════════════════════════════════
// LIST PROJECTS
// ══════════════════════════════════════════════════════════════════════════════

// ListProjectsQuery holds raw listing input. Sort defaults to createdAt desc.
type ListProjectsQuery struct {
	Category  string
	Status    string
	Tags      []string
	Featured  *bool
	HasGitHub *bool
	Search    string
	SortBy    string
	SortDir   string
	Page      int
	Limit     int
}

func (q ListProjectsQuery) filters() project.Filters {
	return project.Filters{
		Category:  parseOr(q.Category, project.ParseCategory),
		Status:    parseOr(q.Status, project.ParseStatus),
		Tags:      normalizeTags(q.Tags),
		Featured:  q.Featured,
		HasGitHub: q.HasGitHub,
		Search:    normalizeSearch(q.Search),
	}
}

type ListProjectsHandler struct {
	repo project.Repository
}

func NewListProjectsHandler(repo project.Repository) *ListProjectsHandler {
	return &ListProjectsHandler{repo: repo}
}

func (h *ListProjectsHandler) Handle(ctx context.Context, q ListProjectsQuery) (dto.PageDto[dto.ProjectDto], error) {
	sort := normalizeSort(q.SortBy, q.SortDir, projectSortFields,
		shared.SortOptions{Field: project.SortByCreatedAt, Direction: shared.SortDesc})

	page, err := h.repo.FindAll(ctx, q.filters(), sort, shared.NewPagination(q.Page, q.Limit))
	if err != nil {
		return dto.PageDto[dto.ProjectDto]{}, fmt.Errorf("list projects: %w", err)
	}
	return dto.FromPage(page, dto.FromProject), nil
}

// ══════════════════════════════════════════════════════════════════════════════
// GET PROJECT
// ══════════════════════════════════════════════════════════════════════════════

type GetProjectHandler struct {
	repo project.Repository
}

func NewGetProjectHandler(repo project.Repository) *GetProjectHandler {
	return &GetProjectHandler{repo: repo}
}

// Handle returns an error matching shared.ErrNotFound for unknown or
// malformed ids.
func (h *GetProjectHandler) Handle(ctx context.Context, raw string) (dto.ProjectDto, error) {
	id, err := shared.ParseProjectID(raw)
	if err != nil {
		return dto.ProjectDto{}, shared.NotFound("project", "GetProject", raw)
	}
	p, err := h.repo.FindByID(ctx, id)
	if err != nil {
		return dto.ProjectDto{}, err
	}
	return dto.FromProject(p), nil
}

// ══════════════════════════════════════════════════════════════════════════════
// FEATURED & STATS
// ══════════════════════════════════════════════════════════════════════════════

type GetFeaturedProjectsHandler struct {
	repo  project.Repository
	cache CacheOptions
	log   *slog.Logger
}

func NewGetFeaturedProjectsHandler(repo project.Repository, cache CacheOptions, log *slog.Logger) *GetFeaturedProjectsHandler {
	return &GetFeaturedProjectsHandler{repo: repo, cache: cache, log: logger.OrDefault(log)}
}

func (h *GetFeaturedProjectsHandler) Handle(ctx context.Context, limit int) ([]dto.ProjectDto, error) {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	return cached(ctx, h.cache, h.log, FeaturedProjectsKey(limit), func(ctx context.Context) ([]dto.ProjectDto, error) {
		return loadFeaturedProjects(ctx, h.repo, limit)
	})
}

func loadFeaturedProjects(ctx context.Context, repo project.Repository, limit int) ([]dto.ProjectDto, error) {
	projects, err := repo.FindFeatured(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("featured projects: %w", err)
	}
	out := make([]dto.ProjectDto, len(projects))
	for i, p := range projects {
		out[i] = dto.FromProject(p)
	}
	return out, nil
}

type GetProjectStatsHandler struct {
	repo  project.Repository
	cache CacheOptions
	log   *slog.Logger
}

func NewGetProjectStatsHandler(repo project.Repository, cache CacheOptions, log *slog.Logger) *GetProjectStatsHandler {
	return &GetProjectStatsHandler{repo: repo, cache: cache, log: logger.OrDefault(log)}
}

func (h *GetProjectStatsHandler) Handle(ctx context.Context) (dto.ProjectStatsDto, error) {
	return cached(ctx, h.cache, h.log, ProjectStatsKey, func(ctx context.Context) (dto.ProjectStatsDto, error) {
		return loadProjectStats(ctx, h.repo)
	})
}

// PopularTagLimit bounds the tag lists attached to statistics.
const PopularTagLimit = 10

func loadProjectStats(ctx context.Context, repo project.Repository) (dto.ProjectStatsDto, error) {
	all, err := collect(ctx, func(ctx context.Context, p shared.Pagination) (shared.Page[*project.Project], error) {
		return repo.FindAll(ctx, project.Filters{}, shared.SortOptions{Field: project.SortByCreatedAt}, p)
	})
	if err != nil {
		return dto.ProjectStatsDto{}, fmt.Errorf("project stats: %w", err)
	}
	stats := dto.FromProjectStats(project.GetProjectStats(all))
	stats.PopularTags = dto.FromTagCounts(project.GetPopularTags(all, PopularTagLimit))
	return stats, nil
}
