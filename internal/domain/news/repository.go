package news

import (
	"context"

	"github.com/civic-hub/civic-site/internal/domain/shared"
)

// Repository stores news articles. Implementations live in infrastructure/persistence.
type Repository interface {
	// FindByID returns the article or an error matching shared.ErrNotFound.
	FindByID(ctx context.Context, id shared.NewsID) (*Article, error)

	// FindBySlug returns the article with slug or an error matching shared.ErrNotFound.
	FindBySlug(ctx context.Context, slug shared.Slug) (*Article, error)

	// FindAll applies filters, sorting and pagination.
	FindAll(ctx context.Context, filters Filters, sort shared.SortOptions, page shared.Pagination) (shared.Page[*Article], error)

	// FindFeatured returns up to limit articles ranked as GetFeaturedNews does.
	FindFeatured(ctx context.Context, limit int) ([]*Article, error)

	FindByCategory(ctx context.Context, category Category) ([]*Article, error)

	// Save inserts or replaces the article. A slug already used by another
	// article yields an error matching shared.ErrAlreadyExists.
	Save(ctx context.Context, a *Article) error

	Delete(ctx context.Context, id shared.NewsID) error
	Exists(ctx context.Context, id shared.NewsID) (bool, error)
	CountByCategory(ctx context.Context) (map[Category]int, error)
	GetPopularTags(ctx context.Context, limit int) ([]shared.TagCount, error)
}
